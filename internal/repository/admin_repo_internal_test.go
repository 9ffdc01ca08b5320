package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDay_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want string
	}{
		{"mysql parseTime", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), "2026-10-18"},
		{"mysql bytes", []byte("2026-10-18"), "2026-10-18"},
		{"sqlite text", "2026-10-18", "2026-10-18"},
		{"timestamp text", "2026-10-18 00:00:00", "2026-10-18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d calendarDay
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, string(d))
		})
	}

	var d calendarDay
	assert.Error(t, d.Scan(int64(20261018)))
	assert.Error(t, d.Scan("yesterday"))
}
