package repository

import (
	"context"
	"fmt"
	"time"

	"paydesk/internal/domain"
	"paydesk/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatusTotals struct {
	Count  int64  `json:"count"`
	Amount string `json:"amount"`
}

type DashboardStats struct {
	TotalPayments int64                          `json:"total_payments"`
	ByStatus      map[domain.Status]StatusTotals `json:"by_status"`
}

type TimeSeriesPoint struct {
	Date   string `json:"date"`
	Count  int64  `json:"count"`
	Amount string `json:"amount"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetDashboardStats counts payments and sums their amounts per status.
// Every status is present in the result, zero when unused.
func (r *AdminRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var rows []struct {
		Status domain.Status
		Count  int64
		Amount decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	s := &DashboardStats{ByStatus: make(map[domain.Status]StatusTotals, len(domain.Statuses))}
	for _, st := range domain.Statuses {
		s.ByStatus[st] = StatusTotals{Amount: decimal.Zero.StringFixed(2)}
	}
	for _, row := range rows {
		s.TotalPayments += row.Count
		s.ByStatus[row.Status] = StatusTotals{Count: row.Count, Amount: row.Amount.StringFixed(2)}
	}
	return s, nil
}

// PaymentsByDay returns daily payment counts and amounts since the given
// time, optionally restricted to one status.
func (r *AdminRepository) PaymentsByDay(ctx context.Context, since time.Time, status domain.Status) ([]TimeSeriesPoint, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("DATE(created_at) as date, COUNT(*) as count, COALESCE(SUM(amount), 0) as amount").
		Where("created_at >= ?", since)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	rows, err := q.Group("DATE(created_at)").Order("date ASC").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]TimeSeriesPoint, 0)
	for rows.Next() {
		var (
			date   calendarDay
			count  int64
			amount decimal.Decimal
		)
		if err := rows.Scan(&date, &count, &amount); err != nil {
			return nil, err
		}
		points = append(points, TimeSeriesPoint{Date: string(date), Count: count, Amount: amount.StringFixed(2)})
	}
	return points, rows.Err()
}

// calendarDay scans a DATE() result as YYYY-MM-DD. MySQL with parseTime
// yields time.Time while SQLite and MySQL without it yield text.
type calendarDay string

const dayLayout = "2006-01-02"

func (d *calendarDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = calendarDay(v.Format(dayLayout))
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	}
	return fmt.Errorf("calendar day: unsupported type %T", src)
}

func (d *calendarDay) parse(s string) error {
	if len(s) > len(dayLayout) {
		s = s[:len(dayLayout)]
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return fmt.Errorf("calendar day: %w", err)
	}
	*d = calendarDay(t.Format(dayLayout))
	return nil
}
