package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"paydesk/internal/domain"
	"paydesk/internal/models"
	"paydesk/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockNotificationLister struct {
	ListFunc func(ctx context.Context, paymentID uuid.UUID, limit, offset int) ([]models.Notification, error)
}

func (m *MockNotificationLister) ListByPaymentID(ctx context.Context, paymentID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return m.ListFunc(ctx, paymentID, limit, offset)
}

func TestNotificationHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := testutil.NewPayment("Alice", "a@x.com", "50")
	engine := &MockPaymentEngine{
		GetFunc: func(_ context.Context, id uuid.UUID) (*models.Payment, error) {
			if id == p.ID {
				return p, nil
			}
			return nil, domain.ErrPaymentNotFound
		},
	}
	var gotLimit, gotOffset int
	lister := &MockNotificationLister{
		ListFunc: func(_ context.Context, id uuid.UUID, limit, offset int) ([]models.Notification, error) {
			gotLimit, gotOffset = limit, offset
			return []models.Notification{
				{ID: 2, PaymentID: id, Kind: domain.KindCompleted, Status: domain.NotificationSent},
				{ID: 1, PaymentID: id, Kind: domain.KindCreated, Status: domain.NotificationSent},
			}, nil
		},
	}
	h := NewNotificationHandler(engine, lister)
	r := gin.New()
	r.GET("/payments/:id/notifications", h.List)

	w := doJSON(r, http.MethodGet, "/payments/"+p.ID.String()+"/notifications?limit=500&offset=-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)
	list := decode(t, w)["notifications"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, "completed", list[0].(map[string]interface{})["kind"])

	w = doJSON(r, http.MethodGet, "/payments/"+uuid.NewString()+"/notifications", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	lister.ListFunc = func(context.Context, uuid.UUID, int, int) ([]models.Notification, error) {
		return nil, errors.New("db")
	}
	w = doJSON(r, http.MethodGet, "/payments/"+p.ID.String()+"/notifications", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
