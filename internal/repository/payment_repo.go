package repository

import (
	"context"
	"errors"
	"strings"

	"paydesk/internal/domain"
	"paydesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentFilter narrows a payment listing. Page is 1-based. A zero
// Reference matches every payment.
type PaymentFilter struct {
	Status    domain.Status
	Reference uuid.UUID
	Search    string
	Ascending bool
	Page      int
	Limit     int
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// UpdateStatusIfPending moves a payment out of pending only if no other
// writer got there first. It reports whether this call won.
func (r *PaymentRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status domain.Status) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// List returns payments matching f and the total before pagination.
func (r *PaymentRepository) List(ctx context.Context, f PaymentFilter) ([]models.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Reference != uuid.Nil {
		q = q.Where("reference = ?", f.Reference)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(reference) LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := "created_at DESC"
	if f.Ascending {
		order = "created_at ASC"
	}
	var list []models.Payment
	err := q.Order(order).Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&list).Error
	return list, total, err
}
