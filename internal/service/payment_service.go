package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paydesk/internal/domain"
	"paydesk/internal/models"
	"paydesk/internal/repository"
	"paydesk/pkg/receipt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// PaymentStore is the persistence the engine needs.
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Save(ctx context.Context, p *models.Payment) error
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status domain.Status) (bool, error)
	List(ctx context.Context, f repository.PaymentFilter) ([]models.Payment, int64, error)
}

type ReceiptRenderer interface {
	Render(d receipt.Data) ([]byte, error)
}

type Notifier interface {
	Notify(ctx context.Context, kind domain.NotificationKind, p *models.Payment, receipt []byte, receiptURL string) error
}

// StatusPublisher receives a payment after its notification went out.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, p *models.Payment) error
}

// ReceiptArchive stores a rendered receipt and returns where it can be fetched.
type ReceiptArchive interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

type PaymentServiceOption func(*PaymentService)

// WithTransitionGuard makes transitions use a conditional update so
// concurrent requests cannot both leave pending.
func WithTransitionGuard(enabled bool) PaymentServiceOption {
	return func(s *PaymentService) { s.guard = enabled }
}

func WithClock(now func() time.Time) PaymentServiceOption {
	return func(s *PaymentService) { s.now = now }
}

func WithPublishers(pubs ...StatusPublisher) PaymentServiceOption {
	return func(s *PaymentService) { s.publishers = append(s.publishers, pubs...) }
}

func WithReceiptArchive(a ReceiptArchive) PaymentServiceOption {
	return func(s *PaymentService) { s.archive = a }
}

func WithPageSize(n int) PaymentServiceOption {
	return func(s *PaymentService) {
		if n > 0 && n <= MaxPageSize {
			s.pageSize = n
		}
	}
}

// PaymentService owns the payment lifecycle. Every create and transition
// runs persist, render, notify in that order and stops at the first failure
// without undoing earlier steps.
type PaymentService struct {
	store      PaymentStore
	renderer   ReceiptRenderer
	notifier   Notifier
	publishers []StatusPublisher
	archive    ReceiptArchive
	validator  *PaymentValidator
	logger     *zap.Logger
	now        func() time.Time
	guard      bool
	pageSize   int
}

func NewPaymentService(store PaymentStore, renderer ReceiptRenderer, notifier Notifier, logger *zap.Logger, opts ...PaymentServiceOption) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PaymentService{
		store:     store,
		renderer:  renderer,
		notifier:  notifier,
		validator: NewPaymentValidator(),
		logger:    logger,
		now:       time.Now,
		pageSize:  DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreatePaymentInput struct {
	Name   string
	Email  string
	Amount string // decimal text, e.g. "50" or "50.00"
}

// CreatePayment validates input and records a new pending payment. When the
// returned error is an *domain.InfrastructureError with Applied set, the
// payment is also returned because it has been persisted.
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (*models.Payment, error) {
	fields, err := s.validator.Validate(in)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	ref := uuid.New()
	for ref == id {
		ref = uuid.New()
	}
	p := &models.Payment{
		ID:        id,
		Name:      fields.Name,
		Email:     fields.Email,
		Amount:    fields.Amount,
		Status:    domain.StatusPending,
		Reference: ref,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, &domain.InfrastructureError{Stage: domain.StagePersist, Status: p.Status, Err: err}
	}
	s.logger.Info("Payment created",
		zap.String("payment_id", p.ID.String()),
		zap.String("amount", p.FormattedAmount()),
	)

	if err := s.announce(ctx, p); err != nil {
		return p, err
	}
	return p, nil
}

// Transition moves a pending payment to the terminal status named by action.
func (s *PaymentService) Transition(ctx context.Context, id uuid.UUID, action domain.Action) (*models.Payment, error) {
	target, ok := action.Target()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAction, action)
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.StatusPending {
		return nil, &domain.IllegalTransitionError{Current: p.Status}
	}

	if s.guard {
		won, err := s.store.UpdateStatusIfPending(ctx, id, target)
		if err != nil {
			return nil, &domain.InfrastructureError{Stage: domain.StagePersist, PaymentID: id.String(), Status: target, Err: err}
		}
		if !won {
			current, err := s.load(ctx, id)
			if err != nil {
				return nil, err
			}
			return nil, &domain.IllegalTransitionError{Current: current.Status}
		}
		p.Status = target
	} else {
		p.Status = target
		if err := s.store.Save(ctx, p); err != nil {
			return nil, &domain.InfrastructureError{Stage: domain.StagePersist, PaymentID: id.String(), Status: target, Err: err}
		}
	}
	s.logger.Info("Payment status changed",
		zap.String("payment_id", p.ID.String()),
		zap.String("status", string(p.Status)),
	)

	if err := s.announce(ctx, p); err != nil {
		return p, err
	}
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.load(ctx, id)
}

type ListPaymentsQuery struct {
	Status    string
	Reference string // exact match on the payment reference
	Search    string
	Ordering  string // "-created_at" (default) or "created_at"
	Page      int
	Limit     int
}

type PaymentPage struct {
	Data  []models.Payment
	Total int64
	Page  int
	Limit int
}

func (s *PaymentService) ListPayments(ctx context.Context, q ListPaymentsQuery) (*PaymentPage, error) {
	f := repository.PaymentFilter{
		Search: strings.TrimSpace(q.Search),
		Page:   q.Page,
		Limit:  q.Limit,
	}
	if q.Status != "" {
		st := domain.Status(q.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFilter, q.Status)
		}
		f.Status = st
	}
	if ref := strings.TrimSpace(q.Reference); ref != "" {
		parsed, err := uuid.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: reference must be a UUID", domain.ErrInvalidFilter)
		}
		f.Reference = parsed
	}
	switch q.Ordering {
	case "", "-created_at":
	case "created_at":
		f.Ascending = true
	default:
		return nil, fmt.Errorf("%w: unknown ordering %q", domain.ErrInvalidFilter, q.Ordering)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = s.pageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}

	list, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, &domain.InfrastructureError{Stage: domain.StagePersist, Err: err}
	}
	return &PaymentPage{Data: list, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// RenderReceipt renders the receipt for the payment's current state.
func (s *PaymentService) RenderReceipt(ctx context.Context, id uuid.UUID) (*models.Payment, []byte, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.renderer.Render(ReceiptData(p))
	if err != nil {
		return nil, nil, &domain.InfrastructureError{Stage: domain.StageRender, PaymentID: id.String(), Status: p.Status, Err: err}
	}
	return p, doc, nil
}

// ReceiptData is the receipt snapshot of p.
func ReceiptData(p *models.Payment) receipt.Data {
	return receipt.Data{
		Name:      p.Name,
		PaymentID: p.ID.String(),
		Amount:    p.FormattedAmount(),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func (s *PaymentService) load(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return nil, err
		}
		return nil, &domain.InfrastructureError{Stage: domain.StagePersist, PaymentID: id.String(), Err: err}
	}
	return p, nil
}

// announce runs the post-persist steps for p's current status.
func (s *PaymentService) announce(ctx context.Context, p *models.Payment) error {
	fail := func(stage domain.Stage, err error) error {
		s.logger.Error("Payment side effect failed",
			zap.String("payment_id", p.ID.String()),
			zap.String("status", string(p.Status)),
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
		return &domain.InfrastructureError{Stage: stage, PaymentID: p.ID.String(), Status: p.Status, Applied: true, Err: err}
	}

	doc, err := s.renderer.Render(ReceiptData(p))
	if err != nil {
		return fail(domain.StageRender, err)
	}

	var receiptURL string
	if s.archive != nil {
		name := fmt.Sprintf("receipt_%s_%s", p.ID, p.Status)
		if url, err := s.archive.Archive(ctx, name, doc); err != nil {
			s.logger.Warn("Receipt archive failed", zap.String("payment_id", p.ID.String()), zap.Error(err))
		} else {
			receiptURL = url
		}
	}

	if err := s.notifier.Notify(ctx, domain.KindFor(p.Status), p, doc, receiptURL); err != nil {
		return fail(domain.StageNotify, err)
	}

	for _, pub := range s.publishers {
		if err := pub.PublishStatus(ctx, p); err != nil {
			s.logger.Warn("Status publish failed", zap.String("payment_id", p.ID.String()), zap.Error(err))
		}
	}
	return nil
}
