package repository_test

import (
	"context"
	"testing"
	"time"

	"paydesk/internal/domain"
	"paydesk/internal/models"
	"paydesk/internal/repository"
	"paydesk/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPaymentRepository(testutil.NewDB(t))

	p := testutil.NewPayment("Alice", "a@x.com", "50.00")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Reference, got.Reference)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "50.00", got.FormattedAmount())
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestPaymentRepository_GetByID_NotFound(t *testing.T) {
	repo := repository.NewPaymentRepository(testutil.NewDB(t))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestPaymentRepository_ReferenceIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPaymentRepository(testutil.NewDB(t))

	first := testutil.NewPayment("Alice", "a@x.com", "10")
	require.NoError(t, repo.Create(ctx, first))

	dup := testutil.NewPayment("Bob", "b@x.com", "20")
	dup.Reference = first.Reference
	assert.Error(t, repo.Create(ctx, dup))
}

func TestPaymentRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPaymentRepository(testutil.NewDB(t))

	p := testutil.NewPayment("Alice", "a@x.com", "50")
	require.NoError(t, repo.Create(ctx, p))

	p.Status = domain.StatusCanceled
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, got.Status)
}

func TestPaymentRepository_UpdateStatusIfPending(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPaymentRepository(testutil.NewDB(t))

	p := testutil.NewPayment("Alice", "a@x.com", "50")
	require.NoError(t, repo.Create(ctx, p))

	won, err := repo.UpdateStatusIfPending(ctx, p.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.UpdateStatusIfPending(ctx, p.ID, domain.StatusCanceled)
	require.NoError(t, err)
	assert.False(t, won)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestPaymentRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPaymentRepository(testutil.NewDB(t))

	seed := []struct {
		name, email string
		status      domain.Status
	}{
		{"Alice", "alice@x.com", domain.StatusPending},
		{"Bob", "bob@y.com", domain.StatusCompleted},
		{"Carol", "carol@x.com", domain.StatusPending},
	}
	var created []*models.Payment
	for i, s := range seed {
		p := testutil.NewPayment(s.name, s.email, "5")
		p.Status = s.status
		p.CreatedAt = testutil.FixedTime.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, p))
		created = append(created, p)
	}

	all, total, err := repo.List(ctx, repository.PaymentFilter{Page: 1, Limit: 25})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "Carol", all[0].Name, "newest first by default")

	asc, _, err := repo.List(ctx, repository.PaymentFilter{Ascending: true, Page: 1, Limit: 25})
	require.NoError(t, err)
	assert.Equal(t, "Alice", asc[0].Name)

	pending, total, err := repo.List(ctx, repository.PaymentFilter{Status: domain.StatusPending, Page: 1, Limit: 25})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, pending, 2)

	search, total, err := repo.List(ctx, repository.PaymentFilter{Search: "X.COM", Page: 1, Limit: 25})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, search, 2)

	byRef, _, err := repo.List(ctx, repository.PaymentFilter{Search: created[1].Reference.String()[:8], Page: 1, Limit: 25})
	require.NoError(t, err)
	require.NotEmpty(t, byRef)
	assert.Equal(t, "Bob", byRef[0].Name)

	exact, total, err := repo.List(ctx, repository.PaymentFilter{Reference: created[2].Reference, Page: 1, Limit: 25})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, exact, 1)
	assert.Equal(t, created[2].ID, exact[0].ID)

	none, total, err := repo.List(ctx, repository.PaymentFilter{Reference: created[0].ID, Page: 1, Limit: 25})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)

	page2, total, err := repo.List(ctx, repository.PaymentFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page2, 1)
	assert.Equal(t, "Alice", page2[0].Name)
}
