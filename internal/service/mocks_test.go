package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/repo"
	"github.com/smarttrip/tripplanner/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. A nil field panics, which flags an unexpected call.

type mockGenerator struct {
	generate func(ctx context.Context, prompt string) (string, error)
	calls    int
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	return m.generate(ctx, prompt)
}

type mockHistoryRepo struct {
	create     func(ctx context.Context, rec domain.HistoryRecord) (domain.HistoryRecord, error)
	listByUser func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error)
	getByID    func(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error)
	creates    int
}

func (m *mockHistoryRepo) Create(ctx context.Context, rec domain.HistoryRecord) (domain.HistoryRecord, error) {
	m.creates++
	return m.create(ctx, rec)
}
func (m *mockHistoryRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	return m.listByUser(ctx, userID, limit)
}
func (m *mockHistoryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error) {
	return m.getByID(ctx, userID, id)
}

type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

type mockTokens struct {
	issue func(userID uuid.UUID) (string, error)
}

func (m *mockTokens) Issue(userID uuid.UUID) (string, error) { return m.issue(userID) }

// compile-time checks
var (
	_ service.Generator   = (*mockGenerator)(nil)
	_ service.TokenIssuer = (*mockTokens)(nil)
	_ repo.HistoryRepo    = (*mockHistoryRepo)(nil)
	_ repo.UserRepo       = (*mockUserRepo)(nil)
)
