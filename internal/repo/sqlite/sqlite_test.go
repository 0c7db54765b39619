package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/repo/sqlite"
	"github.com/smarttrip/tripplanner/testutil"
)

// newTestDB opens a fresh migrated database in a temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t, true)
}

func createUser(t *testing.T, db *sql.DB) domain.User {
	t.Helper()
	id := uuid.New()
	u, err := sqlite.NewUserRepo(db).Create(context.Background(), domain.User{
		ID:           id,
		Email:        id.String() + "@example.test",
		FullName:     "Ayu Lestari",
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	return u
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpen_URIWithQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trips.db")
	db, err := sqlite.Open(context.Background(), "file:"+path+"?_pragma=synchronous(NORMAL)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	assert.FileExists(t, path)
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := sqlite.NewUserRepo(db)
	ctx := context.Background()

	u := createUser(t, db)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := r.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "Ayu Lestari", byEmail.FullName)

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
	assert.True(t, u.CreatedAt.Equal(byID.CreatedAt))
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	r := sqlite.NewUserRepo(db)
	u := createUser(t, db)

	_, err := r.Create(context.Background(), domain.User{
		ID:           uuid.New(),
		Email:        u.Email,
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_NotFound(t *testing.T) {
	r := sqlite.NewUserRepo(newTestDB(t))
	ctx := context.Background()

	_, err := r.GetByEmail(ctx, "nobody@example.test")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func historyFixture(userID uuid.UUID, createdAt time.Time) domain.HistoryRecord {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)
	req := domain.TripRequest{
		Destination:         "Bali",
		StartDate:           &start,
		EndDate:             &end,
		ActivityPreferences: []string{"beach", "culture"},
		TravelBudget:        5000000,
		TravelStyle:         domain.StyleSolo,
		ActivityIntensity:   domain.IntensityBalanced,
	}
	itinerary := map[string]any{"tripName": "Bali getaway", "dailyItinerary": []any{}}
	return domain.NewHistoryRecord(uuid.New(), userID, req, itinerary, createdAt)
}

func TestHistoryRepo_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := sqlite.NewHistoryRepo(db)
	ctx := context.Background()
	u := createUser(t, db)

	input := historyFixture(u.ID, time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC))
	got, err := r.Create(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, input.ID, got.ID)
	assert.Equal(t, input.Request, got.Request)
	assert.Equal(t, input.Itinerary, got.Itinerary)
	assert.Equal(t, "Bali", got.Destination)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2025-07-01", got.StartDate.Format(domain.DateLayout))
	assert.True(t, input.CreatedAt.Equal(got.CreatedAt))

	fetched, err := r.GetByID(ctx, u.ID, input.ID)
	require.NoError(t, err)
	assert.Equal(t, got, fetched)
}

func TestHistoryRepo_Create_NullDates(t *testing.T) {
	db := newTestDB(t)
	r := sqlite.NewHistoryRepo(db)
	u := createUser(t, db)

	days := 3
	req := domain.TripRequest{
		Destination:         "Lombok",
		TripDuration:        &days,
		ActivityPreferences: []string{"hiking"},
		TravelStyle:         domain.StyleBackpack,
		ActivityIntensity:   domain.IntensityFull,
	}
	rec := domain.NewHistoryRecord(uuid.New(), u.ID, req, []any{}, time.Now())

	got, err := r.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, float64(3), got.Request["trip_duration"])
}

func TestHistoryRepo_Create_UnknownUserWritesNothing(t *testing.T) {
	db := newTestDB(t)
	r := sqlite.NewHistoryRepo(db)
	ctx := context.Background()

	_, err := r.Create(ctx, historyFixture(uuid.New(), time.Now()))
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trip_plan_histories`).Scan(&n))
	assert.Zero(t, n)
}

func TestHistoryRepo_ListByUser_NewestFirstAndLimited(t *testing.T) {
	db := newTestDB(t)
	r := sqlite.NewHistoryRepo(db)
	ctx := context.Background()
	u := createUser(t, db)
	other := createUser(t, db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		rec := historyFixture(u.ID, base.Add(time.Duration(i)*time.Hour))
		_, err := r.Create(ctx, rec)
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}
	_, err := r.Create(ctx, historyFixture(other.ID, base.Add(24*time.Hour)))
	require.NoError(t, err)

	got, err := r.ListByUser(ctx, u.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ids[3], got[0].ID)
	assert.Equal(t, ids[2], got[1].ID)
	assert.Equal(t, ids[1], got[2].ID)
}

func TestHistoryRepo_ListByUser_Empty(t *testing.T) {
	r := sqlite.NewHistoryRepo(newTestDB(t))

	got, err := r.ListByUser(context.Background(), uuid.New(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHistoryRepo_GetByID_OtherOwner(t *testing.T) {
	db := newTestDB(t)
	r := sqlite.NewHistoryRepo(db)
	ctx := context.Background()
	owner := createUser(t, db)
	stranger := createUser(t, db)

	rec := historyFixture(owner.ID, time.Now())
	_, err := r.Create(ctx, rec)
	require.NoError(t, err)

	_, err = r.GetByID(ctx, stranger.ID, rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
