package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/handler"
	"github.com/smarttrip/tripplanner/internal/service"
)

func historyFixture() domain.HistoryRecord {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)
	return domain.HistoryRecord{
		ID:          uuid.New(),
		UserID:      testUserID,
		Request:     map[string]any{"travel_destination": "Bali"},
		Itinerary:   map[string]any{"tripName": "Bali"},
		CreatedAt:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Destination: "Bali",
		StartDate:   &start,
		EndDate:     &end,
	}
}

// ---- GET /api/history ------------------------------------------------------

func TestListHistory_200(t *testing.T) {
	fixture := historyFixture()
	svc := &mockHistory{list: func(_ context.Context, userID uuid.UUID, limit *int) ([]domain.HistoryRecord, error) {
		assert.Equal(t, testUserID, userID)
		assert.Nil(t, limit)
		return []domain.HistoryRecord{fixture}, nil
	}}
	h := newHTTPHandler(handler.Deps{History: svc})

	rec, env := serve(t, h, authed(t, http.MethodGet, "/api/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var data []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, fixture.ID.String(), data[0]["id"])
	assert.Equal(t, "Bali", data[0]["destination_city"])
	assert.Equal(t, "2025-07-01", data[0]["start_date"])
	assert.Equal(t, "2025-07-03", data[0]["end_date"])
	assert.Equal(t, "2025-06-01T09:00:00Z", data[0]["requested_on"])
	assert.Equal(t, map[string]any{"travel_destination": "Bali"}, data[0]["input"])
	assert.Equal(t, map[string]any{"tripName": "Bali"}, data[0]["itinerary"])
}

func TestListHistory_EmptyIsArray(t *testing.T) {
	svc := &mockHistory{list: func(context.Context, uuid.UUID, *int) ([]domain.HistoryRecord, error) {
		return nil, nil
	}}
	h := newHTTPHandler(handler.Deps{History: svc})

	rec, env := serve(t, h, authed(t, http.MethodGet, "/api/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestListHistory_LimitParam(t *testing.T) {
	svc := &mockHistory{list: func(_ context.Context, _ uuid.UUID, limit *int) ([]domain.HistoryRecord, error) {
		require.NotNil(t, limit)
		assert.Equal(t, 5, *limit)
		return []domain.HistoryRecord{}, nil
	}}
	h := newHTTPHandler(handler.Deps{History: svc})

	rec, _ := serve(t, h, authed(t, http.MethodGet, "/api/history?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListHistory_400_BadLimit(t *testing.T) {
	h := newHTTPHandler(handler.Deps{History: &mockHistory{}})

	for _, q := range []string{"abc", "2.5", "ten"} {
		rec, env := serve(t, h, authed(t, http.MethodGet, "/api/history?limit="+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", q)
		assert.Contains(t, fieldErrs(t, env), "limit")
	}
}

// historyRepoStub backs a real HistoryService so limit defaulting is
// exercised through the handler.
type historyRepoStub struct {
	listByUser func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error)
}

func (s *historyRepoStub) Create(context.Context, domain.HistoryRecord) (domain.HistoryRecord, error) {
	panic("unexpected Create")
}
func (s *historyRepoStub) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
	return s.listByUser(ctx, userID, limit)
}
func (s *historyRepoStub) GetByID(context.Context, uuid.UUID, uuid.UUID) (domain.HistoryRecord, error) {
	panic("unexpected GetByID")
}

func TestListHistory_NonPositiveLimitUsesDefault(t *testing.T) {
	for _, q := range []string{"0", "-3"} {
		t.Run(q, func(t *testing.T) {
			var gotLimit int
			store := &historyRepoStub{listByUser: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.HistoryRecord, error) {
				gotLimit = limit
				return []domain.HistoryRecord{}, nil
			}}
			h := newHTTPHandler(handler.Deps{History: service.NewHistoryService(store, 7)})

			rec, _ := serve(t, h, authed(t, http.MethodGet, "/api/history?limit="+q, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, 7, gotLimit)
		})
	}
}

// ---- GET /api/history/{id} -------------------------------------------------

func TestGetHistory_200(t *testing.T) {
	fixture := historyFixture()
	svc := &mockHistory{get: func(_ context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error) {
		assert.Equal(t, testUserID, userID)
		assert.Equal(t, fixture.ID, id)
		return fixture, nil
	}}
	h := newHTTPHandler(handler.Deps{History: svc})

	rec, env := serve(t, h, authed(t, http.MethodGet, "/api/history/"+fixture.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, fixture.ID.String(), data["id"])
}

func TestGetHistory_404(t *testing.T) {
	svc := &mockHistory{get: func(context.Context, uuid.UUID, uuid.UUID) (domain.HistoryRecord, error) {
		return domain.HistoryRecord{}, domain.ErrNotFound
	}}
	h := newHTTPHandler(handler.Deps{History: svc})

	rec, env := serve(t, h, authed(t, http.MethodGet, "/api/history/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Trip plan history not found.", env.Message)
}

func TestGetHistory_404_MalformedID(t *testing.T) {
	h := newHTTPHandler(handler.Deps{History: &mockHistory{}})

	rec, _ := serve(t, h, authed(t, http.MethodGet, "/api/history/not-a-uuid", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
