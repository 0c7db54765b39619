package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/smarttrip/tripplanner/internal/auth"
	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/handler"
)

// ---- mocks -----------------------------------------------------------------

// Test doubles for the handler's consumer interfaces.
// Set only the function fields a test needs.

type mockPlanning struct {
	plan func(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.HistoryRecord, error)
}

func (m *mockPlanning) Plan(ctx context.Context, userID uuid.UUID, req domain.TripRequest) (domain.HistoryRecord, error) {
	return m.plan(ctx, userID, req)
}

type mockUsers struct {
	register func(ctx context.Context, email, fullName, password string) (domain.User, error)
	login    func(ctx context.Context, email, password string) (string, error)
}

func (m *mockUsers) Register(ctx context.Context, email, fullName, password string) (domain.User, error) {
	return m.register(ctx, email, fullName, password)
}
func (m *mockUsers) Login(ctx context.Context, email, password string) (string, error) {
	return m.login(ctx, email, password)
}

type mockHistory struct {
	list func(ctx context.Context, userID uuid.UUID, limit *int) ([]domain.HistoryRecord, error)
	get  func(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error)
}

func (m *mockHistory) List(ctx context.Context, userID uuid.UUID, limit *int) ([]domain.HistoryRecord, error) {
	return m.list(ctx, userID, limit)
}
func (m *mockHistory) Get(ctx context.Context, userID, id uuid.UUID) (domain.HistoryRecord, error) {
	return m.get(ctx, userID, id)
}

type mockExport struct {
	export func(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExport) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, userID)
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// compile-time checks
var (
	_ handler.PlanningServicer = (*mockPlanning)(nil)
	_ handler.UserServicer     = (*mockUsers)(nil)
	_ handler.HistoryServicer  = (*mockHistory)(nil)
	_ handler.ExportServicer   = (*mockExport)(nil)
	_ handler.Pinger           = (*mockPinger)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testSecret = "handler-test-secret"

var testUserID = uuid.MustParse("0b7e2a61-4f3c-4d89-a1e5-6c2d9f8b7a34")

// newHTTPHandler wires a Server with the given deps exactly as main.go does,
// minus the cross-cutting middleware. A real TokenIssuer is used so bearer
// tokens are verified end to end.
func newHTTPHandler(d handler.Deps) http.Handler {
	if d.Tokens == nil {
		d.Tokens = auth.NewTokenIssuer(testSecret, time.Hour)
	}
	return handler.NewServer(d).Routes()
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := auth.NewTokenIssuer(testSecret, time.Hour).Issue(testUserID)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// envelopeBody mirrors the response envelope with the data left raw.
type envelopeBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelopeBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelopeBody
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	}
	return rec, env
}

func authed(t *testing.T, method, target string, body *bytes.Buffer) *http.Request {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", bearer(t))
	return req
}

func fieldErrs(t *testing.T, env envelopeBody) map[string][]string {
	t.Helper()
	var m map[string][]string
	require.NoError(t, json.Unmarshal(env.Data, &m))
	return m
}
