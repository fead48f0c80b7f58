package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Veraticus/finanhome/internal/advisor"
	"github.com/Veraticus/finanhome/internal/auth"
	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/storage"
	"github.com/Veraticus/finanhome/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdvisor struct {
	advice advisor.Advice
	err    error
	calls  int
}

func (f *fakeAdvisor) Advise(_ context.Context, s advisor.Snapshot) (advisor.Advice, error) {
	f.calls++
	if f.err != nil {
		return advisor.Advice{}, f.err
	}
	if f.advice.Text == "" {
		return advisor.Advice{Text: advisor.Fallback(s), Fallback: true}, nil
	}
	return f.advice, nil
}

type testEnv struct {
	handler http.Handler
	store   *store.Store
	gate    *auth.Gate
	advisor *fakeAdvisor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	kv, err := storage.NewSQLiteStorage(storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	require.NoError(t, kv.Migrate(ctx))

	n := 0
	st := store.Open(ctx, kv, store.Options{
		Logger: common.DiscardLogger(),
		Now:    func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return "id-" + strconv.Itoa(n)
		},
	})

	gate, err := auth.NewGate(ctx, kv, auth.Options{Cost: bcrypt.MinCost, Logger: common.DiscardLogger()})
	require.NoError(t, err)

	adv := &fakeAdvisor{}
	srv := New(st, gate, adv, common.DiscardLogger())

	return &testEnv{handler: srv.Handler(), store: st, gate: gate, advisor: adv}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) unlock(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/unlock", map[string]string{"pin": "2025"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestGate_LockedRoutesReturn423(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/dashboard", "/transactions", "/debts", "/taxes", "/fixed-costs", "/settings"} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusLocked, rec.Code, path)
	}
	assert.Equal(t, http.StatusLocked, env.do(t, http.MethodPost, "/advice", nil).Code)
}

func TestUnlock(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/unlock", map[string]string{"pin": "0000"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/unlock", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.unlock(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/dashboard", nil).Code)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/lock", nil).Code)
	assert.False(t, env.gate.Unlocked())
	assert.Equal(t, http.StatusLocked, env.do(t, http.MethodGet, "/dashboard", nil).Code)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.unlock(t)

	rec := env.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, "20000", stats["totalRevenue"])
	assert.Equal(t, "2810", stats["realProfit"])
	assert.Equal(t, false, body["leakageWarning"])
	assert.Len(t, body["buckets"], 6)
}

func TestTransactionsCRUD(t *testing.T) {
	env := newTestEnv(t)
	env.unlock(t)

	rec := env.do(t, http.MethodPost, "/transactions", map[string]string{
		"description": "Mentoria",
		"amount":      "1.500,00",
		"type":        "income",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "id-1", decode(t, rec)["id"])

	tx, ok := env.store.Transaction("id-1")
	require.True(t, ok)
	assert.Equal(t, "1500", tx.Amount.String())
	assert.Equal(t, "2024-03-20", tx.Date)

	rec = env.do(t, http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 7)
	assert.Equal(t, "id-1", list[0]["id"], "new records are prepended")

	rec = env.do(t, http.MethodGet, "/transactions/id-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/transactions/nope", nil).Code)

	rec = env.do(t, http.MethodPut, "/transactions/id-1", map[string]string{
		"description": "Mentoria VIP",
		"amount":      "2000",
		"date":        "2024-03-18",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tx, _ = env.store.Transaction("id-1")
	assert.Equal(t, "Mentoria VIP", tx.Description)

	rec = env.do(t, http.MethodPut, "/transactions/nope", map[string]string{"description": "x", "amount": "1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/transactions/id-1", nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	_, ok = env.store.Transaction("id-1")
	assert.True(t, ok, "unconfirmed delete keeps the record")

	rec = env.do(t, http.MethodDelete, "/transactions/id-1?confirm=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, ok = env.store.Transaction("id-1")
	assert.False(t, ok)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/transactions/id-1?confirm=true", nil).Code)
}

func TestCreate_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	env.unlock(t)

	rec := env.do(t, http.MethodPost, "/transactions", map[string]string{"description": "Sem valor", "amount": "abc"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "amount", decode(t, rec)["field"])
	assert.Len(t, env.store.Snapshot().Transactions, 6)

	rec = env.do(t, http.MethodPost, "/fixed-costs", map[string]string{
		"description": "Aluguel", "totalAmount": "3000", "businessPercentage": "1.5",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOtherResources(t *testing.T) {
	env := newTestEnv(t)
	env.unlock(t)

	rec := env.do(t, http.MethodPost, "/debts", map[string]string{
		"description": "Cartão Nubank", "totalAmount": "5000", "remainingAmount": "9000", "debtType": "credit_card",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	debt, ok := env.store.Debt("id-1")
	require.True(t, ok)
	assert.Equal(t, "5000", debt.RemainingAmount.String(), "remaining is clamped to total")
	assert.True(t, debt.IsHighRisk)

	rec = env.do(t, http.MethodPost, "/taxes", map[string]string{"amount": "1200", "period": "03/2024"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/fixed-costs", map[string]string{
		"description": "Contador", "totalAmount": "800", "businessPercentage": "1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stats := decode(t, env.do(t, http.MethodGet, "/dashboard", nil))["stats"].(map[string]any)
	assert.Equal(t, "1200", stats["totalTaxesPaid"])
	assert.Equal(t, "800", stats["monthlyFixedCostsBusiness"])
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)
	env.unlock(t)

	rec := env.do(t, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "8000", decode(t, rec)["proLabore"])

	rec = env.do(t, http.MethodPut, "/settings", map[string]string{"proLabore": "10.000,00", "taxRate": "lixo"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	settings := env.store.Settings()
	assert.Equal(t, "10000", settings.ProLabore.String())
	assert.True(t, settings.TaxRate.IsZero(), "unparseable input coerces to zero")
	assert.Equal(t, "0.2", settings.AllocationRate.String(), "omitted fields are untouched")
}

func TestAdvice(t *testing.T) {
	env := newTestEnv(t)
	env.unlock(t)

	rec := env.do(t, http.MethodPost, "/advice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["fallback"])
	assert.Contains(t, body["text"], "Faltam R$")

	env.advisor.err = advisor.ErrRequestInFlight
	rec = env.do(t, http.MethodPost, "/advice", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 2, env.advisor.calls)
}

func TestAdvice_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t)
	srv := New(env.store, nil, nil, common.DiscardLogger())

	req := httptest.NewRequest(http.MethodPost, "/advice", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
