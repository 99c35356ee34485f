package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogenkigen/account-manager/internal/adapter/storage"
	"github.com/dogenkigen/account-manager/internal/core/engine"
)

func newTestApp() (*fiber.App, *engine.Serialized) {
	ledger := engine.NewSerialized(storage.NewLedgerStore())
	return NewApp(ledger), ledger
}

func postEvent(t *testing.T, app *fiber.App, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func getJSON(t *testing.T, app *fiber.App, path string, out any) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestSubmitEventApplied(t *testing.T) {
	app, ledger := newTestApp()

	status, body := postEvent(t, app, `{"type":"deposit","client":1,"tx":1,"amount":"10.5"}`, nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "applied", body["status"])

	acc, ok := ledger.Account(1)
	require.True(t, ok)
	assert.Equal(t, "10.5", acc.Total.String())
}

func TestSubmitEventDropped(t *testing.T) {
	app, _ := newTestApp()

	status, body := postEvent(t, app, `{"type":"withdrawal","client":1,"tx":1,"amount":"1"}`, nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "dropped", body["status"])
	assert.Equal(t, string(engine.DroppedInsufficientFunds), body["reason"])
}

func TestSubmitEventRejectsMalformedInput(t *testing.T) {
	app, ledger := newTestApp()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "unknown type", body: `{"type":"transfer","client":1,"tx":1}`},
		{name: "client out of range", body: `{"type":"deposit","client":70000,"tx":1,"amount":"1"}`},
		{name: "bad amount", body: `{"type":"deposit","client":1,"tx":1,"amount":"lots"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postEvent(t, app, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, body["error"])
		})
	}

	assert.Empty(t, ledger.Accounts())
}

func TestDisputeWithoutAmount(t *testing.T) {
	app, ledger := newTestApp()

	postEvent(t, app, `{"type":"deposit","client":1,"tx":1,"amount":"3"}`, nil)
	_, body := postEvent(t, app, `{"type":"dispute","client":1,"tx":1}`, nil)
	assert.Equal(t, "applied", body["status"])

	acc, _ := ledger.Account(1)
	assert.Equal(t, "3", acc.Held.String())
	assert.True(t, acc.Available.IsZero())
}

func TestIdempotentSubmission(t *testing.T) {
	app, ledger := newTestApp()
	headers := map[string]string{"Idempotency-Key": "abc"}

	postEvent(t, app, `{"type":"deposit","client":1,"tx":1,"amount":"2"}`, headers)
	_, body := postEvent(t, app, `{"type":"deposit","client":1,"tx":1,"amount":"2"}`, headers)
	assert.Equal(t, "applied", body["status"])

	acc, _ := ledger.Account(1)
	assert.Equal(t, "2", acc.Total.String())
	assert.Equal(t, 1, ledger.Stats()[engine.Applied])
}

func TestListAndGetAccounts(t *testing.T) {
	app, _ := newTestApp()

	postEvent(t, app, `{"type":"deposit","client":2,"tx":1,"amount":"1.25"}`, nil)
	postEvent(t, app, `{"type":"deposit","client":1,"tx":2,"amount":"4"}`, nil)

	var list struct {
		Accounts []AccountResponse `json:"accounts"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, app, "/v1/accounts", &list))
	require.Len(t, list.Accounts, 2)
	assert.Equal(t, uint16(1), list.Accounts[0].Client)
	assert.Equal(t, AccountResponse{Client: 2, Available: "1.25", Held: "0", Total: "1.25"}, list.Accounts[1])

	var one AccountResponse
	assert.Equal(t, http.StatusOK, getJSON(t, app, "/v1/accounts/1", &one))
	assert.Equal(t, "4", one.Total)

	var missing map[string]any
	assert.Equal(t, http.StatusNotFound, getJSON(t, app, "/v1/accounts/9", &missing))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, app, "/v1/accounts/nope", &missing))
}

func TestGetStats(t *testing.T) {
	app, _ := newTestApp()

	postEvent(t, app, `{"type":"deposit","client":1,"tx":1,"amount":"1"}`, nil)
	postEvent(t, app, `{"type":"resolve","client":1,"tx":1}`, nil)

	var stats map[string]int
	assert.Equal(t, http.StatusOK, getJSON(t, app, "/v1/stats", &stats))
	assert.Equal(t, 1, stats["applied"])
	assert.Equal(t, 1, stats["not_disputed"])
}
