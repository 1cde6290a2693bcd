package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

// purchaseBody renders a purchase request body. Lines are given as "TYPE:count".
func purchaseBody(accountID any, lines ...string) io.Reader {
	requests := make([]string, 0, len(lines))
	for _, line := range lines {
		ticketType, count, _ := strings.Cut(line, ":")
		requests = append(requests, fmt.Sprintf(`{"type": %q, "count": %s}`, ticketType, count))
	}

	return strings.NewReader(fmt.Sprintf(`{"accountId": %v, "ticketRequests": [%s]}`,
		accountID, strings.Join(requests, ", ")))
}

func resetReservations(t testing.TB, app *TestApp) {
	t.Helper()

	ctx := context.Background()

	_, err := app.DB.Exec(ctx, "TRUNCATE seat_reservations, account_seat_totals RESTART IDENTITY")
	require.NoError(t, err)

	require.NoError(t, app.RedisClient.FlushAll(ctx).Err())

	app.Payments.Reset()
}

func requireCharges(t testing.TB, app *TestApp, accountID int64, want ...string) {
	t.Helper()

	got := app.Payments.Charges(accountID)
	require.Len(t, got, len(want))

	for i, amount := range want {
		require.True(t, got[i].Equal(decimal.RequireFromString(amount)),
			"charge %d = %s, want %s", i, got[i], amount)
	}
}
