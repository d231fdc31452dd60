package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestDashboardSummaryCmd(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dashboard/summary", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"total_income":"100","total_expense":"40","balance":"60","period":"YEARLY","period_label":"2024"}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv, "dashboard", "summary", "--period", "YEARLY", "--date", "2024")
	require.NoError(t, err)

	assert.Equal(t, "date=2024&period=YEARLY", gotQuery)
	assert.Contains(t, out, "YEARLY 2024")
	assert.Contains(t, out, "Balance: 60")
}

func TestDashboardChartCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2023", r.URL.Query().Get("year"))
		w.Write([]byte(`{"labels":["Jan","Feb"],"income":["1","2"],"expense":["3","4"]}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv, "dashboard", "chart", "--year", "2023")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"Feb", "2", "4"}, strings.Fields(lines[2]))
}

func TestCategoriesInitCmd(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "seeds", body: `{"created":17}`, expected: "Created 17 categories"},
		{name: "already seeded", body: `{"created":0}`, expected: "Categories already initialized"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			out, err := execute(t, srv, "categories", "init")
			require.NoError(t, err)
			assert.Contains(t, out, tc.expected)
		})
	}
}

func TestAccountsListCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts":[{"id":"01A","name":"Wallet","balance":"12.5"}],"total":1}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallet")
	assert.Contains(t, out, "12.5")
}

func TestAPIErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid date","message":"invalid input: Invalid date format"}`))
	}))
	defer srv.Close()

	_, err := execute(t, srv, "dashboard", "summary", "--date", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
	assert.Contains(t, err.Error(), "status 400")
}
