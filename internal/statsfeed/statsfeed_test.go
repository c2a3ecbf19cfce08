package statsfeed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testFetcher(baseURL string) *Fetcher {
	return NewFetcher(config.StatsFeedConfig{
		BaseURL:            baseURL,
		APIKey:             "test-key",
		TimeoutSeconds:     5,
		MaxRetries:         0,
		RateLimitPerSecond: 100,
		CacheTTLSeconds:    60,
		CacheMaxSize:       100,
	}, testLogger())
}

const propBoardJSON = `[
	{
		"playerName": "Player X",
		"statType": "points",
		"line": 24.5,
		"teamCode": "AAA",
		"opponentCode": "BBB",
		"gameDate": "2026-03-01",
		"homeGame": true,
		"recentGames": [28, 26, null, 30, 22],
		"seasonAvg": 26.8,
		"minutesShare": 34.2,
		"injuryStatus": "healthy",
		"daysSinceGame": 2
	},
	{
		"playerName": "Player Y",
		"statType": "rebounds",
		"line": -3,
		"teamCode": "CCC"
	},
	{
		"playerName": "",
		"statType": "assists",
		"line": 6.5
	}
]`

func TestFetchPropsNormalizesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(propBoardJSON))
	}))
	defer server.Close()

	fetcher := testFetcher(server.URL)
	defer fetcher.Close()

	records, err := fetcher.FetchProps(context.Background(), "nba")
	if err != nil {
		t.Fatalf("expected fetch to succeed, got: %v", err)
	}

	// the negative-line and missing-player payloads are dropped
	if len(records) != 1 {
		t.Fatalf("expected 1 usable record, got %d", len(records))
	}

	r := records[0]
	if r.Player != "Player X" || r.PropCategory != "points" {
		t.Errorf("unexpected identity: %s %s", r.Player, r.PropCategory)
	}
	if len(r.LastTenGames) != 4 {
		t.Errorf("expected null entries dropped, got %v", r.LastTenGames)
	}
	if !r.IsHome || r.RestDays != 2 {
		t.Errorf("venue or rest days not mapped: home=%v rest=%d", r.IsHome, r.RestDays)
	}
	if r.InjuryStatus != models.InjuryHealthy {
		t.Errorf("expected healthy, got %s", r.InjuryStatus)
	}
}

func TestFetchPropsEmptyBoardIsExplicit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	fetcher := testFetcher(server.URL)
	defer fetcher.Close()

	_, err := fetcher.FetchProps(context.Background(), "nba")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got: %v", err)
	}
}

func TestFetchPropsAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	fetcher := testFetcher(server.URL)
	defer fetcher.Close()

	_, err := fetcher.FetchProps(context.Background(), "nba")
	var feedErr FeedError
	if !errors.As(err, &feedErr) {
		t.Fatalf("expected FeedError, got: %v", err)
	}
	if feedErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("expected auth failure code, got %s", feedErr.Code)
	}
}

func TestFetchPropsCachesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(propBoardJSON))
	}))
	defer server.Close()

	fetcher := testFetcher(server.URL)
	defer fetcher.Close()

	if _, err := fetcher.FetchProps(context.Background(), "nba"); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	cached, found := fetcher.GetCached("Player X", "points")
	if !found {
		t.Fatal("expected fetched record to be cached")
	}
	if cached.Line != 24.5 {
		t.Errorf("expected line 24.5, got %v", cached.Line)
	}

	fetcher.FlushCache()
	if _, found := fetcher.GetCached("Player X", "points"); found {
		t.Error("expected cache to be empty after flush")
	}
}

func TestPropCacheExpiresWithClock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	pc := NewPropCacheWithClock(time.Minute, clock)

	record := models.PropRecord{Player: "Player X", PropCategory: "points", Line: 24.5, Team: "AAA"}
	pc.Put(record)

	if _, found := pc.Get("Player X", "points"); !found {
		t.Fatal("expected fresh entry to be served")
	}

	now = now.Add(61 * time.Second)
	if _, found := pc.Get("Player X", "points"); found {
		t.Fatal("expected entry to expire with the clock")
	}

	hits, misses := pc.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}
}

func TestNormalizeInjuryDefaults(t *testing.T) {
	tests := []struct {
		in       string
		expected models.InjuryStatus
	}{
		{"healthy", models.InjuryHealthy},
		{"questionable", models.InjuryQuestionable},
		{"out", models.InjuryOut},
		{"", models.InjuryHealthy},
		{"day-to-day", models.InjuryQuestionable},
	}

	for _, tt := range tests {
		if got := normalizeInjury(tt.in); got != tt.expected {
			t.Errorf("normalizeInjury(%q) = %s, expected %s", tt.in, got, tt.expected)
		}
	}
}

func TestBreakerOpensUnderConcurrentFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 3
	client := NewRateLimitedHTTPClient(cfg, testLogger())
	defer client.Close()

	// the season and live jobs share one client, so failures must be
	// recordable from multiple goroutines at once
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			if err != nil {
				t.Error(err)
				return
			}
			resp, err := client.Do(context.Background(), req)
			if err == nil {
				resp.Body.Close()
				t.Error("expected an error from the failing upstream")
			}
		}()
	}
	wg.Wait()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Do(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker open") {
		t.Fatalf("expected a circuit breaker open error, got %v", err)
	}
}

func TestBreakerResetsAfterSuccess(t *testing.T) {
	failures := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failures < 2 {
			failures++
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 3
	client := NewRateLimitedHTTPClient(cfg, testLogger())
	defer client.Close()

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := client.Do(context.Background(), req); err == nil {
			t.Fatal("expected an error while the upstream is failing")
		}
	}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("expected recovery once the upstream heals, got %v", err)
	}
	resp.Body.Close()

	client.mu.Lock()
	defer client.mu.Unlock()
	if client.isOpen || client.consecutiveErrors != 0 {
		t.Errorf("expected a reset breaker, got open=%v errors=%d", client.isOpen, client.consecutiveErrors)
	}
}
