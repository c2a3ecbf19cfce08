// Package helpers provides shared fixtures and mock servers for
// integration and end-to-end tests.
package helpers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// NewTestLogger returns a logger that discards output, keeping test
// runs quiet.
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// SteadyRecord builds a prop record whose last ten games all landed on
// the same side of the line by the given margin. Margins inside the one
// unit consistency band (|margin| < 1) keep consistency at 1.0, which
// with a perfect hit rate scores safety 85; larger margins fall outside
// the band and drag the safety score below the recommendation floor.
func SteadyRecord(player, category string, line, margin float64) models.PropRecord {
	games := make([]float64, 10)
	for i := range games {
		games[i] = line + margin
	}

	return models.PropRecord{
		Player:             player,
		PropCategory:       category,
		Line:               line,
		Team:               "DEN",
		Opponent:           "LAL",
		GameDate:           time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC),
		IsHome:             true,
		LastTenGames:       games,
		SeasonAverage:      line + margin,
		MinutesOrSnapShare: 0.8,
		InjuryStatus:       models.InjuryHealthy,
		RestDays:           2,
	}
}

// providerPayload mirrors the loosely-typed JSON shape the stats feed
// serves, so mock servers exercise the real normalization path.
type providerPayload struct {
	PlayerName   string    `json:"playerName"`
	StatType     string    `json:"statType"`
	Line         float64   `json:"line"`
	TeamCode     string    `json:"teamCode"`
	OpponentCode string    `json:"opponentCode"`
	GameDate     string    `json:"gameDate"`
	HomeGame     bool      `json:"homeGame"`
	RecentGames  []float64 `json:"recentGames"`
	SeasonAvg    float64   `json:"seasonAvg"`
	MinutesShare float64   `json:"minutesShare"`
	InjuryStatus string    `json:"injuryStatus"`
	DaysSince    int       `json:"daysSinceGame"`
}

// MockStatsFeedServer serves the given records as a provider prop board
// at /props, requiring the expected bearer token.
func MockStatsFeedServer(t *testing.T, apiKey string, records []models.PropRecord) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/props" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+apiKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payloads := make([]providerPayload, 0, len(records))
		for _, rec := range records {
			payloads = append(payloads, providerPayload{
				PlayerName:   rec.Player,
				StatType:     rec.PropCategory,
				Line:         rec.Line,
				TeamCode:     rec.Team,
				OpponentCode: rec.Opponent,
				GameDate:     rec.GameDate.Format(time.RFC3339),
				HomeGame:     rec.IsHome,
				RecentGames:  rec.LastTenGames,
				SeasonAvg:    rec.SeasonAverage,
				MinutesShare: rec.MinutesOrSnapShare,
				InjuryStatus: string(rec.InjuryStatus),
				DaysSince:    rec.RestDays,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		require.NoError(t, json.NewEncoder(w).Encode(payloads))
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.Fail(t, "condition not met within timeout", message)
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
