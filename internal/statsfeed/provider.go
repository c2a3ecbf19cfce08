package statsfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/metrics"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// FeedError represents errors from stats feed operations
type FeedError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e FeedError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e FeedError) Unwrap() error {
	return e.Err
}

// ErrNoData signals an explicit empty feed response. Callers must treat it
// as "no data", never substitute fabricated statistics.
var ErrNoData = errors.New("stats feed returned no data")

// Fetcher retrieves prop records for a sport, caching successful results
type Fetcher struct {
	httpClient *RateLimitedHTTPClient
	cache      *PropCache
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewFetcher creates a stats feed fetcher from configuration
func NewFetcher(cfg config.StatsFeedConfig, logger *logrus.Logger) *Fetcher {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MaxRetries
	httpCfg.RateLimit = cfg.RateLimitPerSecond

	return &Fetcher{
		httpClient: NewRateLimitedHTTPClient(httpCfg, logger),
		cache:      NewPropCache(time.Duration(cfg.CacheTTLSeconds) * time.Second),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// propPayload mirrors the provider's loosely-typed JSON. Normalization
// into the strict PropRecord contract happens in toRecord; nothing
// downstream of this package sees the raw shape.
type propPayload struct {
	PlayerName    string     `json:"playerName"`
	StatType      string     `json:"statType"`
	Line          *float64   `json:"line"`
	TeamCode      string     `json:"teamCode"`
	OpponentCode  string     `json:"opponentCode"`
	GameDate      string     `json:"gameDate"`
	HomeGame      *bool      `json:"homeGame"`
	RecentGames   []*float64 `json:"recentGames"`
	SeasonAvg     *float64   `json:"seasonAvg"`
	HomeAvg       *float64   `json:"homeAvg"`
	AwayAvg       *float64   `json:"awayAvg"`
	VsOpponent    []*float64 `json:"vsOpponent"`
	MinutesShare  *float64   `json:"minutesShare"`
	UsagePct      *float64   `json:"usagePct"`
	InjuryStatus  string     `json:"injuryStatus"`
	DaysSinceGame *int       `json:"daysSinceGame"`
}

// FetchProps retrieves the current prop board for a sport. An empty board
// is an explicit ErrNoData, not an empty success.
func (f *Fetcher) FetchProps(ctx context.Context, sport string) ([]models.PropRecord, error) {
	url := fmt.Sprintf("%s/props?sport=%s", f.baseURL, sport)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, FeedError{Source: "statsfeed", Code: ErrCodeNetworkError, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(ctx, req)
	if err != nil {
		return nil, FeedError{Source: "statsfeed", Code: ErrCodeNetworkError, Message: "failed to fetch props", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, FeedError{Source: "statsfeed", Code: ErrCodeAuthenticationFailed, Message: "invalid API key"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, FeedError{Source: "statsfeed", Code: ErrCodeRateLimitExceeded, Message: "rate limit exceeded"}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, FeedError{
			Source: "statsfeed", Code: ErrCodeServerError,
			Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var payloads []propPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, FeedError{Source: "statsfeed", Code: ErrCodeInvalidData, Message: "failed to parse response", Err: err}
	}

	if len(payloads) == 0 {
		return nil, ErrNoData
	}

	records := make([]models.PropRecord, 0, len(payloads))
	for _, p := range payloads {
		record, err := p.toRecord()
		if err != nil {
			f.logger.WithError(err).WithFields(logrus.Fields{
				"player":    p.PlayerName,
				"stat_type": p.StatType,
			}).Warn("Skipping malformed prop payload")
			continue
		}
		f.cache.Put(record)
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, FeedError{Source: "statsfeed", Code: ErrCodeInvalidData, Message: "no usable prop records in response"}
	}

	return records, nil
}

// GetCached returns a previously fetched record if its TTL has not lapsed
func (f *Fetcher) GetCached(player, propCategory string) (models.PropRecord, bool) {
	record, found := f.cache.Get(player, propCategory)
	hits, misses := f.cache.Stats()
	metrics.UpdateCacheHitRatio(int64(hits), int64(misses))
	return record, found
}

// FlushCache drops all cached records, forcing the next lookup to refetch
func (f *Fetcher) FlushCache() {
	f.cache.Flush()
}

// Close releases the underlying HTTP resources
func (f *Fetcher) Close() error {
	return f.httpClient.Close()
}

// toRecord normalizes a provider payload into the strict record contract,
// rejecting anything that fails the ingestion invariants
func (p propPayload) toRecord() (models.PropRecord, error) {
	if p.PlayerName == "" || p.StatType == "" {
		return models.PropRecord{}, FeedError{Source: "statsfeed", Code: ErrCodeInvalidData, Message: "payload missing player or stat identity"}
	}
	if p.Line == nil {
		return models.PropRecord{}, FeedError{Source: "statsfeed", Code: ErrCodeInvalidData, Message: "payload missing line for " + p.PlayerName}
	}

	record := models.PropRecord{
		Player:            p.PlayerName,
		PropCategory:      p.StatType,
		Line:              *p.Line,
		Team:              p.TeamCode,
		Opponent:          p.OpponentCode,
		LastTenGames:      densify(p.RecentGames),
		VsOpponentHistory: densify(p.VsOpponent),
		UsageRate:         p.UsagePct,
		InjuryStatus:      normalizeInjury(p.InjuryStatus),
	}

	if p.HomeGame != nil {
		record.IsHome = *p.HomeGame
	}
	if p.SeasonAvg != nil {
		record.SeasonAverage = *p.SeasonAvg
	}
	record.HomeAverage = p.HomeAvg
	record.AwayAverage = p.AwayAvg
	if p.MinutesShare != nil {
		record.MinutesOrSnapShare = *p.MinutesShare
	}
	if p.DaysSinceGame != nil {
		record.RestDays = *p.DaysSinceGame
	}
	if p.GameDate != "" {
		if parsed, err := time.Parse("2006-01-02", p.GameDate); err == nil {
			record.GameDate = parsed
		}
	}

	if len(record.LastTenGames) > 10 {
		record.LastTenGames = record.LastTenGames[len(record.LastTenGames)-10:]
	}

	if err := record.Validate(); err != nil {
		return models.PropRecord{}, err
	}
	return record, nil
}

// densify drops null entries the provider sometimes leaves in its series
func densify(values []*float64) []float64 {
	if values == nil {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// normalizeInjury maps provider designations onto the strict enum,
// defaulting unknown designations to questionable rather than healthy
func normalizeInjury(status string) models.InjuryStatus {
	switch models.InjuryStatus(status) {
	case models.InjuryHealthy, models.InjuryQuestionable, models.InjuryOut:
		return models.InjuryStatus(status)
	case "":
		return models.InjuryHealthy
	default:
		return models.InjuryQuestionable
	}
}
