package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/logger"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// Tracker owns the in-memory pick collection and keeps the external store
// in sync after every mutation. It assumes a single writer; concurrent
// settlement of the same pick from two call sites is the caller's problem
// to serialize.
type Tracker struct {
	mu     sync.Mutex
	store  Store
	picks  []models.PickRecord
	logger *logrus.Logger
	audit  *logger.AuditLogger
	now    func() time.Time
}

// NewTracker loads the persisted pick collection. A load failure is
// reported to the caller but still yields a usable tracker over an empty
// record set, so the UI can surface the error and retry.
func NewTracker(ctx context.Context, store Store, log *logrus.Logger) (*Tracker, error) {
	t := &Tracker{
		store:  store,
		logger: log,
		audit:  logger.NewAuditLogger(log),
		now:    time.Now,
	}

	picks, err := store.LoadAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load pick history, starting from an empty record set")
		return t, fmt.Errorf("loading pick history: %w", err)
	}

	t.picks = picks
	return t, nil
}

// AddPick records a committed pick. The identifier, pending result, and
// timestamps are assigned here; whatever the caller set on those fields is
// discarded.
func (t *Tracker) AddPick(ctx context.Context, pick models.PickRecord) (uuid.UUID, error) {
	if err := validatePick(pick); err != nil {
		return uuid.Nil, err
	}

	pick.ID = uuid.New()
	pick.Result = models.PickPending
	pick.Profit = 0
	pick.ObservedValue = nil
	pick.SettledAt = nil
	if pick.PlacedAt.IsZero() {
		pick.PlacedAt = t.now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.picks = append(t.picks, pick)
	if err := t.store.SaveAll(ctx, t.picks); err != nil {
		t.picks = t.picks[:len(t.picks)-1]
		return uuid.Nil, fmt.Errorf("persisting pick: %w", err)
	}

	t.audit.LogPickAdded(pick.ID.String(), pick.Player, pick.PropCategory, pick.Line,
		string(pick.Pick), pick.Odds, pick.Stake, pick.SafetyScore, pick.PlacedAt)
	return pick.ID, nil
}

// UpdatePickResult settles a pick against the observed value. Calling it
// again overwrites the prior settlement; idempotency is the caller's
// responsibility.
func (t *Tracker) UpdatePickResult(ctx context.Context, id uuid.UUID, observedValue float64) (*models.PickRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i := range t.picks {
		if t.picks[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("settling pick %s: %w", id, models.ErrNotFound)
	}

	prior := t.picks[idx]
	pick := &t.picks[idx]

	pick.Result = settle(pick.Pick, observedValue, pick.Line)
	pick.Profit = settlementProfit(pick.Result, pick.Odds, pick.Stake)
	pick.ObservedValue = &observedValue
	settledAt := t.now()
	pick.SettledAt = &settledAt

	if err := t.store.SaveAll(ctx, t.picks); err != nil {
		t.picks[idx] = prior
		return nil, fmt.Errorf("persisting settlement: %w", err)
	}

	t.audit.LogPickSettled(pick.ID.String(), observedValue, pick.Line, string(pick.Result), pick.Profit)
	settled := *pick
	return &settled, nil
}

// ClearAll irreversibly wipes the pick history.
func (t *Tracker) ClearAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := len(t.picks)
	prior := t.picks
	t.picks = nil

	if err := t.store.SaveAll(ctx, t.picks); err != nil {
		t.picks = prior
		return fmt.Errorf("clearing pick history: %w", err)
	}

	t.audit.LogHistoryCleared(removed, "tracker")
	return nil
}

// Picks returns a copy of the current record set.
func (t *Tracker) Picks() []models.PickRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.PickRecord, len(t.picks))
	copy(out, t.picks)
	return out
}

func validatePick(pick models.PickRecord) error {
	if pick.Line <= 0 {
		return fmt.Errorf("pick for %s: %w", pick.Player, models.ErrInvalidLine)
	}
	if pick.Odds == 0 {
		return fmt.Errorf("pick for %s: %w", pick.Player, models.ErrInvalidOdds)
	}
	if pick.Stake <= 0 {
		return fmt.Errorf("pick for %s: stake must be positive", pick.Player)
	}
	if pick.Pick != models.RecommendationHigher && pick.Pick != models.RecommendationLower {
		return fmt.Errorf("pick for %s: side must be HIGHER or LOWER", pick.Player)
	}
	return nil
}

func settle(side models.Recommendation, observed, line float64) models.PickResult {
	if observed == line {
		return models.PickPush
	}

	over := observed > line
	if (side == models.RecommendationHigher) == over {
		return models.PickWin
	}
	return models.PickLoss
}

// settlementProfit computes realized profit in stake units using decimal
// arithmetic, rounded to cents. A win pays the odds-implied profit on the
// stake, a loss forfeits the stake, a push returns it.
func settlementProfit(result models.PickResult, odds int, stake float64) float64 {
	switch result {
	case models.PickWin:
		s := decimal.NewFromFloat(stake)
		var profit decimal.Decimal
		if odds > 0 {
			profit = s.Mul(decimal.NewFromInt(int64(odds))).Div(decimal.NewFromInt(100))
		} else {
			profit = s.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(-odds)))
		}
		return profit.Round(2).InexactFloat64()
	case models.PickLoss:
		return decimal.NewFromFloat(stake).Neg().Round(2).InexactFloat64()
	default:
		return 0
	}
}
