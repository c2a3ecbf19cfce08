package parlay

import (
	"fmt"
	"strings"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// Fixed pairwise correlation coefficients for legs sharing a game. These
// are hand-tuned constants; cross-game legs are treated as independent.
const (
	corrPasserReceiver = 0.68  // same-team passer/receiver stack
	corrSameTeam       = 0.42  // same team, different players
	corrSamePlayer     = 0.35  // same player, different markets
	corrOpposing       = -0.42 // textually opposite outcomes
	corrResidualPace   = 0.15  // any other same-game pair
)

// pairCorrelation returns the signed correlation coefficient between two
// legs. Only legs sharing a game identifier can correlate.
func pairCorrelation(a, b models.ParlayLeg) float64 {
	if a.GameID != b.GameID {
		return 0
	}

	if opposingOutcomes(a, b) {
		return corrOpposing
	}

	if a.Team != "" && a.Team == b.Team {
		if passerReceiverStack(a, b) {
			return corrPasserReceiver
		}
		if a.Player != b.Player {
			return corrSameTeam
		}
		if a.Market != b.Market {
			return corrSamePlayer
		}
	}

	return corrResidualPace
}

// opposingOutcomes reports whether the two legs bet against each other:
// opposite sides on the same player-and-market axis, or opposite sides
// taken on opposing teams in the same game
func opposingOutcomes(a, b models.ParlayLeg) bool {
	if !sidesOpposed(a.Side, b.Side) {
		return false
	}
	if a.Player == b.Player && a.Market == b.Market {
		return true
	}
	return a.Team != "" && b.Team != "" && a.Team != b.Team
}

// sidesOpposed reports whether two sides are textually opposite after
// normalizing higher/lower onto the over/under axis
func sidesOpposed(a, b models.LegSide) bool {
	return normalizeSide(a) != normalizeSide(b)
}

func normalizeSide(side models.LegSide) models.LegSide {
	switch side {
	case models.SideHigher:
		return models.SideOver
	case models.SideLower:
		return models.SideUnder
	default:
		return side
	}
}

// passerReceiverStack reports a same-team passing/receiving market pairing
func passerReceiverStack(a, b models.ParlayLeg) bool {
	return (passingMarket(a.Market) && receivingMarket(b.Market)) ||
		(receivingMarket(a.Market) && passingMarket(b.Market))
}

func passingMarket(market string) bool {
	return strings.HasPrefix(strings.ToLower(market), "passing")
}

func receivingMarket(market string) bool {
	m := strings.ToLower(market)
	return strings.HasPrefix(m, "receiving") || m == "receptions"
}

// buildWarning describes a correlated pair for the user
func buildWarning(a, b models.ParlayLeg, correlation float64) models.CorrelationWarning {
	warning := models.CorrelationWarning{
		LegA:        a.Describe(),
		LegB:        b.Describe(),
		Correlation: correlation,
	}

	if correlation > 0 {
		warning.Type = models.CorrelationPositive
		warning.Message = fmt.Sprintf(
			"%s and %s tend to land together (correlation %.2f): the advertised odds overstate this parlay's true chances",
			warning.LegA, warning.LegB, correlation,
		)
	} else {
		warning.Type = models.CorrelationNegative
		warning.Message = fmt.Sprintf(
			"%s and %s work against each other (correlation %.2f): both landing is unlikely",
			warning.LegA, warning.LegB, correlation,
		)
	}

	return warning
}
