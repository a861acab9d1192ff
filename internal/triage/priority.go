package triage

import (
	"strings"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// Rule names the cascade step that decided a priority.
type Rule string

const (
	RuleEmergencyKeyword  Rule = "emergency_keyword"
	RuleSectorOverride    Rule = "sector_override"
	RuleNegativeSentiment Rule = "negative_sentiment"
	RuleUtilitySector     Rule = "utility_sector"
	RuleDefault           Rule = "default"
)

// NegativePolarityThreshold is the polarity below which a complaint is escalated.
const NegativePolarityThreshold = -0.3

var emergencyKeywords = []string{
	"danger", "accident", "fire", "emergency", "attack", "severe", "urgent", "died", "blood",
}

// ScorePriority runs the priority cascade and reports which rule fired.
// Explicit danger signals and the Law & Order sector are checked before sentiment.
func ScorePriority(text string, sector domain.Sector, polarity float64) (domain.Priority, Rule) {
	lowered := strings.ToLower(text)
	switch {
	case containsAny(lowered, emergencyKeywords):
		return domain.PriorityHigh, RuleEmergencyKeyword
	case sector == domain.SectorLawAndOrder:
		return domain.PriorityHigh, RuleSectorOverride
	case polarity < NegativePolarityThreshold:
		return domain.PriorityHigh, RuleNegativeSentiment
	case isUtilitySector(sector):
		return domain.PriorityMedium, RuleUtilitySector
	default:
		return domain.PriorityLow, RuleDefault
	}
}

func isUtilitySector(sector domain.Sector) bool {
	switch sector {
	case domain.SectorElectricity, domain.SectorWater, domain.SectorHealth:
		return true
	}
	return false
}
