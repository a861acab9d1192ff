package triage

import (
	"strings"

	"github.com/spec-kit/grievance-service/internal/domain"
)

type sectorLexicon struct {
	sector   domain.Sector
	triggers []string
}

// Checked top to bottom; the first lexicon with a hit wins.
var sectorLexicons = []sectorLexicon{
	{domain.SectorRoads, []string{"road", "pothole", "traffic", "street"}},
	{domain.SectorElectricity, []string{"electricity", "power", "light", "current"}},
	{domain.SectorWater, []string{"water", "pipe", "leak", "drainage"}},
	{domain.SectorHealth, []string{"health", "hospital", "doctor", "medicine"}},
	{domain.SectorEducation, []string{"school", "teacher", "education", "book"}},
	{domain.SectorLawAndOrder, []string{"police", "crime", "theft", "safety", "stole"}},
}

// ClassifySector maps complaint text to a sector. Triggers match as plain substrings of
// the lowercased text, so "streetlight" hits Roads before Electricity is consulted.
// Text with no trigger falls back to Welfare.
func ClassifySector(text string) domain.Sector {
	lowered := strings.ToLower(text)
	for _, lex := range sectorLexicons {
		if containsAny(lowered, lex.triggers) {
			return lex.sector
		}
	}
	return domain.SectorWelfare
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
