package refcheck

import (
	"math"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Similarity score weights. Domain match and leading-token match are
// flat bonuses; edit distance contributes the rest proportionally.
const (
	domainWeight      = 0.30
	leadingWeight     = 0.25
	levenshteinWeight = 0.45

	// similarNameThreshold is the edit-distance ratio above which a
	// candidate earns the "similar_name" reason.
	similarNameThreshold = 0.5

	// minSuggestionScore filters candidates before ranking.
	minSuggestionScore = 0.2
)

// similarity scores how plausible candidateID is as a replacement for
// missingID. Returns the score and the list of contributing reasons.
func similarity(missingID, candidateID string) (float64, []string) {
	var (
		score   float64
		reasons []string
	)

	missingDomain, missingName, _ := strings.Cut(missingID, ".")
	candidateDomain, candidateName, _ := strings.Cut(candidateID, ".")

	if missingDomain == candidateDomain {
		score += domainWeight
		reasons = append(reasons, "same_domain")
	}

	// Object IDs conventionally lead with the area token
	// (buro_deckenlampe); a shared leading token suggests the same
	// room.
	missingLead := leadingToken(missingName)
	candidateLead := leadingToken(candidateName)
	if missingLead != "" && missingLead == candidateLead {
		score += leadingWeight
		reasons = append(reasons, "same_area")
	}

	if missingName != "" && candidateName != "" {
		maxLen := max(len(missingName), len(candidateName))
		distance := edlib.LevenshteinDistance(missingName, candidateName)
		ratio := 1 - float64(distance)/float64(maxLen)
		score += ratio * levenshteinWeight
		if ratio > similarNameThreshold {
			reasons = append(reasons, "similar_name")
		}
	}

	return score, reasons
}

// leadingToken returns the object ID's first underscore-separated
// token, or "" when the ID has no underscore at all.
func leadingToken(objectID string) string {
	lead, _, found := strings.Cut(objectID, "_")
	if !found {
		return ""
	}
	return lead
}

// round3 rounds a score to three decimals for stable JSON output.
func round3(score float64) float64 {
	return math.Round(score*1000) / 1000
}
