package rewriting

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/validation"
)

// lengthTolerancePercent bounds how far a rewrite may shrink below the original.
const lengthTolerancePercent = 0.2

// Common strong action verbs for resume bullets (heuristic check)
var strongVerbs = map[string]bool{
	"achieved": true, "architected": true, "automated": true, "built": true,
	"created": true, "cut": true, "delivered": true, "designed": true,
	"developed": true, "drove": true, "engineered": true, "grew": true,
	"implemented": true, "improved": true, "increased": true, "launched": true,
	"led": true, "managed": true, "mentored": true, "optimized": true,
	"ran": true, "reduced": true, "scaled": true, "shipped": true,
	"spearheaded": true, "transformed": true, "won": true, "wrote": true,
}

// DefaultCliches are filler phrases that weaken resume copy.
var DefaultCliches = []string{
	"team player",
	"hard worker",
	"hard-working",
	"results-driven",
	"detail-oriented",
	"go-getter",
	"think outside the box",
	"synergy",
	"responsible for",
	"duties included",
	"rockstar",
	"ninja",
}

var digitPattern = regexp.MustCompile(`\d`)

// StyleChecks is the heuristic quality report for one piece of resume copy.
type StyleChecks struct {
	StrongVerb   bool     `json:"strongVerb"`
	Quantified   bool     `json:"quantified"`
	NoCliche     bool     `json:"noCliche"`
	TargetLength bool     `json:"targetLength"`
	Cliches      []string `json:"cliches,omitempty"`
}

// Passed reports whether every check succeeded.
func (c StyleChecks) Passed() bool {
	return c.StrongVerb && c.Quantified && c.NoCliche && c.TargetLength
}

// ValidateStyle checks text against the bullet heuristics. originalLength
// of zero accepts any non-empty result; nil cliches uses DefaultCliches.
func ValidateStyle(text string, cliches []string, originalLength int) StyleChecks {
	if cliches == nil {
		cliches = DefaultCliches
	}
	trimmed := strings.TrimSpace(text)
	found := FindCliches(trimmed, cliches)
	return StyleChecks{
		StrongVerb:   checkStrongVerb(strings.ToLower(trimmed)),
		Quantified:   checkQuantifiedImpact(trimmed),
		NoCliche:     len(found) == 0,
		TargetLength: checkTargetLength(len(trimmed), originalLength),
		Cliches:      found,
	}
}

// FindCliches returns the phrases from list present in text, ignoring case
// and accents, in list order and without duplicates.
func FindCliches(text string, list []string) []string {
	if len(list) == 0 {
		return nil
	}
	lower := validation.FoldText(text)

	var found []string
	seen := make(map[string]bool)
	for _, phrase := range list {
		p := validation.FoldText(strings.TrimSpace(phrase))
		if p == "" || seen[p] {
			continue
		}
		if strings.Contains(lower, p) {
			found = append(found, phrase)
			seen[p] = true
		}
	}
	return found
}

func checkStrongVerb(textLower string) bool {
	words := strings.Fields(strings.TrimLeft(textLower, "-•* "))
	if len(words) == 0 {
		return false
	}
	first := strings.TrimRight(words[0], ".,!?;:")
	if strongVerbs[first] {
		return true
	}
	// Past-tense openers are usually action verbs.
	return strings.HasSuffix(first, "ed") && len(first) > 3
}

func checkQuantifiedImpact(text string) bool {
	return digitPattern.MatchString(text) || strings.Contains(text, "%")
}

func checkTargetLength(rewritten, original int) bool {
	if original == 0 {
		return rewritten > 0
	}
	tolerance := float64(original) * lengthTolerancePercent
	minLength := float64(original) - tolerance
	maxLength := (float64(original) + tolerance) * 1.5
	return float64(rewritten) >= minLength && float64(rewritten) <= maxLength
}
