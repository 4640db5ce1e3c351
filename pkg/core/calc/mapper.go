// Package calc maps normalized concept tables into the fixed indicator
// schema and computes the per-year financial metrics, including the Altman
// Z'' score used for emerging-market, non-manufacturing issuers.
package calc

import (
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/normalize"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
)

// findValue locates one indicator in the concept table: the first exact
// variant present wins, else the first concept containing a substring
// variant. Both lists are checked in their configured order; table iteration
// follows row arrival order, so residual ties resolve to the earliest row.
func findValue(concepts *normalize.ConceptTable, exact, contains []string) *float64 {
	if concepts == nil {
		return nil
	}

	for _, candidate := range exact {
		if value, ok := concepts.Get(utils.NormalizeText(candidate)); ok {
			return utils.FloatPtr(value)
		}
	}

	for _, needle := range contains {
		target := utils.NormalizeText(needle)
		for _, conceptKey := range concepts.Concepts() {
			if strings.Contains(conceptKey, target) {
				value, _ := concepts.Get(conceptKey)
				return utils.FloatPtr(value)
			}
		}
	}

	return nil
}

// findPattern is findValue driven by a configured pattern entry.
func findPattern(concepts *normalize.ConceptTable, patterns map[string]config.ConceptPatterns, key string) *float64 {
	p := patterns[key]
	return findValue(concepts, p.Exact, p.Contains)
}

// sumIfContains sums every concept matching any needle. Used for the
// aggregate expense and depreciation/amortization buckets, where the filing
// splits one logical line across several labels. Nil only when nothing
// matched at all.
func sumIfContains(concepts *normalize.ConceptTable, needles []string) *float64 {
	if concepts == nil {
		return nil
	}

	normalized := make([]string, len(needles))
	for i, n := range needles {
		normalized[i] = utils.NormalizeText(n)
	}

	var sum float64
	matched := false
	for _, conceptKey := range concepts.Concepts() {
		for _, needle := range normalized {
			if strings.Contains(conceptKey, needle) {
				value, _ := concepts.Get(conceptKey)
				sum += value
				matched = true
				break
			}
		}
	}

	if !matched {
		return nil
	}
	return utils.FloatPtr(sum)
}

// safeDiv divides, propagating missing operands and zero denominators as nil.
func safeDiv(numerator, denominator *float64) *float64 {
	if numerator == nil || denominator == nil || *denominator == 0 {
		return nil
	}
	return utils.FloatPtr(*numerator / *denominator)
}
