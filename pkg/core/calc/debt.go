package calc

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/normalize"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
)

// Financial-debt resolution is the noisiest mapping in the pipeline: filings
// word their liability lines in dozens of ways and routinely report a total
// alongside its current/non-current components. The resolver filters the
// liability universe by keyword, scores the survivors, collapses
// near-duplicate labels and then resolves in three tiers: an explicit total,
// else the sum of the best current and non-current components, else the
// single best candidate.

var debtIncludeTerms = []string{
	"obligaciones financieras",
	"pasivos financieros",
	"deuda financiera",
	"deuda total",
	"prestamos",
	"prestamo",
}

var debtExcludeTerms = []string{
	"cuentas por pagar comerciales",
	"proveedores",
	"impuestos",
	"beneficios a empleados",
}

var debtCurrentHints = []string{"corriente", "corto plazo"}
var debtNonCurrentHints = []string{"no corriente", "largo plazo"}

var debtTotalHints = []string{
	"deuda total",
	"obligaciones financieras totales",
	"pasivos financieros totales",
	"total deuda",
	"total obligaciones financieras",
	"total pasivos financieros",
}

// qualifierWordREs strip the generic debt vocabulary from a label, leaving
// whatever distinguishes it (e.g. a lender or currency). Compound hints must
// be removed before their substrings ("no corrientes" before "corrientes").
var qualifierWordREs = []*regexp.Regexp{
	regexp.MustCompile(`\botros?\b`),
	regexp.MustCompile(`\btotales?\b`),
	regexp.MustCompile(`\bpasivos?\b`),
	regexp.MustCompile(`\bobligaciones?\b`),
	regexp.MustCompile(`\bfinancier[oa]s?\b`),
	regexp.MustCompile(`\bdeuda\b`),
	regexp.MustCompile(`\bprestamos?\b`),
	regexp.MustCompile(`\bno corrientes?\b`),
	regexp.MustCompile(`\bcorrientes?\b`),
	regexp.MustCompile(`\bcorto plazo\b`),
	regexp.MustCompile(`\blargo plazo\b`),
}

var spacesRE = regexp.MustCompile(`\s+`)

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// debtCandidate is one liability line surviving the include/exclude filter.
type debtCandidate struct {
	concept string
	value   float64
}

// debtCandidateScore blends keyword evidence with a mild magnitude term.
// |value|^0.1 only breaks ties between equally-worded lines; it can never
// outweigh a keyword tier.
func debtCandidateScore(concept string, value float64) float64 {
	score := 0.0
	if strings.Contains(concept, "deuda total") {
		score += 150
	}
	if containsAny(concept, debtTotalHints) {
		score += 120
	}
	if strings.Contains(concept, "obligaciones financieras") {
		score += 70
	}
	if strings.Contains(concept, "pasivos financieros") {
		score += 65
	}
	if strings.Contains(concept, "deuda financiera") {
		score += 60
	}
	if strings.Contains(concept, "prestamo") || strings.Contains(concept, "prestamos") {
		score += 45
	}
	if containsAny(concept, debtCurrentHints) || containsAny(concept, debtNonCurrentHints) {
		score += 20
	}
	score += math.Pow(math.Abs(value), 0.1)
	return score
}

func isNonCurrentDebt(concept string) bool {
	return containsAny(concept, debtNonCurrentHints)
}

// isCurrentDebt must exclude non-current labels first: "no corriente"
// contains "corriente".
func isCurrentDebt(concept string) bool {
	return !isNonCurrentDebt(concept) && containsAny(concept, debtCurrentHints)
}

// isTotalDebt holds only for labels with a total hint and no current or
// non-current qualifier; the segments are mutually exclusive.
func isTotalDebt(concept string) bool {
	if isCurrentDebt(concept) || isNonCurrentDebt(concept) {
		return false
	}
	return containsAny(concept, debtTotalHints)
}

func debtSegment(concept string) string {
	switch {
	case isTotalDebt(concept):
		return "total"
	case isCurrentDebt(concept):
		return "current"
	case isNonCurrentDebt(concept):
		return "non_current"
	default:
		return "other"
	}
}

func stripQualifierWords(concept string) string {
	base := utils.NormalizeText(concept)
	for _, re := range qualifierWordREs {
		base = re.ReplaceAllString(base, " ")
	}
	return strings.TrimSpace(spacesRE.ReplaceAllString(base, " "))
}

// debtFingerprint identifies near-duplicate labels within a segment.
func debtFingerprint(concept string) string {
	base := stripQualifierWords(concept)
	if base == "" {
		base = "deuda"
	}
	return debtSegment(concept) + "|" + base
}

// pickBestDebtCandidate returns the highest-scoring candidate passing the
// predicate, magnitude as tiebreak. A nil predicate accepts everything.
func pickBestDebtCandidate(candidates []debtCandidate, predicate func(string) bool) *debtCandidate {
	var best *debtCandidate
	var bestScore float64
	for i := range candidates {
		c := candidates[i]
		if predicate != nil && !predicate(c.concept) {
			continue
		}
		score := debtCandidateScore(c.concept, c.value)
		if best == nil || score > bestScore ||
			(score == bestScore && math.Abs(c.value) > math.Abs(best.value)) {
			candidate := c
			best = &candidate
			bestScore = score
		}
	}
	return best
}

// ResolveFinancialDebt determines total financial debt from the balance-sheet
// concepts of one year, or nil when no liability line qualifies.
func ResolveFinancialDebt(balanceConcepts *normalize.ConceptTable) *float64 {
	if balanceConcepts == nil {
		return nil
	}

	var candidates []debtCandidate
	for _, rawConcept := range balanceConcepts.Concepts() {
		value, _ := balanceConcepts.Get(rawConcept)
		concept := utils.NormalizeText(rawConcept)
		if !containsAny(concept, debtIncludeTerms) {
			continue
		}
		if containsAny(concept, debtExcludeTerms) {
			continue
		}
		candidates = append(candidates, debtCandidate{concept: concept, value: value})
	}

	if len(candidates) == 0 {
		return nil
	}

	// Collapse near-duplicates: same segment, same residual label and same
	// rounded magnitude means the same fact filed twice.
	type scoredCandidate struct {
		debtCandidate
		score float64
	}
	deduped := make(map[string]scoredCandidate)
	var dedupedOrder []string
	for _, c := range candidates {
		key := fmt.Sprintf("%s|%.0f", debtFingerprint(c.concept), math.Round(math.Abs(c.value)))
		score := debtCandidateScore(c.concept, c.value)
		current, seen := deduped[key]
		if !seen {
			dedupedOrder = append(dedupedOrder, key)
		}
		if !seen || score > current.score ||
			(score == current.score && math.Abs(c.value) > math.Abs(current.value)) {
			deduped[key] = scoredCandidate{debtCandidate: c, score: score}
		}
	}
	candidates = candidates[:0]
	for _, key := range dedupedOrder {
		candidates = append(candidates, deduped[key].debtCandidate)
	}

	// Tier 1: an explicit total line is authoritative.
	if total := pickBestDebtCandidate(candidates, isTotalDebt); total != nil {
		return utils.FloatPtr(total.value)
	}

	// Tier 2: best current plus best non-current, after collapsing the pair
	// by a coarser fingerprint (segment words stripped too) so the same
	// amount filed under both qualifiers is not summed twice.
	current := pickBestDebtCandidate(candidates, isCurrentDebt)
	nonCurrent := pickBestDebtCandidate(candidates, isNonCurrentDebt)

	var components []debtCandidate
	if current != nil {
		components = append(components, *current)
	}
	if nonCurrent != nil {
		components = append(components, *nonCurrent)
	}
	if len(components) > 0 {
		type scoredComponent struct {
			value float64
			score float64
		}
		unique := make(map[string]scoredComponent)
		for _, c := range components {
			core := stripQualifierWords(c.concept)
			if core == "" {
				core = "deuda"
			}
			key := fmt.Sprintf("%s|%.0f", core, math.Round(math.Abs(c.value)))
			score := debtCandidateScore(c.concept, c.value)
			existing, seen := unique[key]
			if !seen || score > existing.score ||
				(score == existing.score && math.Abs(c.value) > math.Abs(existing.value)) {
				unique[key] = scoredComponent{value: c.value, score: score}
			}
		}
		var sum float64
		for _, c := range unique {
			sum += c.value
		}
		return utils.FloatPtr(sum)
	}

	// Tier 3: fall back to the single best filtered candidate.
	if direct := pickBestDebtCandidate(candidates, nil); direct != nil {
		return utils.FloatPtr(direct.value)
	}
	return nil
}
