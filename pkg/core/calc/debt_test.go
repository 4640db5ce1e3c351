package calc

import (
	"testing"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/normalize"
)

func debtTable(pairs map[string]float64, order []string) *normalize.ConceptTable {
	table := normalize.NewConceptTable()
	for _, concept := range order {
		table.Set(concept, pairs[concept])
	}
	return table
}

func TestResolveFinancialDebtExplicitTotal(t *testing.T) {
	table := debtTable(map[string]float64{
		"obligaciones financieras corrientes":    250,
		"obligaciones financieras no corrientes": 350,
		"total obligaciones financieras":         610,
	}, []string{
		"obligaciones financieras corrientes",
		"obligaciones financieras no corrientes",
		"total obligaciones financieras",
	})

	got := ResolveFinancialDebt(table)
	if got == nil || *got != 610 {
		t.Errorf("expected explicit total 610, got %v", got)
	}
}

func TestResolveFinancialDebtComponentSum(t *testing.T) {
	table := debtTable(map[string]float64{
		"pasivos financieros corrientes":    120,
		"pasivos financieros no corrientes": 480,
	}, []string{
		"pasivos financieros corrientes",
		"pasivos financieros no corrientes",
	})

	got := ResolveFinancialDebt(table)
	if got == nil || *got != 600 {
		t.Errorf("expected 120+480=600, got %v", got)
	}
}

func TestResolveFinancialDebtDuplicateComponentNotDoubleCounted(t *testing.T) {
	// The same amount filed under both qualifiers is one fact, not two.
	table := debtTable(map[string]float64{
		"obligaciones financieras corrientes":    500,
		"obligaciones financieras no corrientes": 500,
	}, []string{
		"obligaciones financieras corrientes",
		"obligaciones financieras no corrientes",
	})

	got := ResolveFinancialDebt(table)
	if got == nil || *got != 500 {
		t.Errorf("expected collapsed 500, got %v", got)
	}
}

func TestResolveFinancialDebtSingleCandidate(t *testing.T) {
	table := debtTable(map[string]float64{
		"prestamos bancarios": 900,
	}, []string{"prestamos bancarios"})

	got := ResolveFinancialDebt(table)
	if got == nil || *got != 900 {
		t.Errorf("expected fallback 900, got %v", got)
	}
}

func TestResolveFinancialDebtExcludesTradeAndTax(t *testing.T) {
	table := debtTable(map[string]float64{
		"cuentas por pagar comerciales y otras cuentas por pagar": 700,
		"pasivos por impuestos corrientes":                        300,
		"prestamos a proveedores":                                 400,
		"patrimonio total":                                        1100,
	}, []string{
		"cuentas por pagar comerciales y otras cuentas por pagar",
		"pasivos por impuestos corrientes",
		"prestamos a proveedores",
		"patrimonio total",
	})

	if got := ResolveFinancialDebt(table); got != nil {
		t.Errorf("expected nil (no financial debt lines), got %v", *got)
	}
}

func TestResolveFinancialDebtNilTable(t *testing.T) {
	if got := ResolveFinancialDebt(nil); got != nil {
		t.Errorf("expected nil for nil table, got %v", *got)
	}
}

func TestDebtSegmentClassification(t *testing.T) {
	cases := []struct {
		concept  string
		expected string
	}{
		{"deuda total", "total"},
		{"total pasivos financieros", "total"},
		{"obligaciones financieras corrientes", "current"},
		{"prestamos a corto plazo", "current"},
		{"obligaciones financieras no corrientes", "non_current"},
		{"deuda a largo plazo", "non_current"},
		{"prestamos bancarios", "other"},
	}
	for _, tc := range cases {
		if got := debtSegment(tc.concept); got != tc.expected {
			t.Errorf("debtSegment(%q) expected %q, got %q", tc.concept, tc.expected, got)
		}
	}
}

func TestDebtScoreTiersDominateMagnitude(t *testing.T) {
	// A huge component must not outrank an explicit total line.
	totalScore := debtCandidateScore("deuda total", 100)
	componentScore := debtCandidateScore("obligaciones financieras corrientes", 1e12)
	if totalScore <= componentScore {
		t.Errorf("total tier (%v) should beat component tier (%v)", totalScore, componentScore)
	}
}
