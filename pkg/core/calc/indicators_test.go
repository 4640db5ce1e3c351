package calc

import (
	"math"
	"testing"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/normalize"
)

func tableFrom(pairs [][2]any) *normalize.ConceptTable {
	table := normalize.NewConceptTable()
	for _, pair := range pairs {
		table.Set(pair[0].(string), float64(pair[1].(int)))
	}
	return table
}

func fullIncomeTable() *normalize.ConceptTable {
	return tableFrom([][2]any{
		{"ingresos de actividades ordinarias", 1000},
		{"ganancia (perdida)", 120},
		{"ganancia (perdida) por actividades de operacion", 200},
		{"gastos de administracion", 150},
		{"gastos de ventas", 50},
		{"depreciacion propiedades planta y equipo", 30},
		{"amortizacion de intangibles", 20},
	})
}

func fullBalanceTable() *normalize.ConceptTable {
	return tableFrom([][2]any{
		{"activos corrientes totales", 600},
		{"pasivos corrientes totales", 300},
		{"total de activos", 2000},
		{"total pasivos", 900},
		{"obligaciones financieras corrientes", 250},
		{"obligaciones financieras no corrientes", 350},
		{"patrimonio total", 1100},
		{"ganancias acumuladas", 500},
	})
}

func fullCashflowTable() *normalize.ConceptTable {
	return tableFrom([][2]any{
		{"incremento (disminucion) neto en el efectivo y equivalentes al efectivo", 80},
	})
}

func checkMetric(t *testing.T, snap map[string]*float64, key string, expected float64) {
	t.Helper()
	value := snap[key]
	if value == nil {
		t.Errorf("%s expected %v, got nil", key, expected)
		return
	}
	if math.Abs(*value-expected) > 0.0001 {
		t.Errorf("%s expected %v, got %v", key, expected, *value)
	}
}

func TestComputeYearSnapshotCompleteStatements(t *testing.T) {
	snap := ComputeYearSnapshot(2024, fullIncomeTable(), fullBalanceTable(), fullCashflowTable())

	checkMetric(t, snap.Metrics, "ingresos", 1000)
	checkMetric(t, snap.Metrics, "utilidad_neta", 120)
	// EBITDA = EBIT 200 + depreciation 30 + amortization 20
	checkMetric(t, snap.Metrics, "ebitda", 250)
	// Admin 150 + sales 50
	checkMetric(t, snap.Metrics, "gastos_operacionales", 200)
	// 600 - 300
	checkMetric(t, snap.Metrics, "capital_neto_trabajo", 300)
	// Current 250 + non-current 350, no explicit total present
	checkMetric(t, snap.Metrics, "deuda", 600)
	// 300 / 1000 * 365
	checkMetric(t, snap.Metrics, "dias_capital_trabajo", 109.5)
	checkMetric(t, snap.Metrics, "flujo_caja", 80)

	// Z'' = 6.56*(300/2000) + 3.26*(500/2000) + 6.72*(200/2000) + 1.05*(1100/900)
	z := snap.Metrics["z_altman"]
	if z == nil {
		t.Fatal("z_altman expected non-nil")
	}
	expectedZ := 6.56*0.15 + 3.26*0.25 + 6.72*0.10 + 1.05*(1100.0/900.0)
	if math.Abs(*z-expectedZ) > 0.0001 {
		t.Errorf("z_altman expected %v, got %v", expectedZ, *z)
	}

	if len(snap.Warnings) != 0 {
		t.Errorf("expected zero warnings, got %v", snap.Warnings)
	}
}

func TestComputeYearSnapshotExplicitTotalDebtWins(t *testing.T) {
	balance := fullBalanceTable()
	balance.Set("deuda total", 510)

	snap := ComputeYearSnapshot(2024, fullIncomeTable(), balance, fullCashflowTable())
	checkMetric(t, snap.Metrics, "deuda", 510)
	if len(snap.Warnings) != 0 {
		t.Errorf("expected zero warnings, got %v", snap.Warnings)
	}
}

func TestComputeYearSnapshotMissingIndicatorsWarning(t *testing.T) {
	income := tableFrom([][2]any{
		{"ingresos de actividades ordinarias", 1000},
	})

	snap := ComputeYearSnapshot(2023, income, nil, nil)
	if len(snap.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", snap.Warnings)
	}
	// All missing indicators listed once, alphabetically.
	expected := "Datos incompletos para: capital_neto_trabajo, deuda, dias_capital_trabajo, " +
		"ebitda, flujo_caja, gastos_operacionales, utilidad_neta, z_altman"
	if snap.Warnings[0] != expected {
		t.Errorf("warning mismatch:\n  expected %q\n  got      %q", expected, snap.Warnings[0])
	}
	if snap.Metrics["ingresos"] == nil || *snap.Metrics["ingresos"] != 1000 {
		t.Error("revenue should still be reported")
	}
}

func TestComputeYearSnapshotDirectEBITDA(t *testing.T) {
	income := tableFrom([][2]any{
		{"ingresos operacionales", 1000},
		{"ebitda", 300},
	})
	snap := ComputeYearSnapshot(2022, income, nil, nil)
	checkMetric(t, snap.Metrics, "ebitda", 300)
}

func TestZAltmanZone(t *testing.T) {
	cases := []struct {
		value    *float64
		expected string
	}{
		{ptr(3.1), "solida"},
		{ptr(1.5), "gris"},
		{ptr(1.1), "gris"},
		{ptr(0.9), "riesgo"},
		{nil, "indeterminado"},
	}
	for _, tc := range cases {
		if got := ZAltmanZone(tc.value); got != tc.expected {
			t.Errorf("ZAltmanZone(%v) expected %q, got %q", tc.value, tc.expected, got)
		}
	}
}

func ptr(v float64) *float64 { return &v }
