package normalize

import (
	"testing"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

func row(fechaCorte, periodo, concepto string, valor any, radicado, idPunto, punto, taxonomia, instancia string) models.StatementRow {
	return models.StatementRow{
		NIT:             "900123456",
		FechaCorte:      fechaCorte,
		Periodo:         periodo,
		Concepto:        concepto,
		Valor:           valor,
		NumeroRadicado:  radicado,
		IDPuntoEntrada:  idPunto,
		PuntoEntrada:    punto,
		IDTaxonomia:     taxonomia,
		CodigoInstancia: instancia,
	}
}

func TestStatementRowsPrefersSeparateInstance(t *testing.T) {
	// Same concept filed twice for 2024: once in the separate-statement
	// instance and once in the consolidated one. The separate value wins.
	rows := []models.StatementRow{
		row("2024-12-31", "Periodo Actual", "Ingresos de actividades ordinarias", "5798692",
			"R1", "50", "50 NIIF Pymes - Separado Grupo 2", "T1", "I1"),
		row("2024-12-31", "Periodo Actual", "Ingresos de actividades ordinarias", "5968003",
			"R2", "60", "60 NIIF Plenas - Consolidado Grupo 2", "T1", "I2"),
	}

	tables := StatementRows(rows)
	table := tables.Year(2024)
	if table == nil {
		t.Fatal("expected a 2024 table")
	}
	value, ok := table.Get("ingresos de actividades ordinarias")
	if !ok {
		t.Fatal("expected the revenue concept to be present")
	}
	if value != 5798692 {
		t.Errorf("expected 5798692 from the separate instance, got %v", value)
	}
}

func TestStatementRowsPeriodDedupe(t *testing.T) {
	// "Periodo Actual" beats the prior-period restatement of the same concept.
	rows := []models.StatementRow{
		row("2023-12-31", "Periodo Anterior", "Total pasivos", "800", "R1", "50", "Separado", "T1", "I1"),
		row("2023-12-31", "Periodo Actual", "Total pasivos", "900", "R1", "50", "Separado", "T1", "I1"),
	}

	table := StatementRows(rows).Year(2023)
	value, ok := table.Get("total pasivos")
	if !ok || value != 900 {
		t.Errorf("expected 900 from the current period, got %v (ok=%v)", value, ok)
	}
}

func TestStatementRowsEqualScoreKeepsLargerMagnitude(t *testing.T) {
	rows := []models.StatementRow{
		row("2023-12-31", "Periodo Actual", "Ingresos", "100", "R1", "50", "Separado", "T1", "I1"),
		row("2023-12-31", "Periodo Actual", "Ingresos", "-250", "R1", "50", "Separado", "T1", "I1"),
	}

	table := StatementRows(rows).Year(2023)
	value, _ := table.Get("ingresos")
	if value != -250 {
		t.Errorf("expected -250 (larger magnitude) to win, got %v", value)
	}
}

func TestStatementRowsKeepsUnkeyedRows(t *testing.T) {
	// Rows with no filing-instance identity must never be filtered out.
	rows := []models.StatementRow{
		row("2022-12-31", "Periodo Actual", "Ingresos", "1000", "R1", "50", "Separado", "T1", "I1"),
		row("2022-12-31", "", "Flujo de efectivo neto", "80", "", "", "", "", ""),
	}

	table := StatementRows(rows).Year(2022)
	if _, ok := table.Get("flujo de efectivo neto"); !ok {
		t.Error("unkeyed row should survive instance filtering")
	}
}

func TestStatementRowsSkipsUnusableRows(t *testing.T) {
	rows := []models.StatementRow{
		row("sin fecha", "Periodo Actual", "Ingresos", "1000", "", "", "", "", ""),
		row("2022-12-31", "Periodo Actual", "", "1000", "", "", "", "", ""),
		row("2022-12-31", "Periodo Actual", "Ingresos", "N/A", "", "", "", "", ""),
	}

	tables := StatementRows(rows)
	if len(tables) != 0 {
		t.Errorf("expected no usable years, got %d", len(tables))
	}
}

func TestStatementRowsConceptOrderFollowsArrival(t *testing.T) {
	rows := []models.StatementRow{
		row("2023-12-31", "", "Pasivos financieros", "100", "", "", "", "", ""),
		row("2023-12-31", "", "Obligaciones financieras", "200", "", "", "", "", ""),
		row("2023-12-31", "", "Pasivos financieros", "150", "", "", "", "", ""),
	}

	table := StatementRows(rows).Year(2023)
	concepts := table.Concepts()
	if len(concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %d", len(concepts))
	}
	if concepts[0] != "pasivos financieros" || concepts[1] != "obligaciones financieras" {
		t.Errorf("insertion order not preserved: %v", concepts)
	}
}

func TestSelectPreferredInstanceTieBreak(t *testing.T) {
	// Two identical instances for the same year must resolve to the
	// lexicographically greatest key.
	rows := []models.StatementRow{
		row("2024-12-31", "Periodo Actual", "Ingresos", "100", "A", "1", "Otro", "T", "X"),
		row("2024-12-31", "Periodo Actual", "Ingresos", "100", "B", "1", "Otro", "T", "X"),
	}

	preferred := selectPreferredInstanceByYear(rows)
	if preferred[2024] != "B|1|T|X" {
		t.Errorf("expected B|1|T|X, got %q", preferred[2024])
	}
}

func TestInstancePreferenceBonus(t *testing.T) {
	cases := []struct {
		label    string
		expected int
	}{
		{"50 NIIF Pymes - Separado Grupo 2", 1000},
		{"Estados Financieros Individuales", 1000},
		{"60 NIIF Plenas - Consolidado Grupo 2", -150},
		{"Otro punto de entrada", 80},
		{"", 80},
	}
	for _, tc := range cases {
		if got := instancePreferenceBonus(tc.label); got != tc.expected {
			t.Errorf("bonus(%q) expected %d, got %d", tc.label, tc.expected, got)
		}
	}
}

func TestSelectRecentYears(t *testing.T) {
	income := StatementTable{2024: NewConceptTable(), 2023: NewConceptTable()}
	balance := StatementTable{2022: NewConceptTable(), 2024: NewConceptTable()}
	cashflow := StatementTable{2019: NewConceptTable()}

	years := SelectRecentYears(income, balance, cashflow, 3)
	if len(years) != 3 {
		t.Fatalf("expected 3 years, got %d", len(years))
	}
	if years[0] != 2024 || years[1] != 2023 || years[2] != 2022 {
		t.Errorf("expected [2024 2023 2022], got %v", years)
	}
}

func TestSelectRecentYearsEmpty(t *testing.T) {
	years := SelectRecentYears(StatementTable{}, StatementTable{}, StatementTable{}, 7)
	if years != nil {
		t.Errorf("expected nil for no data, got %v", years)
	}
}
