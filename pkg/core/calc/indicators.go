package calc

import (
	"sort"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/normalize"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

// ComputeYearSnapshot maps one year's normalized concept tables into the
// fixed statement schema and derives the indicator set. Every value is
// optional: a formula with a missing operand yields nil, and the nine
// required metrics that end up nil are listed in a single Spanish warning.
func ComputeYearSnapshot(year int, incomeConcepts, balanceConcepts, cashflowConcepts *normalize.ConceptTable) *models.YearFinancialSnapshot {
	var warnings []string

	ingresos := findPattern(incomeConcepts, config.IncomeConceptPatterns, "ingresos")
	utilidadNeta := findPattern(incomeConcepts, config.IncomeConceptPatterns, "utilidad_neta")
	ebit := findPattern(incomeConcepts, config.IncomeConceptPatterns, "ebit")

	depAmort := sumIfContains(incomeConcepts, config.DepAmortContains)

	var ebitda *float64
	if incomeConcepts != nil {
		if v, ok := incomeConcepts.Get("ebitda"); ok {
			ebitda = utils.FloatPtr(v)
		}
	}
	if ebitda == nil && ebit != nil {
		da := 0.0
		if depAmort != nil {
			da = *depAmort
		}
		ebitda = utils.FloatPtr(*ebit + da)
	}

	gastosOperacionales := sumIfContains(incomeConcepts, config.OperatingExpenseContains)
	if gastosOperacionales == nil {
		gastosOperacionales = findValue(incomeConcepts,
			[]string{"gastos operacionales"},
			[]string{"gastos operacionales"})
	}

	activosCorrientes := findPattern(balanceConcepts, config.BalanceConceptPatterns, "activos_corrientes")
	pasivosCorrientes := findPattern(balanceConcepts, config.BalanceConceptPatterns, "pasivos_corrientes")
	activosTotales := findPattern(balanceConcepts, config.BalanceConceptPatterns, "activos_totales")
	pasivosTotales := findPattern(balanceConcepts, config.BalanceConceptPatterns, "pasivos_totales")
	patrimonioTotal := findPattern(balanceConcepts, config.BalanceConceptPatterns, "patrimonio_total")
	gananciasAcumuladas := findPattern(balanceConcepts, config.BalanceConceptPatterns, "ganancias_acumuladas")

	flujoCaja := findPattern(cashflowConcepts, config.CashflowConceptPatterns, "flujo_caja")

	var capitalNetoTrabajo *float64
	if activosCorrientes != nil && pasivosCorrientes != nil {
		capitalNetoTrabajo = utils.FloatPtr(*activosCorrientes - *pasivosCorrientes)
	}

	var diasCapitalTrabajo *float64
	if capitalNetoTrabajo != nil && ingresos != nil && *ingresos != 0 {
		diasCapitalTrabajo = utils.FloatPtr((*capitalNetoTrabajo / *ingresos) * 365)
	}

	deuda := ResolveFinancialDebt(balanceConcepts)

	// Z'' de Altman (emisores no manufactureros / mercados emergentes):
	// Z'' = 6.56*X1 + 3.26*X2 + 6.72*X3 + 1.05*X4
	// X1 = capital de trabajo / activos totales
	// X2 = ganancias acumuladas / activos totales
	// X3 = EBIT / activos totales
	// X4 = patrimonio / pasivos totales
	x1 := safeDiv(capitalNetoTrabajo, activosTotales)
	x2 := safeDiv(gananciasAcumuladas, activosTotales)
	x3 := safeDiv(ebit, activosTotales)
	x4 := safeDiv(patrimonioTotal, pasivosTotales)

	var zAltman *float64
	if x1 != nil && x2 != nil && x3 != nil && x4 != nil {
		zAltman = utils.FloatPtr(6.56**x1 + 3.26**x2 + 6.72**x3 + 1.05**x4)
	}

	required := map[string]*float64{
		"ingresos":             ingresos,
		"utilidad_neta":        utilidadNeta,
		"ebitda":               ebitda,
		"gastos_operacionales": gastosOperacionales,
		"capital_neto_trabajo": capitalNetoTrabajo,
		"deuda":                deuda,
		"dias_capital_trabajo": diasCapitalTrabajo,
		"flujo_caja":           flujoCaja,
		"z_altman":             zAltman,
	}

	var missing []string
	for key, value := range required {
		if value == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		warnings = append(warnings, "Datos incompletos para: "+strings.Join(missing, ", "))
	}

	metrics := make(map[string]*float64, len(required)+1)
	for key, value := range required {
		metrics[key] = value
	}
	metrics["balance_general"] = activosTotales

	return &models.YearFinancialSnapshot{
		Year: year,
		IncomeStatement: map[string]*float64{
			"ingresos":             ingresos,
			"utilidad_neta":        utilidadNeta,
			"ebit":                 ebit,
			"ebitda":               ebitda,
			"gastos_operacionales": gastosOperacionales,
		},
		BalanceSheet: map[string]*float64{
			"activos_corrientes":   activosCorrientes,
			"pasivos_corrientes":   pasivosCorrientes,
			"activos_totales":      activosTotales,
			"pasivos_totales":      pasivosTotales,
			"patrimonio_total":     patrimonioTotal,
			"ganancias_acumuladas": gananciasAcumuladas,
		},
		CashFlow: map[string]*float64{
			"flujo_caja": flujoCaja,
		},
		Metrics:  metrics,
		Warnings: warnings,
	}
}

// ZAltmanZone classifies a Z'' score into the published risk zones.
func ZAltmanZone(zValue *float64) string {
	if zValue == nil {
		return "indeterminado"
	}
	switch {
	case *zValue > 2.6:
		return "solida"
	case *zValue >= 1.1:
		return "gris"
	default:
		return "riesgo"
	}
}
