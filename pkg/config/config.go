// Package config holds application-wide constants: service endpoints, the
// Socrata dataset registry and the concept-pattern tables used to map NIIF
// statement rows into normalized indicators.
package config

const (
	AppName       = "Analista Financiero (Supersociedades)"
	AppFolderName = "AnalistaFinancieroSupersociedades"
	AppVersion    = "1.0.0"

	SuperwasBaseURL  = "https://superwas.supersociedades.gov.co/ConsultaGeneralSociedadesWeb"
	SuperwasQueryURL = SuperwasBaseURL + "/ConsultaGeneral"

	SocrataBaseURL = "https://www.datos.gov.co/resource"

	UserAgent = "AnalistaFinancieroSupersociedades/1.0 (+https://www.supersociedades.gov.co/)"

	DefaultHTTPTimeoutSeconds = 35
	DefaultLookbackYears      = 7
	MaxSearchResults          = 50
)

// Statement categories, used as dataset keys and cache keys.
const (
	StatementBalance  = "balance"
	StatementIncome   = "income"
	StatementCashflow = "cashflow"
)

// SocrataDatasets maps each statement category to its datos.gov.co dataset.
var SocrataDatasets = map[string]string{
	StatementBalance:  "pfdp-zks5",
	StatementIncome:   "prwj-nzxa",
	StatementCashflow: "ctcp-462n",
}

// StatementCategories lists the categories in their canonical order.
var StatementCategories = []string{StatementIncome, StatementBalance, StatementCashflow}

// MetricLabels maps metric keys to their user-facing Spanish labels.
var MetricLabels = map[string]string{
	"ingresos":              "Ingresos",
	"utilidad_neta":         "Utilidad neta",
	"ebitda":                "EBITDA",
	"gastos_operacionales":  "Gastos operacionales",
	"capital_neto_trabajo":  "Capital neto de trabajo",
	"deuda":                 "Deuda",
	"dias_capital_trabajo":  "Dias de capital de trabajo",
	"balance_general":       "Balance general (Activos/Pasivos/Patrimonio)",
	"flujo_caja":            "Flujo de caja neto",
	"z_altman":              "Z-Altman",
}

// DefaultMetrics is the required indicator set, in presentation order.
var DefaultMetrics = []string{
	"ingresos",
	"utilidad_neta",
	"ebitda",
	"gastos_operacionales",
	"capital_neto_trabajo",
	"deuda",
	"dias_capital_trabajo",
	"flujo_caja",
	"z_altman",
}

// ConceptPatterns holds the keyword variants used to locate one indicator in
// a normalized concept table. Exact variants are checked first, in order,
// then substring variants.
type ConceptPatterns struct {
	Exact    []string
	Contains []string
}

// BalanceConceptPatterns maps balance-sheet fields to their NIIF wording.
var BalanceConceptPatterns = map[string]ConceptPatterns{
	"activos_corrientes": {
		Exact:    []string{"activos corrientes totales", "total activos corrientes"},
		Contains: []string{"activos corrientes"},
	},
	"pasivos_corrientes": {
		Exact:    []string{"pasivos corrientes totales", "total de pasivos corrientes"},
		Contains: []string{"pasivos corrientes"},
	},
	"activos_totales": {
		Exact:    []string{"total de activos", "activos totales"},
		Contains: []string{"total de activos"},
	},
	"pasivos_totales": {
		Exact:    []string{"total pasivos", "pasivos totales"},
		Contains: []string{"total pasivos"},
	},
	"patrimonio_total": {
		Exact:    []string{"patrimonio total", "total patrimonio"},
		Contains: []string{"patrimonio total", "total patrimonio"},
	},
	"ganancias_acumuladas": {
		Exact:    []string{"ganancias acumuladas", "utilidades retenidas"},
		Contains: []string{"ganancias acumuladas", "utilidades retenidas", "resultados acumulados"},
	},
}

// IncomeConceptPatterns maps income-statement fields to their NIIF wording.
var IncomeConceptPatterns = map[string]ConceptPatterns{
	"ingresos": {
		Exact:    []string{"ingresos de actividades ordinarias", "ingresos operacionales"},
		Contains: []string{"ingresos de actividades ordinarias", "ingresos operacionales", "ingresos"},
	},
	"utilidad_neta": {
		Exact:    []string{"ganancia (perdida)", "utilidad neta"},
		Contains: []string{"ganancia (perdida)", "utilidad neta", "resultado del periodo"},
	},
	"ebit": {
		Exact: []string{
			"ganancia (perdida) por actividades de operacion",
			"utilidad operacional",
			"resultado operacional",
		},
		Contains: []string{"actividades de operacion", "utilidad operacional", "resultado operacional"},
	},
}

// CashflowConceptPatterns maps cash-flow fields to their NIIF wording.
var CashflowConceptPatterns = map[string]ConceptPatterns{
	"flujo_caja": {
		Exact: []string{
			"incremento (disminucion) neto en el efectivo y equivalentes al efectivo",
			"flujo de efectivo neto",
		},
		Contains: []string{"neto", "efectivo"},
	},
}

// DepAmortContains feeds the aggregate depreciation/amortization bucket.
var DepAmortContains = []string{
	"depreciacion",
	"amortizacion",
}

// OperatingExpenseContains feeds the aggregate operating-expense bucket.
var OperatingExpenseContains = []string{
	"gastos de administracion",
	"gastos de ventas",
	"gastos operacionales",
	"gastos de distribucion",
}
