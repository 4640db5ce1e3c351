// Package explain produces the user-facing, Spanish-language context for
// each metric: what it is, how the latest value reads, and which business
// questions it should trigger.
package explain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/calc"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

type metricContext struct {
	what string
	good string
	bad  string
}

var metricContexts = map[string]metricContext{
	"ingresos": {
		what: "Los ingresos representan las ventas o entradas de dinero por la actividad principal de la empresa.",
		good: "crecimiento sostenido",
		bad:  "caida prolongada",
	},
	"utilidad_neta": {
		what: "La utilidad neta es la ganancia final despues de costos, gastos, intereses e impuestos.",
		good: "utilidad positiva y creciente",
		bad:  "perdidas recurrentes",
	},
	"ebitda": {
		what: "El EBITDA aproxima la generacion operativa de caja antes de depreciaciones, amortizaciones, intereses e impuestos.",
		good: "margen operativo robusto",
		bad:  "EBITDA debil o negativo",
	},
	"gastos_operacionales": {
		what: "Los gastos operacionales son los costos de administracion, ventas y operacion diaria.",
		good: "control de gastos frente a ingresos",
		bad:  "gastos creciendo mas rapido que ventas",
	},
	"capital_neto_trabajo": {
		what: "El capital neto de trabajo mide liquidez de corto plazo: activos corrientes menos pasivos corrientes.",
		good: "capital de trabajo positivo",
		bad:  "capital de trabajo negativo",
	},
	"deuda": {
		what: "La deuda refleja obligaciones financieras y de terceros que la empresa debe cubrir.",
		good: "apalancamiento manejable",
		bad:  "deuda alta sin crecimiento en utilidades",
	},
	"dias_capital_trabajo": {
		what: "Los dias de capital de trabajo estiman cuantos dias de ventas estan inmovilizados en el ciclo operativo.",
		good: "menor necesidad de caja por venta",
		bad:  "ciclo de efectivo lento",
	},
	"flujo_caja": {
		what: "El flujo de caja neto muestra si el efectivo total de la empresa aumenta o disminuye en el periodo.",
		good: "flujo neto positivo y estable",
		bad:  "consumo de caja persistente",
	},
	"z_altman": {
		what: "Z-Altman resume riesgo financiero combinando rentabilidad, liquidez, acumulacion de utilidades y apalancamiento.",
		good: "zona solida",
		bad:  "zona de riesgo",
	},
	"balance_general": {
		what: "El balance general muestra la estructura de activos, pasivos y patrimonio de la empresa en una fecha de corte.",
		good: "patrimonio sano y activos suficientes",
		bad:  "pasivos desproporcionados",
	},
}

// higherIsBetter flags whether an upward trend is desirable per metric.
var higherIsBetter = map[string]bool{
	"ingresos":             true,
	"utilidad_neta":        true,
	"ebitda":               true,
	"gastos_operacionales": false,
	"capital_neto_trabajo": true,
	"deuda":                false,
	"dias_capital_trabajo": false,
	"flujo_caja":           true,
	"z_altman":             true,
	"balance_general":      true,
}

var businessQuestions = map[string]string{
	"ingresos":             "¿El crecimiento proviene de volumen, precio o nuevas lineas de negocio?",
	"utilidad_neta":        "¿Que rubros estan presionando el resultado final: costos, gastos o impuestos?",
	"ebitda":               "¿La operacion mejora sin depender de efectos no recurrentes?",
	"gastos_operacionales": "¿Que componentes del gasto tienen mayor peso y como se pueden optimizar?",
	"capital_neto_trabajo": "¿La empresa esta financiando capital de trabajo con deuda de corto plazo?",
	"deuda":                "¿El nivel de endeudamiento es sostenible con el flujo de caja esperado?",
	"dias_capital_trabajo": "¿Como acelerar cartera e inventarios sin afectar ventas?",
	"flujo_caja":           "¿Las utilidades contables se convierten en caja real?",
	"z_altman":             "¿Que palancas (rentabilidad, liquidez, patrimonio) pueden mover rapidamente la puntuacion?",
	"balance_general":      "¿La estructura de activos y pasivos soporta el plan de crecimiento?",
}

func trendSummary(valuesByYear map[int]*float64, metricKey string) string {
	years := make([]int, 0, len(valuesByYear))
	for year := range valuesByYear {
		years = append(years, year)
	}
	sort.Ints(years)

	var present []*float64
	var presentYears []int
	for _, year := range years {
		if v := valuesByYear[year]; v != nil {
			present = append(present, v)
			presentYears = append(presentYears, year)
		}
	}
	if len(present) < 2 {
		return "No hay suficientes datos para calcular tendencia."
	}

	variation := utils.PctChange(present[len(present)-1], present[0])
	if variation == nil {
		return "No hay suficientes datos para calcular tendencia."
	}

	desirableUp := true
	if v, ok := higherIsBetter[metricKey]; ok {
		desirableUp = v
	}
	signal := "de cuidado"
	if (*variation >= 0) == desirableUp {
		signal = "favorable"
	}

	return fmt.Sprintf("Tendencia %s: cambio acumulado de %s%% entre %d y %d.",
		signal, utils.FormatNumber(variation, 1), presentYears[0], presentYears[len(presentYears)-1])
}

// BuildMetricExplanation assembles the explanation for one metric from its
// per-year series.
func BuildMetricExplanation(metricKey string, valuesByYear map[int]*float64) models.MetricExplanation {
	context, ok := metricContexts[metricKey]
	if !ok {
		context = metricContexts["ingresos"]
	}

	latestYear := 0
	for year := range valuesByYear {
		if year > latestYear {
			latestYear = year
		}
	}
	var latestValue *float64
	if latestYear > 0 {
		latestValue = valuesByYear[latestYear]
	}

	var latestText string
	if metricKey == "dias_capital_trabajo" || metricKey == "z_altman" {
		latestText = fmt.Sprintf("Ultimo valor (%d): %s", latestYear, utils.FormatNumber(latestValue, 2))
	} else {
		latestText = fmt.Sprintf("Ultimo valor (%d): %s", latestYear, utils.FormatCurrency(latestValue))
	}

	var interpretation string
	switch metricKey {
	case "z_altman":
		zone := calc.ZAltmanZone(latestValue)
		interpretation = fmt.Sprintf("%s. Zona estimada: %s. Valores altos suelen implicar menor riesgo de tension financiera.", latestText, zone)
	case "dias_capital_trabajo":
		interpretation = fmt.Sprintf("%s. Menos dias suele significar un ciclo de caja mas eficiente.", latestText)
	default:
		interpretation = fmt.Sprintf("%s. %s", latestText, trendSummary(valuesByYear, metricKey))
	}

	question, ok := businessQuestions[metricKey]
	if !ok {
		question = "¿Que decisiones estrategicas respalda este indicador?"
	}

	return models.MetricExplanation{
		WhatIs:            context.what,
		Interpretation:    interpretation,
		Signals:           fmt.Sprintf("Positivo: %s. Negativo: %s.", context.good, context.bad),
		BusinessQuestions: question,
	}
}

// BuildExplanations builds the explanation set for the given metric keys.
func BuildExplanations(pkg *models.AnalysisPackage, metricKeys []string) map[string]models.MetricExplanation {
	explanations := make(map[string]models.MetricExplanation, len(metricKeys))
	for _, metricKey := range metricKeys {
		explanations[metricKey] = BuildMetricExplanation(metricKey, pkg.MetricSeries(metricKey))
	}
	return explanations
}

// RenderMarkdownReport renders the analysis as a markdown document, used by
// the API to serve an HTML summary.
func RenderMarkdownReport(pkg *models.AnalysisPackage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", pkg.Company.DisplayLabel())
	fmt.Fprintf(&b, "Analisis financiero generado el %s.\n\n", pkg.GeneratedAt.Format("2006-01-02"))

	explanations := BuildExplanations(pkg, config.DefaultMetrics)
	for _, metricKey := range config.DefaultMetrics {
		label, ok := config.MetricLabels[metricKey]
		if !ok {
			label = metricKey
		}
		explanation := explanations[metricKey]

		fmt.Fprintf(&b, "## %s\n\n", label)
		fmt.Fprintf(&b, "%s\n\n", explanation.WhatIs)
		fmt.Fprintf(&b, "- %s\n", explanation.Interpretation)
		fmt.Fprintf(&b, "- %s\n", explanation.Signals)
		fmt.Fprintf(&b, "- Pregunta clave: %s\n\n", explanation.BusinessQuestions)
	}

	if warnings := pkg.AllWarnings(); len(warnings) > 0 {
		b.WriteString("## Advertencias\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
