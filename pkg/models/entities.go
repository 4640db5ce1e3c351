package models

import (
	"fmt"
	"sort"
	"time"
)

// CompanyRecord is one company as listed by the Supersociedades portal.
type CompanyRecord struct {
	NIT            string `json:"nit"`
	RazonSocial    string `json:"razon_social"`
	Estado         string `json:"estado,omitempty"`
	EtapaSituacion string `json:"etapa_situacion,omitempty"`
	Dependencia    string `json:"dependencia,omitempty"`
	Expediente     string `json:"expediente,omitempty"`
}

// DisplayLabel returns the company name with its NIT, as shown to users.
func (c CompanyRecord) DisplayLabel() string {
	return fmt.Sprintf("%s (NIT %s)", c.RazonSocial, c.NIT)
}

// StatementRow is one filed fact from a Socrata financial-statement dataset.
// Valor stays loosely typed: the datasets return strings, but numeric values
// show up in practice when rows come from local fixtures or the cache.
type StatementRow struct {
	NIT             string `json:"nit"`
	FechaCorte      string `json:"fecha_corte"`
	Periodo         string `json:"periodo"`
	Concepto        string `json:"concepto"`
	Valor           any    `json:"valor"`
	NumeroRadicado  string `json:"numero_radicado"`
	IDPuntoEntrada  string `json:"id_punto_entrada"`
	PuntoEntrada    string `json:"punto_entrada"`
	IDTaxonomia     string `json:"id_taxonomia"`
	CodigoInstancia string `json:"codigo_instancia"`
}

// YearFinancialSnapshot holds the normalized statements and computed metrics
// for one fiscal year. Missing values are nil, never zero.
type YearFinancialSnapshot struct {
	Year            int                 `json:"year"`
	IncomeStatement map[string]*float64 `json:"income_statement"`
	BalanceSheet    map[string]*float64 `json:"balance_sheet"`
	CashFlow        map[string]*float64 `json:"cash_flow"`
	Metrics         map[string]*float64 `json:"metrics"`
	Warnings        []string            `json:"warnings"`
}

// AnalysisPackage is the full result of analyzing one company.
type AnalysisPackage struct {
	ID          string                         `json:"id"`
	Company     CompanyRecord                  `json:"company"`
	Years       []int                          `json:"years"`
	Snapshots   map[int]*YearFinancialSnapshot `json:"snapshots"`
	GeneratedAt time.Time                      `json:"generated_at"`
}

// MetricSeries returns the metric values per year, keyed by year.
func (p *AnalysisPackage) MetricSeries(metricKey string) map[int]*float64 {
	series := make(map[int]*float64, len(p.Years))
	for _, year := range p.Years {
		if snap, ok := p.Snapshots[year]; ok {
			series[year] = snap.Metrics[metricKey]
		}
	}
	return series
}

// AllWarnings flattens per-year warnings into "year: message" strings.
func (p *AnalysisPackage) AllWarnings() []string {
	years := append([]int(nil), p.Years...)
	sort.Ints(years)

	var warnings []string
	for _, year := range years {
		snap, ok := p.Snapshots[year]
		if !ok {
			continue
		}
		for _, w := range snap.Warnings {
			warnings = append(warnings, fmt.Sprintf("%d: %s", year, w))
		}
	}
	return warnings
}

// MetricExplanation is the user-facing context for one metric.
type MetricExplanation struct {
	WhatIs            string `json:"what_is"`
	Interpretation    string `json:"interpretation"`
	Signals           string `json:"signals"`
	BusinessQuestions string `json:"business_questions"`
}
