// Package normalize turns raw, duplicated Socrata statement rows into clean
// year-by-concept tables with exactly one value per (year, concept) pair.
package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

// periodScore ranks competing rows for the same concept by how directly
// their period label refers to the filing year. "Periodo Actual" beats an
// explicit year mention, which beats an unlabeled row; "Periodo Anterior"
// rows lose to everything.
func periodScore(periodo string, year int) int {
	p := utils.NormalizeText(periodo)
	if p == "" {
		return 1
	}
	if strings.Contains(p, "actual") {
		return 3
	}
	if strings.Contains(p, "anterior") {
		return 0
	}
	if strings.Contains(p, strconv.Itoa(year)) {
		return 2
	}
	return 1
}

type conceptCandidate struct {
	score    int
	absValue float64
	value    float64
}

type yearConcept struct {
	year    int
	concept string
}

// StatementRows deduplicates raw rows into a {year: {concept: value}} table.
// Rows from superseded filing instances are dropped, and (year, concept)
// collisions resolve by period score, then by greater absolute value.
// Concept order inside each year follows the arrival order of the rows.
func StatementRows(rows []models.StatementRow) StatementTable {
	preferredByYear := selectPreferredInstanceByYear(rows)

	candidates := make(map[yearConcept]conceptCandidate)
	var order []yearConcept

	for _, row := range rows {
		year, ok := extractYear(row.FechaCorte)
		if !ok {
			continue
		}

		if preferred := preferredByYear[year]; preferred != "" {
			if rowInstance := instanceKey(row); rowInstance != "" && rowInstance != preferred {
				continue
			}
		}

		concept := utils.NormalizeText(row.Concepto)
		if concept == "" {
			continue
		}

		value := utils.ParseAmount(row.Valor)
		if value == nil {
			continue
		}

		score := periodScore(row.Periodo, year)
		key := yearConcept{year: year, concept: concept}

		current, seen := candidates[key]
		if !seen {
			candidates[key] = conceptCandidate{score: score, absValue: math.Abs(*value), value: *value}
			order = append(order, key)
			continue
		}
		if score > current.score || (score == current.score && math.Abs(*value) > current.absValue) {
			candidates[key] = conceptCandidate{score: score, absValue: math.Abs(*value), value: *value}
		}
	}

	result := make(StatementTable)
	for _, key := range order {
		table := result[key.year]
		if table == nil {
			table = NewConceptTable()
			result[key.year] = table
		}
		table.Set(key.concept, candidates[key].value)
	}

	return result
}

// SelectRecentYears unions the years present across the three statement
// tables and keeps the most recent lookback window, descending. An empty
// result means there is nothing usable to analyze.
func SelectRecentYears(incomeTable, balanceTable, cashflowTable StatementTable, lookbackYears int) []int {
	yearSet := make(map[int]struct{})
	for _, table := range []StatementTable{incomeTable, balanceTable, cashflowTable} {
		for year := range table {
			yearSet[year] = struct{}{}
		}
	}
	if len(yearSet) == 0 {
		return nil
	}

	years := make([]int, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	if lookbackYears > 0 && len(years) > lookbackYears {
		years = years[:lookbackYears]
	}
	return years
}
