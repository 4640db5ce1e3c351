package normalize

import (
	"strconv"
	"strings"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

// A filing instance is one submitted statement document. Companies often have
// several competing instances per year (corrections, separate vs consolidated
// statements, taxonomy migrations); mixing them double-counts concepts, so
// exactly one instance is preferred per year.

// instanceKey derives the composite filing-instance identity of a row. Rows
// with all four identity fields blank get an empty key and are never excluded
// by instance preference.
func instanceKey(row models.StatementRow) string {
	parts := []string{
		strings.TrimSpace(row.NumeroRadicado),
		strings.TrimSpace(row.IDPuntoEntrada),
		strings.TrimSpace(row.IDTaxonomia),
		strings.TrimSpace(row.CodigoInstancia),
	}
	empty := true
	for _, p := range parts {
		if p != "" {
			empty = false
			break
		}
	}
	if empty {
		return ""
	}
	return strings.Join(parts, "|")
}

// instanceStats accumulates per-(year, instance) evidence of completeness.
type instanceStats struct {
	rowCount     int
	actualCount  int
	nonZeroCount int
	concepts     map[string]struct{}
	pointEntry   string
}

func extractYear(fechaCorte string) (int, bool) {
	if len(fechaCorte) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(fechaCorte[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

func isActualPeriod(periodo string, year int) bool {
	p := utils.NormalizeText(periodo)
	if p == "" {
		return false
	}
	if strings.Contains(p, "actual") {
		return true
	}
	if strings.Contains(p, strconv.Itoa(year)) && !strings.Contains(p, "anterior") {
		return true
	}
	return false
}

// instancePreferenceBonus rewards entry points that denote separate
// (standalone) statements and penalizes consolidated ones. Labels that say
// neither still score above consolidated.
func instancePreferenceBonus(pointEntry string) int {
	p := utils.NormalizeText(pointEntry)
	if strings.Contains(p, "separado") || strings.Contains(p, "individual") {
		return 1000
	}
	if strings.Contains(p, "consolidado") {
		return -150
	}
	return 80
}

// selectPreferredInstanceByYear scores every filing instance seen for each
// year and picks the winner. Score = 6·distinct concepts + 4·current-period
// rows + 2·non-zero rows + rows + entry-point bonus; ties go to the
// lexicographically greatest key so selection stays deterministic.
func selectPreferredInstanceByYear(rows []models.StatementRow) map[int]string {
	byYear := make(map[int]map[string]*instanceStats)

	for _, row := range rows {
		year, ok := extractYear(row.FechaCorte)
		if !ok {
			continue
		}

		key := instanceKey(row)
		if key == "" {
			continue
		}

		yearMap := byYear[year]
		if yearMap == nil {
			yearMap = make(map[string]*instanceStats)
			byYear[year] = yearMap
		}
		stat := yearMap[key]
		if stat == nil {
			stat = &instanceStats{
				concepts:   make(map[string]struct{}),
				pointEntry: utils.NormalizeText(row.PuntoEntrada),
			}
			yearMap[key] = stat
		}

		stat.rowCount++
		if isActualPeriod(row.Periodo, year) {
			stat.actualCount++
		}
		if value := utils.ParseAmount(row.Valor); value != nil && *value != 0 {
			stat.nonZeroCount++
		}
		if concept := utils.NormalizeText(row.Concepto); concept != "" {
			stat.concepts[concept] = struct{}{}
		}
	}

	preferred := make(map[int]string, len(byYear))
	for year, instanceMap := range byYear {
		bestKey := ""
		bestScore := 0
		haveBest := false
		for key, stat := range instanceMap {
			score := len(stat.concepts)*6 +
				stat.actualCount*4 +
				stat.nonZeroCount*2 +
				stat.rowCount +
				instancePreferenceBonus(stat.pointEntry)
			if !haveBest || score > bestScore || (score == bestScore && key > bestKey) {
				haveBest = true
				bestScore = score
				bestKey = key
			}
		}
		if bestKey != "" {
			preferred[year] = bestKey
		}
	}

	return preferred
}
