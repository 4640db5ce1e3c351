package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var amountJunkRE = regexp.MustCompile(`[^0-9\-.]`)

// ParseAmount turns the loosely formatted numeric values found in filings
// into a float. It accepts native numbers and strings with currency symbols,
// thousands separators in either convention and parenthesized negatives.
// A nil result means "no value"; parsing never fails with an error.
func ParseAmount(raw any) *float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(v) {
			return nil
		}
		return FloatPtr(v)
	case float32:
		if math.IsNaN(float64(v)) {
			return nil
		}
		return FloatPtr(float64(v))
	case int:
		return FloatPtr(float64(v))
	case int64:
		return FloatPtr(float64(v))
	case string:
		return parseAmountString(v)
	default:
		return parseAmountString(fmt.Sprint(raw))
	}
}

func parseAmountString(raw string) *float64 {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = text[1 : len(text)-1]
	}

	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, "$", "")

	// "1.234,56" vs "1,234.56": with both separators present the one that
	// occurs last is the decimal mark; a lone comma acts as the decimal
	// point; repeated dots without a comma ("5.798.692") are thousands
	// grouping.
	lastComma := strings.LastIndex(text, ",")
	lastDot := strings.LastIndex(text, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		text = strings.ReplaceAll(text, ".", "")
		text = strings.Replace(text, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		text = strings.ReplaceAll(text, ",", "")
	case lastComma >= 0:
		text = strings.ReplaceAll(text, ",", ".")
	case strings.Count(text, ".") > 1:
		text = strings.ReplaceAll(text, ".", "")
	}

	text = amountJunkRE.ReplaceAllString(text, "")
	switch text {
	case "", "-", ".", "-.":
		return nil
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	if negative {
		value = -value
	}
	return FloatPtr(value)
}

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// FormatCurrency renders a COP amount without decimals, "N/D" when missing.
func FormatCurrency(value *float64) string {
	if value == nil {
		return "N/D"
	}
	return "COP " + groupThousands(*value, 0)
}

// FormatNumber renders a value with thousand separators, "N/D" when missing.
func FormatNumber(value *float64, decimals int) string {
	if value == nil {
		return "N/D"
	}
	return groupThousands(*value, decimals)
}

func groupThousands(value float64, decimals int) string {
	text := strconv.FormatFloat(value, 'f', decimals, 64)

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}

	intPart := text
	fracPart := ""
	if idx := strings.IndexByte(text, '.'); idx >= 0 {
		intPart, fracPart = text[:idx], text[idx:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return sign + strings.Join(groups, ",") + fracPart
}

// PctChange returns the percentage change from previous to current, or nil
// when either side is unusable (previous zero included).
func PctChange(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	return FloatPtr(((*current - *previous) / math.Abs(*previous)) * 100)
}
