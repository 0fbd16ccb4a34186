package attendance

import (
	"regexp"
	"strconv"
	"strings"
)

// columnSplit separates table columns rendered with runs of two or more
// whitespace characters.
var columnSplit = regexp.MustCompile(`\s{2,}`)

// parseRowStructured matches the single-pattern row shape
// <serial> <subject> <type> <present> <total> <percentage>. The printed
// percentage is discarded and recomputed from present/total.
func parseRowStructured(line string, rules *RuleSet) (Row, bool) {
	m := rules.row.FindStringSubmatch(line)
	if m == nil {
		return Row{}, false
	}

	present, errP := strconv.Atoi(m[4])
	total, errT := strconv.Atoi(m[5])
	if errP != nil || errT != nil || total <= 0 {
		return Row{}, false
	}

	return Row{
		Subject:    strings.TrimSpace(m[2]),
		Type:       SessionType(m[3]),
		Present:    present,
		Total:      total,
		Percentage: Percentage(present, total),
	}, true
}

// parseRowTokens recovers rows whose spacing or subject text breaks the
// structured pattern. Columns are split on 2+ whitespace runs, the type
// code is located by vocabulary scan, the tokens between the serial and
// the type code form the subject, and present/total are the next two
// digit-only tokens after the type code.
func parseRowTokens(line string, rules *RuleSet) (Row, bool) {
	fields := columnSplit.Split(strings.TrimSpace(line), -1)
	if len(fields) < 5 {
		return Row{}, false
	}

	typeIdx := -1
	for i, tok := range fields {
		if rules.isSessionCode(tok) {
			typeIdx = i
			break
		}
	}
	// The type code must leave room for a serial and a subject before it.
	if typeIdx < 1 {
		return Row{}, false
	}

	subject := strings.TrimSpace(strings.Join(fields[1:typeIdx], " "))
	if subject == "" {
		return Row{}, false
	}

	present, total := -1, -1
	for _, tok := range fields[typeIdx+1:] {
		if !isDigits(tok) {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return Row{}, false
		}
		if present < 0 {
			present = n
			continue
		}
		total = n
		break
	}
	if present < 0 || total <= 0 {
		return Row{}, false
	}

	return Row{
		Subject:    subject,
		Type:       SessionType(fields[typeIdx]),
		Present:    present,
		Total:      total,
		Percentage: Percentage(present, total),
	}, true
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
