package attendance

import (
	"strconv"
	"strings"
)

// Extractor turns raw attendance report text into a normalized Record.
// It holds no mutable state, so a single instance is safe for concurrent
// use and repeated extraction of the same text yields identical records.
type Extractor struct {
	rules *RuleSet
}

// NewExtractor creates an extractor with the default rule set.
func NewExtractor() *Extractor {
	return &Extractor{rules: DefaultRuleSet()}
}

// NewExtractorWithRules creates an extractor with a custom rule set. A nil
// rule set falls back to the defaults.
func NewExtractorWithRules(rules *RuleSet) *Extractor {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &Extractor{rules: rules}
}

// Extract parses raw report text into a Record. It never fails outward:
// empty, unparsable or structurally broken input produces the sentinel
// empty record so downstream consumers always receive a usable value.
func (e *Extractor) Extract(raw string) (rec Record) {
	// Recover from panics so extraction always yields a usable record.
	defer func() {
		if r := recover(); r != nil {
			rec = EmptyRecord()
		}
	}()

	rec = EmptyRecord()
	if strings.TrimSpace(raw) == "" {
		return rec
	}

	rec.StudentName = e.extractStudentName(raw)

	lines := strings.Split(raw, "\n")
	rec.Subjects = e.scanRows(lines, e.locateDataStart(lines))
	rec.Overall = e.extractOverall(raw, rec.Subjects)

	return rec
}

// extractStudentName applies the identity patterns in order, first match
// wins. Each pattern captures the name segment up to the first '(', where
// reports append semester metadata.
func (e *Extractor) extractStudentName(text string) string {
	for _, re := range e.rules.identity {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	return UnknownStudent
}

// locateDataStart finds the first line after the table header. Header
// patterns are tried in priority order, short-circuiting on the first one
// that matches anywhere. Without a header the whole text is scanned.
func (e *Extractor) locateDataStart(lines []string) int {
	for _, re := range e.rules.headers {
		for i, line := range lines {
			if re.MatchString(line) {
				return i + 1
			}
		}
	}
	return 0
}

// scanRows collects subject rows from the data region until a closing
// keyword ends the table. Each line is tried against the structured tier
// first and the token tier second; lines neither tier accepts are skipped.
func (e *Extractor) scanRows(lines []string, start int) []Row {
	rows := make([]Row, 0)
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if e.rules.isClosing(line) {
			break
		}

		if row, ok := parseRowStructured(line, e.rules); ok {
			rows = append(rows, row)
			continue
		}
		if row, ok := parseRowTokens(line, e.rules); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// extractOverall resolves the aggregate summary. An explicit totals line
// supplies present/total verbatim, otherwise the accepted rows are summed.
// The percentage is always recomputed, never read from the source text.
func (e *Extractor) extractOverall(text string, rows []Row) Overall {
	for _, re := range e.rules.aggregate {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		present, errP := strconv.Atoi(m[1])
		total, errT := strconv.Atoi(m[2])
		if errP != nil || errT != nil {
			continue
		}
		return Overall{
			Present:    present,
			Total:      total,
			Percentage: Percentage(present, total),
		}
	}

	var present, total int
	for _, row := range rows {
		present += row.Present
		total += row.Total
	}
	return Overall{
		Present:    present,
		Total:      total,
		Percentage: Percentage(present, total),
	}
}
