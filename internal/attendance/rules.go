package attendance

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet bundles the ordered patterns that drive report extraction.
// Pattern lists are evaluated in order with first match winning, so more
// specific shapes must come before looser ones.
type RuleSet struct {
	identity  []*regexp.Regexp
	headers   []*regexp.Regexp
	closing   []string
	aggregate []*regexp.Regexp
	types     []SessionType
	row       *regexp.Regexp
}

// ruleFile is the YAML shape accepted by LoadRuleSet. Sections left empty
// keep their defaults.
type ruleFile struct {
	IdentityPatterns  []string `yaml:"identity_patterns"`
	HeaderPatterns    []string `yaml:"header_patterns"`
	ClosingKeywords   []string `yaml:"closing_keywords"`
	AggregatePatterns []string `yaml:"aggregate_patterns"`
	SessionTypes      []string `yaml:"session_types"`
}

func defaultIdentityPatterns() []string {
	return []string{
		`Self Attendance Report\s*:\s*([^(]+)`,
		`Attendance Report\s*:\s*([^(]+)`,
		`Student\s*Name\s*:\s*([^(\n]+)`,
	}
}

func defaultHeaderPatterns() []string {
	return []string{
		`SrNo\s+Subject\s+Subject\s+Type\s+Present\s+Total`,
		`Sr\.?\s*No\.?\s+Subject\s+Type\s+Present\s+Total`,
		`Subject\s+Type\s+Present\s+Total`,
	}
}

func defaultClosingKeywords() []string {
	return []string{"Theory", "Practical", "Tutorial", "Total", "Note"}
}

func defaultAggregatePatterns() []string {
	return []string{
		`Total\s+(\d+)\s+(\d+)\s+([\d.]+)`,
		`Overall\s+(\d+)\s+(\d+)\s+([\d.]+)`,
	}
}

// DefaultRuleSet returns the rule set matching the report layouts produced
// by the common academic portals.
func DefaultRuleSet() *RuleSet {
	rs, err := compileRuleSet(ruleFile{
		IdentityPatterns:  defaultIdentityPatterns(),
		HeaderPatterns:    defaultHeaderPatterns(),
		ClosingKeywords:   defaultClosingKeywords(),
		AggregatePatterns: defaultAggregatePatterns(),
		SessionTypes:      sessionTypeStrings(AllSessionTypes()),
	})
	if err != nil {
		// Default patterns are compile-time constants; a failure here is a
		// programming error.
		panic(err)
	}
	return rs
}

// LoadRuleSet reads a YAML rule override file and returns the merged rule
// set. Sections missing from the file fall back to the defaults.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set file: %w", err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rule set file: %w", err)
	}

	if len(rf.IdentityPatterns) == 0 {
		rf.IdentityPatterns = defaultIdentityPatterns()
	}
	if len(rf.HeaderPatterns) == 0 {
		rf.HeaderPatterns = defaultHeaderPatterns()
	}
	if len(rf.ClosingKeywords) == 0 {
		rf.ClosingKeywords = defaultClosingKeywords()
	}
	if len(rf.AggregatePatterns) == 0 {
		rf.AggregatePatterns = defaultAggregatePatterns()
	}
	if len(rf.SessionTypes) == 0 {
		rf.SessionTypes = sessionTypeStrings(AllSessionTypes())
	}

	rs, err := compileRuleSet(rf)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// compileRuleSet compiles a ruleFile into a usable RuleSet. Identity,
// header and aggregate patterns match case-insensitively; session type
// codes match exactly as printed in reports.
func compileRuleSet(rf ruleFile) (*RuleSet, error) {
	rs := &RuleSet{}

	var err error
	if rs.identity, err = compilePatterns(rf.IdentityPatterns); err != nil {
		return nil, fmt.Errorf("identity pattern: %w", err)
	}
	if rs.headers, err = compilePatterns(rf.HeaderPatterns); err != nil {
		return nil, fmt.Errorf("header pattern: %w", err)
	}
	if rs.aggregate, err = compilePatterns(rf.AggregatePatterns); err != nil {
		return nil, fmt.Errorf("aggregate pattern: %w", err)
	}

	rs.closing = make([]string, 0, len(rf.ClosingKeywords))
	for _, kw := range rf.ClosingKeywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			rs.closing = append(rs.closing, strings.ToLower(kw))
		}
	}

	rs.types = make([]SessionType, 0, len(rf.SessionTypes))
	for _, t := range rf.SessionTypes {
		t = strings.TrimSpace(t)
		if t != "" {
			rs.types = append(rs.types, SessionType(t))
		}
	}
	if len(rs.types) == 0 {
		return nil, fmt.Errorf("session type vocabulary cannot be empty")
	}

	if rs.row, err = regexp.Compile(buildRowPattern(rs.types)); err != nil {
		return nil, fmt.Errorf("row pattern: %w", err)
	}

	return rs, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// buildRowPattern builds the structured row shape
// <serial> <subject> <type> <present> <total> <percentage> with the type
// group constrained to the configured vocabulary.
func buildRowPattern(types []SessionType) string {
	quoted := make([]string, 0, len(types))
	for _, t := range types {
		quoted = append(quoted, regexp.QuoteMeta(string(t)))
	}
	return `^(\d+)\s+(.+?)\s+(` + strings.Join(quoted, "|") + `)\s+(\d+)\s+(\d+)\s+([\d.]+)`
}

// isClosing reports whether the line begins a summary section, ending the
// row scan. Matching is a case-insensitive prefix check.
func (rs *RuleSet) isClosing(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range rs.closing {
		if strings.HasPrefix(lower, kw) {
			return true
		}
	}
	return false
}

// isSessionCode reports whether the token is part of the session type
// vocabulary. Codes are compared exactly as printed.
func (rs *RuleSet) isSessionCode(token string) bool {
	for _, t := range rs.types {
		if token == string(t) {
			return true
		}
	}
	return false
}

func sessionTypeStrings(types []SessionType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
