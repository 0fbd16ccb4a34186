package attendance

import "math"

// SessionType classifies an attendance row by the kind of session it counts.
type SessionType string

const (
	SessionTypeTheory    SessionType = "TH"
	SessionTypePractical SessionType = "PR"
	SessionTypeTutorial  SessionType = "TU"
	SessionTypeExtra     SessionType = "ESH"
	SessionTypeUnknown   SessionType = ""
)

// UnknownStudent is the sentinel name used when no identity pattern matches.
const UnknownStudent = "Unknown"

// Row is one subject's attendance as recovered from a report table.
type Row struct {
	Subject    string      `json:"subject"`
	Type       SessionType `json:"type"`
	Present    int         `json:"present"`
	Total      int         `json:"total"`
	Percentage float64     `json:"percentage"`
}

// Overall summarizes attendance across all subjects in a report.
type Overall struct {
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Record is the normalized result of extracting one attendance report.
// Subjects keep the order they appeared in the source text.
type Record struct {
	StudentName string  `json:"student_name"`
	Subjects    []Row   `json:"subjects"`
	Overall     Overall `json:"overall"`
}

// EmptyRecord returns the sentinel record produced when extraction finds
// nothing usable. Subjects is empty but non-nil so callers can range over
// it without checks.
func EmptyRecord() Record {
	return Record{
		StudentName: UnknownStudent,
		Subjects:    []Row{},
		Overall:     Overall{},
	}
}

// IsEmpty reports whether the record carries no extracted data.
func (r Record) IsEmpty() bool {
	return r.StudentName == UnknownStudent && len(r.Subjects) == 0 &&
		r.Overall.Present == 0 && r.Overall.Total == 0
}

// Percentage computes present/total as a percentage rounded to two decimal
// places. A zero total yields 0, never NaN.
func Percentage(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*100*100) / 100
}

// DisplayName returns a human-readable label for the session type.
func (st SessionType) DisplayName() string {
	switch st {
	case SessionTypeTheory:
		return "Theory"
	case SessionTypePractical:
		return "Practical"
	case SessionTypeTutorial:
		return "Tutorial"
	case SessionTypeExtra:
		return "Extra Session Hours"
	default:
		return "Unknown"
	}
}

// IsValid checks if the session type is part of the known vocabulary.
func (st SessionType) IsValid() bool {
	switch st {
	case SessionTypeTheory, SessionTypePractical, SessionTypeTutorial, SessionTypeExtra:
		return true
	default:
		return false
	}
}

// AllSessionTypes returns the session type vocabulary in parse priority order.
func AllSessionTypes() []SessionType {
	return []SessionType{
		SessionTypeTheory,
		SessionTypePractical,
		SessionTypeTutorial,
		SessionTypeExtra,
	}
}
