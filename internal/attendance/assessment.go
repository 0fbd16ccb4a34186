package attendance

// Status buckets an attendance percentage against the usual academic
// thresholds.
type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Thresholds for status classification.
const (
	GoodThreshold    = 75.0
	WarningThreshold = 60.0
)

// StatusFor classifies a percentage: good at or above 75, warning at or
// above 60, critical below that.
func StatusFor(percentage float64) Status {
	switch {
	case percentage >= GoodThreshold:
		return StatusGood
	case percentage >= WarningThreshold:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// DisplayName returns a human-readable label for the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusGood:
		return "Good"
	case StatusWarning:
		return "Warning"
	case StatusCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// SubjectAssessment pairs one subject with its classified status.
type SubjectAssessment struct {
	Subject    string      `json:"subject"`
	Type       SessionType `json:"type"`
	Percentage float64     `json:"percentage"`
	Status     Status      `json:"status"`
}

// RecordAssessment classifies every subject of a record plus the overall
// summary.
type RecordAssessment struct {
	Subjects      []SubjectAssessment `json:"subjects"`
	OverallStatus Status              `json:"overall_status"`
}

// Assess classifies each subject and the overall percentage of a record.
// An empty record assesses to no subjects and a critical overall.
func Assess(rec Record) RecordAssessment {
	out := RecordAssessment{
		Subjects:      make([]SubjectAssessment, 0, len(rec.Subjects)),
		OverallStatus: StatusFor(rec.Overall.Percentage),
	}
	for _, row := range rec.Subjects {
		out.Subjects = append(out.Subjects, SubjectAssessment{
			Subject:    row.Subject,
			Type:       row.Type,
			Percentage: row.Percentage,
			Status:     StatusFor(row.Percentage),
		})
	}
	return out
}
