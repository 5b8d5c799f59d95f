package records

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is a persisted grade for one student in one subject.
// At most one row exists per (student, subject) pair.
type Result struct {
	ID            string          `json:"id"`
	StudentID     string          `json:"student_id"`
	Subject       string          `json:"subject"`
	MarksObtained decimal.Decimal `json:"marks_obtained"`
	TotalMarks    decimal.Decimal `json:"total_marks"`
	Grade         string          `json:"grade"`
	Remarks       *string         `json:"remarks,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Percentage computes marks/total*100 rounded to two decimals.
// Never stored; derived on every read.
func (r Result) Percentage() decimal.Decimal {
	if r.TotalMarks.IsZero() {
		return decimal.Zero
	}
	return r.MarksObtained.Mul(decimal.NewFromInt(100)).DivRound(r.TotalMarks, 2)
}

// Priority is the closed set of announcement priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Announcement is a teacher-authored message, global or aimed at one student.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  Priority  `json:"priority"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
	StudentID *string   `json:"student_id,omitempty"`
}

// Targeted reports whether the announcement is aimed at a single student.
func (a Announcement) Targeted() bool {
	return a.StudentID != nil
}
