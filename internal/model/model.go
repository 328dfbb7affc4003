package model

import "time"

// DateLayout is the calendar-date format used throughout: lexicographic
// order on it matches chronological order.
const DateLayout = "2006-01-02"

// Today returns the current local calendar date. Callers evaluate it per
// call; a cached value goes stale at midnight.
func Today() string { return time.Now().Format(DateLayout) }

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Batch is the cohort a student belongs to.
type Batch string

const (
	BatchA Batch = "A"
	BatchB Batch = "B"
	BatchC Batch = "C"
)

func (b Batch) Valid() bool { return b == BatchA || b == BatchB || b == BatchC }

// AttendanceStatus is a day's mark for one student.
type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
	Late    AttendanceStatus = "Late"

	// Unmarked is never stored; it is the lookup fallback for a
	// (student, date) pair that has no record.
	Unmarked AttendanceStatus = "unmarked"
)

// Valid reports whether s can be stored. Unmarked is not storable.
func (s AttendanceStatus) Valid() bool { return s == Present || s == Absent || s == Late }

// DoubtStatus tracks whether a doubt still needs attention.
type DoubtStatus string

const (
	DoubtOpen     DoubtStatus = "Open"
	DoubtResolved DoubtStatus = "Resolved"
)

func (s DoubtStatus) Valid() bool { return s == DoubtOpen || s == DoubtResolved }

// Student is a registered student. Immutable once added.
type Student struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Batch Batch  `json:"batch"`
}

// AttendanceRecord is one student's mark for one date. There is at most
// one record per (studentId, date); marking again overwrites the status.
type AttendanceRecord struct {
	StudentID string           `json:"studentId"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// Test is a scheduled or completed test. ScoredMarks stays nil until a
// score is recorded.
type Test struct {
	ID          string   `json:"id"`
	Subject     string   `json:"subject"`
	Date        string   `json:"date"`
	TotalMarks  float64  `json:"totalMarks"`
	ScoredMarks *float64 `json:"scoredMarks,omitempty"`
	Remarks     string   `json:"remarks"`
}

// Doubt is a student-submitted question. Created Open, toggled to
// Resolved and back, never deleted.
type Doubt struct {
	ID        string      `json:"id"`
	StudentID string      `json:"studentId"`
	Subject   string      `json:"subject"`
	Topic     string      `json:"topic"`
	DoubtText string      `json:"doubtText"`
	Status    DoubtStatus `json:"status"`
}
