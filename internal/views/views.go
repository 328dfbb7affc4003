// Package views computes read models from current collection contents.
// Every function here is pure and recomputed per call; nothing is cached
// or persisted, so results always reflect the latest mutation.
package views

import (
	"fmt"
	"math"
	"sort"

	"github.com/anupk/tutordesk/internal/model"
)

// UnknownStudent is the display fallback when a referenced student id no
// longer resolves to a student.
const UnknownStudent = "Unknown Student"

// PendingDoubtsCount counts doubts still open.
func PendingDoubtsCount(doubts []model.Doubt) int {
	n := 0
	for _, d := range doubts {
		if d.Status == model.DoubtOpen {
			n++
		}
	}
	return n
}

// AverageScorePercent averages per-test percentages over tests that are
// in the past and have a recorded score. ok is false when no test
// qualifies; callers must treat that as "no data", never as zero.
func AverageScorePercent(tests []model.Test, today string) (float64, bool) {
	var sum float64
	n := 0
	for _, t := range tests {
		if t.Date >= today || t.ScoredMarks == nil || t.TotalMarks <= 0 {
			continue
		}
		sum += *t.ScoredMarks / t.TotalMarks * 100
		n++
	}
	if n == 0 {
		return 0, false
	}
	return math.Round(sum/float64(n)*10) / 10, true
}

// FormatScorePercent renders an average as "75.0%", or "N/A" when there
// is no data.
func FormatScorePercent(percent float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", percent)
}

// UpcomingTests returns tests dated today or later, soonest first.
func UpcomingTests(tests []model.Test, today string) []model.Test {
	out := make([]model.Test, 0)
	for _, t := range tests {
		if t.Date >= today {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CompletedTests returns past tests, most recent first.
func CompletedTests(tests []model.Test, today string) []model.Test {
	out := make([]model.Test, 0)
	for _, t := range tests {
		if t.Date < today {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// FilterStudentsByBatch keeps students of one batch, source order intact.
func FilterStudentsByBatch(students []model.Student, batch model.Batch) []model.Student {
	out := make([]model.Student, 0)
	for _, s := range students {
		if s.Batch == batch {
			out = append(out, s)
		}
	}
	return out
}

// FilterDoubtsByStatus keeps doubts in one status, source order intact.
func FilterDoubtsByStatus(doubts []model.Doubt, status model.DoubtStatus) []model.Doubt {
	out := make([]model.Doubt, 0)
	for _, d := range doubts {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out
}

// AttendanceStatusFor returns the marked status for (studentID, date),
// or model.Unmarked when no record exists.
func AttendanceStatusFor(records []model.AttendanceRecord, studentID, date string) model.AttendanceStatus {
	for _, r := range records {
		if r.StudentID == studentID && r.Date == date {
			return r.Status
		}
	}
	return model.Unmarked
}

// StudentName resolves a student id to its display name.
func StudentName(students []model.Student, id string) string {
	for _, s := range students {
		if s.ID == id {
			return s.Name
		}
	}
	return UnknownStudent
}

// Overview is the dashboard summary shown on the home tab.
type Overview struct {
	TotalStudents int    `json:"totalStudents"`
	PresentToday  int    `json:"presentToday"`
	PendingDoubts int    `json:"pendingDoubts"`
	UpcomingTests int    `json:"upcomingTests"`
	AverageScore  string `json:"averageScorePercent"`
}

// Summarize builds the Overview for the given day.
func Summarize(students []model.Student, records []model.AttendanceRecord, tests []model.Test, doubts []model.Doubt, today string) Overview {
	present := 0
	for _, r := range records {
		if r.Date == today && r.Status == model.Present {
			present++
		}
	}
	avg, ok := AverageScorePercent(tests, today)
	return Overview{
		TotalStudents: len(students),
		PresentToday:  present,
		PendingDoubts: PendingDoubtsCount(doubts),
		UpcomingTests: len(UpcomingTests(tests, today)),
		AverageScore:  FormatScorePercent(avg, ok),
	}
}
