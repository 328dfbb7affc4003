// Package tracker owns the application state: the four record
// collections, their persistence and change notification.
package tracker

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/anupk/tutordesk/internal/ident"
	"github.com/anupk/tutordesk/internal/model"
	"github.com/anupk/tutordesk/internal/store"
)

// Storage is the persistence the tracker needs. *store.Store satisfies it.
type Storage interface {
	LoadStudents() []model.Student
	LoadAttendance() []model.AttendanceRecord
	LoadTests() []model.Test
	LoadDoubts() []model.Doubt
	Save(key string, collection any) error
}

// Tracker mediates every mutation. Operations run one at a time under a
// single lock, so each one is atomic with respect to reads and to each
// other. Invalid input is a no-op reported through the ok return, never
// an error; persistence failures are logged and swallowed with the
// in-memory state staying authoritative.
type Tracker struct {
	mu  sync.Mutex
	st  Storage
	log *zap.Logger

	students   []model.Student
	attendance []model.AttendanceRecord
	tests      []model.Test
	doubts     []model.Doubt

	observers []func(collection string)
}

// New loads all collections from st. Missing or unreadable state starts
// empty; New itself cannot fail.
func New(st Storage, log *zap.Logger) *Tracker {
	return &Tracker{
		st:         st,
		log:        log,
		students:   st.LoadStudents(),
		attendance: st.LoadAttendance(),
		tests:      st.LoadTests(),
		doubts:     st.LoadDoubts(),
	}
}

// OnChange registers fn to run after every mutation, with the key of the
// collection that changed. Register before serving traffic; the observer
// list itself is not guarded. Callbacks run synchronously on the mutating
// goroutine with the tracker lock held, so they must not call back into
// the Tracker.
func (t *Tracker) OnChange(fn func(collection string)) {
	t.observers = append(t.observers, fn)
}

func (t *Tracker) changed(key string) {
	for _, fn := range t.observers {
		fn(key)
	}
}

// persist writes one collection. Write failures keep the in-memory state
// authoritative; the next save of the same key retries naturally.
func (t *Tracker) persist(key string, collection any) {
	if err := t.st.Save(key, collection); err != nil {
		t.log.Warn("persist failed, keeping in-memory state", zap.String("key", key), zap.Error(err))
	}
}

// ---------- Students ----------

// AddStudent appends a new student. Blank names and unknown batches are
// rejected.
func (t *Tracker) AddStudent(name string, batch model.Batch) (model.Student, bool) {
	name = strings.TrimSpace(name)
	if name == "" || !batch.Valid() {
		return model.Student{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := model.Student{ID: ident.NextID(), Name: name, Batch: batch}
	t.students = append(t.students, s)
	t.persist(store.KeyStudents, t.students)
	t.changed(store.KeyStudents)
	return s, true
}

// Students returns the student list in insertion order.
func (t *Tracker) Students() []model.Student {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Student, len(t.students))
	copy(out, t.students)
	return out
}

// ---------- Attendance ----------

// MarkAttendance records status for (studentID, date). A second mark for
// the same pair overwrites the existing record's status in place; there
// is never more than one record per pair. Any well-formed calendar date
// is accepted, future dates included.
func (t *Tracker) MarkAttendance(studentID, date string, status model.AttendanceStatus) (model.AttendanceRecord, bool) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" || !model.ValidDate(date) || !status.Valid() {
		return model.AttendanceRecord{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	found := false
	for i := range t.attendance {
		if t.attendance[i].StudentID == studentID && t.attendance[i].Date == date {
			t.attendance[i].Status = status
			found = true
			break
		}
	}
	if !found {
		t.attendance = append(t.attendance, model.AttendanceRecord{StudentID: studentID, Date: date, Status: status})
	}
	t.persist(store.KeyAttendance, t.attendance)
	t.changed(store.KeyAttendance)
	return model.AttendanceRecord{StudentID: studentID, Date: date, Status: status}, true
}

// Attendance returns all attendance records.
func (t *Tracker) Attendance() []model.AttendanceRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.AttendanceRecord, len(t.attendance))
	copy(out, t.attendance)
	return out
}

// ---------- Tests ----------

// AddTest schedules a test. The score may be supplied up front when the
// tutor is back-entering an already graded test.
func (t *Tracker) AddTest(subject, date string, totalMarks float64, scoredMarks *float64, remarks string) (model.Test, bool) {
	subject = strings.TrimSpace(subject)
	if subject == "" || !model.ValidDate(date) || totalMarks <= 0 {
		return model.Test{}, false
	}
	if scoredMarks != nil && *scoredMarks < 0 {
		return model.Test{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tst := model.Test{
		ID:         ident.NextID(),
		Subject:    subject,
		Date:       date,
		TotalMarks: totalMarks,
		Remarks:    strings.TrimSpace(remarks),
	}
	if scoredMarks != nil {
		v := *scoredMarks
		tst.ScoredMarks = &v
	}
	t.tests = append(t.tests, tst)
	t.persist(store.KeyTests, t.tests)
	t.changed(store.KeyTests)
	return tst, true
}

// RecordTestScore sets or overwrites the score and remarks of an
// existing test. Scores above totalMarks are allowed (bonus marks);
// negative ones and unknown ids are not.
func (t *Tracker) RecordTestScore(id string, scoredMarks float64, remarks string) (model.Test, bool) {
	if scoredMarks < 0 {
		return model.Test{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.tests {
		if t.tests[i].ID != id {
			continue
		}
		v := scoredMarks
		t.tests[i].ScoredMarks = &v
		t.tests[i].Remarks = strings.TrimSpace(remarks)
		t.persist(store.KeyTests, t.tests)
		t.changed(store.KeyTests)
		return t.tests[i], true
	}
	return model.Test{}, false
}

// Tests returns all tests in insertion order.
func (t *Tracker) Tests() []model.Test {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Test, len(t.tests))
	copy(out, t.tests)
	return out
}

// ---------- Doubts ----------

// AddDoubt files a new doubt in Open status. Every text field is
// required.
func (t *Tracker) AddDoubt(studentID, subject, topic, doubtText string) (model.Doubt, bool) {
	studentID = strings.TrimSpace(studentID)
	subject = strings.TrimSpace(subject)
	topic = strings.TrimSpace(topic)
	doubtText = strings.TrimSpace(doubtText)
	if studentID == "" || subject == "" || topic == "" || doubtText == "" {
		return model.Doubt{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	d := model.Doubt{
		ID:        ident.NextID(),
		StudentID: studentID,
		Subject:   subject,
		Topic:     topic,
		DoubtText: doubtText,
		Status:    model.DoubtOpen,
	}
	t.doubts = append(t.doubts, d)
	t.persist(store.KeyDoubts, t.doubts)
	t.changed(store.KeyDoubts)
	return d, true
}

// ToggleDoubt flips a doubt between Open and Resolved. Unknown ids are a
// no-op.
func (t *Tracker) ToggleDoubt(id string) (model.Doubt, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.doubts {
		if t.doubts[i].ID != id {
			continue
		}
		if t.doubts[i].Status == model.DoubtOpen {
			t.doubts[i].Status = model.DoubtResolved
		} else {
			t.doubts[i].Status = model.DoubtOpen
		}
		t.persist(store.KeyDoubts, t.doubts)
		t.changed(store.KeyDoubts)
		return t.doubts[i], true
	}
	return model.Doubt{}, false
}

// Doubts returns all doubts in insertion order.
func (t *Tracker) Doubts() []model.Doubt {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Doubt, len(t.doubts))
	copy(out, t.doubts)
	return out
}
