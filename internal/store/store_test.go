package store_test

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anupk/tutordesk/internal/model"
	"github.com/anupk/tutordesk/internal/store"
)

func newStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.New(path, zap.NewNop())
	require.NoError(t, err)
	return st
}

func scored(v float64) *float64 { return &v }

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutordesk.db")

	students := []model.Student{
		{ID: "s1", Name: "Asha", Batch: model.BatchA},
		{ID: "s2", Name: "Bilal", Batch: model.BatchB},
	}
	attendance := []model.AttendanceRecord{
		{StudentID: "s1", Date: "2024-06-14", Status: model.Present},
	}
	tests := []model.Test{
		{ID: "t1", Subject: "Maths", Date: "2024-06-01", TotalMarks: 100, ScoredMarks: scored(80), Remarks: "good"},
		{ID: "t2", Subject: "Physics", Date: "2024-07-01", TotalMarks: 50},
	}
	doubts := []model.Doubt{
		{ID: "d1", StudentID: "s1", Subject: "Maths", Topic: "Algebra", DoubtText: "why x?", Status: model.DoubtOpen},
	}

	st := newStore(t, path)
	require.NoError(t, st.Save(store.KeyStudents, students))
	require.NoError(t, st.Save(store.KeyAttendance, attendance))
	require.NoError(t, st.Save(store.KeyTests, tests))
	require.NoError(t, st.Save(store.KeyDoubts, doubts))
	require.NoError(t, st.Close())

	// Reopen to prove the data survived the process, not just the cache.
	st2 := newStore(t, path)
	defer st2.Close()

	assert.Equal(t, students, st2.LoadStudents())
	assert.Equal(t, attendance, st2.LoadAttendance())
	assert.Equal(t, tests, st2.LoadTests())
	assert.Equal(t, doubts, st2.LoadDoubts())
}

func TestRoundTripEmptyCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutordesk.db")
	st := newStore(t, path)
	defer st.Close()

	require.NoError(t, st.Save(store.KeyStudents, []model.Student{}))
	assert.Empty(t, st.LoadStudents())
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	st := newStore(t, filepath.Join(t.TempDir(), "tutordesk.db"))
	defer st.Close()

	assert.Empty(t, st.LoadStudents())
	assert.Empty(t, st.LoadAttendance())
	assert.Empty(t, st.LoadTests())
	assert.Empty(t, st.LoadDoubts())
}

func TestSaveReplacesWholeCollection(t *testing.T) {
	st := newStore(t, filepath.Join(t.TempDir(), "tutordesk.db"))
	defer st.Close()

	require.NoError(t, st.Save(store.KeyStudents, []model.Student{
		{ID: "s1", Name: "Asha", Batch: model.BatchA},
		{ID: "s2", Name: "Bilal", Batch: model.BatchB},
	}))
	require.NoError(t, st.Save(store.KeyStudents, []model.Student{
		{ID: "s3", Name: "Chitra", Batch: model.BatchC},
	}))

	got := st.LoadStudents()
	require.Len(t, got, 1)
	assert.Equal(t, "s3", got[0].ID)
}

func TestCorruptPayloadLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutordesk.db")

	st := newStore(t, path)
	require.NoError(t, st.Save(store.KeyStudents, []model.Student{
		{ID: "s1", Name: "Asha", Batch: model.BatchA},
	}))
	require.NoError(t, st.Close())

	// Scribble over the payload behind the store's back.
	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE collections SET payload = '{not json' WHERE key = ?`, store.KeyStudents)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	st2 := newStore(t, path)
	defer st2.Close()

	assert.Empty(t, st2.LoadStudents(), "corrupt payload behaves as empty, never an error")

	// The next save overwrites the bad row and everything is normal again.
	require.NoError(t, st2.Save(store.KeyStudents, []model.Student{
		{ID: "s9", Name: "Dev", Batch: model.BatchB},
	}))
	got := st2.LoadStudents()
	require.Len(t, got, 1)
	assert.Equal(t, "s9", got[0].ID)
}

func TestOpenReadOnlyMissingPathErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := store.OpenReadOnly(path, zap.NewNop())
	require.Error(t, err)

	// A mistyped path must stay an error, not become a fresh database.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "a failed open must not scaffold a database file")
}

func TestOpenReadOnlyReadsButNeverWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutordesk.db")

	st := newStore(t, path)
	require.NoError(t, st.Save(store.KeyStudents, []model.Student{
		{ID: "s1", Name: "Asha", Batch: model.BatchA},
	}))
	require.NoError(t, st.Close())

	ro, err := store.OpenReadOnly(path, zap.NewNop())
	require.NoError(t, err)
	defer ro.Close()

	got := ro.LoadStudents()
	require.Len(t, got, 1)
	assert.Equal(t, "Asha", got[0].Name)

	err = ro.Save(store.KeyStudents, []model.Student{{ID: "s2", Name: "Bilal", Batch: model.BatchB}})
	assert.Error(t, err, "read-only store refuses writes")
}
