package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchValid(t *testing.T) {
	assert.True(t, BatchA.Valid())
	assert.True(t, BatchB.Valid())
	assert.True(t, BatchC.Valid())
	assert.False(t, Batch("D").Valid())
	assert.False(t, Batch("").Valid())
	assert.False(t, Batch("a").Valid())
}

func TestAttendanceStatusValid(t *testing.T) {
	assert.True(t, Present.Valid())
	assert.True(t, Absent.Valid())
	assert.True(t, Late.Valid())
	assert.False(t, Unmarked.Valid(), "unmarked is a lookup fallback, not storable")
	assert.False(t, AttendanceStatus("present").Valid())
	assert.False(t, AttendanceStatus("").Valid())
}

func TestDoubtStatusValid(t *testing.T) {
	assert.True(t, DoubtOpen.Valid())
	assert.True(t, DoubtResolved.Valid())
	assert.False(t, DoubtStatus("Pending").Valid())
	assert.False(t, DoubtStatus("").Valid())
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-01-01"))
	assert.True(t, ValidDate("1999-12-31"))
	assert.False(t, ValidDate("2024-1-1"))
	assert.False(t, ValidDate("2024-02-30"))
	assert.False(t, ValidDate("yesterday"))
	assert.False(t, ValidDate(""))
}

func TestToday(t *testing.T) {
	today := Today()
	assert.Len(t, today, 10)
	assert.True(t, ValidDate(today))
}
