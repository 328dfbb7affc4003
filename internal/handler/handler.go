package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anupk/tutordesk/internal/model"
	"github.com/anupk/tutordesk/internal/tracker"
	"github.com/anupk/tutordesk/internal/views"
)

// Handler exposes the tracker over a JSON API. Invalid input that the
// tracker silently refuses comes back as a 400 here; unknown ids as 404.
type Handler struct {
	tr *tracker.Tracker
}

func New(tr *tracker.Tracker) *Handler {
	return &Handler{tr: tr}
}

// Register attaches all API routes to g.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/students", h.ListStudents)
	g.POST("/students", h.CreateStudent)

	g.GET("/attendance/roster", h.AttendanceRoster)
	g.POST("/attendance", h.MarkAttendance)

	g.GET("/tests", h.ListTests)
	g.POST("/tests", h.CreateTest)
	g.PUT("/tests/:id/score", h.RecordTestScore)

	g.GET("/doubts", h.ListDoubts)
	g.POST("/doubts", h.CreateDoubt)
	g.POST("/doubts/:id/toggle", h.ToggleDoubt)

	g.GET("/overview", h.Overview)
}

// ---------- Students ----------

type createStudentRequest struct {
	Name  string `json:"name" binding:"required"`
	Batch string `json:"batch" binding:"required"`
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.tr.AddStudent(req.Name, model.Batch(req.Batch))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be non-empty and batch one of A, B, C"})
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) ListStudents(c *gin.Context) {
	students := h.tr.Students()
	if q := c.Query("batch"); q != "" {
		b := model.Batch(q)
		if !b.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "batch must be one of A, B, C"})
			return
		}
		students = views.FilterStudentsByBatch(students, b)
	}
	c.JSON(http.StatusOK, students)
}

// ---------- Attendance ----------

type markAttendanceRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, ok := h.tr.MarkAttendance(req.StudentID, req.Date, model.AttendanceStatus(req.Status))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId, a valid date and a status of Present, Absent or Late are required"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

type rosterEntry struct {
	Student model.Student          `json:"student"`
	Status  model.AttendanceStatus `json:"status"`
}

// AttendanceRoster lists every student with their status for one date,
// "unmarked" where no record exists. Defaults to today.
func (h *Handler) AttendanceRoster(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = model.Today()
	}
	if !model.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must look like 2006-01-02"})
		return
	}

	students := h.tr.Students()
	if q := c.Query("batch"); q != "" {
		b := model.Batch(q)
		if !b.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "batch must be one of A, B, C"})
			return
		}
		students = views.FilterStudentsByBatch(students, b)
	}

	records := h.tr.Attendance()
	roster := make([]rosterEntry, 0, len(students))
	for _, s := range students {
		roster = append(roster, rosterEntry{Student: s, Status: views.AttendanceStatusFor(records, s.ID, date)})
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "roster": roster})
}

// ---------- Tests ----------

type createTestRequest struct {
	Subject     string   `json:"subject" binding:"required"`
	Date        string   `json:"date" binding:"required"`
	TotalMarks  float64  `json:"totalMarks" binding:"required,gt=0"`
	ScoredMarks *float64 `json:"scoredMarks"`
	Remarks     string   `json:"remarks"`
}

func (h *Handler) CreateTest(c *gin.Context) {
	var req createTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tst, ok := h.tr.AddTest(req.Subject, req.Date, req.TotalMarks, req.ScoredMarks, req.Remarks)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject, a valid date and positive totalMarks are required"})
		return
	}
	c.JSON(http.StatusCreated, tst)
}

// ListTests partitions tests around today. A test dated today is
// upcoming, never completed.
func (h *Handler) ListTests(c *gin.Context) {
	today := model.Today()
	tests := h.tr.Tests()
	c.JSON(http.StatusOK, gin.H{
		"upcoming":  views.UpcomingTests(tests, today),
		"completed": views.CompletedTests(tests, today),
	})
}

type recordScoreRequest struct {
	ScoredMarks *float64 `json:"scoredMarks" binding:"required"`
	Remarks     string   `json:"remarks"`
}

func (h *Handler) RecordTestScore(c *gin.Context) {
	var req recordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if *req.ScoredMarks < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scoredMarks must not be negative"})
		return
	}
	tst, ok := h.tr.RecordTestScore(c.Param("id"), *req.ScoredMarks, req.Remarks)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	c.JSON(http.StatusOK, tst)
}

// ---------- Doubts ----------

type createDoubtRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Topic     string `json:"topic" binding:"required"`
	DoubtText string `json:"doubtText" binding:"required"`
}

type doubtView struct {
	model.Doubt
	StudentName string `json:"studentName"`
}

func (h *Handler) CreateDoubt(c *gin.Context) {
	var req createDoubtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, ok := h.tr.AddDoubt(req.StudentID, req.Subject, req.Topic, req.DoubtText)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId, subject, topic and doubtText are all required"})
		return
	}
	c.JSON(http.StatusCreated, d)
}

// ListDoubts returns doubts with the student name resolved, falling back
// to "Unknown Student" for dangling references.
func (h *Handler) ListDoubts(c *gin.Context) {
	doubts := h.tr.Doubts()
	if q := c.Query("status"); q != "" {
		st := model.DoubtStatus(q)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Open or Resolved"})
			return
		}
		doubts = views.FilterDoubtsByStatus(doubts, st)
	}

	students := h.tr.Students()
	out := make([]doubtView, 0, len(doubts))
	for _, d := range doubts {
		out = append(out, doubtView{Doubt: d, StudentName: views.StudentName(students, d.StudentID)})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ToggleDoubt(c *gin.Context) {
	d, ok := h.tr.ToggleDoubt(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "doubt not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// ---------- Overview ----------

func (h *Handler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, views.Summarize(h.tr.Students(), h.tr.Attendance(), h.tr.Tests(), h.tr.Doubts(), model.Today()))
}
