package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/anupk/tutordesk/internal/logging"
	"github.com/anupk/tutordesk/internal/model"
	"github.com/anupk/tutordesk/internal/store"
	"github.com/anupk/tutordesk/internal/views"
)

// export is the portable snapshot written for backup or hand-off to
// another device.
type export struct {
	ExportedAt string                   `json:"exportedAt"`
	Students   []model.Student          `json:"students"`
	Attendance []model.AttendanceRecord `json:"attendance"`
	Tests      []model.Test             `json:"tests"`
	Doubts     []model.Doubt            `json:"doubts"`
	Overview   views.Overview           `json:"overview"`
}

func main() {
	dbPath := flag.String("db", "data/tutordesk.db", "path to the database file")
	out := flag.String("out", "", "output file (default tutordesk-export-<today>.json)")
	quiet := flag.Bool("quiet", false, "only log warnings and errors")
	flag.Parse()

	level := "info"
	if *quiet {
		level = "warn"
	}
	logger, err := logging.New(level)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	st, err := store.OpenReadOnly(*dbPath, logger)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer st.Close()

	snap := export{
		ExportedAt: time.Now().Format(time.RFC3339),
		Students:   st.LoadStudents(),
		Attendance: st.LoadAttendance(),
		Tests:      st.LoadTests(),
		Doubts:     st.LoadDoubts(),
	}
	if snap.Students == nil {
		snap.Students = []model.Student{}
	}
	if snap.Attendance == nil {
		snap.Attendance = []model.AttendanceRecord{}
	}
	if snap.Tests == nil {
		snap.Tests = []model.Test{}
	}
	if snap.Doubts == nil {
		snap.Doubts = []model.Doubt{}
	}
	snap.Overview = views.Summarize(snap.Students, snap.Attendance, snap.Tests, snap.Doubts, model.Today())

	target := *out
	if target == "" {
		target = fmt.Sprintf("tutordesk-export-%s.json", model.Today())
	}
	if err := writeAtomic(target, snap); err != nil {
		logger.Fatal("write export", zap.Error(err))
	}

	logger.Info("export written",
		zap.String("file", target),
		zap.Int("students", len(snap.Students)),
		zap.Int("attendance", len(snap.Attendance)),
		zap.Int("tests", len(snap.Tests)),
		zap.Int("doubts", len(snap.Doubts)),
	)
}

// writeAtomic goes through a temp file and rename so an interrupted
// export never leaves a half-written snapshot behind.
func writeAtomic(path string, snap export) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
