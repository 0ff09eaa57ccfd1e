package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klokku/timetrack/internal/config"
	"github.com/klokku/timetrack/internal/utils"
	"github.com/klokku/timetrack/pkg/activity"
	"github.com/klokku/timetrack/pkg/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var location, _ = time.LoadLocation("Europe/Warsaw")

type runner func(args ...string) (string, error)

func setup(t *testing.T) (runner, string) {
	run, dataDir, _ := setupWithClock(t)
	return run, dataDir
}

func setupWithClock(t *testing.T) (runner, string, *utils.MockClock) {
	t.Setenv("TIMETRACK_TIMEZONE", "Europe/Warsaw")
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	configFile := filepath.Join(dir, "config.yaml")
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 3, 12, 0, 0, 0, location)}

	run := func(args ...string) (string, error) {
		stdout := &bytes.Buffer{}
		application := NewApplication(stdout, &bytes.Buffer{}, clock)
		base := []string{"timetrack", "--data-dir", dataDir, "--config", configFile}
		err := application.Run(context.Background(), append(base, args...))
		return stdout.String(), err
	}
	return run, dataDir, clock
}

func mustRun(t *testing.T, run runner, args ...string) string {
	out, err := run(args...)
	require.NoError(t, err, "timetrack %s", strings.Join(args, " "))
	return out
}

func TestTrackingAndReport(t *testing.T) {
	run, dataDir := setup(t)

	// given
	assert.Equal(t, "Added Project/Docs (CC1)\n", mustRun(t, run, "activity", "add", "Project/Docs", "CC1", "Draft"))
	mustRun(t, run, "activity", "add", "Admin/Mail", "ADM")

	// when
	started := mustRun(t, run, "start", "--at", "2025-03-03 09:00", "Project/Docs")
	mustRun(t, run, "start", "-a", "r", "--at", "2025-03-03 10:30", "Admin/Mail")
	ended := mustRun(t, run, "end", "--at", "2025-03-03 11:00")
	report := mustRun(t, run, "generate", "--stdout", "--from", "2025-03-01", "--to", "2025-03-04")

	// then
	assert.Equal(t, "Started Project/Docs (CC1, Office) at 2025-03-03 09:00:00\n", started)
	assert.Equal(t, "Ended at 2025-03-03 11:00:00\n", ended)
	assert.Equal(t, "Employee;Date;Hours;Attendance;WBS;Description\r\n"+
		";2025-03-03;1.50;Office;CC1;Draft\r\n"+
		";2025-03-03;0.50;Remote;ADM;\r\n", report)

	entries, err := entry.NewFileRepository(filepath.Join(dataDir, "entries")).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Project/Docs", entries[0].(entry.Start).Activity)
	assert.True(t, entries[2].Timestamp().Equal(time.Date(2025, time.March, 3, 11, 0, 0, 0, location)))
}

func TestStatus(t *testing.T) {
	run, _, clock := setupWithClock(t)

	assert.Equal(t, "Not tracking\n", mustRun(t, run, "status"))

	mustRun(t, run, "start", "--at", "09:00", "-d", "Lunch break")
	out := mustRun(t, run, "status")

	assert.Equal(t, "Tracking Idle (Idle, Office) since 2025-03-03 09:00:00, 3 hours ago: Lunch break\n", out)

	clock.Advance(time.Hour)
	assert.Contains(t, mustRun(t, run, "status"), "4 hours ago")
}

func TestGenerateCreditsRunningActivityUntilNow(t *testing.T) {
	run, _ := setup(t)
	mustRun(t, run, "start", "--at", "2025-03-03 11:00")

	out := mustRun(t, run, "generate", "--stdout", "--to", "2025-03-31 23:59")

	assert.Contains(t, out, ";2025-03-03;1.00;Office;Idle;\r\n")
}

func TestLog(t *testing.T) {
	run, _ := setup(t)

	assert.Equal(t, "No entries in the last 10\n", mustRun(t, run, "log"))

	mustRun(t, run, "activity", "add", "Mail", "ADM")
	mustRun(t, run, "start", "--at", "2025-03-03 09:00", "Mail")
	mustRun(t, run, "end", "--at", "2025-03-03 09:45")
	out := mustRun(t, run, "log", "2")

	assert.Contains(t, out, "│ Time ")
	assert.Contains(t, out, "2025-03-03 09:00:00")
	assert.Contains(t, out, "45m0s")
	assert.Contains(t, out, "(end)")
	assert.NotContains(t, out, "\x1b[")

	_, err := run("log", "0")
	assert.Error(t, err)
}

func TestActivityCommands(t *testing.T) {
	run, _ := setup(t)
	mustRun(t, run, "activity", "add", "Project/Docs", "CC1", "Draft")
	mustRun(t, run, "activity", "add", "Project/Review", "CC2")
	mustRun(t, run, "activity", "add", "Mail", "ADM")

	t.Run("collapsed raw listing", func(t *testing.T) {
		out := mustRun(t, run, "activity", "list", "--raw")

		assert.Equal(t, "Project/\t\t\nIdle\tIdle\t\nMail\tADM\t\n", out)
	})

	t.Run("expanded raw listing", func(t *testing.T) {
		out := mustRun(t, run, "activity", "list", "-e", "-r")

		assert.Equal(t, "Idle\tIdle\t\nMail\tADM\t\nProject/Docs\tCC1\tDraft\nProject/Review\tCC2\t\n", out)
	})

	t.Run("listing below a category", func(t *testing.T) {
		out := mustRun(t, run, "activity", "list", "-r", "Project")

		assert.Equal(t, "Docs\tCC1\tDraft\nReview\tCC2\t\n", out)
	})

	t.Run("table listing", func(t *testing.T) {
		out := mustRun(t, run, "activity", "list")

		assert.Contains(t, out, "│ Activity │")
		assert.Contains(t, out, "╰")
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := run("activity", "add", "Mail", "OTHER")

		assert.ErrorIs(t, err, activity.ErrDuplicateName)
	})

	t.Run("remove", func(t *testing.T) {
		assert.Equal(t, "Removed Project/Review\n", mustRun(t, run, "activity", "remove", "Project/Review"))

		_, err := run("start", "Project/Review")
		assert.ErrorIs(t, err, activity.ErrNotFound)
	})

	t.Run("idle cannot be removed", func(t *testing.T) {
		_, err := run("activity", "rm", "Idle")

		assert.ErrorIs(t, err, activity.ErrBuiltin)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := run("activity", "add", "Only")

		assert.Error(t, err)
	})
}

func TestTrackingErrors(t *testing.T) {
	run, _ := setup(t)

	_, err := run("end")
	assert.ErrorIs(t, err, entry.ErrNotTracking)

	mustRun(t, run, "start", "--at", "2025-03-03 09:00")
	_, err = run("start", "--at", "2025-03-03 08:00")
	assert.Error(t, err)

	_, err = run("start", "--at", "yesterday")
	assert.Error(t, err)
}

func TestGenerateToFile(t *testing.T) {
	run, _ := setup(t)
	mustRun(t, run, "start", "--at", "2025-03-03 09:00")
	mustRun(t, run, "end", "--at", "2025-03-03 10:00")
	dir := t.TempDir()

	out := mustRun(t, run, "generate", "-f", dir, "--from", "2025-03-01", "--to", "2025-04-01")

	path := filepath.Join(dir, "timesheet__2025-03.csv")
	assert.Equal(t, "Wrote 1 rows to "+path+"\n", out)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), ";2025-03-03;1.00;Office;Idle;\r\n")

	_, err = run("generate", "-f", path, "--from", "2025-03-01", "--to", "2025-04-01")
	assert.Error(t, err)
}

func TestDumpDefaultConfig(t *testing.T) {
	run, _ := setup(t)

	out := mustRun(t, run, "dump-default-config")

	assert.Equal(t, config.DefaultYAML, out)
}
