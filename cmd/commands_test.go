package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

func decodeJSON(t *testing.T, out string) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestTasksCmd(t *testing.T) {
	setupTestApp(t)

	out, err := runCommand(t, tasksCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Today's tasks (0/11 done)")
	assert.Contains(t, out, "Despertar")

	jsonOutput = true
	out, err = runCommand(t, tasksCmd)
	require.NoError(t, err)
	assert.Equal(t, float64(11), decodeJSON(t, out)["count"])
}

func TestCompleteCmd(t *testing.T) {
	t.Run("partial name", func(t *testing.T) {
		setupTestApp(t)

		_, err := runCommand(t, completeCmd, "desper")
		require.NoError(t, err)
		assert.Equal(t, 6, app.progression.Points())

		jsonOutput = true
		out, err := runCommand(t, tasksCmd, "--pending")
		require.NoError(t, err)
		assert.Equal(t, float64(10), decodeJSON(t, out)["count"])
	})

	t.Run("meal with quality", func(t *testing.T) {
		setupTestApp(t)
		jsonOutput = true

		out, err := runCommand(t, completeCmd, "Desayuno", "--quality", "sana")
		require.NoError(t, err)

		result := decodeJSON(t, out)
		assert.Equal(t, float64(8), result["points"])
		assert.Equal(t, "sana", result["food_quality"])
	})

	t.Run("meal without quality", func(t *testing.T) {
		setupTestApp(t)

		_, err := runCommand(t, completeCmd, "Cena")
		assert.ErrorIs(t, err, domain.ErrFoodQualityRequired)
		assert.Zero(t, app.progression.Points())
	})

	t.Run("invalid quality", func(t *testing.T) {
		setupTestApp(t)

		_, err := runCommand(t, completeCmd, "Cena", "-q", "deliciosa")
		assert.ErrorIs(t, err, domain.ErrInvalidFoodQuality)
	})

	t.Run("twice", func(t *testing.T) {
		setupTestApp(t)

		_, err := runCommand(t, completeCmd, "Ducha")
		require.NoError(t, err)
		_, err = runCommand(t, completeCmd, "Ducha")
		assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	})

	t.Run("no name without terminal", func(t *testing.T) {
		setupTestApp(t)

		_, err := runCommand(t, completeCmd)
		assert.Error(t, err)
	})

	t.Run("unknown task", func(t *testing.T) {
		setupTestApp(t)

		_, err := runCommand(t, completeCmd, "zzzz")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStoreAndRedeem(t *testing.T) {
	setupTestApp(t)

	_, err := runCommand(t, redeemCmd, "Ver", "un", "capítulo", "de", "serie")
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	_, err = runCommand(t, completeCmd, "Despertar")
	require.NoError(t, err)
	_, err = runCommand(t, completeCmd, "Ejercicio")
	require.NoError(t, err)
	require.Equal(t, 15, app.progression.Points())

	out, err := runCommand(t, storeCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "15 points")
	assert.Contains(t, out, "Comer un postre")

	jsonOutput = true
	out, err = runCommand(t, redeemCmd, "ver un capítulo de serie")
	require.NoError(t, err)
	result := decodeJSON(t, out)
	assert.Equal(t, "Ver un capítulo de serie", result["redeemed"])
	assert.Equal(t, float64(5), result["points"])

	_, err = runCommand(t, redeemCmd, "Un viaje")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomCmds(t *testing.T) {
	setupTestApp(t)

	out, err := runCommand(t, customListCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No custom tasks yet")

	out, err = runCommand(t, customAddCmd, "08:30", "Meditar", "--effort", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Meditar at 08:30 (effort 2)")

	_, err = runCommand(t, customAddCmd, "09:00", "ducha")
	assert.ErrorIs(t, err, domain.ErrDuplicateTask)

	_, err = runCommand(t, customAddCmd, "9am", "Caminar")
	assert.ErrorIs(t, err, domain.ErrInvalidTaskTime)

	_, err = runCommand(t, completeCmd, "Meditar")
	require.NoError(t, err)

	_, err = runCommand(t, customEditCmd, "1", "--name", "Meditación")
	require.NoError(t, err)

	tasks := app.progression.CustomTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Meditación", tasks[0].Name)
	assert.Equal(t, "08:30", tasks[0].Time)
	assert.Equal(t, 2, tasks[0].Effort)

	out, err = runCommand(t, calendarCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Meditación")

	_, err = runCommand(t, customEditCmd, "3", "--name", "Otra")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = runCommand(t, customDeleteCmd, "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err = runCommand(t, customDeleteCmd, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Meditación")
	assert.Empty(t, app.progression.CustomTasks())

	// Deleting keeps the history.
	out, err = runCommand(t, calendarCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Meditación")
}

func TestStatusAndStats(t *testing.T) {
	setupTestApp(t)

	_, err := runCommand(t, completeCmd, "Estudiar")
	require.NoError(t, err)

	jsonOutput = true
	out, err := runCommand(t, statusCmd)
	require.NoError(t, err)
	status := decodeJSON(t, out)
	assert.Equal(t, float64(9), status["points"])
	assert.Equal(t, float64(1), status["level"])
	assert.Equal(t, float64(9), status["xp"])
	assert.Equal(t, "2026-03-10", status["date"])

	jsonOutput = false
	out, err = runCommand(t, statsCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "2026-03-10")
	assert.Contains(t, out, "9/100")
}

func TestExportImport(t *testing.T) {
	setupTestApp(t)

	_, err := runCommand(t, completeCmd, "Despertar")
	require.NoError(t, err)

	t.Run("to stdout", func(t *testing.T) {
		out, err := runCommand(t, exportCmd, "--out", "-")
		require.NoError(t, err)
		doc := decodeJSON(t, out)
		assert.Equal(t, float64(6), doc["points"])
	})

	t.Run("to backup dir", func(t *testing.T) {
		out, err := runCommand(t, exportCmd)
		require.NoError(t, err)

		path := filepath.Join(app.config.Backup.Dir, "life-game-backup-2026-03-10.json")
		assert.Contains(t, out, path)
		assert.FileExists(t, path)
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "backup.json")
		_, err := runCommand(t, exportCmd, "--out", path)
		require.NoError(t, err)

		_, err = runCommand(t, resetMonthCmd)
		require.NoError(t, err)
		require.Zero(t, app.progression.Points())

		_, err = runCommand(t, importCmd, path)
		require.NoError(t, err)
		assert.Equal(t, 6, app.progression.Points())
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, err := runCommand(t, importCmd, path)
		assert.ErrorIs(t, err, domain.ErrParse)
		assert.Equal(t, 6, app.progression.Points())
	})

	t.Run("missing fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "partial.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"points": 3}`), 0600))

		_, err := runCommand(t, importCmd, path)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})

	t.Run("invalid custom task", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "effort.json")
		doc := `{"points": 0, "completedTasks": {}, "history": {}, "customTasks": [{"hora": "09:00", "tarea": "Yoga", "esfuerzo": 7}]}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

		_, err := runCommand(t, importCmd, path)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
		assert.Equal(t, 6, app.progression.Points())

		out, err := runCommand(t, tasksCmd)
		require.NoError(t, err)
		assert.NotContains(t, out, "Yoga")
	})
}

func TestExportCmd_StdoutStaysJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prevApp, prevDB, prevJSON, prevInteractive := app, dbPath, jsonOutput, interactive
	prevLevel, prevFile := logLevelFlag, logFileFlag
	dbPath = filepath.Join(home, "lifegame.db")
	jsonOutput = false
	logLevelFlag, logFileFlag = "error", ""
	interactive = func() bool { return false }
	t.Cleanup(func() {
		_ = cleanupServices()
		app, dbPath, jsonOutput, interactive = prevApp, prevDB, prevJSON, prevInteractive
		logLevelFlag, logFileFlag = prevLevel, prevFile
	})

	errOut := new(bytes.Buffer)
	require.NoError(t, initializeServices(context.Background(), errOut))

	out, err := runCommand(t, exportCmd, "--out", "-")
	require.NoError(t, err)

	assert.True(t, json.Valid([]byte(out)), "stdout should only carry the backup: %q", out)
	assert.Contains(t, errOut.String(), "Data exported")
}

func TestResetMonthCmd(t *testing.T) {
	setupTestApp(t)

	_, err := runCommand(t, completeCmd, "Ejercicio")
	require.NoError(t, err)

	_, err = runCommand(t, resetMonthCmd)
	require.NoError(t, err)

	summary := app.progression.Summary()
	assert.Zero(t, summary.Points)
	assert.Zero(t, summary.Completed)
	assert.Equal(t, 9, summary.XP)
}

func TestBoardCmd_NeedsTerminal(t *testing.T) {
	setupTestApp(t)

	_, err := runCommand(t, boardCmd)
	assert.Error(t, err)
}

func TestConfigCmd(t *testing.T) {
	setupTestApp(t)

	out, err := runCommand(t, configCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "built-in rewards")

	jsonOutput = true
	out, err = runCommand(t, configCmd)
	require.NoError(t, err)
	assert.Equal(t, "warn", decodeJSON(t, out)["log_level"])
}

func TestParseTaskNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{" 3 ", 2, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"two", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTaskNumber(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFillWidth(t *testing.T) {
	assert.Equal(t, 0, fillWidth(-1, 30))
	assert.Equal(t, 15, fillWidth(0.5, 30))
	assert.Equal(t, 30, fillWidth(2, 30))
	assert.Equal(t, "", buildBar(0))
	assert.Equal(t, "███", buildBar(3))
}
