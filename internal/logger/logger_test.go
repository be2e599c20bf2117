package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	// 1MB is the smallest size lumberjack rotates at, so write past it.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}

	log, err := InitWithFileConfig("debug", cfg, false)
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	longMessage := strings.Repeat("x", 200)
	sugar := log.Sugar()
	for i := 0; i < 15000; i++ {
		sugar.Infof("Log entry %d: %s", i, longMessage)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("main log file does not exist")
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	var logFiles []string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "test") && strings.Contains(f.Name(), ".log") {
			logFiles = append(logFiles, f.Name())
		}
	}

	t.Logf("Found %d log files: %v", len(logFiles), logFiles)

	// Current file plus at least one rotated backup.
	if len(logFiles) < 2 {
		t.Errorf("expected at least 2 log files (rotation), got %d", len(logFiles))
	}

	rotatedCount := 0
	for _, name := range logFiles {
		if name != "test.log" {
			rotatedCount++
			// Rotated files carry a timestamp: test-YYYY-MM-DDTHH-MM-SS.SSS.log
			if !strings.Contains(name, "-20") {
				t.Errorf("rotated file %s doesn't have expected timestamp format", name)
			}
		}
	}

	if rotatedCount == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "info",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
			excluded: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			cfg := FileConfig{
				Path:       logFile,
				MaxSizeMB:  10,
				MaxBackups: 1,
				MaxAgeDays: 1,
				Compress:   false,
			}

			log, err := InitWithFileConfig(tt.level, cfg, false)
			if err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")

			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}

			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 {
		t.Errorf("expected MaxSizeMB 50, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 7 {
		t.Errorf("expected MaxAgeDays 7, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
