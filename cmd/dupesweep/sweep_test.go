package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dupesweep/internal/hashcache"
	"dupesweep/internal/logger"
)

// =============================================================================
// Section 13.3: Sweep Command End to End
// =============================================================================

// TestSweepCommandEndToEnd runs the real command over two identical 2 MiB
// files and verifies the resolved tree, the log file, and the cache file.
func TestSweepCommandEndToEnd(t *testing.T) {
	root := t.TempDir()
	content := strings.Repeat("0123456789abcdef", 131072) // 2 MiB
	old := createFile(t, root, "x.txt", content, time.Now().Add(-2*time.Hour))
	newer := createFile(t, root, "y.txt", content, time.Now().Add(-time.Hour))

	err := execSweep(root, "--keep", "oldest", "--mode", "delete", "--no-progress")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if _, err := os.Stat(old); err != nil {
		t.Errorf("kept file missing: %v", err)
	}
	if _, err := os.Stat(newer); !os.IsNotExist(err) {
		t.Errorf("duplicate should be deleted, stat err = %v", err)
	}

	logData, err := os.ReadFile(filepath.Join(root, logger.FileName))
	if err != nil {
		t.Fatal(err)
	}
	logText := string(logData)
	for _, want := range []string{
		"Settings: Path=",
		"Found 2 total files in 1 folders.",
		"Keeping x.txt",
		"Deleted y.txt",
		"Done.",
	} {
		if !strings.Contains(logText, want) {
			t.Errorf("log should contain %q\nlog:\n%s", want, logText)
		}
	}

	cacheData, err := os.ReadFile(filepath.Join(root, hashcache.FileName))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(cacheData)), "\n")
	if len(lines) != 3 {
		t.Errorf("cache file should have header + 2 rows, got %d lines:\n%s", len(lines), cacheData)
	}
}

// =============================================================================
// Section 13.4: Flag Validation and Config
// =============================================================================

// TestSweepRequiresKeep tests that a missing keep policy aborts before any
// filesystem work.
func TestSweepRequiresKeep(t *testing.T) {
	root := t.TempDir()

	err := execSweep(root)
	if err == nil || !strings.Contains(err.Error(), `required flag "keep" not set`) {
		t.Fatalf("expected missing-keep error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, logger.FileName)); !os.IsNotExist(err) {
		t.Error("no log file should be created when validation fails")
	}
}

// TestSweepRejectsInvalidFlags tests that each malformed flag value is
// rejected with an error naming the flag.
func TestSweepRejectsInvalidFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantSub string
	}{
		{"bad keep", []string{"--keep", "bogus"}, "invalid --keep"},
		{"bad mode", []string{"--keep", "oldest", "--mode", "bogus"}, "invalid --mode"},
		{"bad algorithm", []string{"--keep", "oldest", "--algorithm", "bogus"}, "invalid --algorithm"},
		{"bad min-size", []string{"--keep", "oldest", "--min-size", "12Q"}, "invalid --min-size"},
		{"bad max-size", []string{"--keep", "oldest", "--max-size", "abc"}, "invalid --max-size"},
		{"zero workers", []string{"--keep", "oldest", "--workers", "0"}, "invalid --workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			err := execSweep(append([]string{root}, tt.args...)...)
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("expected error containing %q, got %v", tt.wantSub, err)
			}
		})
	}
}

// TestSweepConfigFile tests that an INI file supplies flags the command
// line leaves unset, and that explicit flags win over it.
func TestSweepConfigFile(t *testing.T) {
	writeConfig := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.ini")
		ini := "[sweep]\nkeep = oldest\nmode = delete\n"
		if err := os.WriteFile(path, []byte(ini), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("seeds unset flags", func(t *testing.T) {
		root := t.TempDir()
		if err := execSweep(root, "--config", writeConfig(t), "--no-progress"); err != nil {
			t.Fatalf("sweep failed: %v", err)
		}
		logData, err := os.ReadFile(filepath.Join(root, logger.FileName))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(logData), "Keep=oldest | Mode=delete") {
			t.Errorf("config values should reach the settings line\nlog:\n%s", logData)
		}
	})

	t.Run("command line wins", func(t *testing.T) {
		root := t.TempDir()
		if err := execSweep(root, "--config", writeConfig(t), "--mode", "symlink", "--no-progress"); err != nil {
			t.Fatalf("sweep failed: %v", err)
		}
		logData, err := os.ReadFile(filepath.Join(root, logger.FileName))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(logData), "Keep=oldest | Mode=symlink") {
			t.Errorf("explicit flag should override the config file\nlog:\n%s", logData)
		}
	})
}

// =============================================================================
// Helper Functions
// =============================================================================

// execSweep runs a fresh sweep command with cobra output silenced.
func execSweep(args ...string) error {
	cmd := newSweepCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func createFile(t *testing.T, root, rel, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}
