package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestDir points the log directory at a temp dir and resets global state
func setupTestDir(t *testing.T) (cleanup func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "pagekit-logging-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	origLogDir := logDir
	origInitErr := initErr
	origSessionID := sessionID

	logDir = tempDir
	initErr = nil
	initOnce = sync.Once{}
	initOnce.Do(func() {}) // directory already prepared
	sessionID = ""
	sessionIDOnce = sync.Once{}

	return func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}
		if origSessionID != "" {
			sessionIDOnce.Do(func() {})
		}
		os.RemoveAll(tempDir)
	}
}

func TestNewLogger(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("registrar")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "registrar" {
		t.Errorf("Expected component 'registrar', got '%s'", logger.component)
	}
	if logger.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}

	expected := filepath.Join(logDir, logger.SessionID()+"-pagekit.log")
	if logger.LogPath() != expected {
		t.Errorf("Expected log path %s, got %s", expected, logger.LogPath())
	}
}

func TestLoggerWritesToSharedFile(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	first, err := NewLogger("session")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	second, err := NewLogger("command")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	first.Infof("queue drained: %d actions", 3)
	second.Errorf("duplicate command %q", "click")
	first.Close()
	second.Close()

	if first.LogPath() != second.LogPath() {
		t.Fatalf("Expected components to share a log file")
	}

	data, err := os.ReadFile(first.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"[session] [INFO] queue drained: 3 actions",
		`[command] [ERROR] duplicate command "click"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected log to contain %q, got:\n%s", want, content)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("driver", &buf)
	logger.SetLevel(LevelWarn)

	logger.Debugf("switch to %s", "xpath")
	logger.Infof("running")
	logger.Warnf("slow action")

	out := buf.String()
	if strings.Contains(out, "switch to") || strings.Contains(out, "running") {
		t.Errorf("Expected debug and info entries to be dropped, got:\n%s", out)
	}
	if !strings.Contains(out, "[driver] [WARN] slow action") {
		t.Errorf("Expected warning entry, got:\n%s", out)
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("pagekit", &buf).With("session")
	logger.Infof("ready")

	if !strings.Contains(buf.String(), "[pagekit.session] [INFO] ready") {
		t.Errorf("Expected sub-component prefix, got: %s", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Debugf("ignored")
	logger.Errorf("ignored")
	logger.SetLevel(LevelError)
	if logger.With("x") != nil {
		t.Error("Expected nil sub-logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"quiet":   LevelWarn,
		"normal":  LevelInfo,
		"":        LevelInfo,
		"verbose": LevelDebug,
		"debug":   LevelDebug,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected error for invalid verbosity")
	}
}
