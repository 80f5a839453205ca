package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		configLvl LogLevel
		logLvl    LogLevel
		shouldLog bool
	}{
		{"debug logs debug", DebugLevel, DebugLevel, true},
		{"debug logs error", DebugLevel, ErrorLevel, true},
		{"info skips debug", InfoLevel, DebugLevel, false},
		{"info logs warn", InfoLevel, WarnLevel, true},
		{"warn skips info", WarnLevel, InfoLevel, false},
		{"error skips warn", ErrorLevel, WarnLevel, false},
		{"error logs error", ErrorLevel, ErrorLevel, true},
		{"silent skips error", SilentLevel, ErrorLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLogger(Config{Level: tt.configLvl, Output: buf})

			logger.log(tt.logLvl, "test message", nil)

			hasOutput := buf.Len() > 0
			if hasOutput != tt.shouldLog {
				t.Errorf("shouldLog = %v, but hasOutput = %v", tt.shouldLog, hasOutput)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"DEBUG":   DebugLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"quiet":   SilentLevel,
		"":        InfoLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{
		Level:  InfoLevel,
		Format: JSONFormat,
		Output: buf,
	})

	logger.Info("snapshot loaded", map[string]interface{}{
		"classes": 42,
		"name":    "old",
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, buf.String())
	}

	if entry["level"] != "info" {
		t.Errorf("level = %v, want 'info'", entry["level"])
	}
	if entry["message"] != "snapshot loaded" {
		t.Errorf("message = %v, want 'snapshot loaded'", entry["message"])
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("fields should be a map")
	}
	if fields["classes"] != float64(42) {
		t.Errorf("fields.classes = %v, want 42", fields["classes"])
	}
}

func TestHumanFormatSortsFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Level: InfoLevel, Format: HumanFormat, Output: buf})

	logger.Info("test", map[string]interface{}{
		"c": 3,
		"a": 1,
		"b": 2,
	})

	output := buf.String()
	if !strings.Contains(output, "[info] test | a=1, b=2, c=3") {
		t.Errorf("fields should be sorted and comma-separated, got: %s", output)
	}
}

func TestHumanFormatNoFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Level: InfoLevel, Format: HumanFormat, Output: buf})

	logger.Info("no fields", nil)

	if strings.Contains(buf.String(), "|") {
		t.Errorf("Output without fields should not contain '|', got: %s", buf.String())
	}
}

func TestWith(t *testing.T) {
	buf := &bytes.Buffer{}
	base := NewLogger(Config{Level: DebugLevel, Output: buf})
	child := base.With(map[string]interface{}{"run": "abc", "pass": "rename"})

	child.Debug("pass applied", map[string]interface{}{"pass": "move"})

	output := buf.String()
	if !strings.Contains(output, "run=abc") {
		t.Errorf("child logger should carry inherited fields, got: %s", output)
	}
	if !strings.Contains(output, "pass=move") {
		t.Errorf("entry fields should override inherited ones, got: %s", output)
	}

	buf.Reset()
	base.Debug("plain", nil)
	if strings.Contains(buf.String(), "run=") {
		t.Errorf("parent logger should not see child fields, got: %s", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Error("dropped", nil)

	var nilLogger *Logger
	nilLogger.Info("also dropped", nil)
}
