package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apidiff/internal/errors"
	"apidiff/internal/logging"
	"apidiff/internal/storage"
)

func writeDump(t *testing.T, dir, name, className string) string {
	t.Helper()
	content := `{"Version":1,"Classes":[{"Name":"` + className + `","Superclass":"<<<ROOT>>>","Members":[
		{"MemberType":"Property","Name":"Size","ValueType":{"Category":"DataType","Name":"Vector3"},
		 "Security":"RobloxScriptSecurity"}]}],"Enums":[]}`
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	compareFormat, compareOutputPath, compareOldSecurity, compareNewSecurity = "", "", "", ""
	compareNoCache = false
	describeFormat, describeOutputPath, describeSecurity = "text", "", ""
	rootDir, logLevel = ".", ""
	if f := rootCmd.Flags().Lookup("version"); f != nil {
		_ = f.Value.Set("false")
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeDump(t, dir, "old.json", "Part")
	newPath := writeDump(t, dir, "new.json", "BasePart")

	want := "Changed the ClassName of `Part`\r\n\tfrom: \"Part\"\r\n\t  to: \"BasePart\"\n"
	for i := 0; i < 2; i++ {
		got, err := runCLI(t, "compare", oldPath, newPath, "--root", dir, "--log-level", "silent")
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if got != want {
			t.Errorf("run %d output = %q, want %q", i, got, want)
		}
	}

	stats, err := runCLI(t, "cache", "stats", "--root", dir, "--log-level", "silent")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	if !strings.Contains(stats, "Entries: 1") || !strings.Contains(stats, "(cached)") {
		t.Errorf("unexpected stats output:\n%s", stats)
	}
}

func TestCompareCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeDump(t, dir, "old.json", "Part")
	newPath := writeDump(t, dir, "new.json", "BasePart")
	outPath := filepath.Join(dir, "changes.html")

	if _, err := runCLI(t, "compare", oldPath, newPath, "--root", dir, "--format", "markup",
		"--output", outPath, "--no-cache", "--log-level", "silent"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), `<div class="Diff Change Class">`) {
		t.Errorf("unexpected markup:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, ".apidiff", "apidiff.db")); !os.IsNotExist(err) {
		t.Error("--no-cache should not create the cache database")
	}
}

func TestCompareCommandIdenticalIsSilent(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "same.json", "Part")

	got, err := runCLI(t, "compare", path, path, "--root", dir, "--no-cache", "--log-level", "silent")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if got != "" {
		t.Errorf("expected no output, got %q", got)
	}
}

func TestCompareCommandErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeDump(t, dir, "good.json", "Part")
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte("not json"), 0644)

	tests := []struct {
		name     string
		args     []string
		wantCode errors.ErrorCode
	}{
		{"bad format", []string{"compare", good, good, "--format", "pdf"}, errors.InvalidRequest},
		{"malformed dump", []string{"compare", bad, good}, errors.ParseFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--root", dir, "--no-cache", "--log-level", "silent")
			_, err := runCLI(t, args...)
			if code := errors.CodeOf(err); code != tt.wantCode {
				t.Errorf("CodeOf(%v) = %q, want %q", err, code, tt.wantCode)
			}
		})
	}

	if _, err := runCLI(t, "compare", good); err == nil {
		t.Error("expected an argument count error")
	}
}

func TestDescribeCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeDump(t, dir, "dump.json", "Part")

	got, err := runCLI(t, "describe", path, "--root", dir, "--format", "markup", "--log-level", "silent")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for _, want := range []string{`<div class="Descriptor Class">`, `<span class="Name">Part.Size</span>`} {
		if !strings.Contains(got, want) {
			t.Errorf("describe output missing %s:\n%s", want, got)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"parse failure", errors.New(errors.ParseFailed, "bad dump", nil), 2},
		{"unsupported schema", errors.New(errors.UnsupportedSchema, "v9", nil), 2},
		{"invalid request", errors.New(errors.InvalidRequest, "bad format", nil), 1},
		{"plain error", os.ErrNotExist, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCacheClearByKey(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeDump(t, dir, "old.json", "Part")
	newPath := writeDump(t, dir, "new.json", "BasePart")

	if _, err := runCLI(t, "compare", oldPath, newPath, "--root", dir, "--log-level", "silent"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if _, err := runCLI(t, "compare", oldPath, newPath, "--root", dir, "--format", "json", "--log-level", "silent"); err != nil {
		t.Fatalf("compare json: %v", err)
	}

	db, err := storage.Open(dir, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	runs, err := db.RecentRuns(10)
	_ = db.Close()
	if err != nil || len(runs) != 2 {
		t.Fatalf("RecentRuns = %d runs, %v", len(runs), err)
	}

	got, err := runCLI(t, "cache", "clear", runs[0].CacheKey, "--root", dir, "--log-level", "silent")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(got, runs[0].CacheKey) {
		t.Errorf("unexpected clear output %q", got)
	}

	stats, err := runCLI(t, "cache", "stats", "--root", dir, "--log-level", "silent")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	if !strings.Contains(stats, "Entries: 1") {
		t.Errorf("expected one remaining entry:\n%s", stats)
	}
}

func TestVersionFlag(t *testing.T) {
	got, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(got, "apidiff version ") || !strings.Contains(got, "\nGo: ") {
		t.Errorf("unexpected version output %q", got)
	}
}
