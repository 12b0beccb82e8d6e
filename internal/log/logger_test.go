package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitJSONCarriesStaticAndContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})

	l := WithOperation(WithComponent("kernel"), "tessellate")
	l.Debug("surface tessellated", slog.Int("rows", 5))

	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("unmarshal json log %q: %v", buf.String(), err)
	}

	want := map[string]any{
		"app":       "nurbsctl",
		"component": "kernel",
		"op":        "tessellate",
		"msg":       "surface tessellated",
		"rows":      float64(5),
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %v, want %v", k, m[k], v)
		}
	}
	if _, ok := m["ver"].(string); !ok {
		t.Errorf("missing ver attr")
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Format: "console", Writer: &buf})

	L().Info("hidden")
	L().Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "WRN shown") || !strings.Contains(out, "k=v") {
		t.Fatalf("unexpected console line: %q", out)
	}
}

func TestFileHandlerWritesJSON(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "nurbs.log")
	var console bytes.Buffer
	Init(Options{Level: "info", File: fpath, Writer: &console})

	L().Info("to both")

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !bytes.Contains(b, []byte(`"msg":"to both"`)) {
		t.Fatalf("file log missing record: %q", b)
	}
	if !strings.Contains(console.String(), "to both") {
		t.Fatalf("console log missing record: %q", console.String())
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "TRUE")
	t.Setenv(EnvLogFile, "")

	got := FromEnv()
	if got.Level != "debug" || got.Format != "json" || !got.AddSource || got.File != "" {
		t.Fatalf("FromEnv() = %+v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
