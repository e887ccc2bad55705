package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PAGEDLIST_CONFIG", "")
	t.Setenv("PAGEDLIST_SOURCE_URL", "")
	t.Setenv("PAGEDLIST_DEMO_LATENCY", "0s")
	t.Setenv("PAGEDLIST_METRICS_ADDR", "")
	t.Setenv("PAGEDLIST_LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var row map[string]any
		if err := json.Unmarshal(sc.Bytes(), &row); err != nil {
			t.Fatalf("invalid json line %q: %v", sc.Text(), err)
		}
		rows = append(rows, row)
	}
	return rows
}

func TestResolveVersionInfo(t *testing.T) {
	tests := []struct {
		name          string
		v, c, d       string
		moduleVersion string
		settings      map[string]string
		want          [3]string
	}{
		{
			name: "ldflags win",
			v:    "v1.2.3", c: "abc", d: "2026-01-01",
			moduleVersion: "v9.9.9",
			settings:      map[string]string{"vcs.revision": "ffff", "vcs.time": "t"},
			want:          [3]string{"v1.2.3", "abc", "2026-01-01"},
		},
		{
			name: "build info fills defaults",
			v:    "dev", c: "none", d: "unknown",
			moduleVersion: "v0.4.0",
			settings:      map[string]string{"vcs.revision": "0123456789abcdef", "vcs.time": "2026-10-01T00:00:00Z"},
			want:          [3]string{"v0.4.0", "0123456789ab", "2026-10-01T00:00:00Z"},
		},
		{
			name: "devel module keeps dev",
			v:    "dev", c: "none", d: "unknown",
			moduleVersion: "(devel)",
			settings:      map[string]string{},
			want:          [3]string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, c, d := resolveVersionInfo(tc.v, tc.c, tc.d, tc.moduleVersion, tc.settings)
			if got := [3]string{v, c, d}; got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestBuildSettingsMap(t *testing.T) {
	got := buildSettingsMap([]debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}})
	if got["vcs.revision"] != "abc" || len(got) != 1 {
		t.Fatalf("unexpected map: %v", got)
	}
}

func TestVersionCommand(t *testing.T) {
	// A broken config must not stop version from printing.
	t.Setenv("PAGEDLIST_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "pagedlist ") || !strings.Contains(out, "commit: ") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestDump_DemoSourceUntilExhausted(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PAGEDLIST_DEMO_TOTAL", "23")

	out, _, err := execute(t, "dump", "--page-size", "10")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	rows := decodeLines(t, out)
	if len(rows) != 23 {
		t.Fatalf("expected 23 rows, got %d", len(rows))
	}
	if rows[0]["id"] != float64(1) || rows[22]["id"] != float64(23) {
		t.Fatalf("unexpected ids: first=%v last=%v", rows[0]["id"], rows[22]["id"])
	}
}

func TestDump_MaxPages(t *testing.T) {
	isolateEnv(t)

	out, _, err := execute(t, "dump", "--page-size", "5", "--max-pages", "2")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if rows := decodeLines(t, out); len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
}

func TestDump_HTTPSource(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`[{"id":1,"component":"text"},{"id":2,"component":"text"}]`))
		default:
			_, _ = w.Write([]byte(`[{"id":3,"component":"text"}]`))
		}
	}))
	defer srv.Close()

	token := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(token, []byte("secret"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}

	out, _, err := execute(t, "dump", "--source", srv.URL, "--token", token, "--page-size", "2")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if rows := decodeLines(t, out); len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestDump_FetchErrorFails(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, _, err := execute(t, "dump", "--source", srv.URL); err == nil {
		t.Fatalf("expected dump to fail")
	}
}

func TestDump_DemoFaultInjection(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PAGEDLIST_DEMO_TOTAL", "12")
	t.Setenv("PAGEDLIST_DEMO_BROKEN_EVERY", "4")

	out, _, err := execute(t, "dump", "--page-size", "6")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	untagged := 0
	for _, row := range decodeLines(t, out) {
		if _, ok := row["component"]; !ok {
			untagged++
		}
	}
	if untagged != 3 {
		t.Fatalf("expected 3 untagged rows, got %d", untagged)
	}

	t.Setenv("PAGEDLIST_DEMO_FAIL_EVERY", "2")
	if _, _, err := execute(t, "dump", "--page-size", "6"); err == nil {
		t.Fatalf("expected injected failure to fail the dump")
	}
}

func TestConfig_InvalidFlagsRejected(t *testing.T) {
	isolateEnv(t)

	if _, _, err := execute(t, "dump", "--page-size", "0"); err == nil {
		t.Fatalf("expected invalid page size to fail")
	}
	if _, _, err := execute(t, "dump", "--source", "http://example.com"); err == nil {
		t.Fatalf("expected non-https remote source to fail")
	}
	if _, _, err := execute(t, "dump", "--log-level", "warning"); err == nil {
		t.Fatalf("expected unknown log level to fail")
	}
}
