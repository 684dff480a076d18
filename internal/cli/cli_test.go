package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartgeom/pkg/cache"
	"github.com/matzehuels/chartgeom/pkg/observability"
	"github.com/matzehuels/chartgeom/pkg/scene"
)

const funnelYAML = `kind: funnel
title: Signup
stages:
  - label: Visit
    value: 1000
  - label: Signup
    value: 400
  - label: Paid
    value: 90
`

// writePayload writes content to name inside a temp dir and returns its path.
func writePayload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns the logger output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&logs)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return logs.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"validate", "layout", "render", "inspect", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	c := New(&bytes.Buffer{}, LogInfo)
	c.SetLogLevel(LogInfo)
	if _, ok := observability.Pipeline().(observability.LogPipelineHooks); ok {
		t.Fatal("info level should keep the no-op pipeline hooks")
	}
	c.SetLogLevel(LogDebug)
	if _, ok := observability.Pipeline().(observability.LogPipelineHooks); !ok {
		t.Errorf("debug level should install LogPipelineHooks, got %T", observability.Pipeline())
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("logger level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestValidateCommand(t *testing.T) {
	good := writePayload(t, "funnel.yaml", funnelYAML)
	if _, err := execute(t, "validate", good); err != nil {
		t.Fatalf("validate good payload: %v", err)
	}

	bad := writePayload(t, "bad.json", `{"kind":"funnel","stages":[]}`)
	if _, err := execute(t, "validate", bad); err == nil {
		t.Error("validate should reject a funnel without stages")
	}

	if _, err := execute(t, "validate", good, "--input", "xml"); err == nil {
		t.Error("validate should reject an unknown --input format")
	}
}

func TestLayoutCommand(t *testing.T) {
	in := writePayload(t, "funnel.yaml", funnelYAML)
	out := filepath.Join(t.TempDir(), "scene.json")

	if _, err := execute(t, "layout", in, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var sc scene.Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		t.Fatalf("scene JSON: %v", err)
	}
	if sc.Kind != "funnel" || sc.Title != "Signup" {
		t.Errorf("scene kind/title = %q/%q", sc.Kind, sc.Title)
	}
	if sc.ID == "" {
		t.Error("scene should carry an id")
	}
	if got := sc.Counts()[scene.KindRect]; got < 3 {
		t.Errorf("funnel scene has %d rects, want at least 3", got)
	}
}

func TestLayoutCommandDefaultOutput(t *testing.T) {
	in := writePayload(t, "signup.yaml", funnelYAML)
	if _, err := execute(t, "layout", in, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := os.Stat(sceneOutputPath(in)); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestRenderCommand(t *testing.T) {
	in := writePayload(t, "signup.yaml", funnelYAML)
	base := filepath.Join(t.TempDir(), "out")

	if _, err := execute(t, "render", in, "-f", "svg,json", "-o", base, "--ids", "--cache", t.TempDir()); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) || !strings.Contains(string(svg), `id="`) {
		t.Errorf("unexpected SVG output: %.80s", svg)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json artifact missing: %v", err)
	}
}

func TestRenderCommandKeepsJSONPayload(t *testing.T) {
	const payload = `{"kind":"funnel","stages":[{"label":"Visit","value":100},{"label":"Paid","value":20}]}`
	in := writePayload(t, "chart.json", payload)

	if _, err := execute(t, "render", in, "-f", "json,svg", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	got, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Errorf("payload was overwritten: %.80s", got)
	}
	dir := filepath.Dir(in)
	for _, name := range []string{"chart.scene.json", "chart.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestRenderCommandDefaultFormat(t *testing.T) {
	in := writePayload(t, "signup.yaml", funnelYAML)
	if _, err := execute(t, "render", in, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(in, ".yaml") + ".svg"); err != nil {
		t.Errorf("svg artifact missing: %v", err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	in := writePayload(t, "signup.yaml", funnelYAML)

	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"render", in, "-f", "gif"}},
		{"graphviz on funnel", []string{"render", in, "--engine", "graphviz", "--no-cache"}},
		{"missing theme", []string{"render", in, "--theme", filepath.Join(t.TempDir(), "none.toml"), "--no-cache"}},
		{"watch stdin", []string{"render", "-", "--watch"}},
		{"output is payload", []string{"render", in, "-f", "svg", "-o", in, "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "chartgeom") {
		t.Error("bash completion should mention the program name")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestNewCache(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	ctx := context.Background()

	nc, err := c.newCache(ctx, cacheFlags{noCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := nc.(*cache.NullCache); !ok {
		t.Errorf("--no-cache gave %T, want *cache.NullCache", nc)
	}

	dir := t.TempDir()
	fc, err := c.newCache(ctx, cacheFlags{url: dir})
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := fc.(*cache.FileCache); !ok || f.Dir() != dir {
		t.Errorf("--cache dir gave %T", fc)
	}

	if _, err := c.newCache(ctx, cacheFlags{url: "redis://127.0.0.1:1/0"}); err == nil {
		t.Error("unreachable redis should fail")
	}
}

func TestIsRedisURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"redis://localhost:6379/0", true},
		{"rediss://cache.internal:6380", true},
		{"/tmp/cache", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isRedisURL(tt.in); got != tt.want {
			t.Errorf("isRedisURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "cache", "clear", "--cache", dir); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, hit, _ := fc.Get(context.Background(), "k"); hit {
		t.Error("entry survived cache clear")
	}
}
