package cli

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{"default from input", "", "charts/sales.yaml", []string{"svg", "png"},
			map[string]string{"svg": "charts/sales.svg", "png": "charts/sales.png"}},
		{"single explicit file", "out/chart.svg", "sales.json", []string{"svg"},
			map[string]string{"svg": "out/chart.svg"}},
		{"explicit file keeps odd extension", "out/chart.image", "sales.json", []string{"png"},
			map[string]string{"png": "out/chart.image"}},
		{"base path with format ext", "out/chart.svg", "sales.json", []string{"svg", "pdf"},
			map[string]string{"svg": "out/chart.svg", "pdf": "out/chart.pdf"}},
		{"base path without ext", "out/chart", "sales.json", []string{"json"},
			map[string]string{"json": "out/chart.json"}},
		{"stdin", "", "-", []string{"svg"},
			map[string]string{"svg": "chart.svg"}},
		{"json payload keeps its file", "", "charts/sales.json", []string{"json", "svg"},
			map[string]string{"json": "charts/sales.scene.json", "svg": "charts/sales.svg"}},
		{"json base path next to payload", "charts/sales", "charts/sales.json", []string{"json"},
			map[string]string{"json": "charts/sales.scene.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.output, tt.input, tt.formats)
			if err != nil {
				t.Fatalf("outputPaths error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestOutputPathsRefusesPayload(t *testing.T) {
	if _, err := outputPaths("sales.json", "sales.json", []string{"json"}); err == nil {
		t.Error("expected an error when the output is the payload")
	}
	if _, err := outputPaths("./charts/../sales.yaml", "sales.yaml", []string{"svg"}); err == nil {
		t.Error("expected an error for an equivalent payload path")
	}
}

func TestSceneOutputPath(t *testing.T) {
	if got := sceneOutputPath("a/flow.hcl"); got != "a/flow.scene.json" {
		t.Errorf("sceneOutputPath = %q", got)
	}
	if got := sceneOutputPath("-"); got != "-" {
		t.Errorf("sceneOutputPath(-) = %q", got)
	}
}

func TestRelevantEvent(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "flow.json")
	targets, err := watchTargets(payload, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 1 {
		t.Fatalf("watchTargets = %v, want one entry", targets)
	}
	if dirs := dirsOf(targets); !dirs[dir] {
		t.Errorf("dirsOf = %v, want %s", dirs, dir)
	}

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write to payload", fsnotify.Event{Name: payload, Op: fsnotify.Write}, true},
		{"atomic save", fsnotify.Event{Name: payload, Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: payload, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "flow.svg"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevantEvent(tt.ev, targets); got != tt.want {
				t.Errorf("relevantEvent(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}
