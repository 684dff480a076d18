package chart

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/chartgeom/pkg/errors"
)

const sankeyJSON = `{
  "kind": "sankey",
  "title": "Energy",
  "options": {"width": 800, "curvature": 0.4},
  "nodes": [
    {"id": "coal", "col": 0, "label": "Coal"},
    {"id": "grid", "col": 1}
  ],
  "links": [{"source": "coal", "target": "grid", "value": 40}]
}`

const sankeyYAML = `
kind: sankey
title: Energy
options:
  width: 800
  curvature: 0.4
nodes:
  - id: coal
    col: 0
    label: Coal
  - id: grid
    col: 1
links:
  - source: coal
    target: grid
    value: 40
`

const sankeyTOML = `
kind = "sankey"
title = "Energy"

[options]
width = 800
curvature = 0.4

[[nodes]]
id = "coal"
col = 0
label = "Coal"

[[nodes]]
id = "grid"
col = 1

[[links]]
source = "coal"
target = "grid"
value = 40
`

const sankeyHCL = `
kind  = "sankey"
title = "Energy"

options {
  width     = 800
  curvature = 0.4
}

node "coal" {
  col   = 0
  label = "Coal"
}

node "grid" {
  col = 1
}

link {
  source = "coal"
  target = "grid"
  value  = 40
}
`

func TestUnmarshalFormatsAgree(t *testing.T) {
	want := Payload{
		Kind:    KindSankey,
		Title:   "Energy",
		Options: Options{Width: floatp(800), Curvature: floatp(0.4)},
		Nodes: []Node{
			{ID: "coal", Col: intp(0), Label: "Coal"},
			{ID: "grid", Col: intp(1)},
		},
		Links: []Link{{Source: "coal", Target: "grid", Value: 40}},
	}

	tests := []struct {
		format Format
		src    string
	}{
		{FormatJSON, sankeyJSON},
		{FormatYAML, sankeyYAML},
		{FormatTOML, sankeyTOML},
		{FormatHCL, sankeyHCL},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.src), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Decode() = %+v\nwant %+v", got, want)
			}
			if err := Validate(got); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestDecodeHCLBlocks(t *testing.T) {
	src := `
kind = "flow"

options {
  lane_override = { review = 2 }
  strict        = true

  type_style "review" {
    shape = "diamond"
    fill  = "#FF0000"
  }
}

node "a" {
  type = "start"
}
node "review" {
  type  = "review"
  label = "Review"
}
edge {
  from  = "a"
  to    = "review"
  label = "submit"
}
`
	p, err := Unmarshal([]byte(src), FormatHCL, "flow.hcl")
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.Kind != KindFlow || len(p.Nodes) != 2 || len(p.Edges) != 1 {
		t.Fatalf("Unmarshal() = %+v", p)
	}
	if !p.Options.Strict || p.Options.LaneOverride["review"] != 2 {
		t.Errorf("options = %+v", p.Options)
	}
	if ts := p.Options.TypeStyles["review"]; ts.Shape != "diamond" || ts.Fill != "#FF0000" {
		t.Errorf("type_styles = %+v", p.Options.TypeStyles)
	}
	if p.Edges[0].Label != "submit" {
		t.Errorf("edge label = %q", p.Edges[0].Label)
	}
}

func TestDecodeHCLTree(t *testing.T) {
	src := `
kind = "sunburst"
root {
  label = "all"
  value = 3
  child {
    label = "a"
    value = 2
    child {
      label = "a1"
      value = 2
    }
  }
  child {
    label = "b"
    value = 1
  }
}
`
	p, err := Unmarshal([]byte(src), FormatHCL, "tree.hcl")
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.Root == nil || len(p.Root.Children) != 2 || p.Root.Children[0].Children[0].Label != "a1" {
		t.Fatalf("root = %+v", p.Root)
	}
}

func TestDecodeHCLFunctions(t *testing.T) {
	src := `
kind  = "funnel"
title = format("%s conversion", upper("q3"))

options {
  bar_height = max(20, 36)
}

stage {
  label = lower("VISIT")
  value = abs(-1200)
}
stage {
  label = "Paid"
  value = floor(310.7)
}
`
	p, err := Unmarshal([]byte(src), FormatHCL, "funnel.hcl")
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.Title != "Q3 conversion" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Options.BarHeight == nil || *p.Options.BarHeight != 36 {
		t.Errorf("bar_height = %v", p.Options.BarHeight)
	}
	if len(p.Stages) != 2 || p.Stages[0].Label != "visit" || p.Stages[0].Value != 1200 || p.Stages[1].Value != 310 {
		t.Errorf("stages = %+v", p.Stages)
	}
	if _, err := Unmarshal([]byte(`kind = nope("x")`), FormatHCL, "bad.hcl"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown function: err = %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
	}{
		{"json syntax", FormatJSON, `{"kind":`},
		{"json unknown field", FormatJSON, `{"kind":"funnel","bogus":1}`},
		{"yaml unknown field", FormatYAML, "kind: funnel\nbogus: 1\n"},
		{"toml unknown key", FormatTOML, "kind = \"funnel\"\nbogus = 1\n"},
		{"hcl syntax", FormatHCL, `kind = `},
		{"hcl unknown block", FormatHCL, "kind = \"funnel\"\nbogus {}\n"},
		{"unknown format", Format("xml"), `<chart/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Decode() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"chart.json", FormatJSON, true},
		{"chart.YAML", FormatYAML, true},
		{"dir/chart.yml", FormatYAML, true},
		{"chart.toml", FormatTOML, true},
		{"chart.hcl", FormatHCL, true},
		{"chart.txt", "", false},
		{"chart", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err == nil) != tt.ok {
				t.Fatalf("FormatFromPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, " hcl ": FormatHCL} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "energy.yaml")
	if err := os.WriteFile(path, []byte(sankeyYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if p.Kind != KindSankey || len(p.Links) != 1 {
		t.Errorf("DecodeFile() = %+v", p)
	}

	_, err = DecodeFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("DecodeFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
