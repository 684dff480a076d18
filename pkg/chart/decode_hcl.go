package chart

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/matzehuels/chartgeom/pkg/errors"
)

// hclFile is the top-level structure of an HCL payload:
//
//	kind  = "sankey"
//	title = "Energy"
//
//	options {
//	  width = 800
//	}
//
//	node "coal" { col = 0 }
//	node "grid" { col = 1 }
//	link {
//	  source = "coal"
//	  target = "grid"
//	  value  = 40
//	}
//
// Expressions may call a small set of functions, e.g.
// value = max(120, 80) or label = upper("paid").
type hclFile struct {
	Kind    string       `hcl:"kind"`
	Title   string       `hcl:"title,optional"`
	Options *hclOptions  `hcl:"options,block"`
	Items   []hclItem    `hcl:"item,block"`
	Nodes   []hclNode    `hcl:"node,block"`
	Links   []hclLink    `hcl:"link,block"`
	Edges   []hclEdge    `hcl:"edge,block"`
	Root    *hclHierNode `hcl:"root,block"`
	Stages  []hclStage   `hcl:"stage,block"`
}

type hclOptions struct {
	TypeStyles []hclTypeStyle `hcl:"type_style,block"`
	Rest       hcl.Body       `hcl:",remain"`
}

type hclTypeStyle struct {
	Type  string `hcl:"type,label"`
	Shape string `hcl:"shape,optional"`
	Fill  string `hcl:"fill,optional"`
	Text  string `hcl:"text,optional"`
}

type hclItem struct {
	Label string  `hcl:"label"`
	Value float64 `hcl:"value"`
	Group string  `hcl:"group,optional"`
}

type hclNode struct {
	ID    string `hcl:"id,label"`
	Label string `hcl:"label,optional"`
	Col   *int   `hcl:"col,optional"`
	Color string `hcl:"color,optional"`
	Type  string `hcl:"type,optional"`
	Fill  string `hcl:"fill,optional"`
}

type hclLink struct {
	Source string  `hcl:"source"`
	Target string  `hcl:"target"`
	Value  float64 `hcl:"value"`
	Color  string  `hcl:"color,optional"`
}

type hclEdge struct {
	From  string `hcl:"from"`
	To    string `hcl:"to"`
	Label string `hcl:"label,optional"`
}

type hclHierNode struct {
	Label    string        `hcl:"label"`
	Value    float64       `hcl:"value,optional"`
	Children []hclHierNode `hcl:"child,block"`
}

type hclStage struct {
	Label string  `hcl:"label"`
	Value float64 `hcl:"value"`
}

// hclFunctions are the functions available to payload expressions.
var hclFunctions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"format": stdlib.FormatFunc,
	"join":   stdlib.JoinFunc,
	"lower":  stdlib.LowerFunc,
	"upper":  stdlib.UpperFunc,
}

func decodeHCL(src []byte, name string) (Payload, error) {
	ctx := &hcl.EvalContext{Functions: hclFunctions}

	file, diags := hclparse.NewParser().ParseHCL(src, name)
	if diags.HasErrors() {
		return Payload{}, errors.Wrap(errors.ErrCodeInvalidFormat, diags, "parse %s", name)
	}
	var f hclFile
	if diags := gohcl.DecodeBody(file.Body, ctx, &f); diags.HasErrors() {
		return Payload{}, errors.Wrap(errors.ErrCodeInvalidFormat, diags, "decode %s", name)
	}

	p := Payload{Kind: Kind(f.Kind), Title: f.Title}
	if f.Options != nil {
		if diags := gohcl.DecodeBody(f.Options.Rest, ctx, &p.Options); diags.HasErrors() {
			return Payload{}, errors.Wrap(errors.ErrCodeInvalidFormat, diags, "decode %s options", name)
		}
		for _, ts := range f.Options.TypeStyles {
			if p.Options.TypeStyles == nil {
				p.Options.TypeStyles = make(map[string]TypeStyle)
			}
			p.Options.TypeStyles[ts.Type] = TypeStyle{Shape: ts.Shape, Fill: ts.Fill, Text: ts.Text}
		}
	}
	for _, it := range f.Items {
		p.Items = append(p.Items, Item(it))
	}
	for _, n := range f.Nodes {
		p.Nodes = append(p.Nodes, Node(n))
	}
	for _, l := range f.Links {
		p.Links = append(p.Links, Link(l))
	}
	for _, e := range f.Edges {
		p.Edges = append(p.Edges, Edge(e))
	}
	for _, s := range f.Stages {
		p.Stages = append(p.Stages, Stage(s))
	}
	if f.Root != nil {
		root := hierFromHCL(*f.Root)
		p.Root = &root
	}
	return p, nil
}

func hierFromHCL(n hclHierNode) HierNode {
	out := HierNode{Label: n.Label, Value: n.Value}
	for _, c := range n.Children {
		out.Children = append(out.Children, hierFromHCL(c))
	}
	return out
}
