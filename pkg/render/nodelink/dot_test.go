package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/flowsheet/pkg/flowsheet"
	"github.com/matzehuels/flowsheet/pkg/stream"
	"github.com/matzehuels/flowsheet/pkg/unit"
)

func sample() flowsheet.Visualization {
	return flowsheet.Visualization{
		Nodes: []flowsheet.Node{
			{ID: "mixer", Type: unit.TypeMixer, Data: flowsheet.NodeData{Label: "Mixer", Type: unit.TypeMixer}},
			{ID: "reactor", Type: unit.TypeReactor, Data: flowsheet.NodeData{
				Label: "Reactor", Type: unit.TypeReactor,
				Parameters: unit.Parameters{"conversion": 0.8, "temperature": 350.0},
			}},
		},
		Edges: []flowsheet.Edge{
			{ID: "e2_s3", Source: "mixer", Target: "reactor", SourceHandle: "out", TargetHandle: "in",
				Data: flowsheet.EdgeData{Stream: "s3"}},
		},
		Streams: map[string]stream.Stream{
			"s3": {ID: "s3", FlowRate: 15, Temperature: 298},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	for _, want := range []string{
		"digraph flowsheet {",
		"rankdir=LR;",
		`"mixer" [label="Mixer", shape=diamond`,
		`"reactor" [label="Reactor", shape=box`,
		`"mixer" -> "reactor" [label="s3"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "conversion") {
		t.Error("ToDOT() without Detailed should not list parameters")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true})

	for _, want := range []string{
		`Reactor\nreactor\nconversion: 0.8\ntemperature: 350`,
		`s3\n15 kg/s\n298.0 K`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT(Detailed) missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(flowsheet.Visualization{}, Options{})
	if !strings.HasPrefix(dot, "digraph flowsheet {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(empty) = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox(no viewBox) = %q, want unchanged", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG() did not produce SVG: %.80s", svg)
	}
}
