package bubbles

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

func testSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Version: snapshot.Version,
		Size:    geom.Size{Width: 300, Height: 600},
		Nodes: []snapshot.Node{
			{ID: "a", Label: "jazz", X: 100, Y: 100, Radius: 30},
			{ID: "b", Label: "<soul>", X: 160, Y: 100, Radius: 30, Selected: true},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testSnapshot()))

	for _, want := range []string{
		`viewBox="0 0 300.0 600.0"`,
		`<circle cx="100.00" cy="100.00" r="30.00"`,
		`class="node selected" id="node-b"`,
		`fill="` + DefaultPalette.SelectedFill + `"`,
		`>jazz</text>`,
		`&lt;soul&gt;`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testSnapshot(), WithoutLabels(), WithPalette(DarkPalette), WithCenterGuide()))
	if strings.Contains(svg, "<text") {
		t.Error("labels rendered with WithoutLabels")
	}
	if !strings.Contains(svg, DarkPalette.Background) {
		t.Error("dark palette not applied")
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("center guide missing")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testSnapshot(), WithScale(0.5))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 150 || b.Dy() != 300 {
		t.Errorf("bounds = %v, want 150x300", b)
	}
}

func TestRenderPNGEmpty(t *testing.T) {
	if _, err := RenderPNG(snapshot.Snapshot{}); err == nil {
		t.Error("expected error for empty surface")
	}
}

func TestFitLabel(t *testing.T) {
	tests := []struct {
		label string
		r     float64
		want  string
	}{
		{"jazz", 30, "jazz"},
		{"electronic music", 20, "electro…"},
		{"ab", 0.5, ""},
		{"abc", 3, "a"},
	}
	for _, tt := range tests {
		if got := fitLabel(tt.label, tt.r, 4); got != tt.want {
			t.Errorf("fitLabel(%q, %v) = %q, want %q", tt.label, tt.r, got, tt.want)
		}
	}
}
