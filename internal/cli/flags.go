package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/render"
)

// parsePoint parses "x,y" into a point.
func parsePoint(s string) (geom.Vec, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Vec{}, fmt.Errorf("invalid point %q (want x,y)", s)
	}
	x, err := parseCoord(xs)
	if err != nil {
		return geom.Vec{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := parseCoord(ys)
	if err != nil {
		return geom.Vec{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geom.Vec{X: x, Y: y}, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("coordinate %q is not finite", s)
	}
	return v, nil
}

// parseSize parses "WxH" into a size.
func parseSize(s string) (geom.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geom.Size{}, fmt.Errorf("invalid size %q (want WIDTHxHEIGHT)", s)
	}
	w, err := parseCoord(ws)
	if err != nil {
		return geom.Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	h, err := parseCoord(hs)
	if err != nil {
		return geom.Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	size := geom.Size{Width: w, Height: h}
	if !size.Valid() {
		return geom.Size{}, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return size, nil
}

// parseList splits a comma-separated flag, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFormats parses the --format flag. If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if formats := parseList(s); len(formats) > 0 {
		return formats
	}
	return []string{render.FormatSVG}
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !render.ValidFormat(f) {
			return fmt.Errorf("invalid format: %s (must be one of %s)", f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}

// basePath strips a known format extension from output.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if render.ValidFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// labelFor returns the i-th label, cycling through labels and numbering
// repeats: "Jazz", ..., "Jazz 2".
func labelFor(labels []string, i int) string {
	if len(labels) == 0 {
		return fmt.Sprintf("Node %d", i+1)
	}
	label := labels[i%len(labels)]
	if round := i / len(labels); round > 0 {
		label = fmt.Sprintf("%s %d", label, round+1)
	}
	return label
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a writer for path, or stdout if path is "" or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
