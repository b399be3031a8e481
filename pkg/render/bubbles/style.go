package bubbles

// Palette holds the colors used to draw a cloud.
type Palette struct {
	Background     string
	Fill           string
	SelectedFill   string
	Stroke         string
	Text           string
	SelectedText   string
	BoundaryStroke string
}

// DefaultPalette is a light theme.
var DefaultPalette = Palette{
	Background:     "#ffffff",
	Fill:           "#e8eef7",
	SelectedFill:   "#2f7fd8",
	Stroke:         "#9fb3cc",
	Text:           "#24324a",
	SelectedText:   "#ffffff",
	BoundaryStroke: "#d0d7e2",
}

// DarkPalette is a dark theme.
var DarkPalette = Palette{
	Background:     "#14171c",
	Fill:           "#2a3140",
	SelectedFill:   "#e0a030",
	Stroke:         "#4a5568",
	Text:           "#d8dee9",
	SelectedText:   "#14171c",
	BoundaryStroke: "#2a3140",
}

// Option configures rendering.
type Option func(*options)

type options struct {
	palette  Palette
	labels   bool
	scale    float64
	boundary bool
}

func newOptions(opts ...Option) options {
	o := options{palette: DefaultPalette, labels: true, scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale <= 0 {
		o.scale = 1
	}
	return o
}

// WithPalette sets the colors.
func WithPalette(p Palette) Option { return func(o *options) { o.palette = p } }

// WithoutLabels disables node labels.
func WithoutLabels() Option { return func(o *options) { o.labels = false } }

// WithScale multiplies the output resolution (PNG only).
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithCenterGuide draws a crosshair at the field center.
func WithCenterGuide() Option { return func(o *options) { o.boundary = true } }

// fitLabel shortens label so it roughly fits a circle of radius r.
func fitLabel(label string, r, charWidth float64) string {
	runes := []rune(label)
	limit := int(2 * r * 0.8 / charWidth)
	if limit < 1 {
		return ""
	}
	if len(runes) <= limit {
		return label
	}
	if limit <= 1 {
		return string(runes[:1])
	}
	return string(runes[:limit-1]) + "…"
}
