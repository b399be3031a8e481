package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/bubblecloud/pkg/cache"
	"github.com/matzehuels/bubblecloud/pkg/render"
	"github.com/matzehuels/bubblecloud/pkg/render/bubbles"
	"github.com/matzehuels/bubblecloud/pkg/render/nodelink"
	"github.com/matzehuels/bubblecloud/pkg/snapshot"
)

const (
	themeLight = "light"
	themeDark  = "dark"
)

// exportOpts holds the output flags shared by simulate and render.
type exportOpts struct {
	output   string   // output file (single format) or base path
	formats  []string // svg, png, json, dot
	theme    string   // light or dark
	scale    float64  // PNG resolution multiplier
	noLabels bool     // omit node labels
	detailed bool     // include radius and metadata in DOT labels
	contacts bool     // render svg as the Graphviz contact graph

	cache cache.Cache   // rendered artifacts; nil renders every time
	ttl   time.Duration // lifetime of new cache entries
}

func (o *exportOpts) validate() error {
	if err := validateFormats(o.formats); err != nil {
		return err
	}
	if o.theme != themeLight && o.theme != themeDark {
		return fmt.Errorf("invalid theme: %s (must be 'light' or 'dark')", o.theme)
	}
	return nil
}

func (o *exportOpts) bubbleOptions() []bubbles.Option {
	var opts []bubbles.Option
	if o.theme == themeDark {
		opts = append(opts, bubbles.WithPalette(bubbles.DarkPalette))
	}
	if o.noLabels {
		opts = append(opts, bubbles.WithoutLabels())
	}
	if o.scale > 0 {
		opts = append(opts, bubbles.WithScale(o.scale))
	}
	return opts
}

// exportSnapshot writes snap in every requested format. With a single
// format the output flag is used as-is; otherwise files are named
// base.format.
func exportSnapshot(ctx context.Context, snap snapshot.Snapshot, fallback string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	for _, format := range opts.formats {
		data, err := renderCached(ctx, snap, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		logger.Debugf("Generated %s: %d bytes", format, len(data))

		path := opts.output
		if len(opts.formats) > 1 || path == "" {
			path = basePath(opts.output, fallback) + "." + format
		}

		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		if path != "-" {
			printFile(path)
		}
	}
	return nil
}

// renderCached renders snap through opts.cache when one is set. JSON is the
// snapshot itself and is never cached: the cache key ignores the capture time.
func renderCached(ctx context.Context, snap snapshot.Snapshot, format string, opts *exportOpts) ([]byte, error) {
	if opts.cache == nil || format == render.FormatJSON {
		return renderSnapshot(ctx, snap, format, opts)
	}
	logger := loggerFromContext(ctx)

	key := cache.ArtifactKey(cache.SnapshotHash(snap), cache.ArtifactKeyOpts{
		Format:   format,
		Theme:    opts.theme,
		Scale:    opts.scale,
		NoLabels: opts.noLabels,
		Contacts: opts.contacts,
		Detailed: opts.detailed,
	})
	if data, ok, err := opts.cache.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "err", err)
	} else if ok {
		logger.Debug("cache hit", "format", format)
		return data, nil
	}

	data, err := renderSnapshot(ctx, snap, format, opts)
	if err != nil {
		return nil, err
	}
	if err := opts.cache.Set(ctx, key, data, opts.ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
	}
	return data, nil
}

// renderSnapshot dispatches to the renderer for format.
func renderSnapshot(ctx context.Context, snap snapshot.Snapshot, format string, opts *exportOpts) ([]byte, error) {
	switch format {
	case render.FormatSVG:
		if opts.contacts {
			dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.detailed})
			return nodelink.RenderSVG(ctx, dot)
		}
		return bubbles.RenderSVG(snap, opts.bubbleOptions()...), nil
	case render.FormatPNG:
		return bubbles.RenderPNG(snap, opts.bubbleOptions()...)
	case render.FormatJSON:
		return snapshot.Marshal(snap)
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.detailed})), nil
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}
