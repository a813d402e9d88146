package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringmap/pkg/pipeline"
	"github.com/matzehuels/ringmap/pkg/theme"
)

// renderCommand creates the render command for generating visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		themePath  string
		cOpts      cacheOpts
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "render [map.json|map.yaml]",
		Short: "Render a service map to SVG, PNG, PDF, JSON, or DOT",
		Long: `Render a service map to visual output.

The render command runs the full pipeline: load the map, compute the radial
layout, and draw it. Use --focus role:name to produce a snapshot with one
element highlighted and everything outside its one-hop neighborhood dimmed,
--interactive to embed hover and click-to-focus behavior in the SVG, and
--theme to recolor the roles from a TOML palette.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if themePath != "" {
				t, err := theme.Load(themePath)
				if err != nil {
					return fmt.Errorf("load theme %s: %w", themePath, err)
				}
				opts.Theme = t
			}
			return c.runRender(cmd.Context(), args[0], opts, output, cmd, cOpts)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&cOpts.noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", opts.VizType, "visualization type: radial (default), nodelink")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().Float64Var(&opts.Gap, "gap", opts.Gap, "radial distance between rings")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Focus, "focus", "", "focus one element (role:name, e.g. gateway:PaymentGW)")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "embed hover and click-to-focus behavior in the SVG")
	cmd.Flags().BoolVar(&opts.HideRings, "no-rings", false, "hide the dashed ring guides")
	cmd.Flags().Float64Var(&opts.Curvature, "curvature", 0, "connector curve bend (0 = default)")
	cmd.Flags().StringVar(&themePath, "theme", "", "TOML theme file for role colors")

	return cmd
}

// runRender loads the map and runs the full pipeline.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, cmd *cobra.Command, cOpts cacheOpts) error {
	runner, err := c.newRunner(cmd, cOpts)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	m, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", m.Root.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := outputBase(output, m.Root.Name)
	written, err := writeArtifacts(result.Artifacts, opts.Formats, base, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.GatewayCount, result.Stats.EndpointCount, result.CacheInfo.RenderHit)

	return nil
}

// outputBase derives the base output path. An explicit output wins (with any
// known format extension stripped); otherwise the root service name is used,
// falling back to "service-map" for unnamed maps.
func outputBase(output, rootName string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}

	name := strings.TrimSpace(rootName)
	if name == "" {
		return "service-map"
	}
	return strings.ReplaceAll(name, " ", "-")
}

// writeArtifacts writes each rendered format to disk. With a single format
// and an explicit output path carrying the matching extension, that exact
// path is used; otherwise files are named base.format.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	written := make([]string, 0, len(formats))

	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}

		path := base + "." + format
		if output != "" && len(formats) == 1 && filepath.Ext(output) != "" {
			path = output
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
