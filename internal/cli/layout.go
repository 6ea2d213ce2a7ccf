package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblepack/pkg/pipeline"
)

// layoutFlags holds the raw layout command flags. Only flags the user set
// override the configured defaults.
type layoutFlags struct {
	mode     string
	count    int
	groups   int
	columns  int
	radius   string
	viewport string
	seed     uint64
	formats  string
	output   string
	noCache  bool
	refresh  bool
}

// layoutCommand creates the layout command for one-shot layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute a bubble layout and write it as JSON or YAML",
		Long: `Compute a bubble layout and write it as JSON or YAML.

The layout command builds a population of circles, drives it into the
requested mode (clustered, grouped or converging) and writes a snapshot of
every circle's position and radius, the grid cells and solver statistics.

Layouts are deterministic for a given seed and are cached locally for faster
subsequent runs.

Examples:
  bubblepack layout --mode grouped --count 300 --groups 24
  bubblepack layout --radius 10..40 --viewport 1600x900+200 -f json,yaml -o out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := f.options(cmd, cfg.Layout.PipelineOptions())
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, f.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runLayout(cmd.Context(), runner, opts, f.output)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file or base name (default: stdout)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", pipeline.FormatJSON, "output formats: json, yaml (comma-separated)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached layout exists")

	cmd.Flags().StringVarP(&f.mode, "mode", "m", pipeline.DefaultMode, "layout mode: clustered, grouped, converging")
	cmd.Flags().IntVarP(&f.count, "count", "n", pipeline.DefaultCount, "number of circles")
	cmd.Flags().IntVarP(&f.groups, "groups", "g", pipeline.DefaultGroups, "number of groups")
	cmd.Flags().IntVarP(&f.columns, "columns", "c", pipeline.DefaultColumns, "grid columns in grouped mode")
	cmd.Flags().StringVarP(&f.radius, "radius", "r", fmt.Sprintf("%g..%g", pipeline.DefaultMinRadius, pipeline.DefaultMaxRadius), "radius range MIN..MAX")
	cmd.Flags().StringVar(&f.viewport, "viewport", fmt.Sprintf("%gx%g", pipeline.DefaultWidth, pipeline.DefaultHeight), "viewport WIDTHxHEIGHT[+SCROLL]")
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")

	return cmd
}

// options layers the flags the user set over base.
func (f layoutFlags) options(cmd *cobra.Command, base pipeline.Options) (pipeline.Options, error) {
	opts := base
	changed := cmd.Flags().Changed

	if changed("mode") {
		opts.Mode = f.mode
	}
	if changed("count") {
		opts.Count = f.count
		opts.Empty = f.count == 0
		if !changed("groups") && f.count > 0 && f.count < opts.Groups {
			opts.Groups = f.count
		}
	}
	if changed("groups") {
		opts.Groups = f.groups
	}
	if changed("columns") {
		opts.Columns = f.columns
	}
	if changed("radius") {
		lo, hi, err := pipeline.ParseRange(f.radius)
		if err != nil {
			return opts, err
		}
		opts.MinRadius, opts.MaxRadius = lo, hi
	}
	if changed("viewport") {
		v, err := pipeline.ParseViewport(f.viewport)
		if err != nil {
			return opts, err
		}
		opts.Width, opts.Height, opts.ScrollTop = v.Width, v.Height, v.ScrollTop
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	opts.Formats = parseFormats(f.formats)
	opts.Refresh = f.refresh
	return opts, opts.ValidateAndSetDefaults()
}

// runLayout computes the layout and writes each artifact.
func (c *CLI) runLayout(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	toStdout := output == "" || output == "-"
	if toStdout && len(opts.Formats) > 1 {
		return fmt.Errorf("writing %d formats requires --output", len(opts.Formats))
	}

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinner(ctx, os.Stderr, fmt.Sprintf("Packing %d circles (%s)...", opts.Count, opts.Mode))
		spinner.Start()
	}

	opts.Logger = c.Logger
	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		switch {
		case spinner.Cancelled():
			spinner.Stop()
			return ctx.Err()
		case err != nil:
			spinner.StopWithError("Layout failed")
		default:
			spinner.StopWithSuccess("Packed %d circles in %s mode", result.Stats.CircleCount, opts.Mode)
		}
	}
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if toStdout {
		prog.done(fmt.Sprintf("Packed %d circles in %s mode", result.Stats.CircleCount, opts.Mode))
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(output, opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", paths[format], err)
		}
	}

	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.CircleCount, result.Stats.CellCount, result.CacheHit)
	printNewline()
	printNextStep("Explore interactively", appName+" watch")
	return nil
}

// outputPaths maps each format to its file. A single format writes to output
// as given; several formats share output's base name with their own extension.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	for _, format := range formats {
		paths[format] = base + "." + format
	}
	return paths
}
