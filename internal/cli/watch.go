package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblepack/pkg/core/bubble"
	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/pipeline"
)

// watchCommand creates the interactive terminal command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		count   int
		groups  int
		columns int
		radius  string
		seed    uint64
		grouped bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Explore a layout interactively in the terminal",
		Long: `Explore a layout interactively in the terminal.

The watch command keeps a live engine and draws its circles as coloured
cells. Switch between clustered and grouped modes, run a converge and finish
it early, scroll the viewport and edit columns and groups as you go. The
terminal size sets the viewport.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Layout.EngineOptions()
			flags := cmd.Flags()
			if flags.Changed("count") {
				opts = append(opts, engine.WithCount(count))
				if !flags.Changed("groups") && count > 0 && count < cfg.Layout.Groups {
					opts = append(opts, engine.WithGroups(count))
				}
			}
			if flags.Changed("groups") {
				opts = append(opts, engine.WithGroups(groups))
			}
			if flags.Changed("columns") {
				opts = append(opts, engine.WithColumns(columns))
			}
			if flags.Changed("radius") {
				lo, hi, err := pipeline.ParseRange(radius)
				if err != nil {
					return err
				}
				opts = append(opts, engine.WithRange(bubble.Range{Min: lo, Max: hi}))
			}
			if flags.Changed("seed") {
				opts = append(opts, engine.WithSeed(seed))
			}
			opts = append(opts, engine.WithLogger(c.Logger))

			e, err := engine.New(opts...)
			if err != nil {
				return err
			}
			if grouped {
				if err := e.EnterGrouped(); err != nil {
					return err
				}
			}

			// Engine debug logs would tear the alternate screen.
			c.SetLogLevel(LogInfo)

			p := tea.NewProgram(NewWatchModel(cmd.Context(), e), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", pipeline.DefaultCount, "number of circles")
	cmd.Flags().IntVarP(&groups, "groups", "g", pipeline.DefaultGroups, "number of groups")
	cmd.Flags().IntVarP(&columns, "columns", "c", pipeline.DefaultColumns, "grid columns in grouped mode")
	cmd.Flags().StringVarP(&radius, "radius", "r", fmt.Sprintf("%g..%g", pipeline.DefaultMinRadius, pipeline.DefaultMaxRadius), "radius range MIN..MAX")
	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "start in grouped mode")

	return cmd
}
