package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblepack/pkg/core/relax"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// tuneCommand prints the solver parameters derived for a region.
func (c *CLI) tuneCommand() *cobra.Command {
	var (
		density    float64
		totalArea  float64
		regionArea float64
		meanRadius float64
		grouped    bool
	)

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Show the solver parameters chosen for a region",
		Long: `Show the solver parameters chosen for a region.

Padding, spring strength and iteration budget are derived from how densely
the circles fill their region and from their mean radius. Give the density
directly, or the total circle area and region area to derive it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if regionArea > 0 {
				density = relax.Density(totalArea, regionArea)
			}
			if density < 0 || meanRadius < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "density and mean radius must be >= 0")
			}

			base, maxIter := relax.ClusterIterBase, relax.ClusterIterMax
			region := "cluster"
			if grouped {
				base, maxIter = relax.GroupIterBase, relax.GroupIterMax
				region = "group"
			}
			cfg := relax.Tune(density, meanRadius, base, maxIter)

			printKeyValue("region", region)
			printKeyValue("density", fmt.Sprintf("%.3f", density))
			printKeyValue("padding", fmt.Sprintf("%.2f", cfg.Padding))
			printKeyValue("spring", fmt.Sprintf("%.3f", cfg.Spring))
			printKeyValue("iterations", fmt.Sprintf("%d", cfg.MaxIterations))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&density, "density", "d", 0.5, "fraction of the region covered by circles")
	cmd.Flags().Float64Var(&totalArea, "total-area", 0, "total circle area (with --region-area)")
	cmd.Flags().Float64Var(&regionArea, "region-area", 0, "region area; derives --density")
	cmd.Flags().Float64Var(&meanRadius, "mean-radius", 48, "mean circle radius")
	cmd.Flags().BoolVar(&grouped, "grouped", false, "use the per-group iteration budget")

	return cmd
}
