package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridstitch/pkg/diagram"
	"github.com/matzehuels/gridstitch/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		cf     cacheFlags
		opts   pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.toml|diagram.json]",
		Short: "Lay out a block diagram",
		Long: `Lay out a block diagram.

The diagram lists blocks and the connectors between them. Each connector
carries a qualitative direction ("left", "above", "NE", ...) that places its
target relative to its source. The layout command solves these relationships
for block positions, tiles the canvas and routes every connector around the
blocks. The result is written to <input>.layout.json.

Contradictory relationships are dropped with a warning unless --strict is set.
Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, opts, cf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cf.register(cmd)
	registerLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the diagram, lays it out and writes the layout file.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, cf cacheFlags) error {
	d, err := c.loadDiagram(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %d blocks...", len(d.Blocks)))
	spinner.Start()

	result, err := runner.Execute(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		output = derivedPath(input, ".layout.json")
	}
	if err := diagram.WriteLayoutFile(result.Layout, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	fmt.Println(layoutStatsLine(result.Stats, result.CacheInfo.LayoutHit))
	for _, rel := range result.Layout.Dropped {
		printWarning("dropped contradictory relationship: %s", rel)
	}
	printNewline()
	printNextStep("Inspect constraints", appName+" constraints "+input)

	return nil
}
