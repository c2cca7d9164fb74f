package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridstitch/pkg/constraint"
	"github.com/matzehuels/gridstitch/pkg/diagram"
	"github.com/matzehuels/gridstitch/pkg/pipeline"
)

// constraintsCommand creates the constraints debug command.
func (c *CLI) constraintsCommand() *cobra.Command {
	var (
		output   string
		dot      bool
		vertices bool
		cf       cacheFlags
		opts     pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "constraints [diagram.toml|diagram.json]",
		Short: "Show the solved constraint graph of a diagram",
		Long: `Show the solved constraint graph of a diagram.

Every connector direction becomes a pair of difference constraints on the x
and y coordinates of its blocks. This command prints the coordinates the
solver assigned, the relationships it dropped to resolve contradictions and,
with --vertices, the distance and predecessor of every graph vertex.

Use --dot to print the graph in Graphviz DOT format, or -o graph.svg to
render it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = c.Logger
			d, err := c.loadDiagram(args[0])
			if err != nil {
				return err
			}
			g, err := pipeline.Solve(cmd.Context(), d, opts)
			if err != nil {
				return err
			}
			if dot {
				_, err := fmt.Fprint(cmd.OutOrStdout(), g.ToDOT())
				return err
			}
			if err := printConstraints(d, g, vertices); err != nil {
				return err
			}
			if output != "" {
				return c.writeConstraintsSVG(cmd.Context(), g, output, cf)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "render the constraint graph to this SVG file")
	cmd.Flags().BoolVar(&dot, "dot", false, "print the constraint graph as DOT and exit")
	cmd.Flags().BoolVar(&vertices, "vertices", false, "print every vertex with its distance and predecessor")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on contradictory relationships instead of dropping them")
	cmd.Flags().IntVar(&opts.MaxTrials, "max-trials", pipeline.DefaultMaxTrials, "constraint repair rounds before accepting a partial solution")
	cf.register(cmd)

	return cmd
}

func printConstraints(d *diagram.Diagram, g *constraint.Graph, vertices bool) error {
	placements, err := g.Placements()
	if err != nil {
		return err
	}

	title := d.Title
	if title == "" {
		title = "Constraint solution"
	}
	fmt.Println(StyleTitle.Render(title))
	printKeyValue("blocks", StyleNumber.Render(strconv.Itoa(len(placements))))
	printKeyValue("relationships", StyleNumber.Render(strconv.Itoa(len(g.Relationships()))))
	printKeyValue("trials", StyleNumber.Render(strconv.Itoa(g.Trials())))

	rows := make([][]string, len(placements))
	for i, p := range placements {
		pinned := ""
		if b, _ := d.Block(p.Name); b.Pinned() {
			pinned = "pinned"
		}
		rows[i] = []string{p.Name, strconv.Itoa(p.X), strconv.Itoa(p.Y), pinned}
	}
	fmt.Println(renderTable([]string{"Block", "X", "Y", ""}, rows, 3))

	for _, v := range g.Dropped() {
		printWarning("dropped %s", v)
	}
	if problems, err := g.Check(); err == nil && len(problems) > 0 {
		printWarning("%d constraints remain unsatisfied", len(problems))
		for _, v := range problems {
			printDetail("%s", v)
		}
	}

	if !vertices {
		return nil
	}
	infos, err := g.Vertices()
	if err != nil {
		return err
	}
	vrows := make([][]string, len(infos))
	for i, v := range infos {
		vrows[i] = []string{v.Key, strconv.Itoa(v.Distance), v.Predecessor}
	}
	fmt.Println(renderTable([]string{"Vertex", "Distance", "Predecessor"}, vrows, -1))
	return nil
}

func (c *CLI) writeConstraintsSVG(ctx context.Context, g *constraint.Graph, output string, cf cacheFlags) error {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering constraint graph...")
	spinner.Start()
	svg, err := runner.RenderGraphSVG(ctx, g)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.SetMessage("Writing " + output + "...")
	if err := os.WriteFile(output, svg, 0644); err != nil {
		spinner.StopWithError("Write failed")
		return fmt.Errorf("write output %s: %w", output, err)
	}
	spinner.StopWithSuccess("Rendered constraint graph")
	printFile(output)
	return nil
}
