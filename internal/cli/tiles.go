package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridstitch/pkg/mosaic"
	"github.com/matzehuels/gridstitch/pkg/pipeline"
)

// tilesCommand creates the tiles debug command.
func (c *CLI) tilesCommand() *cobra.Command {
	var (
		solidOnly bool
		dump      bool
		opts      pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "tiles [diagram.toml|diagram.json]",
		Short: "List the occupancy mosaic of a diagram",
		Long: `List the occupancy mosaic of a diagram.

The canvas of a laid out diagram is covered by non-overlapping rectangles:
one solid tile per block and maximal horizontal spacer strips around them.
Tiles are listed in sweep order, starting at the bottom-right corner, and
the corner stitches linking them are checked against a brute-force lookup.

With --dump the routing grid of the last connector is printed with the
wavefront distance of every cell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = c.Logger
			d, err := c.loadDiagram(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			s, err := pipeline.Run(cmd.Context(), d, opts)
			if err != nil {
				return err
			}
			prog.step("laid out diagram", "tiles", s.Mosaic.TileCount())

			fmt.Println(StyleTitle.Render(fmt.Sprintf("%d tiles over %s", s.Mosaic.TileCount(), s.Mosaic.Domain())))
			fmt.Println(renderTable([]string{"#", "Area", "Size", "Block"}, tileRows(s.Mosaic, solidOnly), 3))

			problems := append(s.Mosaic.CheckStitches(), s.Mosaic.CheckCoverage()...)
			problems = append(problems, s.Mosaic.CheckStrips()...)
			prog.step("checked mosaic", "problems", len(problems))
			if len(problems) == 0 {
				printSuccess("Stitches, coverage and strips are consistent")
			} else {
				for _, p := range problems {
					printWarning("%s", p)
				}
			}

			if dump {
				printNewline()
				if err := s.Router.Dump(os.Stdout); err != nil {
					return err
				}
			}
			prog.done("Checked mosaic")
			if len(problems) > 0 {
				return fmt.Errorf("mosaic has %d inconsistencies", len(problems))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&solidOnly, "solid", false, "list block tiles only")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the routing score table of the last connector")
	registerLayoutFlags(cmd, &opts)

	return cmd
}

// tileRows lists the tiles of m in sweep order.
func tileRows(m *mosaic.Mosaic, solidOnly bool) [][]string {
	var rows [][]string
	n := 0
	m.Sweep(func(_ mosaic.TileID, t mosaic.Tile) {
		n++
		if solidOnly && !t.Solid() {
			return
		}
		rows = append(rows, []string{strconv.Itoa(n), t.Area.String(), strconv.Itoa(t.Area.Size()), t.Block})
	})
	return rows
}
