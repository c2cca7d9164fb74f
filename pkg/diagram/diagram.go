package diagram

import (
	"github.com/matzehuels/gridstitch/pkg/constraint"
	errs "github.com/matzehuels/gridstitch/pkg/errors"
	"github.com/matzehuels/gridstitch/pkg/geom"
)

// Diagram is a block diagram document.
type Diagram struct {
	Title      string      `toml:"title" json:"title,omitempty"`
	Blocks     []Block     `toml:"blocks" json:"blocks"`
	Connectors []Connector `toml:"connectors" json:"connectors,omitempty"`
}

// MaxCoordinate bounds the absolute value of a pinned position.
const MaxCoordinate = 1 << 20

// Block is a named box. X and Y pin it to an absolute grid position.
type Block struct {
	ID string `toml:"id" json:"id"`
	X  *int   `toml:"x" json:"x,omitempty"`
	Y  *int   `toml:"y" json:"y,omitempty"`
}

// Pinned reports whether the block has a fixed position.
func (b Block) Pinned() bool {
	return b.X != nil && b.Y != nil
}

// Connector links two blocks.
type Connector struct {
	From      string `toml:"from" json:"from"`
	To        string `toml:"to" json:"to"`
	Direction string `toml:"direction" json:"direction"`
	Exit      string `toml:"exit" json:"exit,omitempty"`
	Entry     string `toml:"entry" json:"entry,omitempty"`
}

// Sides returns the compass sides the connector leaves its source by and
// enters its target by. Diagonals reduce to their vertical component.
func (c Connector) Sides() (exit, entry geom.Direction, err error) {
	off, err := constraint.Lookup(c.Direction)
	if err != nil {
		return 0, 0, err
	}
	exit = off.Compass().Cardinal()
	if c.Exit != "" {
		if exit, err = parseSide(c.Exit); err != nil {
			return 0, 0, err
		}
	}
	entry = exit.Opposite()
	if c.Entry != "" {
		if entry, err = parseSide(c.Entry); err != nil {
			return 0, 0, err
		}
	}
	return exit, entry, nil
}

func parseSide(s string) (geom.Direction, error) {
	d, err := geom.ParseDirection(s)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeUnrecognizedDirection, err, "unrecognized side %q", s)
	}
	return d.Cardinal(), nil
}

// Block returns the block with the given ID.
func (d *Diagram) Block(id string) (Block, bool) {
	for _, b := range d.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Validate checks that the diagram can be laid out: at least one block,
// unique well-formed IDs, complete pins, and connectors between distinct
// known blocks with recognized directions.
func (d *Diagram) Validate() error {
	if len(d.Blocks) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "diagram has no blocks")
	}

	seen := make(map[string]bool, len(d.Blocks))
	for _, b := range d.Blocks {
		if err := errs.ValidateIdentifier(b.ID); err != nil {
			return err
		}
		if seen[b.ID] {
			return errs.New(errs.ErrCodeDuplicate, "duplicate block %q", b.ID)
		}
		seen[b.ID] = true
		if (b.X == nil) != (b.Y == nil) {
			return errs.New(errs.ErrCodeInvalidInput, "block %q must pin both x and y, or neither", b.ID)
		}
		if b.Pinned() && (!inRange(*b.X) || !inRange(*b.Y)) {
			return errs.New(errs.ErrCodeInvalidInput, "block %q pin (%d, %d) is outside +/-%d", b.ID, *b.X, *b.Y, MaxCoordinate)
		}
	}

	for i, c := range d.Connectors {
		for _, id := range []string{c.From, c.To} {
			if !seen[id] {
				return errs.New(errs.ErrCodeUnknownVariable, "connector %d references unknown block %q", i, id)
			}
		}
		if c.From == c.To {
			return errs.New(errs.ErrCodeInvalidInput, "connector %d links block %q to itself", i, c.From)
		}
		if _, _, err := c.Sides(); err != nil {
			return errs.Wrap(errs.GetCode(err), err, "connector %s -> %s: %s", c.From, c.To, errs.UserMessage(err))
		}
	}
	return nil
}

func inRange(v int) bool {
	return v >= -MaxCoordinate && v <= MaxCoordinate
}
