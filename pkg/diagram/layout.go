package diagram

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/gridstitch/pkg/geom"
)

// =============================================================================
// Layout - Serialized Result
// =============================================================================

// Layout is the serialized result of laying out a Diagram.
//
// Three coordinate systems appear:
//   - Position: the solved constraint coordinate of a block
//   - Cell: the routing grid cell, Position shifted and scaled by Grid.Scale
//   - Area and Points: pixels, Cell multiplied by the cell size
type Layout struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Grid   Grid   `json:"grid"`

	Blocks     []PlacedBlock     `json:"blocks"`
	Connectors []RoutedConnector `json:"connectors,omitempty"`
	Tiles      []Tile            `json:"tiles,omitempty"`

	// Dropped lists relationships removed to resolve contradictions.
	Dropped []string `json:"dropped,omitempty"`
	// Trials is the number of constraint relaxation rounds.
	Trials int `json:"trials"`
}

// Grid describes the routing grid.
type Grid struct {
	Columns    int `json:"columns"`
	Rows       int `json:"rows"`
	Scale      int `json:"scale"`
	CellWidth  int `json:"cell_width"`
	CellHeight int `json:"cell_height"`
}

// PlacedBlock is a block with its solved position.
type PlacedBlock struct {
	ID       string     `json:"id"`
	Position geom.Point `json:"position"`
	Cell     geom.Point `json:"cell"`
	Area     geom.Area  `json:"area"`
	Pinned   bool       `json:"pinned,omitempty"`
}

// RoutedConnector is a connector with its routed path. Path is in grid
// cells. Points is the same polyline in pixels, running from the exit side
// of the source box to the entry side of the target box.
type RoutedConnector struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	Direction string             `json:"direction"`
	Exit      geom.Direction     `json:"exit"`
	Entry     geom.Direction     `json:"entry"`
	Path      []geom.LineSegment `json:"path"`
	Points    []geom.Point       `json:"points"`
	Length    int                `json:"length"`
}

// Tile is one rectangle of the occupancy mosaic, in pixels.
type Tile struct {
	Area  geom.Area `json:"area"`
	Block string    `json:"block,omitempty"`
}

// Block returns the placed block with the given ID.
func (l *Layout) Block(id string) (PlacedBlock, bool) {
	for _, b := range l.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return PlacedBlock{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Blocks) == 0 {
		return Layout{}, fmt.Errorf("layout must contain blocks")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
