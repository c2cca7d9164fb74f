// Package pipeline lays out a diagram end to end.
//
// A layout pass runs three engines in order:
//
//  1. Solve: the directional relationships of every connector become a
//     constraint graph whose solution gives each block an integer position
//  2. Tile: positions are scaled onto a routing grid and a pixel plane, and
//     every block rectangle is inserted into a corner-stitched mosaic,
//     which rejects overlapping blocks
//  3. Route: every connector is routed between its blocks on the grid with
//     a maze router, treating block cells as obstacles
//
// The CLI and the HTTP server share this package so that both produce the
// same layout for the same document and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	d, err := diagram.ReadFile("review.toml")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, d, pipeline.Options{Strict: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Layout.Width, result.Layout.Height)
//
// Layout can also be called directly when no caching is wanted.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridstitch/pkg/cache"
	"github.com/matzehuels/gridstitch/pkg/constraint"
	"github.com/matzehuels/gridstitch/pkg/diagram"
	errs "github.com/matzehuels/gridstitch/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultGridScale is the number of routing cells per constraint unit.
	// Two leaves a free routing line between blocks one unit apart.
	DefaultGridScale = 2

	// DefaultCellWidth is the pixel width of one routing cell.
	DefaultCellWidth = 160

	// DefaultCellHeight is the pixel height of one routing cell.
	DefaultCellHeight = 60

	// DefaultBlockWidth is the pixel width of a block box.
	DefaultBlockWidth = 120

	// DefaultBlockHeight is the pixel height of a block box.
	DefaultBlockHeight = 40

	// DefaultMargin is the number of free routing cells around the diagram.
	DefaultMargin = 1

	// DefaultMaxTrials matches the constraint solver's own bound.
	DefaultMaxTrials = constraint.DefaultMaxTrials
)

// Upper bounds on request options. The routing grid is allocated cell by
// cell, so its size is capped as a whole as well.
const (
	MaxGridScale = 16
	MaxMargin    = 64
	MaxCellSize  = 4096
	MaxGridCells = 1 << 20
)

// =============================================================================
// Options - Layout Configuration
// =============================================================================

// Options contains all configuration for a layout pass.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Grid options
	GridScale  int `json:"grid_scale,omitempty"`
	CellWidth  int `json:"cell_width,omitempty"`
	CellHeight int `json:"cell_height,omitempty"`
	Margin     int `json:"margin,omitempty"`

	// Block box, centred in its cell
	BlockWidth  int `json:"block_width,omitempty"`
	BlockHeight int `json:"block_height,omitempty"`

	// Solver options
	Strict    bool `json:"strict,omitempty"` // fail on contradictions instead of dropping them
	MaxTrials int  `json:"max_trials,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the serialized layout.
	Layout diagram.Layout

	// DiagramHash is the content hash of the normalized input document.
	DiagramHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the layout came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount     int
	ConnectorCount int
	TileCount      int
	Dropped        int
	LayoutTime     time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills every zero field with its default. Zero margin and zero
// trials select the defaults too; there is no way to ask for none.
func (o *Options) SetDefaults() {
	if o.GridScale == 0 {
		o.GridScale = DefaultGridScale
	}
	if o.CellWidth == 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight == 0 {
		o.CellHeight = DefaultCellHeight
	}
	if o.BlockWidth == 0 {
		o.BlockWidth = min(DefaultBlockWidth, o.CellWidth)
	}
	if o.BlockHeight == 0 {
		o.BlockHeight = min(DefaultBlockHeight, o.CellHeight)
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.MaxTrials == 0 {
		o.MaxTrials = DefaultMaxTrials
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks that the options describe a usable grid. It expects
// SetDefaults to have run.
func (o *Options) Validate() error {
	switch {
	case o.GridScale < 2:
		return errs.New(errs.ErrCodeInvalidInput, "grid scale must be at least 2, got %d", o.GridScale)
	case o.GridScale > MaxGridScale:
		return errs.New(errs.ErrCodeInvalidInput, "grid scale must be at most %d, got %d", MaxGridScale, o.GridScale)
	case o.CellWidth < 1 || o.CellHeight < 1:
		return errs.New(errs.ErrCodeInvalidInput, "cell size must be positive, got %dx%d", o.CellWidth, o.CellHeight)
	case o.CellWidth > MaxCellSize || o.CellHeight > MaxCellSize:
		return errs.New(errs.ErrCodeInvalidInput, "cell size must be at most %d, got %dx%d", MaxCellSize, o.CellWidth, o.CellHeight)
	case o.BlockWidth < 1 || o.BlockHeight < 1:
		return errs.New(errs.ErrCodeInvalidInput, "block size must be positive, got %dx%d", o.BlockWidth, o.BlockHeight)
	case o.BlockWidth > o.CellWidth || o.BlockHeight > o.CellHeight:
		return errs.New(errs.ErrCodeInvalidInput, "block size %dx%d does not fit the cell size %dx%d",
			o.BlockWidth, o.BlockHeight, o.CellWidth, o.CellHeight)
	case o.Margin < 0 || o.Margin > MaxMargin:
		return errs.New(errs.ErrCodeInvalidInput, "margin must be between 0 and %d, got %d", MaxMargin, o.Margin)
	case o.MaxTrials < 0:
		return errs.New(errs.ErrCodeInvalidInput, "max trials cannot be negative, got %d", o.MaxTrials)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		GridScale:   o.GridScale,
		CellWidth:   o.CellWidth,
		CellHeight:  o.CellHeight,
		BlockWidth:  o.BlockWidth,
		BlockHeight: o.BlockHeight,
		Margin:      o.Margin,
		Strict:      o.Strict,
		MaxTrials:   o.MaxTrials,
	}
}

// resolver returns the cycle resolver selected by Strict.
func (o *Options) resolver() constraint.CycleResolver {
	if o.Strict {
		return constraint.Strict{}
	}
	return constraint.DropFirst{}
}
