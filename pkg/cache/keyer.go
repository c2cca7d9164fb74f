package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout computed from a diagram.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact, such as the SVG of a
	// constraint graph, derived from a source document.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that change the result.
type LayoutKeyOpts struct {
	GridScale   int  `json:"grid_scale"`
	CellWidth   int  `json:"cell_width"`
	CellHeight  int  `json:"cell_height"`
	BlockWidth  int  `json:"block_width"`
	BlockHeight int  `json:"block_height"`
	Margin      int  `json:"margin"`
	Strict      bool `json:"strict"`
	MaxTrials   int  `json:"max_trials"`
}

// ArtifactKeyOpts are the rendering options that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer hashes the key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", diagramHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}
