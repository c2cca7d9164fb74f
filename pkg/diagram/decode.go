package diagram

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
)

// Format identifies a diagram document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported diagram file %q (expected .toml or .json)", filepath.Base(path))
}

// Parse decodes and validates a diagram document.
//
// Unknown keys are rejected so that typos such as "diretion" surface as
// errors instead of silently defaulting.
func Parse(data []byte, format Format) (*Diagram, error) {
	var d Diagram
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &d)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode toml: %v", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			slices.Sort(keys)
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json: %v", err)
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown diagram format %q", format)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadFile loads and validates the diagram at path, choosing the format from
// its extension.
func ReadFile(path string) (*Diagram, error) {
	if err := errs.ValidateInputPath(path); err != nil {
		return nil, err
	}
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "diagram %s not found", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s: %v", path, err)
	}
	return Parse(data, format)
}

// Marshal encodes d as indented JSON. The encoding is stable, so its hash
// identifies the diagram in cache keys.
func Marshal(d *Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
