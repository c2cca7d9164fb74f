package diagram

import (
	"os"
	"path/filepath"
	"testing"

	errs "github.com/matzehuels/gridstitch/pkg/errors"
	"github.com/matzehuels/gridstitch/pkg/geom"
)

const reviewTOML = `
title = "Review process"

[[blocks]]
id = "Author"

[[blocks]]
id = "Paper"
x = 5
y = 5

[[blocks]]
id = "Reviewer"

[[connectors]]
from = "Author"
to = "Paper"
direction = "left"

[[connectors]]
from = "Paper"
to = "Reviewer"
direction = "NE"
entry = "s"
`

func TestParseTOML(t *testing.T) {
	d, err := Parse([]byte(reviewTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Title != "Review process" {
		t.Errorf("Title = %q", d.Title)
	}
	if len(d.Blocks) != 3 || len(d.Connectors) != 2 {
		t.Fatalf("got %d blocks, %d connectors; want 3, 2", len(d.Blocks), len(d.Connectors))
	}
	paper, ok := d.Block("Paper")
	if !ok || !paper.Pinned() || *paper.X != 5 || *paper.Y != 5 {
		t.Errorf("Block(Paper) = %+v, want pinned at 5,5", paper)
	}
	if author, _ := d.Block("Author"); author.Pinned() {
		t.Error("Author should not be pinned")
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{
		"blocks": [{"id": "A"}, {"id": "B", "x": 0, "y": 0}],
		"connectors": [{"from": "A", "to": "B", "direction": "below", "exit": "E"}]
	}`
	d, err := Parse([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	exit, entry, err := d.Connectors[0].Sides()
	if err != nil {
		t.Fatalf("Sides: %v", err)
	}
	if exit != geom.E || entry != geom.W {
		t.Errorf("Sides() = %v, %v; want E, W", exit, entry)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"toml", "[[blocks]]\nid = \"A\"\ncolour = \"red\"\n", FormatTOML},
		{"json", `{"blocks": [{"id": "A", "colour": "red"}]}`, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), tt.format)
			if !errs.Is(err, errs.ErrCodeInvalidFormat) {
				t.Errorf("Parse() error = %v, want %s", err, errs.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	zero, far := 0, -(MaxCoordinate + 1)
	tests := []struct {
		name string
		d    Diagram
		code errs.Code
	}{
		{"no blocks", Diagram{}, errs.ErrCodeInvalidInput},
		{"empty id", Diagram{Blocks: []Block{{ID: ""}}}, errs.ErrCodeInvalidInput},
		{"duplicate", Diagram{Blocks: []Block{{ID: "A"}, {ID: "A"}}}, errs.ErrCodeDuplicate},
		{"half pin", Diagram{Blocks: []Block{{ID: "A", X: &zero}}}, errs.ErrCodeInvalidInput},
		{"pin out of range", Diagram{Blocks: []Block{{ID: "A", X: &zero, Y: &far}}}, errs.ErrCodeInvalidInput},
		{
			"unknown block",
			Diagram{Blocks: []Block{{ID: "A"}}, Connectors: []Connector{{From: "A", To: "B", Direction: "E"}}},
			errs.ErrCodeUnknownVariable,
		},
		{
			"self link",
			Diagram{Blocks: []Block{{ID: "A"}}, Connectors: []Connector{{From: "A", To: "A", Direction: "E"}}},
			errs.ErrCodeInvalidInput,
		},
		{
			"bad direction",
			Diagram{Blocks: []Block{{ID: "A"}, {ID: "B"}}, Connectors: []Connector{{From: "A", To: "B", Direction: "sideways"}}},
			errs.ErrCodeUnrecognizedDirection,
		},
		{
			"bad entry",
			Diagram{Blocks: []Block{{ID: "A"}, {ID: "B"}}, Connectors: []Connector{{From: "A", To: "B", Direction: "E", Entry: "up"}}},
			errs.ErrCodeUnrecognizedDirection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if !errs.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConnectorSides(t *testing.T) {
	tests := []struct {
		c           Connector
		exit, entry geom.Direction
	}{
		{Connector{Direction: "left"}, geom.E, geom.W},
		{Connector{Direction: "above"}, geom.N, geom.S},
		{Connector{Direction: "SW"}, geom.S, geom.N},
		{Connector{Direction: "U"}, geom.N, geom.S},
		{Connector{Direction: "E", Entry: "N"}, geom.E, geom.N},
		{Connector{Direction: "E", Exit: "s"}, geom.S, geom.N},
	}
	for _, tt := range tests {
		exit, entry, err := tt.c.Sides()
		if err != nil {
			t.Errorf("%+v.Sides(): %v", tt.c, err)
			continue
		}
		if exit != tt.exit || entry != tt.entry {
			t.Errorf("%+v.Sides() = %v, %v; want %v, %v", tt.c, exit, entry, tt.exit, tt.entry)
		}
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "review.toml")
	if err := os.WriteFile(path, []byte(reviewTOML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err != nil {
		t.Errorf("ReadFile(%s): %v", path, err)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want %s", err, errs.ErrCodeFileNotFound)
	}
	if _, err := ReadFile(filepath.Join(dir, "diagram.yaml")); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("ReadFile(yaml) error = %v, want %s", err, errs.ErrCodeInvalidFormat)
	}
}

func TestLayoutFile(t *testing.T) {
	l := Layout{
		ID:     "test",
		Width:  320,
		Height: 96,
		Blocks: []PlacedBlock{{ID: "A", Cell: geom.Pt(1, 1), Area: geom.Rect(100, 36, 219, 59)}},
		Connectors: []RoutedConnector{{
			From: "A", To: "B", Direction: "left", Exit: geom.E, Entry: geom.W,
			Path: []geom.LineSegment{geom.Seg(geom.Pt(1, 1), geom.Pt(2, 1))},
		}},
	}
	path := filepath.Join(t.TempDir(), "out.layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	b, ok := got.Block("A")
	if !ok || b.Area != l.Blocks[0].Area {
		t.Errorf("Block(A) = %+v, want area %v", b, l.Blocks[0].Area)
	}
	if got.Connectors[0].Exit != geom.E || got.Connectors[0].Entry != geom.W {
		t.Errorf("connector sides = %v/%v, want E/W", got.Connectors[0].Exit, got.Connectors[0].Entry)
	}

	if _, err := UnmarshalLayout([]byte(`{"id": "x"}`)); err == nil {
		t.Error("UnmarshalLayout without blocks should fail")
	}
}
