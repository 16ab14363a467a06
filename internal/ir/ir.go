// Package ir defines the addressable JSON representation of a word-processing
// document. It is the output of the forward codec (docx -> JSON) and the input
// of the reverse codec (JSON -> docx); every node carries a stable id so that
// sparse edits can be merged back into the full tree.
package ir

import (
	"encoding/json"
	"fmt"
)

// Version is the format tag written into every serialized document.
const Version = "1.0"

// Document is the root of the addressable tree.
type Document struct {
	Version  string    `json:"version"`
	Meta     Meta      `json:"meta"`
	Sections []Section `json:"sections"`
	Blocks   []Block   `json:"blocks"`
}

// Meta carries provenance and the package's core properties.
type Meta struct {
	Source         string         `json:"source,omitempty"`
	GeneratedAt    string         `json:"generated_at,omitempty"`
	CoreProperties CoreProperties `json:"core_properties"`
}

// CoreProperties mirrors the Dublin Core metadata part of the package.
type CoreProperties struct {
	Title          string `json:"title"`
	Subject        string `json:"subject"`
	Category       string `json:"category"`
	Keywords       string `json:"keywords"`
	Comments       string `json:"comments"`
	Author         string `json:"author"`
	LastModifiedBy string `json:"last_modified_by"`
	Created        string `json:"created"`
	Modified       string `json:"modified"`
	Version        string `json:"version"`
}

// Section records the page geometry of one document section. All lengths are
// in points. Only the first section is honored on reconstruction.
type Section struct {
	PageWidthPt      *float64 `json:"page_width_pt"`
	PageHeightPt     *float64 `json:"page_height_pt"`
	LeftMarginPt     *float64 `json:"left_margin_pt"`
	RightMarginPt    *float64 `json:"right_margin_pt"`
	TopMarginPt      *float64 `json:"top_margin_pt"`
	BottomMarginPt   *float64 `json:"bottom_margin_pt"`
	HeaderDistancePt *float64 `json:"header_distance_pt"`
	FooterDistancePt *float64 `json:"footer_distance_pt"`
	Orientation      *string  `json:"orientation"`
}

// Node type discriminators as they appear on the wire.
const (
	TypeParagraph = "paragraph"
	TypeTable     = "table"
	TypeRun       = "run"
	TypeCell      = "cell"
)

// Block is the tagged union of the two block-level node kinds. Exactly one of
// the two pointers is set. The discriminator is kept inline on the wire
// ({"type":"paragraph",...}), so marshaling delegates to the wrapped node.
type Block struct {
	Paragraph *Paragraph
	Table     *Table
}

// ParagraphBlock wraps a paragraph as a Block.
func ParagraphBlock(p *Paragraph) Block { return Block{Paragraph: p} }

// TableBlock wraps a table as a Block.
func TableBlock(t *Table) Block { return Block{Table: t} }

// MarshalJSON writes the wrapped node directly, keeping the wire format flat.
func (b Block) MarshalJSON() ([]byte, error) {
	switch {
	case b.Paragraph != nil:
		return json.Marshal(b.Paragraph)
	case b.Table != nil:
		return json.Marshal(b.Table)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON dispatches on the inline "type" discriminator. Unknown block
// types are ignored rather than rejected, matching the reverse codec's
// tolerance of hand-edited input.
func (b *Block) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("block: %w", err)
	}
	switch probe.Type {
	case TypeParagraph:
		var p Paragraph
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("paragraph block: %w", err)
		}
		b.Paragraph = &p
	case TypeTable:
		var t Table
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("table block: %w", err)
		}
		b.Table = &t
	}
	return nil
}

// NewDocument creates an empty document with the current format version.
func NewDocument() *Document {
	return &Document{
		Version: Version,
		Blocks:  make([]Block, 0),
	}
}

// AddParagraph appends a paragraph block to the document body.
func (d *Document) AddParagraph(p *Paragraph) {
	d.Blocks = append(d.Blocks, ParagraphBlock(p))
}

// AddTable appends a table block to the document body.
func (d *Document) AddTable(t *Table) {
	d.Blocks = append(d.Blocks, TableBlock(t))
}

// Parse decodes a serialized document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document JSON: %w", err)
	}
	return &doc, nil
}

// String returns a pointer to v. Convenience for optional fields.
func String(v string) *string { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
