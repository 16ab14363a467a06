package ir

import (
	"encoding/json"
	"fmt"
)

// Paragraph is a block of runs with paragraph-level formatting.
type Paragraph struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Style     *string         `json:"style"`
	Alignment *string         `json:"alignment"`
	Numbering *Numbering      `json:"numbering"`
	Format    ParagraphFormat `json:"paragraph_format"`
	Runs      []Run           `json:"runs"`
}

// ParagraphFormat holds direct paragraph formatting. Lengths are in points.
// Line spacing is either a unitless multiple or an absolute point value; when
// both are present the multiple wins.
type ParagraphFormat struct {
	LeftIndentPt        *float64 `json:"left_indent_pt"`
	RightIndentPt       *float64 `json:"right_indent_pt"`
	FirstLineIndentPt   *float64 `json:"first_line_indent_pt"`
	SpaceBeforePt       *float64 `json:"space_before_pt"`
	SpaceAfterPt        *float64 `json:"space_after_pt"`
	LineSpacingMultiple *float64 `json:"line_spacing_multiple"`
	LineSpacingPt       *float64 `json:"line_spacing_pt"`
	LineSpacingRule     *string  `json:"line_spacing_rule"`
}

// Numbering is a paragraph's resolved list reference. Format and LvlText stay
// nil when the definition chain could not be followed; NumID and Level come
// straight from the paragraph and are always set when the record exists.
type Numbering struct {
	NumID   *int    `json:"numId"`
	Level   int     `json:"level"`
	Format  *string `json:"format"`
	LvlText *string `json:"lvlText"`
}

// Run is a contiguous span of text (or an embedded image) sharing one
// formatting set.
type Run struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Text      string     `json:"text"`
	Style     *string    `json:"style"`
	Bold      *bool      `json:"bold"`
	Italic    *bool      `json:"italic"`
	Underline *Underline `json:"underline"`
	Font      Font       `json:"font"`
	Hyperlink *Hyperlink `json:"hyperlink"`
	Images    []ImageRef `json:"images"`
}

// Font collects character-level formatting.
type Font struct {
	Name         *string  `json:"name"`
	SizePt       *float64 `json:"size_pt"`
	Color        *string  `json:"color"`
	Highlight    *string  `json:"highlight"`
	AllCaps      *bool    `json:"all_caps"`
	SmallCaps    *bool    `json:"small_caps"`
	Strike       *bool    `json:"strike"`
	DoubleStrike *bool    `json:"double_strike"`
	Superscript  *bool    `json:"superscript"`
	Subscript    *bool    `json:"subscript"`
}

// Hyperlink records the link wrapper enclosing a run. URL is nil for internal
// bookmark links, Anchor for external ones.
type Hyperlink struct {
	RID    *string `json:"rId"`
	URL    *string `json:"url"`
	Anchor *string `json:"anchor"`
}

// ImageRef points at an embedded picture part.
type ImageRef struct {
	RID         string `json:"rId"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// Underline is the tri-state underline value: a plain boolean or a named
// underline style token such as "DOUBLE". On the wire it is either a JSON
// boolean or a string; the unset state is a nil *Underline.
type Underline struct {
	Bool  *bool
	Style string
}

// UnderlineBool returns an underline carrying a boolean value.
func UnderlineBool(v bool) *Underline { return &Underline{Bool: &v} }

// UnderlineStyle returns an underline carrying a style token.
func UnderlineStyle(name string) *Underline { return &Underline{Style: name} }

// MarshalJSON writes the boolean form when set, the style token otherwise.
func (u Underline) MarshalJSON() ([]byte, error) {
	if u.Bool != nil {
		return json.Marshal(*u.Bool)
	}
	if u.Style != "" {
		return json.Marshal(u.Style)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a boolean or a string.
func (u *Underline) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		u.Bool = &b
		u.Style = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		u.Bool = nil
		u.Style = s
		return nil
	}
	return fmt.Errorf("underline: expected bool or string, got %s", data)
}

// NewParagraph creates an empty paragraph with a fresh identifier.
func NewParagraph(id string) *Paragraph {
	return &Paragraph{
		ID:   id,
		Type: TypeParagraph,
		Runs: make([]Run, 0),
	}
}

// AddRun appends a run to the paragraph.
func (p *Paragraph) AddRun(r Run) {
	p.Runs = append(p.Runs, r)
}

// IsEmpty reports whether every run carries neither text nor images. Empty
// paragraphs are skipped by the reverse codec to avoid spurious blank lines.
func (p *Paragraph) IsEmpty() bool {
	for _, r := range p.Runs {
		if r.Text != "" || len(r.Images) > 0 {
			return false
		}
	}
	return true
}

// NewRun creates a text run with a fresh identifier.
func NewRun(id, text string) Run {
	return Run{
		ID:   id,
		Type: TypeRun,
		Text: text,
	}
}
