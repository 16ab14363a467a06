package docx

import (
	"encoding/xml"
	"io"
	"strings"
)

// XML namespaces used across package parts.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// BlockElement is a block-level child of the body or of a table cell: either
// *Paragraph or *Table, in document order.
type BlockElement interface {
	isBlockElement()
}

// Body holds the ordered block elements of the document plus the trailing
// section properties.
type Body struct {
	Blocks []BlockElement
	SectPr *SectionProperties
}

// documentXML is the root of word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *Body    `xml:"body"`
}

// UnmarshalXML walks the body children one token at a time so that the
// paragraph/table interleaving survives.
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, &para)
			case "tbl":
				var tbl Table
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, &tbl)
			case "sectPr":
				var sect SectionProperties
				if err := d.DecodeElement(&sect, &t); err != nil {
					return err
				}
				b.SectPr = &sect
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				return nil
			}
		}
	}
}

// MarshalXML writes the blocks in order with w:-prefixed names.
func (b Body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:body"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := encodeBlocks(e, b.Blocks); err != nil {
		return err
	}
	if b.SectPr != nil {
		if err := e.EncodeElement(b.SectPr, xml.StartElement{Name: xml.Name{Local: "w:sectPr"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// encodeBlocks writes a block sequence. Blocks must end on a paragraph, so a
// trailing table (or an empty sequence) gets an empty paragraph appended.
func encodeBlocks(e *xml.Encoder, blocks []BlockElement) error {
	for _, blk := range blocks {
		switch el := blk.(type) {
		case *Paragraph:
			if err := e.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
				return err
			}
		case *Table:
			if err := e.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:tbl"}}); err != nil {
				return err
			}
		}
	}
	needsTrailingP := len(blocks) == 0
	if !needsTrailingP {
		_, needsTrailingP = blocks[len(blocks)-1].(*Table)
	}
	if needsTrailingP {
		return e.EncodeElement(&Paragraph{}, xml.StartElement{Name: xml.Name{Local: "w:p"}})
	}
	return nil
}

// ValAttr is the ubiquitous single-attribute element (<w:x w:val="..."/>).
type ValAttr struct {
	Val string `xml:"val,attr"`
}

func (v ValAttr) marshalAs(e *xml.Encoder, name string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if v.Val != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:val"}, Value: v.Val})
	}
	return e.EncodeElement(struct{}{}, start)
}

// OnOff is a toggle property element. An empty element means on; a val of
// "0" or "false" means off.
type OnOff struct {
	Val string `xml:"val,attr"`
}

// On reports the toggle value.
func (o *OnOff) On() bool {
	return o != nil && o.Val != "0" && o.Val != "false"
}

func (o OnOff) marshalAs(e *xml.Encoder, name string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if o.Val != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:val"}, Value: o.Val})
	}
	return e.EncodeElement(struct{}{}, start)
}

// OnOffValue builds an explicit toggle element for writing.
func OnOffValue(on bool) *OnOff {
	if on {
		return &OnOff{}
	}
	return &OnOff{Val: "0"}
}

// ParagraphChild is an inline child of a paragraph: *Run or *Hyperlink.
type ParagraphChild interface {
	isParagraphChild()
}

// Paragraph is a <w:p> element with its children in document order.
type Paragraph struct {
	Properties *ParagraphProperties
	Children   []ParagraphChild
}

func (p *Paragraph) isBlockElement() {}

// Runs returns every run in the paragraph, flattening hyperlink wrappers.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, child := range p.Children {
		switch c := child.(type) {
		case *Run:
			runs = append(runs, c)
		case *Hyperlink:
			runs = append(runs, c.Runs...)
		}
	}
	return runs
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// UnmarshalXML preserves the run/hyperlink order.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var props ParagraphProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Properties = &props
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Children = append(p.Children, &run)
			case "hyperlink":
				var link Hyperlink
				if err := d.DecodeElement(&link, &t); err != nil {
					return err
				}
				p.Children = append(p.Children, &link)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}
}

// MarshalXML writes the paragraph with w:-prefixed names.
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
	}
	for _, child := range p.Children {
		switch c := child.(type) {
		case *Run:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
				return err
			}
		case *Hyperlink:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:hyperlink"}}); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// ParagraphProperties is <w:pPr>. A paragraph-level sectPr marks a section
// break; its geometry belongs to the section that ends at this paragraph.
type ParagraphProperties struct {
	Style   *ValAttr             `xml:"pStyle"`
	NumPr   *NumberingProperties `xml:"numPr"`
	Spacing *SpacingAttr         `xml:"spacing"`
	Indent  *IndentAttr          `xml:"ind"`
	Jc      *ValAttr             `xml:"jc"`
	SectPr  *SectionProperties   `xml:"sectPr"`
}

// MarshalXML writes the properties with w:-prefixed names.
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Style != nil {
		if err := p.Style.marshalAs(e, "w:pStyle"); err != nil {
			return err
		}
	}
	if p.NumPr != nil {
		if err := e.EncodeElement(p.NumPr, xml.StartElement{Name: xml.Name{Local: "w:numPr"}}); err != nil {
			return err
		}
	}
	if p.Spacing != nil {
		if err := e.EncodeElement(p.Spacing, xml.StartElement{Name: xml.Name{Local: "w:spacing"}}); err != nil {
			return err
		}
	}
	if p.Indent != nil {
		if err := e.EncodeElement(p.Indent, xml.StartElement{Name: xml.Name{Local: "w:ind"}}); err != nil {
			return err
		}
	}
	if p.Jc != nil {
		if err := p.Jc.marshalAs(e, "w:jc"); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// NumberingProperties is <w:numPr>: the paragraph's list reference.
type NumberingProperties struct {
	ILvl  *ValAttr `xml:"ilvl"`
	NumID *ValAttr `xml:"numId"`
}

// MarshalXML writes ilvl then numId, the order Word emits.
func (n NumberingProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:numPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if n.ILvl != nil {
		if err := n.ILvl.marshalAs(e, "w:ilvl"); err != nil {
			return err
		}
	}
	if n.NumID != nil {
		if err := n.NumID.marshalAs(e, "w:numId"); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// SpacingAttr is <w:spacing>. All values are strings of twips, except Line,
// which is 240ths of a line when LineRule is "auto" (or absent) and twips
// otherwise.
type SpacingAttr struct {
	Before   string `xml:"before,attr"`
	After    string `xml:"after,attr"`
	Line     string `xml:"line,attr"`
	LineRule string `xml:"lineRule,attr"`
}

// MarshalXML writes only the attributes that are set.
func (s SpacingAttr) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:spacing"}
	start.Attr = nil
	for _, a := range []struct{ name, val string }{
		{"w:before", s.Before},
		{"w:after", s.After},
		{"w:line", s.Line},
		{"w:lineRule", s.LineRule},
	} {
		if a.val != "" {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.name}, Value: a.val})
		}
	}
	return e.EncodeElement(struct{}{}, start)
}

// IndentAttr is <w:ind> in twips. Hanging is the negative counterpart of
// FirstLine; a hanging indent reads back as a negative first-line indent.
type IndentAttr struct {
	Left      string `xml:"left,attr"`
	Right     string `xml:"right,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

// MarshalXML writes only the attributes that are set.
func (i IndentAttr) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:ind"}
	start.Attr = nil
	for _, a := range []struct{ name, val string }{
		{"w:left", i.Left},
		{"w:right", i.Right},
		{"w:firstLine", i.FirstLine},
		{"w:hanging", i.Hanging},
	} {
		if a.val != "" {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.name}, Value: a.val})
		}
	}
	return e.EncodeElement(struct{}{}, start)
}

// Hyperlink is a <w:hyperlink> wrapper. RelID references an external URL via
// the part's relationship table; Anchor names an internal bookmark.
type Hyperlink struct {
	RelID  string
	Anchor string
	Runs   []*Run
}

func (h *Hyperlink) isParagraphChild() {}

// UnmarshalXML reads the wrapper attributes and the wrapped runs.
func (h *Hyperlink) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			h.RelID = attr.Value
		case "anchor":
			h.Anchor = attr.Value
		}
	}
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "r" {
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				h.Runs = append(h.Runs, &run)
			} else if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "hyperlink" {
				return nil
			}
		}
	}
}

// MarshalXML writes the wrapper with the relationship id and/or anchor.
func (h Hyperlink) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:hyperlink"}
	start.Attr = nil
	if h.RelID != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "r:id"}, Value: h.RelID})
	}
	if h.Anchor != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:anchor"}, Value: h.Anchor})
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, run := range h.Runs {
		if err := e.EncodeElement(run, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
