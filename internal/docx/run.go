package docx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// runFragment is an ordered piece of run content: text, a tab, or a break.
type runFragment struct {
	text string
	tab  bool
	br   bool
}

// Run is a <w:r> element.
type Run struct {
	Properties *RunProperties
	fragments  []runFragment
	Drawings   []Drawing
	// Images holds images to embed when writing; populated by the builder,
	// not by parsing.
	Images []*InlineImage
}

func (r *Run) isParagraphChild() {}

// Text returns the run's text with tabs and breaks flattened to \t and \n,
// the way python-docx exposes run text.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, f := range r.fragments {
		switch {
		case f.tab:
			sb.WriteByte('\t')
		case f.br:
			sb.WriteByte('\n')
		default:
			sb.WriteString(f.text)
		}
	}
	return sb.String()
}

// SetText replaces the run content. Tabs and newlines become tab and break
// elements, mirroring how Text flattens them on read.
func (r *Run) SetText(text string) {
	r.fragments = nil
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			r.fragments = append(r.fragments, runFragment{text: pending.String()})
			pending.Reset()
		}
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			r.fragments = append(r.fragments, runFragment{tab: true})
		case '\n':
			flush()
			r.fragments = append(r.fragments, runFragment{br: true})
		default:
			pending.WriteRune(ch)
		}
	}
	flush()
}

// BlipIDs returns the relationship ids of every embedded picture in the run,
// in document order.
func (r *Run) BlipIDs() []string {
	var ids []string
	for _, d := range r.Drawings {
		ids = append(ids, d.blipIDs()...)
	}
	return ids
}

// UnmarshalXML reads run properties and content in order.
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "rPr":
				var props RunProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				r.Properties = &props
			case "t":
				var text struct {
					Content string `xml:",chardata"`
				}
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.fragments = append(r.fragments, runFragment{text: text.Content})
			case "tab":
				r.fragments = append(r.fragments, runFragment{tab: true})
				if err := d.Skip(); err != nil {
					return err
				}
			case "br", "cr":
				r.fragments = append(r.fragments, runFragment{br: true})
				if err := d.Skip(); err != nil {
					return err
				}
			case "drawing":
				var drawing Drawing
				if err := d.DecodeElement(&drawing, &t); err != nil {
					return err
				}
				r.Drawings = append(r.Drawings, drawing)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return nil
			}
		}
	}
}

// MarshalXML writes the run with w:-prefixed names. Text that begins or ends
// with whitespace gets xml:space="preserve".
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}
	for _, f := range r.fragments {
		switch {
		case f.tab:
			if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:tab"}}); err != nil {
				return err
			}
		case f.br:
			if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:br"}}); err != nil {
				return err
			}
		default:
			tStart := xml.StartElement{Name: xml.Name{Local: "w:t"}}
			if f.text != strings.TrimSpace(f.text) {
				tStart.Attr = append(tStart.Attr, xml.Attr{Name: xml.Name{Local: "xml:space"}, Value: "preserve"})
			}
			if err := e.EncodeElement(f.text, tStart); err != nil {
				return err
			}
		}
	}
	for _, img := range r.Images {
		if err := img.encode(e); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// RunProperties is <w:rPr>.
type RunProperties struct {
	Style     *ValAttr   `xml:"rStyle"`
	Bold      *OnOff     `xml:"b"`
	Italic    *OnOff     `xml:"i"`
	Caps      *OnOff     `xml:"caps"`
	SmallCaps *OnOff     `xml:"smallCaps"`
	Strike    *OnOff     `xml:"strike"`
	DStrike   *OnOff     `xml:"dstrike"`
	Underline *ValAttr   `xml:"u"`
	VertAlign *ValAttr   `xml:"vertAlign"`
	Color     *ColorAttr `xml:"color"`
	Highlight *ValAttr   `xml:"highlight"`
	Size      *ValAttr   `xml:"sz"`
	Fonts     *RunFonts  `xml:"rFonts"`
}

// MarshalXML writes the properties with w:-prefixed names, in the order the
// schema expects.
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Style != nil {
		if err := p.Style.marshalAs(e, "w:rStyle"); err != nil {
			return err
		}
	}
	if p.Fonts != nil {
		if err := e.EncodeElement(p.Fonts, xml.StartElement{Name: xml.Name{Local: "w:rFonts"}}); err != nil {
			return err
		}
	}
	for _, t := range []struct {
		name string
		val  *OnOff
	}{
		{"w:b", p.Bold},
		{"w:i", p.Italic},
		{"w:caps", p.Caps},
		{"w:smallCaps", p.SmallCaps},
		{"w:strike", p.Strike},
		{"w:dstrike", p.DStrike},
	} {
		if t.val != nil {
			if err := t.val.marshalAs(e, t.name); err != nil {
				return err
			}
		}
	}
	if p.Color != nil {
		if err := e.EncodeElement(p.Color, xml.StartElement{Name: xml.Name{Local: "w:color"}}); err != nil {
			return err
		}
	}
	if p.Size != nil {
		if err := p.Size.marshalAs(e, "w:sz"); err != nil {
			return err
		}
	}
	if p.Highlight != nil {
		if err := p.Highlight.marshalAs(e, "w:highlight"); err != nil {
			return err
		}
	}
	if p.Underline != nil {
		if err := p.Underline.marshalAs(e, "w:u"); err != nil {
			return err
		}
	}
	if p.VertAlign != nil {
		if err := p.VertAlign.marshalAs(e, "w:vertAlign"); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// ColorAttr is <w:color>. ThemeColor, when present, takes precedence over the
// literal Val.
type ColorAttr struct {
	Val        string `xml:"val,attr"`
	ThemeColor string `xml:"themeColor,attr"`
}

// MarshalXML writes the color attributes.
func (c ColorAttr) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:color"}
	start.Attr = nil
	if c.Val != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:val"}, Value: c.Val})
	}
	if c.ThemeColor != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:themeColor"}, Value: c.ThemeColor})
	}
	return e.EncodeElement(struct{}{}, start)
}

// RunFonts is <w:rFonts>. Only the ascii and hAnsi slots are modeled; the
// east-asian and complex-script slots pass through untouched on read and are
// not written.
type RunFonts struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
}

// MarshalXML writes the font attributes.
func (f RunFonts) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rFonts"}
	start.Attr = nil
	if f.ASCII != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:ascii"}, Value: f.ASCII})
	}
	if f.HAnsi != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:hAnsi"}, Value: f.HAnsi})
	}
	return e.EncodeElement(struct{}{}, start)
}

// Drawing is a parsed <w:drawing>; only the embedded picture references are
// retained.
type Drawing struct {
	Inline *drawingContainer `xml:"inline"`
	Anchor *drawingContainer `xml:"anchor"`
}

type drawingContainer struct {
	Graphic drawingGraphic `xml:"graphic"`
}

type drawingGraphic struct {
	Data drawingGraphicData `xml:"graphicData"`
}

type drawingGraphicData struct {
	Pic *drawingPic `xml:"pic"`
}

type drawingPic struct {
	BlipFill drawingBlipFill `xml:"blipFill"`
}

type drawingBlipFill struct {
	Blip drawingBlip `xml:"blip"`
}

type drawingBlip struct {
	Embed string `xml:"embed,attr"`
}

func (d Drawing) blipIDs() []string {
	var ids []string
	for _, c := range []*drawingContainer{d.Inline, d.Anchor} {
		if c != nil && c.Graphic.Data.Pic != nil {
			if id := c.Graphic.Data.Pic.BlipFill.Blip.Embed; id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// InlineImage describes a picture to embed when writing a document. CX and CY
// are the display extent in EMU.
type InlineImage struct {
	RelID string
	Name  string
	DocID int
	CX    int64
	CY    int64
}

// encode emits the full inline-drawing element tree for the image.
func (img *InlineImage) encode(e *xml.Encoder) error {
	el := func(name string, attrs ...xml.Attr) xml.StartElement {
		return xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	}
	attr := func(name, val string) xml.Attr {
		return xml.Attr{Name: xml.Name{Local: name}, Value: val}
	}
	open := func(s xml.StartElement) error { return e.EncodeToken(s) }
	closeEl := func(s xml.StartElement) error { return e.EncodeToken(xml.EndElement{Name: s.Name}) }
	empty := func(s xml.StartElement) error {
		if err := open(s); err != nil {
			return err
		}
		return closeEl(s)
	}

	cx := fmt.Sprintf("%d", img.CX)
	cy := fmt.Sprintf("%d", img.CY)
	id := fmt.Sprintf("%d", img.DocID)

	drawing := el("w:drawing")
	if err := open(drawing); err != nil {
		return err
	}
	inline := el("wp:inline",
		attr("distT", "0"), attr("distB", "0"), attr("distL", "0"), attr("distR", "0"))
	if err := open(inline); err != nil {
		return err
	}
	if err := empty(el("wp:extent", attr("cx", cx), attr("cy", cy))); err != nil {
		return err
	}
	if err := empty(el("wp:docPr", attr("id", id), attr("name", img.Name))); err != nil {
		return err
	}
	graphic := el("a:graphic", attr("xmlns:a", nsA))
	if err := open(graphic); err != nil {
		return err
	}
	graphicData := el("a:graphicData", attr("uri", nsPic))
	if err := open(graphicData); err != nil {
		return err
	}
	pic := el("pic:pic", attr("xmlns:pic", nsPic))
	if err := open(pic); err != nil {
		return err
	}

	nvPicPr := el("pic:nvPicPr")
	if err := open(nvPicPr); err != nil {
		return err
	}
	if err := empty(el("pic:cNvPr", attr("id", id), attr("name", img.Name))); err != nil {
		return err
	}
	if err := empty(el("pic:cNvPicPr")); err != nil {
		return err
	}
	if err := closeEl(nvPicPr); err != nil {
		return err
	}

	blipFill := el("pic:blipFill")
	if err := open(blipFill); err != nil {
		return err
	}
	if err := empty(el("a:blip", attr("r:embed", img.RelID))); err != nil {
		return err
	}
	stretch := el("a:stretch")
	if err := open(stretch); err != nil {
		return err
	}
	if err := empty(el("a:fillRect")); err != nil {
		return err
	}
	if err := closeEl(stretch); err != nil {
		return err
	}
	if err := closeEl(blipFill); err != nil {
		return err
	}

	spPr := el("pic:spPr")
	if err := open(spPr); err != nil {
		return err
	}
	xfrm := el("a:xfrm")
	if err := open(xfrm); err != nil {
		return err
	}
	if err := empty(el("a:off", attr("x", "0"), attr("y", "0"))); err != nil {
		return err
	}
	if err := empty(el("a:ext", attr("cx", cx), attr("cy", cy))); err != nil {
		return err
	}
	if err := closeEl(xfrm); err != nil {
		return err
	}
	prstGeom := el("a:prstGeom", attr("prst", "rect"))
	if err := open(prstGeom); err != nil {
		return err
	}
	if err := empty(el("a:avLst")); err != nil {
		return err
	}
	if err := closeEl(prstGeom); err != nil {
		return err
	}
	if err := closeEl(spPr); err != nil {
		return err
	}

	if err := closeEl(pic); err != nil {
		return err
	}
	if err := closeEl(graphicData); err != nil {
		return err
	}
	if err := closeEl(graphic); err != nil {
		return err
	}
	if err := closeEl(inline); err != nil {
		return err
	}
	return closeEl(drawing)
}
