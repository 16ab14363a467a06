package docx

import "encoding/xml"

// SectionProperties is <w:sectPr>: page size and margins.
type SectionProperties struct {
	PageSize    *PageSize    `xml:"pgSz"`
	PageMargins *PageMargins `xml:"pgMar"`
}

// MarshalXML writes the section geometry with w:-prefixed names.
func (s SectionProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:sectPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if s.PageSize != nil {
		if err := e.EncodeElement(s.PageSize, xml.StartElement{Name: xml.Name{Local: "w:pgSz"}}); err != nil {
			return err
		}
	}
	if s.PageMargins != nil {
		if err := e.EncodeElement(s.PageMargins, xml.StartElement{Name: xml.Name{Local: "w:pgMar"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// PageSize is <w:pgSz> in twips. Orient is "portrait" or "landscape"; an
// absent attribute means portrait.
type PageSize struct {
	W      string `xml:"w,attr"`
	H      string `xml:"h,attr"`
	Orient string `xml:"orient,attr"`
}

// MarshalXML writes the page-size attributes that are set.
func (p PageSize) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pgSz"}
	start.Attr = nil
	for _, a := range []struct{ name, val string }{
		{"w:w", p.W},
		{"w:h", p.H},
		{"w:orient", p.Orient},
	} {
		if a.val != "" {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.name}, Value: a.val})
		}
	}
	return e.EncodeElement(struct{}{}, start)
}

// PageMargins is <w:pgMar> in twips.
type PageMargins struct {
	Top    string `xml:"top,attr"`
	Right  string `xml:"right,attr"`
	Bottom string `xml:"bottom,attr"`
	Left   string `xml:"left,attr"`
	Header string `xml:"header,attr"`
	Footer string `xml:"footer,attr"`
	Gutter string `xml:"gutter,attr"`
}

// MarshalXML writes the margin attributes that are set.
func (p PageMargins) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pgMar"}
	start.Attr = nil
	for _, a := range []struct{ name, val string }{
		{"w:top", p.Top},
		{"w:right", p.Right},
		{"w:bottom", p.Bottom},
		{"w:left", p.Left},
		{"w:header", p.Header},
		{"w:footer", p.Footer},
		{"w:gutter", p.Gutter},
	} {
		if a.val != "" {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.name}, Value: a.val})
		}
	}
	return e.EncodeElement(struct{}{}, start)
}
