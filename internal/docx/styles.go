package docx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// StyleMap resolves style ids to their human-readable names and back.
type StyleMap struct {
	idToName map[string]string
	nameToID map[string]string
}

type stylesXMLDoc struct {
	XMLName xml.Name       `xml:"styles"`
	Styles  []styleXMLDecl `xml:"style"`
}

type styleXMLDecl struct {
	Type    string   `xml:"type,attr"`
	StyleID string   `xml:"styleId,attr"`
	Name    *ValAttr `xml:"name"`
}

func parseStyles(data []byte) (*StyleMap, error) {
	sm := &StyleMap{
		idToName: make(map[string]string),
		nameToID: make(map[string]string),
	}
	if len(data) == 0 {
		return sm, nil
	}
	var doc stylesXMLDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for _, s := range doc.Styles {
		if s.StyleID == "" || s.Name == nil || s.Name.Val == "" {
			continue
		}
		sm.idToName[s.StyleID] = s.Name.Val
		if _, ok := sm.nameToID[s.Name.Val]; !ok {
			sm.nameToID[s.Name.Val] = s.StyleID
		}
	}
	return sm, nil
}

// Name returns the display name for a style id, falling back to the id
// itself when the style sheet has no entry.
func (m *StyleMap) Name(styleID string) string {
	if name, ok := m.idToName[styleID]; ok {
		return name
	}
	return styleID
}

// ID returns the style id for a display name.
func (m *StyleMap) ID(name string) (string, bool) {
	id, ok := m.nameToID[name]
	return id, ok
}

// builtinStyle is one entry of the style sheet written into fresh packages.
type builtinStyle struct {
	id     string
	name   string
	kind   string // "paragraph", "character" or "table"
	bold   bool
	sizeHP int    // half-points, 0 means inherit
	numID  int    // list numbering reference, 0 means none
	ilvl   int    // list level for numID
	indent int    // left indent in twips, 0 means none
}

// builtinStyles is the catalog available to documents produced from JSON. The
// names follow the Word built-in set so round-tripped style names resolve.
var builtinStyles = []builtinStyle{
	{id: "Normal", name: "Normal", kind: "paragraph"},
	{id: "Title", name: "Title", kind: "paragraph", bold: true, sizeHP: 56},
	{id: "Subtitle", name: "Subtitle", kind: "paragraph", sizeHP: 30},
	{id: "Heading1", name: "Heading 1", kind: "paragraph", bold: true, sizeHP: 32},
	{id: "Heading2", name: "Heading 2", kind: "paragraph", bold: true, sizeHP: 26},
	{id: "Heading3", name: "Heading 3", kind: "paragraph", bold: true, sizeHP: 24},
	{id: "Heading4", name: "Heading 4", kind: "paragraph", bold: true, sizeHP: 22},
	{id: "Quote", name: "Quote", kind: "paragraph", indent: 720},
	{id: "ListBullet", name: "List Bullet", kind: "paragraph", numID: 1, ilvl: 0},
	{id: "ListBullet2", name: "List Bullet 2", kind: "paragraph", numID: 1, ilvl: 1},
	{id: "ListBullet3", name: "List Bullet 3", kind: "paragraph", numID: 1, ilvl: 2},
	{id: "ListNumber", name: "List Number", kind: "paragraph", numID: 2, ilvl: 0},
	{id: "ListNumber2", name: "List Number 2", kind: "paragraph", numID: 2, ilvl: 1},
	{id: "ListNumber3", name: "List Number 3", kind: "paragraph", numID: 2, ilvl: 2},
	{id: "Hyperlink", name: "Hyperlink", kind: "character"},
	{id: "TableGrid", name: "Table Grid", kind: "table"},
}

// BuiltinStyleID resolves a style display name against the built-in catalog.
func BuiltinStyleID(name string) (string, bool) {
	for _, s := range builtinStyles {
		if s.name == name {
			return s.id, true
		}
	}
	return "", false
}

// buildStylesXML renders the styles part for a fresh package.
func buildStylesXML() []byte {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	fmt.Fprintf(&sb, `<w:styles xmlns:w="%s">`, nsW)
	sb.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>`)
	for _, s := range builtinStyles {
		fmt.Fprintf(&sb, `<w:style w:type="%s" w:styleId="%s">`, s.kind, s.id)
		fmt.Fprintf(&sb, `<w:name w:val="%s"/>`, s.name)
		if s.kind == "paragraph" && s.id != "Normal" {
			sb.WriteString(`<w:basedOn w:val="Normal"/>`)
		}
		sb.WriteString(`<w:qFormat/>`)
		if s.kind == "paragraph" && (s.numID > 0 || s.indent > 0) {
			sb.WriteString(`<w:pPr>`)
			if s.numID > 0 {
				fmt.Fprintf(&sb, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, s.ilvl, s.numID)
			}
			if s.indent > 0 {
				fmt.Fprintf(&sb, `<w:ind w:left="%d"/>`, s.indent)
			}
			sb.WriteString(`</w:pPr>`)
		}
		if s.bold || s.sizeHP > 0 || s.id == "Hyperlink" {
			sb.WriteString(`<w:rPr>`)
			if s.bold {
				sb.WriteString(`<w:b/>`)
			}
			if s.sizeHP > 0 {
				fmt.Fprintf(&sb, `<w:sz w:val="%d"/>`, s.sizeHP)
			}
			if s.id == "Hyperlink" {
				sb.WriteString(`<w:color w:val="0563C1" w:themeColor="hyperlink"/><w:u w:val="single"/>`)
			}
			sb.WriteString(`</w:rPr>`)
		}
		sb.WriteString(`</w:style>`)
	}
	sb.WriteString(`</w:styles>`)
	return []byte(sb.String())
}

// buildNumberingXML renders the numbering part backing the list styles:
// numId 1 is a bullet list, numId 2 a decimal list, each with nine levels.
func buildNumberingXML() []byte {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	fmt.Fprintf(&sb, `<w:numbering xmlns:w="%s">`, nsW)

	sb.WriteString(`<w:abstractNum w:abstractNumId="0">`)
	for lvl := 0; lvl < 9; lvl++ {
		fmt.Fprintf(&sb, `<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr><w:rPr><w:rFonts w:ascii="Symbol" w:hAnsi="Symbol"/></w:rPr></w:lvl>`,
			lvl, 720*(lvl+1))
	}
	sb.WriteString(`</w:abstractNum>`)

	sb.WriteString(`<w:abstractNum w:abstractNumId="1">`)
	for lvl := 0; lvl < 9; lvl++ {
		fmt.Fprintf(&sb, `<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%%%d."/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`,
			lvl, lvl+1, 720*(lvl+1))
	}
	sb.WriteString(`</w:abstractNum>`)

	sb.WriteString(`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>`)
	sb.WriteString(`<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>`)
	sb.WriteString(`</w:numbering>`)
	return []byte(sb.String())
}
