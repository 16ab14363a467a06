package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Builder assembles a fresh .docx package from block elements. It owns the
// relationship id space of the document part; hyperlinks and images must be
// registered through it.
type Builder struct {
	body      *Body
	rels      []Relationship
	linkRels  map[string]string
	media     map[string][]byte
	coreProps *CoreProperties
	nextRelID int
	nextDocID int
}

// NewBuilder returns a builder whose document part already references the
// generated styles and numbering parts.
func NewBuilder() *Builder {
	b := &Builder{
		body:      &Body{},
		linkRels:  make(map[string]string),
		media:     make(map[string][]byte),
		nextRelID: 1,
		nextDocID: 1,
	}
	b.addRel(RelTypeStyles, "styles.xml", false)
	b.addRel(RelTypeNumbering, "numbering.xml", false)
	return b
}

func (b *Builder) addRel(relType, target string, external bool) string {
	id := fmt.Sprintf("rId%d", b.nextRelID)
	b.nextRelID++
	rel := Relationship{ID: id, Type: relType, Target: target}
	if external {
		rel.TargetMode = "External"
	}
	b.rels = append(b.rels, rel)
	return id
}

// AppendBlock adds a paragraph or table to the document body.
func (b *Builder) AppendBlock(block BlockElement) {
	b.body.Blocks = append(b.body.Blocks, block)
}

// SetSection sets the trailing section geometry.
func (b *Builder) SetSection(sect *SectionProperties) {
	b.body.SectPr = sect
}

// SetCoreProperties sets docProps/core.xml content.
func (b *Builder) SetCoreProperties(props *CoreProperties) {
	b.coreProps = props
}

// AddHyperlink registers an external hyperlink target and returns its
// relationship id. Repeated targets share one relationship.
func (b *Builder) AddHyperlink(url string) string {
	if id, ok := b.linkRels[url]; ok {
		return id
	}
	id := b.addRel(RelTypeHyperlink, url, true)
	b.linkRels[url] = id
	return id
}

// AddImage stores an image as a media part and returns the relationship id to
// embed it with. The filename extension decides the content type.
func (b *Builder) AddImage(filename string, data []byte) (string, error) {
	if ImageContentType(filename) == "" {
		return "", fmt.Errorf("unsupported image type: %s", filename)
	}
	name := path.Base(filename)
	// Media part names must be unique within the package.
	if _, taken := b.media[name]; taken {
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		for i := 2; ; i++ {
			candidate := fmt.Sprintf("%s%d%s", base, i, ext)
			if _, taken := b.media[candidate]; !taken {
				name = candidate
				break
			}
		}
	}
	b.media[name] = data
	return b.addRel(RelTypeImage, "media/"+name, false), nil
}

// NextDocID hands out document-unique ids for drawing bookkeeping.
func (b *Builder) NextDocID() int {
	id := b.nextDocID
	b.nextDocID++
	return id
}

// Save renders the package into .docx bytes.
func (b *Builder) Save() ([]byte, error) {
	docXML, err := b.documentXML()
	if err != nil {
		return nil, fmt.Errorf("render document.xml: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", b.contentTypesXML()},
		{"_rels/.rels", rootRelsXML()},
		{"word/document.xml", docXML},
		{"word/_rels/document.xml.rels", relsXML(b.rels)},
		{"word/styles.xml", buildStylesXML()},
		{"word/numbering.xml", buildNumberingXML()},
		{"docProps/core.xml", b.corePropsXML()},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", part.name, err)
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", part.name, err)
		}
	}
	for name, data := range b.media {
		w, err := zw.Create("word/media/" + name)
		if err != nil {
			return nil, fmt.Errorf("create media %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write media %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) documentXML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)

	root := xml.StartElement{
		Name: xml.Name{Local: "w:document"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:w"}, Value: nsW},
			{Name: xml.Name{Local: "xmlns:r"}, Value: nsR},
			{Name: xml.Name{Local: "xmlns:wp"}, Value: nsWP},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}
	if err := enc.EncodeElement(b.body, xml.StartElement{Name: xml.Name{Local: "w:body"}}); err != nil {
		return nil, err
	}
	if err := enc.EncodeToken(xml.EndElement{Name: root.Name}); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Builder) contentTypesXML() []byte {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	fmt.Fprintf(&sb, `<Types xmlns="%s">`, nsCT)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	seen := map[string]bool{}
	for name := range b.media {
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		fmt.Fprintf(&sb, `<Default Extension="%s" ContentType="%s"/>`, ext, ImageContentType(name))
	}

	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	sb.WriteString(`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>`)
	sb.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	sb.WriteString(`</Types>`)
	return []byte(sb.String())
}

func rootRelsXML() []byte {
	rels := []Relationship{
		{ID: "rId1", Type: RelTypeDocument, Target: "word/document.xml"},
		{ID: "rId2", Type: RelTypeCoreProps, Target: "docProps/core.xml"},
	}
	return relsXML(rels)
}

func relsXML(rels []Relationship) []byte {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	fmt.Fprintf(&sb, `<Relationships xmlns="%s">`, nsRel)
	for _, rel := range rels {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"`,
			rel.ID, rel.Type, xmlEscape(rel.Target))
		if rel.TargetMode != "" {
			fmt.Fprintf(&sb, ` TargetMode="%s"`, rel.TargetMode)
		}
		sb.WriteString(`/>`)
	}
	sb.WriteString(`</Relationships>`)
	return []byte(sb.String())
}

func (b *Builder) corePropsXML() []byte {
	props := b.coreProps
	if props == nil {
		props = &CoreProperties{}
	}
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<cp:coreProperties` +
		` xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	writeEl := func(tag, val string) {
		if val != "" {
			fmt.Fprintf(&sb, `<%s>%s</%s>`, tag, xmlEscape(val), tag)
		}
	}
	writeEl("dc:title", props.Title)
	writeEl("dc:subject", props.Subject)
	writeEl("dc:creator", props.Author)
	writeEl("cp:keywords", props.Keywords)
	writeEl("dc:description", props.Comments)
	writeEl("cp:category", props.Category)
	writeEl("cp:lastModifiedBy", props.LastModifiedBy)
	writeEl("cp:revision", props.Revision)
	writeEl("cp:version", props.Version)
	if props.Created != "" {
		fmt.Fprintf(&sb, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, xmlEscape(props.Created))
	}
	if props.Modified != "" {
		fmt.Fprintf(&sb, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, xmlEscape(props.Modified))
	}
	sb.WriteString(`</cp:coreProperties>`)
	return []byte(sb.String())
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
