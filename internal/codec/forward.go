package codec

import (
	"fmt"
	"path"
	"time"

	"github.com/roboco-io/docx2json/internal/docx"
	"github.com/roboco-io/docx2json/internal/ir"
)

// Converter turns an opened docx package into the addressable JSON tree. Each
// conversion owns an id allocator, so ids are stable within one output and
// start from doc-obj-1 in the next.
type Converter struct {
	pkg *docx.Package
	ids *ir.IDAllocator
}

// Convert reads docx bytes and produces the JSON document. source is recorded
// in meta.source; pass the input file name.
func Convert(data []byte, source string) (*ir.Document, error) {
	if err := docx.CheckFormat(data); err != nil {
		return nil, err
	}
	pkg, err := docx.Open(data)
	if err != nil {
		return nil, err
	}
	c := &Converter{pkg: pkg, ids: ir.NewIDAllocator()}
	doc := c.convert()
	doc.Meta.Source = source
	doc.Meta.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	return doc, nil
}

func (c *Converter) convert() *ir.Document {
	doc := ir.NewDocument()
	doc.Meta.CoreProperties = c.coreProperties()
	doc.Sections = c.sections()
	doc.Blocks = c.blocks(c.pkg.Body.Blocks)
	return doc
}

func (c *Converter) coreProperties() ir.CoreProperties {
	p := c.pkg.CoreProps
	return ir.CoreProperties{
		Title:          p.Title,
		Subject:        p.Subject,
		Category:       p.Category,
		Keywords:       p.Keywords,
		Comments:       p.Comments,
		Author:         p.Author,
		LastModifiedBy: p.LastModifiedBy,
		Created:        p.Created,
		Modified:       p.Modified,
		Version:        p.Version,
	}
}

// sections collects paragraph-level section breaks in order, then the body's
// trailing section.
func (c *Converter) sections() []ir.Section {
	var sections []ir.Section
	for _, blk := range c.pkg.Body.Blocks {
		p, ok := blk.(*docx.Paragraph)
		if !ok || p.Properties == nil || p.Properties.SectPr == nil {
			continue
		}
		sections = append(sections, sectionFromXML(p.Properties.SectPr))
	}
	if c.pkg.Body.SectPr != nil {
		sections = append(sections, sectionFromXML(c.pkg.Body.SectPr))
	}
	return sections
}

func sectionFromXML(sect *docx.SectionProperties) ir.Section {
	var s ir.Section
	if sz := sect.PageSize; sz != nil {
		s.PageWidthPt = twipsToPoints(sz.W)
		s.PageHeightPt = twipsToPoints(sz.H)
		if sz.Orient == "landscape" {
			s.Orientation = ir.String("LANDSCAPE")
		} else {
			s.Orientation = ir.String("PORTRAIT")
		}
	}
	if m := sect.PageMargins; m != nil {
		s.LeftMarginPt = twipsToPoints(m.Left)
		s.RightMarginPt = twipsToPoints(m.Right)
		s.TopMarginPt = twipsToPoints(m.Top)
		s.BottomMarginPt = twipsToPoints(m.Bottom)
		s.HeaderDistancePt = twipsToPoints(m.Header)
		s.FooterDistancePt = twipsToPoints(m.Footer)
	}
	return s
}

func (c *Converter) blocks(elements []docx.BlockElement) []ir.Block {
	blocks := make([]ir.Block, 0, len(elements))
	for _, el := range elements {
		switch node := el.(type) {
		case *docx.Paragraph:
			blocks = append(blocks, ir.ParagraphBlock(c.paragraph(node)))
		case *docx.Table:
			blocks = append(blocks, ir.TableBlock(c.table(node)))
		}
	}
	return blocks
}

func (c *Converter) paragraph(src *docx.Paragraph) *ir.Paragraph {
	p := ir.NewParagraph(c.ids.Next())
	p.Style = ir.String("Normal")

	if props := src.Properties; props != nil {
		if props.Style != nil {
			p.Style = ir.String(c.pkg.Styles.Name(props.Style.Val))
		}
		if props.Jc != nil {
			if token, ok := alignmentFromXML[props.Jc.Val]; ok {
				p.Alignment = &token
			}
		}
		p.Numbering = c.numbering(props.NumPr)
		p.Format = paragraphFormat(props)
	}

	for _, child := range src.Children {
		switch node := child.(type) {
		case *docx.Run:
			p.AddRun(c.run(node, nil))
		case *docx.Hyperlink:
			link := c.hyperlink(node)
			for _, run := range node.Runs {
				p.AddRun(c.run(run, link))
			}
		}
	}
	return p
}

func paragraphFormat(props *docx.ParagraphProperties) ir.ParagraphFormat {
	var f ir.ParagraphFormat
	if ind := props.Indent; ind != nil {
		f.LeftIndentPt = twipsToPoints(ind.Left)
		f.RightIndentPt = twipsToPoints(ind.Right)
		switch {
		case ind.FirstLine != "":
			f.FirstLineIndentPt = twipsToPoints(ind.FirstLine)
		case ind.Hanging != "":
			if pt := twipsToPoints(ind.Hanging); pt != nil {
				f.FirstLineIndentPt = ir.Float(-*pt)
			}
		}
	}
	if sp := props.Spacing; sp != nil {
		f.SpaceBeforePt = twipsToPoints(sp.Before)
		f.SpaceAfterPt = twipsToPoints(sp.After)
		if sp.Line != "" {
			switch sp.LineRule {
			case "", "auto":
				f.LineSpacingMultiple = lineToMultiple(sp.Line)
				if f.LineSpacingMultiple != nil {
					f.LineSpacingRule = ir.String(multipleRule(*f.LineSpacingMultiple))
				}
			case "exact":
				f.LineSpacingPt = twipsToPoints(sp.Line)
				f.LineSpacingRule = ir.String(ruleExactly)
			case "atLeast":
				f.LineSpacingPt = twipsToPoints(sp.Line)
				f.LineSpacingRule = ir.String(ruleAtLeast)
			}
		}
	}
	return f
}

func multipleRule(m float64) string {
	switch m {
	case 1.0:
		return ruleSingle
	case 1.5:
		return ruleOnePointFive
	case 2.0:
		return ruleDouble
	default:
		return ruleMultiple
	}
}

func (c *Converter) numbering(numPr *docx.NumberingProperties) *ir.Numbering {
	if numPr == nil || numPr.NumID == nil {
		return nil
	}
	numID, ok := parseIntAttr(numPr.NumID.Val)
	if !ok {
		return nil
	}
	n := &ir.Numbering{NumID: ir.Int(numID)}
	if numPr.ILvl != nil {
		if lvl, ok := parseIntAttr(numPr.ILvl.Val); ok {
			n.Level = lvl
		}
	}
	if resolved := c.pkg.Numbering.Resolve(numID, n.Level); resolved != nil {
		n.Format = resolved.Format
		n.LvlText = resolved.LvlText
	}
	return n
}

// hyperlink resolves the wrapper's relationship into a link record shared by
// every run inside the wrapper.
func (c *Converter) hyperlink(link *docx.Hyperlink) *ir.Hyperlink {
	h := &ir.Hyperlink{}
	if link.RelID != "" {
		h.RID = ir.String(link.RelID)
		if rel, ok := c.pkg.Relationship(link.RelID); ok && rel.TargetMode == "External" {
			h.URL = ir.String(rel.Target)
		}
	}
	if link.Anchor != "" {
		h.Anchor = ir.String(link.Anchor)
	}
	return h
}

func (c *Converter) run(src *docx.Run, link *ir.Hyperlink) ir.Run {
	r := ir.NewRun(c.ids.Next(), src.Text())
	r.Hyperlink = link
	r.Images = c.images(src)

	props := src.Properties
	if props == nil {
		return r
	}
	if props.Style != nil {
		r.Style = ir.String(c.pkg.Styles.Name(props.Style.Val))
	}
	if props.Bold != nil {
		r.Bold = ir.Bool(props.Bold.On())
	}
	if props.Italic != nil {
		r.Italic = ir.Bool(props.Italic.On())
	}
	r.Underline = underlineFromProps(props.Underline)
	r.Font = fontFromProps(props)
	return r
}

func underlineFromProps(u *docx.ValAttr) *ir.Underline {
	if u == nil {
		return nil
	}
	switch u.Val {
	case "", "single":
		return ir.UnderlineBool(true)
	case "none":
		return ir.UnderlineBool(false)
	default:
		if token, ok := underlineFromXML[u.Val]; ok {
			return ir.UnderlineStyle(token)
		}
		return ir.UnderlineBool(true)
	}
}

func fontFromProps(props *docx.RunProperties) ir.Font {
	var f ir.Font
	if props.Fonts != nil && props.Fonts.ASCII != "" {
		f.Name = ir.String(props.Fonts.ASCII)
	}
	if props.Size != nil {
		f.SizePt = halfPointsToPoints(props.Size.Val)
	}
	if props.Color != nil {
		f.Color = colorFromXML(props.Color.Val, props.Color.ThemeColor)
	}
	if props.Highlight != nil {
		if token, ok := highlightFromXML[props.Highlight.Val]; ok {
			f.Highlight = &token
		}
	}
	if props.Caps != nil {
		f.AllCaps = ir.Bool(props.Caps.On())
	}
	if props.SmallCaps != nil {
		f.SmallCaps = ir.Bool(props.SmallCaps.On())
	}
	if props.Strike != nil {
		f.Strike = ir.Bool(props.Strike.On())
	}
	if props.DStrike != nil {
		f.DoubleStrike = ir.Bool(props.DStrike.On())
	}
	if props.VertAlign != nil {
		switch props.VertAlign.Val {
		case "superscript":
			f.Superscript = ir.Bool(true)
			f.Subscript = ir.Bool(false)
		case "subscript":
			f.Superscript = ir.Bool(false)
			f.Subscript = ir.Bool(true)
		case "baseline":
			f.Superscript = ir.Bool(false)
			f.Subscript = ir.Bool(false)
		}
	}
	return f
}

// images records the run's embedded pictures. The media part's name inside
// the package supplies the filename and content type; a blip whose
// relationship id resolves to nothing references no part and is dropped.
func (c *Converter) images(src *docx.Run) []ir.ImageRef {
	var refs []ir.ImageRef
	for _, relID := range src.BlipIDs() {
		rel, ok := c.pkg.Relationship(relID)
		if !ok {
			continue
		}
		filename := path.Base(rel.Target)
		refs = append(refs, ir.ImageRef{
			RID:         relID,
			Filename:    filename,
			ContentType: docx.ImageContentType(filename),
		})
	}
	return refs
}

func (c *Converter) table(src *docx.Table) *ir.Table {
	t := ir.NewTable(c.ids.Next())
	if src.Properties != nil && src.Properties.Style != nil {
		t.Style = ir.String(c.pkg.Styles.Name(src.Properties.Style.Val))
	}
	for _, row := range src.Rows {
		cells := make([]ir.Cell, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, c.cell(cell))
		}
		t.AddRow(cells)
	}
	return t
}

func (c *Converter) cell(src *docx.TableCell) ir.Cell {
	cell := ir.NewCell(c.ids.Next())
	if src.Properties != nil && src.Properties.VAlign != nil {
		if token, ok := cellVAlignFromXML[src.Properties.VAlign.Val]; ok {
			cell.VerticalAlignment = &token
		}
	}
	cell.Blocks = c.blocks(src.Blocks)
	return cell
}

// ConvertFile is a convenience wrapper that reports the source name in
// errors.
func ConvertFile(data []byte, name string) (*ir.Document, error) {
	doc, err := Convert(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}
