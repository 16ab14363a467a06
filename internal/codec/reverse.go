package codec

import (
	"fmt"
	"strings"

	"github.com/roboco-io/docx2json/internal/docx"
	"github.com/roboco-io/docx2json/internal/ir"
)

// BuildOptions configures the JSON -> docx direction.
type BuildOptions struct {
	// Images resolves image references back to bytes. Nil means no images
	// are available and every reference becomes a text placeholder.
	Images ImageSource
}

// Build reconstructs a .docx package from the JSON document. Recoverable
// problems (unknown styles, missing images) degrade the output and are
// reported as warnings rather than failing the build.
func Build(doc *ir.Document, opts BuildOptions) ([]byte, []string, error) {
	r := &reverser{builder: docx.NewBuilder(), images: opts.Images}
	r.coreProperties(doc)
	r.section(doc)
	for _, blk := range doc.Blocks {
		if el := r.block(blk); el != nil {
			r.builder.AppendBlock(el)
		}
	}
	data, err := r.builder.Save()
	if err != nil {
		return nil, r.warnings, err
	}
	return data, r.warnings, nil
}

type reverser struct {
	builder  *docx.Builder
	images   ImageSource
	warnings []string
}

func (r *reverser) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *reverser) coreProperties(doc *ir.Document) {
	p := doc.Meta.CoreProperties
	r.builder.SetCoreProperties(&docx.CoreProperties{
		Title:          p.Title,
		Subject:        p.Subject,
		Category:       p.Category,
		Keywords:       p.Keywords,
		Comments:       p.Comments,
		Author:         p.Author,
		LastModifiedBy: p.LastModifiedBy,
		Revision:       "",
		Version:        p.Version,
		Created:        p.Created,
		Modified:       p.Modified,
	})
}

// section applies the first section's geometry; further sections are dropped
// with a warning because the output package is single-section.
func (r *reverser) section(doc *ir.Document) {
	if len(doc.Sections) == 0 {
		return
	}
	if len(doc.Sections) > 1 {
		r.warnf("document has %d sections; only the first is applied", len(doc.Sections))
	}
	s := doc.Sections[0]

	sect := &docx.SectionProperties{}
	if s.PageWidthPt != nil || s.PageHeightPt != nil || s.Orientation != nil {
		sz := &docx.PageSize{}
		if s.PageWidthPt != nil {
			sz.W = pointsToTwips(*s.PageWidthPt)
		}
		if s.PageHeightPt != nil {
			sz.H = pointsToTwips(*s.PageHeightPt)
		}
		if s.Orientation != nil && *s.Orientation == "LANDSCAPE" {
			sz.Orient = "landscape"
		}
		sect.PageSize = sz
	}
	if s.LeftMarginPt != nil || s.RightMarginPt != nil || s.TopMarginPt != nil ||
		s.BottomMarginPt != nil || s.HeaderDistancePt != nil || s.FooterDistancePt != nil {
		m := &docx.PageMargins{}
		if s.LeftMarginPt != nil {
			m.Left = pointsToTwips(*s.LeftMarginPt)
		}
		if s.RightMarginPt != nil {
			m.Right = pointsToTwips(*s.RightMarginPt)
		}
		if s.TopMarginPt != nil {
			m.Top = pointsToTwips(*s.TopMarginPt)
		}
		if s.BottomMarginPt != nil {
			m.Bottom = pointsToTwips(*s.BottomMarginPt)
		}
		if s.HeaderDistancePt != nil {
			m.Header = pointsToTwips(*s.HeaderDistancePt)
		}
		if s.FooterDistancePt != nil {
			m.Footer = pointsToTwips(*s.FooterDistancePt)
		}
		sect.PageMargins = m
	}
	if sect.PageSize != nil || sect.PageMargins != nil {
		r.builder.SetSection(sect)
	}
}

func (r *reverser) block(blk ir.Block) docx.BlockElement {
	switch {
	case blk.Paragraph != nil:
		return r.paragraph(blk.Paragraph)
	case blk.Table != nil:
		return r.table(blk.Table)
	default:
		return nil
	}
}

func (r *reverser) paragraph(p *ir.Paragraph) docx.BlockElement {
	// Paragraphs that carry neither text nor images would only add blank
	// lines, so they are dropped.
	if p.IsEmpty() {
		return nil
	}

	out := &docx.Paragraph{}
	props := &docx.ParagraphProperties{}

	if styleID, ok := r.paragraphStyle(p); ok {
		props.Style = &docx.ValAttr{Val: styleID}
	}
	props.NumPr = numberingToXML(p.Numbering)
	if p.Alignment != nil {
		if val, ok := alignmentToXML[*p.Alignment]; ok {
			props.Jc = &docx.ValAttr{Val: val}
		} else {
			r.warnf("%s: unknown alignment %q", p.ID, *p.Alignment)
		}
	}
	props.Spacing, props.Indent = formatToXML(p.Format)

	if props.Style != nil || props.NumPr != nil || props.Jc != nil ||
		props.Spacing != nil || props.Indent != nil {
		out.Properties = props
	}

	for _, run := range p.Runs {
		out.Children = append(out.Children, r.runChildren(run)...)
	}
	return out
}

// paragraphStyle picks the style id for a paragraph. A numbering record is
// approximated with the built-in list styles unless the paragraph already
// names a more specific style.
func (r *reverser) paragraphStyle(p *ir.Paragraph) (string, bool) {
	name := ""
	if p.Style != nil {
		name = *p.Style
	}

	if p.Numbering != nil && (name == "" || name == "Normal" || strings.HasPrefix(name, "List")) {
		base := "List Number"
		if p.Numbering.Format != nil && *p.Numbering.Format == "bullet" {
			base = "List Bullet"
		}
		level := p.Numbering.Level
		if level > 2 {
			level = 2
		}
		if level > 0 {
			base = fmt.Sprintf("%s %d", base, level+1)
		}
		name = base
	}

	switch name {
	case "", "Normal":
		return "", false
	}
	id, ok := docx.BuiltinStyleID(name)
	if !ok {
		r.warnf("%s: style %q not available, using Normal", p.ID, name)
		return "", false
	}
	return id, true
}

// numberingToXML writes an explicit list reference against the generated
// numbering part: numId 1 is the bullet definition, numId 2 the decimal one.
// The source numId is not portable across packages, so only the format and
// level carry over.
func numberingToXML(n *ir.Numbering) *docx.NumberingProperties {
	if n == nil {
		return nil
	}
	numID := "2"
	if n.Format != nil && *n.Format == "bullet" {
		numID = "1"
	}
	level := n.Level
	if level < 0 {
		level = 0
	}
	if level > 8 {
		level = 8
	}
	return &docx.NumberingProperties{
		ILvl:  &docx.ValAttr{Val: fmt.Sprintf("%d", level)},
		NumID: &docx.ValAttr{Val: numID},
	}
}

func formatToXML(f ir.ParagraphFormat) (*docx.SpacingAttr, *docx.IndentAttr) {
	var spacing *docx.SpacingAttr
	if f.SpaceBeforePt != nil || f.SpaceAfterPt != nil ||
		f.LineSpacingMultiple != nil || f.LineSpacingPt != nil {
		spacing = &docx.SpacingAttr{}
		if f.SpaceBeforePt != nil {
			spacing.Before = pointsToTwips(*f.SpaceBeforePt)
		}
		if f.SpaceAfterPt != nil {
			spacing.After = pointsToTwips(*f.SpaceAfterPt)
		}
		switch {
		case f.LineSpacingMultiple != nil:
			spacing.Line = multipleToLine(*f.LineSpacingMultiple)
			spacing.LineRule = "auto"
		case f.LineSpacingPt != nil:
			spacing.Line = pointsToTwips(*f.LineSpacingPt)
			if f.LineSpacingRule != nil && *f.LineSpacingRule == ruleAtLeast {
				spacing.LineRule = "atLeast"
			} else {
				spacing.LineRule = "exact"
			}
		}
	}

	var indent *docx.IndentAttr
	if f.LeftIndentPt != nil || f.RightIndentPt != nil || f.FirstLineIndentPt != nil {
		indent = &docx.IndentAttr{}
		if f.LeftIndentPt != nil {
			indent.Left = pointsToTwips(*f.LeftIndentPt)
		}
		if f.RightIndentPt != nil {
			indent.Right = pointsToTwips(*f.RightIndentPt)
		}
		if f.FirstLineIndentPt != nil {
			if *f.FirstLineIndentPt < 0 {
				indent.Hanging = pointsToTwips(-*f.FirstLineIndentPt)
			} else {
				indent.FirstLine = pointsToTwips(*f.FirstLineIndentPt)
			}
		}
	}
	return spacing, indent
}

// runChildren renders one JSON run into paragraph children: the run itself,
// optionally wrapped in a hyperlink, plus placeholder runs for unresolvable
// images.
func (r *reverser) runChildren(src ir.Run) []docx.ParagraphChild {
	run := &docx.Run{}
	if src.Text != "" {
		run.SetText(src.Text)
	}
	run.Properties = r.runProperties(src)

	var placeholders []docx.ParagraphChild
	for _, ref := range src.Images {
		if img, ok := r.embedImage(ref); ok {
			run.Images = append(run.Images, img)
			continue
		}
		ph := &docx.Run{}
		if ref.Filename != "" {
			ph.SetText(fmt.Sprintf("[Image: %s]", ref.Filename))
		} else {
			ph.SetText("[Image]")
		}
		placeholders = append(placeholders, ph)
	}

	var wrapped docx.ParagraphChild = run
	if link := src.Hyperlink; link != nil {
		switch {
		case link.URL != nil && *link.URL != "":
			relID := r.builder.AddHyperlink(*link.URL)
			wrapped = &docx.Hyperlink{RelID: relID, Runs: []*docx.Run{run}}
		case link.Anchor != nil && *link.Anchor != "":
			wrapped = &docx.Hyperlink{Anchor: *link.Anchor, Runs: []*docx.Run{run}}
		}
	}
	return append([]docx.ParagraphChild{wrapped}, placeholders...)
}

func (r *reverser) embedImage(ref ir.ImageRef) (*docx.InlineImage, bool) {
	if r.images == nil {
		return nil, false
	}
	data, ok := r.images.Lookup(ref)
	if !ok {
		r.warnf("image %s not found, inserting placeholder", ref.Filename)
		return nil, false
	}
	relID, err := r.builder.AddImage(ref.Filename, data)
	if err != nil {
		r.warnf("image %s: %v", ref.Filename, err)
		return nil, false
	}
	cx, cy := imageExtent(data)
	return &docx.InlineImage{
		RelID: relID,
		Name:  ref.Filename,
		DocID: r.builder.NextDocID(),
		CX:    cx,
		CY:    cy,
	}, true
}

func (r *reverser) runProperties(src ir.Run) *docx.RunProperties {
	props := &docx.RunProperties{}
	set := false

	if src.Style != nil && *src.Style != "" && *src.Style != "Default Paragraph Font" {
		if id, ok := docx.BuiltinStyleID(*src.Style); ok {
			props.Style = &docx.ValAttr{Val: id}
			set = true
		} else {
			r.warnf("%s: character style %q not available", src.ID, *src.Style)
		}
	}
	if src.Bold != nil {
		props.Bold = docx.OnOffValue(*src.Bold)
		set = true
	}
	if src.Italic != nil {
		props.Italic = docx.OnOffValue(*src.Italic)
		set = true
	}
	if u := src.Underline; u != nil {
		switch {
		case u.Bool != nil && *u.Bool:
			props.Underline = &docx.ValAttr{Val: "single"}
		case u.Bool != nil:
			props.Underline = &docx.ValAttr{Val: "none"}
		default:
			val, ok := underlineToXML[u.Style]
			if !ok {
				r.warnf("%s: unknown underline style %q, using single", src.ID, u.Style)
				val = "single"
			}
			props.Underline = &docx.ValAttr{Val: val}
		}
		set = true
	}

	f := src.Font
	if f.Name != nil && *f.Name != "" {
		props.Fonts = &docx.RunFonts{ASCII: *f.Name, HAnsi: *f.Name}
		set = true
	}
	if f.SizePt != nil {
		props.Size = &docx.ValAttr{Val: pointsToHalfPoints(*f.SizePt)}
		set = true
	}
	if f.Color != nil && *f.Color != "" {
		if val, theme, ok := colorToXML(*f.Color); ok {
			props.Color = &docx.ColorAttr{Val: val, ThemeColor: theme}
			set = true
		} else {
			r.warnf("%s: unresolvable color %q", src.ID, *f.Color)
		}
	}
	if f.Highlight != nil {
		if val, ok := highlightToXML[*f.Highlight]; ok {
			props.Highlight = &docx.ValAttr{Val: val}
			set = true
		} else {
			r.warnf("%s: unknown highlight %q", src.ID, *f.Highlight)
		}
	}
	if f.AllCaps != nil {
		props.Caps = docx.OnOffValue(*f.AllCaps)
		set = true
	}
	if f.SmallCaps != nil {
		props.SmallCaps = docx.OnOffValue(*f.SmallCaps)
		set = true
	}
	if f.Strike != nil {
		props.Strike = docx.OnOffValue(*f.Strike)
		set = true
	}
	if f.DoubleStrike != nil {
		props.DStrike = docx.OnOffValue(*f.DoubleStrike)
		set = true
	}
	switch {
	case f.Superscript != nil && *f.Superscript:
		props.VertAlign = &docx.ValAttr{Val: "superscript"}
		set = true
	case f.Subscript != nil && *f.Subscript:
		props.VertAlign = &docx.ValAttr{Val: "subscript"}
		set = true
	}

	if !set {
		return nil
	}
	return props
}

func (r *reverser) table(t *ir.Table) docx.BlockElement {
	out := &docx.Table{}

	styleName := "Table Grid"
	if t.Style != nil && *t.Style != "" {
		styleName = *t.Style
	}
	if id, ok := docx.BuiltinStyleID(styleName); ok {
		out.Properties = &docx.TableProperties{Style: &docx.ValAttr{Val: id}}
	} else {
		r.warnf("%s: table style %q not available", t.ID, styleName)
	}

	// Rows are padded to a full rectangular grid; a jagged JSON table still
	// yields a well-formed package.
	width := t.GridWidth()
	for _, row := range t.Rows {
		outRow := &docx.TableRow{}
		for _, cell := range row {
			outRow.Cells = append(outRow.Cells, r.cell(cell))
		}
		for len(outRow.Cells) < width {
			outRow.Cells = append(outRow.Cells, &docx.TableCell{})
		}
		out.Rows = append(out.Rows, outRow)
	}
	return out
}

func (r *reverser) cell(c ir.Cell) *docx.TableCell {
	out := &docx.TableCell{}
	if c.VerticalAlignment != nil {
		if val, ok := cellVAlignToXML[*c.VerticalAlignment]; ok {
			out.Properties = &docx.TableCellProperties{VAlign: &docx.ValAttr{Val: val}}
		} else {
			r.warnf("%s: unknown vertical alignment %q", c.ID, *c.VerticalAlignment)
		}
	}
	for _, blk := range c.Blocks {
		if el := r.block(blk); el != nil {
			out.Blocks = append(out.Blocks, el)
		}
	}
	return out
}
