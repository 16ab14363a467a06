package docx

import (
	"encoding/xml"
	"strings"
	"testing"
)

const sampleDocXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>
    <w:p>
      <w:pPr>
        <w:pStyle w:val="Heading1"/>
        <w:jc w:val="center"/>
        <w:spacing w:before="240" w:after="120" w:line="360" w:lineRule="auto"/>
        <w:ind w:left="720" w:firstLine="360"/>
      </w:pPr>
      <w:r>
        <w:rPr><w:b/><w:i w:val="0"/><w:sz w:val="28"/><w:color w:val="FF0000"/></w:rPr>
        <w:t>Hello </w:t>
        <w:tab/>
        <w:t>world</w:t>
      </w:r>
      <w:hyperlink r:id="rId7" w:anchor="top">
        <w:r><w:t>link text</w:t></w:r>
      </w:hyperlink>
    </w:p>
    <w:tbl>
      <w:tblPr><w:tblStyle w:val="TableGrid"/></w:tblPr>
      <w:tr>
        <w:tc>
          <w:tcPr><w:vAlign w:val="center"/></w:tcPr>
          <w:p><w:r><w:t>cell A</w:t></w:r></w:p>
          <w:p><w:r><w:t>cell A2</w:t></w:r></w:p>
        </w:tc>
        <w:tc><w:p><w:r><w:t>cell B</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>after table</w:t></w:r></w:p>
    <w:sectPr>
      <w:pgSz w:w="11906" w:h="16838" w:orient="portrait"/>
      <w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/>
    </w:sectPr>
  </w:body>
</w:document>`

func parseSample(t *testing.T) *Body {
	t.Helper()
	var doc documentXML
	if err := xml.Unmarshal([]byte(sampleDocXML), &doc); err != nil {
		t.Fatalf("unmarshal sample document: %v", err)
	}
	if doc.Body == nil {
		t.Fatal("sample document has no body")
	}
	return doc.Body
}

func TestBodyPreservesBlockOrder(t *testing.T) {
	body := parseSample(t)

	if len(body.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(body.Blocks))
	}
	if _, ok := body.Blocks[0].(*Paragraph); !ok {
		t.Errorf("block 0: expected paragraph, got %T", body.Blocks[0])
	}
	if _, ok := body.Blocks[1].(*Table); !ok {
		t.Errorf("block 1: expected table, got %T", body.Blocks[1])
	}
	if p, ok := body.Blocks[2].(*Paragraph); !ok || p.Text() != "after table" {
		t.Errorf("block 2: expected trailing paragraph, got %T", body.Blocks[2])
	}
}

func TestParagraphProperties(t *testing.T) {
	body := parseSample(t)
	p := body.Blocks[0].(*Paragraph)

	props := p.Properties
	if props == nil {
		t.Fatal("paragraph has no properties")
	}
	if props.Style == nil || props.Style.Val != "Heading1" {
		t.Errorf("style = %+v, want Heading1", props.Style)
	}
	if props.Jc == nil || props.Jc.Val != "center" {
		t.Errorf("jc = %+v, want center", props.Jc)
	}
	if props.Spacing == nil || props.Spacing.Line != "360" || props.Spacing.LineRule != "auto" {
		t.Errorf("spacing = %+v", props.Spacing)
	}
	if props.Indent == nil || props.Indent.Left != "720" || props.Indent.FirstLine != "360" {
		t.Errorf("indent = %+v", props.Indent)
	}
}

func TestRunContentAndToggles(t *testing.T) {
	body := parseSample(t)
	p := body.Blocks[0].(*Paragraph)

	runs := p.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs (incl. hyperlink run), got %d", len(runs))
	}
	if got := runs[0].Text(); got != "Hello \tworld" {
		t.Errorf("run text = %q", got)
	}

	props := runs[0].Properties
	if !props.Bold.On() {
		t.Error("empty <w:b/> should read as bold on")
	}
	if props.Italic.On() {
		t.Error(`<w:i w:val="0"/> should read as italic off`)
	}
	if props.Size == nil || props.Size.Val != "28" {
		t.Errorf("sz = %+v, want 28", props.Size)
	}
	if props.Color == nil || props.Color.Val != "FF0000" {
		t.Errorf("color = %+v", props.Color)
	}
}

func TestHyperlinkAttributes(t *testing.T) {
	body := parseSample(t)
	p := body.Blocks[0].(*Paragraph)

	var link *Hyperlink
	for _, child := range p.Children {
		if h, ok := child.(*Hyperlink); ok {
			link = h
		}
	}
	if link == nil {
		t.Fatal("hyperlink not parsed")
	}
	if link.RelID != "rId7" || link.Anchor != "top" {
		t.Errorf("hyperlink = {rId %q, anchor %q}", link.RelID, link.Anchor)
	}
	if len(link.Runs) != 1 || link.Runs[0].Text() != "link text" {
		t.Errorf("hyperlink runs = %+v", link.Runs)
	}
}

func TestTableStructure(t *testing.T) {
	body := parseSample(t)
	tbl := body.Blocks[1].(*Table)

	if tbl.Properties == nil || tbl.Properties.Style == nil || tbl.Properties.Style.Val != "TableGrid" {
		t.Errorf("table style = %+v", tbl.Properties)
	}
	if len(tbl.Rows) != 1 || len(tbl.Rows[0].Cells) != 2 {
		t.Fatalf("table shape = %d rows", len(tbl.Rows))
	}
	cell := tbl.Rows[0].Cells[0]
	if cell.Properties == nil || cell.Properties.VAlign == nil || cell.Properties.VAlign.Val != "center" {
		t.Errorf("cell vAlign = %+v", cell.Properties)
	}
	if paras := cell.Paragraphs(); len(paras) != 2 || paras[1].Text() != "cell A2" {
		t.Errorf("cell paragraphs = %d", len(paras))
	}
}

func TestSectionProperties(t *testing.T) {
	body := parseSample(t)
	if body.SectPr == nil {
		t.Fatal("section properties not parsed")
	}
	if body.SectPr.PageSize.W != "11906" || body.SectPr.PageSize.Orient != "portrait" {
		t.Errorf("pgSz = %+v", body.SectPr.PageSize)
	}
	if body.SectPr.PageMargins.Top != "1440" {
		t.Errorf("pgMar = %+v", body.SectPr.PageMargins)
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder()

	run := &Run{Properties: &RunProperties{Bold: OnOffValue(true), Size: &ValAttr{Val: "32"}}}
	run.SetText("Title text")
	b.AppendBlock(&Paragraph{
		Properties: &ParagraphProperties{Style: &ValAttr{Val: "Heading1"}},
		Children:   []ParagraphChild{run},
	})

	linkID := b.AddHyperlink("https://example.com/page?a=1&b=2")
	linkRun := &Run{}
	linkRun.SetText("example")
	b.AppendBlock(&Paragraph{
		Children: []ParagraphChild{&Hyperlink{RelID: linkID, Runs: []*Run{linkRun}}},
	})

	cellRun := &Run{}
	cellRun.SetText("cell")
	b.AppendBlock(&Table{
		Properties: &TableProperties{Style: &ValAttr{Val: "TableGrid"}},
		Rows: []*TableRow{{
			Cells: []*TableCell{
				{Blocks: []BlockElement{&Paragraph{Children: []ParagraphChild{cellRun}}}},
				{}, // empty cell must still serialize a paragraph
			},
		}},
	})

	b.SetSection(&SectionProperties{
		PageSize:    &PageSize{W: "11906", H: "16838"},
		PageMargins: &PageMargins{Top: "1440", Left: "1440"},
	})
	b.SetCoreProperties(&CoreProperties{Title: "Round & Trip", Author: "tester"})

	data, err := b.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if DetectFormat(data) != FormatDocx {
		t.Fatal("saved package not detected as docx")
	}

	pkg, err := Open(data)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	// The body ends with a table, so the writer appends an empty closing
	// paragraph to keep the package well-formed.
	if len(pkg.Body.Blocks) != 4 {
		t.Fatalf("reopened blocks = %d, want 4", len(pkg.Body.Blocks))
	}
	if closing, ok := pkg.Body.Blocks[3].(*Paragraph); !ok || closing.Text() != "" {
		t.Errorf("trailing block after table = %#v, want empty paragraph", pkg.Body.Blocks[3])
	}

	p0 := pkg.Body.Blocks[0].(*Paragraph)
	if p0.Text() != "Title text" {
		t.Errorf("paragraph text = %q", p0.Text())
	}
	if !p0.Runs()[0].Properties.Bold.On() {
		t.Error("bold lost in round trip")
	}
	if pkg.Styles.Name(p0.Properties.Style.Val) != "Heading 1" {
		t.Errorf("style name = %q", pkg.Styles.Name(p0.Properties.Style.Val))
	}

	p1 := pkg.Body.Blocks[1].(*Paragraph)
	var link *Hyperlink
	for _, child := range p1.Children {
		if h, ok := child.(*Hyperlink); ok {
			link = h
		}
	}
	if link == nil {
		t.Fatal("hyperlink lost in round trip")
	}
	rel, ok := pkg.Relationship(link.RelID)
	if !ok || rel.Target != "https://example.com/page?a=1&b=2" || rel.TargetMode != "External" {
		t.Errorf("hyperlink rel = %+v ok=%v", rel, ok)
	}

	tbl := pkg.Body.Blocks[2].(*Table)
	if len(tbl.Rows[0].Cells) != 2 {
		t.Fatalf("cells = %d", len(tbl.Rows[0].Cells))
	}
	if paras := tbl.Rows[0].Cells[1].Paragraphs(); len(paras) != 1 {
		t.Errorf("empty cell paragraphs = %d, want 1", len(paras))
	}

	if pkg.CoreProps.Title != "Round & Trip" || pkg.CoreProps.Author != "tester" {
		t.Errorf("core props = %+v", pkg.CoreProps)
	}
	if pkg.Body.SectPr == nil || pkg.Body.SectPr.PageSize.W != "11906" {
		t.Errorf("section lost in round trip")
	}
}

func TestCellEndingWithNestedTableClosesWithParagraph(t *testing.T) {
	innerRun := &Run{}
	innerRun.SetText("inner")
	inner := &Table{Rows: []*TableRow{{
		Cells: []*TableCell{
			{Blocks: []BlockElement{&Paragraph{Children: []ParagraphChild{innerRun}}}},
		},
	}}}
	lead := &Paragraph{}
	outer := &Table{Rows: []*TableRow{{
		Cells: []*TableCell{
			{Blocks: []BlockElement{lead, inner}},
		},
	}}}

	b := NewBuilder()
	b.AppendBlock(outer)
	data, err := b.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	pkg, err := Open(data)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	cell := pkg.Body.Blocks[0].(*Table).Rows[0].Cells[0]
	last := cell.Blocks[len(cell.Blocks)-1]
	if _, ok := last.(*Paragraph); !ok {
		t.Fatalf("cell ends with %T, want a paragraph after the nested table", last)
	}
	nested, ok := cell.Blocks[1].(*Table)
	if !ok {
		t.Fatalf("nested table lost: %#v", cell.Blocks)
	}
	if got := nested.Rows[0].Cells[0].Paragraphs()[0].Text(); got != "inner" {
		t.Errorf("nested cell text = %q", got)
	}
}

func TestBuilderHyperlinkDedup(t *testing.T) {
	b := NewBuilder()
	id1 := b.AddHyperlink("https://example.com/a")
	id2 := b.AddHyperlink("https://example.com/b")
	id3 := b.AddHyperlink("https://example.com/a")
	if id1 == id2 {
		t.Error("distinct targets must get distinct relationship ids")
	}
	if id1 != id3 {
		t.Errorf("repeated target should reuse %s, got %s", id1, id3)
	}
}

func TestBuilderImageParts(t *testing.T) {
	b := NewBuilder()
	id1, err := b.AddImage("chart.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("add image: %v", err)
	}
	id2, err := b.AddImage("chart.png", []byte("other-bytes"))
	if err != nil {
		t.Fatalf("add second image: %v", err)
	}
	if id1 == id2 {
		t.Error("duplicate filenames must get distinct relationship ids")
	}
	if _, err := b.AddImage("diagram.xyz", nil); err == nil {
		t.Error("unsupported extension should be rejected")
	}

	img := &InlineImage{RelID: id1, Name: "chart.png", DocID: b.NextDocID(), CX: 914400, CY: 457200}
	run := &Run{Images: []*InlineImage{img}}
	b.AppendBlock(&Paragraph{Children: []ParagraphChild{run}})

	data, err := b.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	pkg, err := Open(data)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	images := pkg.ImageParts()
	if len(images) != 2 {
		t.Fatalf("media parts = %d, want 2", len(images))
	}
	if string(images["chart.png"]) != "png-bytes" {
		t.Errorf("media content = %q", images["chart.png"])
	}

	p := pkg.Body.Blocks[0].(*Paragraph)
	blips := p.Runs()[0].BlipIDs()
	if len(blips) != 1 || blips[0] != id1 {
		t.Errorf("blip ids = %v, want [%s]", blips, id1)
	}
	rel, ok := pkg.Relationship(id1)
	if !ok || !strings.HasPrefix(rel.Target, "media/") {
		t.Errorf("image rel = %+v", rel)
	}
}

func TestNumberingResolver(t *testing.T) {
	resolver, err := parseNumbering(buildNumberingXML())
	if err != nil {
		t.Fatalf("parse numbering: %v", err)
	}

	lvl := resolver.Resolve(1, 0)
	if lvl == nil || lvl.Format == nil || *lvl.Format != "bullet" {
		t.Fatalf("numId 1 lvl 0 = %+v", lvl)
	}
	if lvl.LvlText == nil || *lvl.LvlText != "•" {
		t.Errorf("bullet lvlText = %+v", lvl.LvlText)
	}

	lvl = resolver.Resolve(2, 1)
	if lvl == nil || lvl.Format == nil || *lvl.Format != "decimal" {
		t.Fatalf("numId 2 lvl 1 = %+v", lvl)
	}
	if lvl.LvlText == nil || *lvl.LvlText != "%2." {
		t.Errorf("decimal lvlText = %+v", lvl.LvlText)
	}

	if got := resolver.Resolve(99, 0); got != nil {
		t.Errorf("unknown numId should resolve to nil, got %+v", got)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x00}, FormatDocx},
		{"plain text", []byte("hello"), FormatUnknown},
		{"empty", nil, FormatUnknown},
		{"truncated ole", []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, FormatUnknown},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.data); got != tt.want {
			t.Errorf("%s: DetectFormat = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCheckFormatErrors(t *testing.T) {
	if err := CheckFormat([]byte("not a docx")); err == nil {
		t.Error("expected error for non-docx content")
	}
	if err := CheckFormat([]byte{0x50, 0x4b, 0x03, 0x04}); err != nil {
		t.Errorf("zip content should pass: %v", err)
	}
}
