package docx

import (
	"encoding/xml"
	"io"
)

// Table is a <w:tbl> element.
type Table struct {
	Properties *TableProperties
	Rows       []*TableRow
}

func (t *Table) isBlockElement() {}

// GridWidth returns the widest row's cell count.
func (t *Table) GridWidth() int {
	max := 0
	for _, row := range t.Rows {
		if len(row.Cells) > max {
			max = len(row.Cells)
		}
	}
	return max
}

// UnmarshalXML reads properties and rows; the grid definition is skipped
// because cell counts are taken from the rows themselves.
func (t *Table) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "tblPr":
				var props TableProperties
				if err := d.DecodeElement(&props, &tok); err != nil {
					return err
				}
				t.Properties = &props
			case "tr":
				var row TableRow
				if err := d.DecodeElement(&row, &tok); err != nil {
					return err
				}
				t.Rows = append(t.Rows, &row)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if tok.Name.Local == "tbl" {
				return nil
			}
		}
	}
}

// MarshalXML writes the table with an explicit grid sized to the widest row.
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if t.Properties != nil {
		if err := e.EncodeElement(t.Properties, xml.StartElement{Name: xml.Name{Local: "w:tblPr"}}); err != nil {
			return err
		}
	}
	grid := xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}
	if err := e.EncodeToken(grid); err != nil {
		return err
	}
	for i := 0; i < t.GridWidth(); i++ {
		if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:gridCol"}}); err != nil {
			return err
		}
	}
	if err := e.EncodeToken(xml.EndElement{Name: grid.Name}); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := e.EncodeElement(row, xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableProperties is <w:tblPr>; only the style reference is modeled.
type TableProperties struct {
	Style *ValAttr `xml:"tblStyle"`
}

// MarshalXML writes the style reference when present.
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Style != nil {
		if err := p.Style.marshalAs(e, "w:tblStyle"); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableRow is a <w:tr> element.
type TableRow struct {
	Cells []*TableCell
}

// UnmarshalXML collects the row's cells.
func (r *TableRow) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			if t.Name.Local == "tc" {
				var cell TableCell
				if err := d.DecodeElement(&cell, &t); err != nil {
					return err
				}
				r.Cells = append(r.Cells, &cell)
			} else if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return nil
			}
		}
	}
}

// MarshalXML writes the row's cells.
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, cell := range r.Cells {
		if err := e.EncodeElement(cell, xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableCell is a <w:tc>. Cells hold block elements in document order;
// nested tables are allowed.
type TableCell struct {
	Properties *TableCellProperties
	Blocks     []BlockElement
}

// Paragraphs returns the cell's direct paragraph children.
func (c *TableCell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, blk := range c.Blocks {
		if p, ok := blk.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// UnmarshalXML reads the cell's properties and ordered content.
func (c *TableCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "tcPr":
				var props TableCellProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				c.Properties = &props
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				c.Blocks = append(c.Blocks, &para)
			case "tbl":
				var tbl Table
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				c.Blocks = append(c.Blocks, &tbl)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tc" {
				return nil
			}
		}
	}
}

// MarshalXML writes the cell. The format requires the last element of a cell
// to be a paragraph, so an empty one is appended when the cell has no blocks
// or ends with a nested table.
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tc"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if c.Properties != nil {
		if err := e.EncodeElement(c.Properties, xml.StartElement{Name: xml.Name{Local: "w:tcPr"}}); err != nil {
			return err
		}
	}
	if err := encodeBlocks(e, c.Blocks); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableCellProperties is <w:tcPr>; only vertical alignment is modeled.
type TableCellProperties struct {
	VAlign *ValAttr `xml:"vAlign"`
}

// MarshalXML writes the vertical alignment when present.
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tcPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.VAlign != nil {
		if err := p.VAlign.marshalAs(e, "w:vAlign"); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
