package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// Package is an opened .docx file. All parts are read into memory on Open so
// the source file can be closed immediately.
type Package struct {
	parts map[string][]byte

	Body      *Body
	Rels      *Relationships
	CoreProps *CoreProperties
	Styles    *StyleMap
	Numbering *NumberingResolver
}

// Open reads a .docx package from a byte slice. The format must already be
// OOXML; use DetectFormat to reject legacy binary files with a useful error.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	pkg := &Package{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		pkg.parts[f.Name] = content
	}

	if err := pkg.parseParts(); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (p *Package) parseParts() error {
	docXML, ok := p.parts["word/document.xml"]
	if !ok {
		return fmt.Errorf("not a docx package: word/document.xml missing")
	}
	var doc documentXML
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return fmt.Errorf("parse document.xml: %w", err)
	}
	if doc.Body == nil {
		doc.Body = &Body{}
	}
	p.Body = doc.Body

	p.Rels = &Relationships{}
	if relsXML, ok := p.parts["word/_rels/document.xml.rels"]; ok {
		if err := xml.Unmarshal(relsXML, p.Rels); err != nil {
			return fmt.Errorf("parse document relationships: %w", err)
		}
	}

	p.CoreProps = &CoreProperties{}
	if coreXML, ok := p.parts["docProps/core.xml"]; ok {
		if err := xml.Unmarshal(coreXML, p.CoreProps); err != nil {
			return fmt.Errorf("parse core properties: %w", err)
		}
	}

	styles, err := parseStyles(p.parts["word/styles.xml"])
	if err != nil {
		return fmt.Errorf("parse styles.xml: %w", err)
	}
	p.Styles = styles

	numbering, err := parseNumbering(p.parts["word/numbering.xml"])
	if err != nil {
		return fmt.Errorf("parse numbering.xml: %w", err)
	}
	p.Numbering = numbering

	return nil
}

// Part returns the raw bytes of a package part by its archive name.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.parts[name]
	return data, ok
}

// Media resolves a relationship target like "media/image1.png" (relative to
// word/) to the part's bytes.
func (p *Package) Media(target string) ([]byte, bool) {
	name := path.Clean("word/" + strings.TrimPrefix(target, "/"))
	data, ok := p.parts[name]
	return data, ok
}

// Relationship looks up a document-part relationship by id.
func (p *Package) Relationship(id string) (Relationship, bool) {
	for _, rel := range p.Rels.Relationships {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ImageParts returns every media part keyed by its file name, in no
// particular order.
func (p *Package) ImageParts() map[string][]byte {
	images := make(map[string][]byte)
	for name, data := range p.parts {
		if strings.HasPrefix(name, "word/media/") {
			images[path.Base(name)] = data
		}
	}
	return images
}
