package docx

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
)

// NumberingLevel is the resolved definition of one list level. Format and
// LvlText stay nil when the numbering part does not define them, which keeps
// partially defined lists distinguishable from fully resolved ones.
type NumberingLevel struct {
	Format  *string
	LvlText *string
}

// NumberingResolver resolves a paragraph's (numId, ilvl) pair through the
// num -> abstractNum -> lvl indirection of word/numbering.xml.
type NumberingResolver struct {
	doc   *xmlquery.Node
	cache map[string]*NumberingLevel
}

func parseNumbering(data []byte) (*NumberingResolver, error) {
	r := &NumberingResolver{cache: make(map[string]*NumberingLevel)}
	if len(data) == 0 {
		return r, nil
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	r.doc = doc
	return r, nil
}

// Resolve returns the level definition for a numbering reference, or nil when
// the numbering part has no matching num element.
func (r *NumberingResolver) Resolve(numID, level int) *NumberingLevel {
	key := fmt.Sprintf("%d:%d", numID, level)
	if cached, ok := r.cache[key]; ok {
		return cached
	}
	resolved := r.resolve(numID, level)
	r.cache[key] = resolved
	return resolved
}

func (r *NumberingResolver) resolve(numID, level int) *NumberingLevel {
	if r.doc == nil {
		return nil
	}
	num := xmlquery.FindOne(r.doc, fmt.Sprintf("//w:num[@w:numId='%d']", numID))
	if num == nil {
		return nil
	}

	// Each lookup below can fail on sparse numbering parts; keep whatever
	// was resolved so far.
	lvlDef := &NumberingLevel{}
	abstractRef := xmlquery.FindOne(num, "w:abstractNumId")
	if abstractRef == nil {
		return lvlDef
	}
	abstractID := abstractRef.SelectAttr("w:val")
	if abstractID == "" {
		return lvlDef
	}
	abstract := xmlquery.FindOne(r.doc, fmt.Sprintf("//w:abstractNum[@w:abstractNumId='%s']", abstractID))
	if abstract == nil {
		return lvlDef
	}
	lvl := xmlquery.FindOne(abstract, fmt.Sprintf("w:lvl[@w:ilvl='%d']", level))
	if lvl == nil {
		return lvlDef
	}
	if numFmt := xmlquery.FindOne(lvl, "w:numFmt"); numFmt != nil {
		if v := numFmt.SelectAttr("w:val"); v != "" {
			lvlDef.Format = &v
		}
	}
	if lvlText := xmlquery.FindOne(lvl, "w:lvlText"); lvlText != nil {
		if v := lvlText.SelectAttr("w:val"); v != "" {
			lvlDef.LvlText = &v
		}
	}
	return lvlDef
}
