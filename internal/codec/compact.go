package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roboco-io/docx2json/internal/ir"
)

// Compact produces the compact form of a document: adjacent runs with
// identical formatting are merged, then every null, empty-object and
// empty-array value is stripped recursively. The result is a generic tree
// ready for serialization. Compacting an already compact document is a
// no-op.
func Compact(doc *ir.Document) (map[string]any, error) {
	merged := *doc
	merged.Blocks = mergeBlocks(doc.Blocks)

	raw, err := json.Marshal(&merged)
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	var tree map[string]any
	if err := decodeTree(raw, &tree); err != nil {
		return nil, err
	}
	cleaned, _ := CleanTree(tree)
	out, ok := cleaned.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return out, nil
}

// CompactJSON is Compact applied to serialized input, for compacting JSON
// that did not come from this process's forward codec.
func CompactJSON(data []byte) ([]byte, error) {
	doc, err := ir.Parse(data)
	if err != nil {
		return nil, err
	}
	tree, err := Compact(doc)
	if err != nil {
		return nil, err
	}
	return MarshalIndent(tree)
}

// MarshalIndent renders a tree the way the tooling writes JSON files.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal is the single-line variant of MarshalIndent.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mergeBlocks(blocks []ir.Block) []ir.Block {
	out := make([]ir.Block, 0, len(blocks))
	for _, blk := range blocks {
		switch {
		case blk.Paragraph != nil:
			p := *blk.Paragraph
			p.Runs = mergeRuns(p.Runs)
			out = append(out, ir.ParagraphBlock(&p))
		case blk.Table != nil:
			t := *blk.Table
			rows := make([][]ir.Cell, len(t.Rows))
			for i, row := range t.Rows {
				cells := make([]ir.Cell, len(row))
				for j, cell := range row {
					cell.Blocks = mergeBlocks(cell.Blocks)
					cells[j] = cell
				}
				rows[i] = cells
			}
			t.Rows = rows
			out = append(out, ir.TableBlock(&t))
		default:
			out = append(out, blk)
		}
	}
	return out
}

// mergeRuns joins adjacent non-empty text runs whose formatting is identical
// once id and text are ignored. The merged run keeps the first run's id. Runs
// carrying images never merge; merging would duplicate or drop embeds.
func mergeRuns(runs []ir.Run) []ir.Run {
	if len(runs) < 2 {
		return runs
	}
	out := make([]ir.Run, 0, len(runs))
	out = append(out, runs[0])
	for _, run := range runs[1:] {
		last := &out[len(out)-1]
		if last.Text != "" && run.Text != "" &&
			len(last.Images) == 0 && len(run.Images) == 0 &&
			runStyleKey(*last) == runStyleKey(run) {
			last.Text += run.Text
			continue
		}
		out = append(out, run)
	}
	return out
}

// runStyleKey is a canonical fingerprint of a run's formatting. Keys of map
// encoding are sorted by encoding/json, so equal formatting yields equal
// strings.
func runStyleKey(r ir.Run) string {
	raw, err := json.Marshal(r)
	if err != nil {
		return string(r.ID)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return string(r.ID)
	}
	delete(tree, "id")
	delete(tree, "text")
	cleaned, empty := CleanTree(tree)
	if empty {
		return "{}"
	}
	key, err := json.Marshal(cleaned)
	if err != nil {
		return string(r.ID)
	}
	return string(key)
}

// CleanTree strips null values, empty strings, empty objects and empty
// arrays recursively. The second return reports whether the whole value
// cleaned away.
func CleanTree(v any) (any, bool) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			cleaned, empty := CleanTree(val)
			if empty {
				continue
			}
			out[k] = cleaned
		}
		if len(out) == 0 {
			return nil, true
		}
		return out, false
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			cleaned, empty := CleanTree(val)
			if empty {
				continue
			}
			out = append(out, cleaned)
		}
		if len(out) == 0 {
			return nil, true
		}
		return out, false
	case string:
		if t == "" {
			return nil, true
		}
		return t, false
	case nil:
		return nil, true
	default:
		return v, false
	}
}

func decodeTree(data []byte, into *map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("decode document tree: %w", err)
	}
	return nil
}
