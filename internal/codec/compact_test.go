package codec

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/roboco-io/docx2json/internal/ir"
)

func TestCleanTreeStripsEmpties(t *testing.T) {
	in := map[string]any{
		"keep":       "value",
		"zero":       0.0,
		"emptyText":  "",
		"null":       nil,
		"emptyMap":   map[string]any{},
		"emptyList":  []any{},
		"nestedGone": map[string]any{"a": nil, "b": map[string]any{}},
		"nestedKept": map[string]any{"a": nil, "b": "x"},
		"list":       []any{map[string]any{"a": nil}, "y"},
	}
	cleaned, empty := CleanTree(in)
	if empty {
		t.Fatal("tree should not clean away entirely")
	}
	want := map[string]any{
		"keep":       "value",
		"zero":       0.0,
		"nestedKept": map[string]any{"b": "x"},
		"list":       []any{"y"},
	}
	if !reflect.DeepEqual(cleaned, want) {
		t.Errorf("cleaned = %#v\nwant %#v", cleaned, want)
	}
}

func TestCleanTreeIdempotent(t *testing.T) {
	in := map[string]any{
		"a": map[string]any{"b": nil, "c": "x"},
		"d": []any{nil, map[string]any{}},
	}
	once, _ := CleanTree(in)
	twice, _ := CleanTree(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not idempotent: %#v vs %#v", once, twice)
	}
}

func mergeFixture() *ir.Document {
	doc := ir.NewDocument()
	p := ir.NewParagraph("doc-obj-1")

	r1 := ir.NewRun("doc-obj-2", "Hello ")
	r1.Bold = ir.Bool(true)
	r2 := ir.NewRun("doc-obj-3", "world")
	r2.Bold = ir.Bool(true)
	r3 := ir.NewRun("doc-obj-4", "!")
	r3.Bold = ir.Bool(true)
	r3.Italic = ir.Bool(true)
	p.AddRun(r1)
	p.AddRun(r2)
	p.AddRun(r3)
	doc.AddParagraph(p)
	return doc
}

func TestCompactMergesAdjacentRuns(t *testing.T) {
	tree, err := Compact(mergeFixture())
	if err != nil {
		t.Fatalf("compact: %v", err)
	}

	blocks := tree["blocks"].([]any)
	para := blocks[0].(map[string]any)
	runs := para["runs"].([]any)
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2 (first two merged)", len(runs))
	}
	first := runs[0].(map[string]any)
	if first["text"] != "Hello world" {
		t.Errorf("merged text = %q", first["text"])
	}
	// The merged run keeps the first run's id.
	if first["id"] != "doc-obj-2" {
		t.Errorf("merged id = %v", first["id"])
	}
	second := runs[1].(map[string]any)
	if second["text"] != "!" {
		t.Errorf("unmerged run text = %q", second["text"])
	}
}

func TestCompactDoesNotMergeAcrossImages(t *testing.T) {
	doc := ir.NewDocument()
	p := ir.NewParagraph("doc-obj-1")
	r1 := ir.NewRun("doc-obj-2", "before")
	r2 := ir.NewRun("doc-obj-3", "")
	r2.Images = []ir.ImageRef{{RID: "rId4", Filename: "pic.png", ContentType: "image/png"}}
	r3 := ir.NewRun("doc-obj-4", "after")
	p.AddRun(r1)
	p.AddRun(r2)
	p.AddRun(r3)
	doc.AddParagraph(p)

	tree, err := Compact(doc)
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	runs := tree["blocks"].([]any)[0].(map[string]any)["runs"].([]any)
	if len(runs) != 3 {
		t.Errorf("runs = %d, image run must stay separate", len(runs))
	}
}

func TestCompactDoesNotMergeEmptyTextRuns(t *testing.T) {
	doc := ir.NewDocument()
	p := ir.NewParagraph("doc-obj-1")
	p.AddRun(ir.NewRun("doc-obj-2", "before"))
	p.AddRun(ir.NewRun("doc-obj-3", ""))
	p.AddRun(ir.NewRun("doc-obj-4", "after"))
	doc.AddParagraph(p)

	tree, err := Compact(doc)
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	runs := tree["blocks"].([]any)[0].(map[string]any)["runs"].([]any)
	if len(runs) != 3 {
		t.Errorf("runs = %d, empty run must not join its neighbors", len(runs))
	}
}

func TestCompactStripsNulls(t *testing.T) {
	doc := ir.NewDocument()
	p := ir.NewParagraph("doc-obj-1")
	p.AddRun(ir.NewRun("doc-obj-2", "x"))
	doc.AddParagraph(p)

	tree, err := Compact(doc)
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("compact output still has nulls: %s", data)
	}
	if strings.Contains(string(data), `"sections"`) {
		t.Errorf("empty sections survived: %s", data)
	}
	if strings.Contains(string(data), `""`) {
		t.Errorf("empty strings survived: %s", data)
	}
	if strings.Contains(string(data), `"core_properties"`) {
		t.Errorf("blank core properties survived: %s", data)
	}
}

func TestCompactDropsEmptyTextOnImageRuns(t *testing.T) {
	doc := ir.NewDocument()
	p := ir.NewParagraph("doc-obj-1")
	r := ir.NewRun("doc-obj-2", "")
	r.Images = []ir.ImageRef{{RID: "rId4", Filename: "pic.png", ContentType: "image/png"}}
	p.AddRun(r)
	doc.AddParagraph(p)

	tree, err := Compact(doc)
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	run := tree["blocks"].([]any)[0].(map[string]any)["runs"].([]any)[0].(map[string]any)
	if _, present := run["text"]; present {
		t.Errorf("empty text field survived on image run: %#v", run)
	}
	if run["id"] != "doc-obj-2" {
		t.Errorf("id = %v", run["id"])
	}
}

func TestCompactIdempotent(t *testing.T) {
	once, err := Compact(mergeFixture())
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	onceJSON, err := MarshalIndent(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	twiceJSON, err := CompactJSON(onceJSON)
	if err != nil {
		t.Fatalf("recompact: %v", err)
	}
	if string(onceJSON) != string(twiceJSON) {
		t.Errorf("compaction not idempotent:\n%s\nvs\n%s", onceJSON, twiceJSON)
	}
}

func TestCompactRoundTripThroughReverse(t *testing.T) {
	tree, err := Compact(mergeFixture())
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	data, err := MarshalIndent(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Compact JSON must still parse as a document and rebuild.
	doc, err := ir.Parse(data)
	if err != nil {
		t.Fatalf("parse compact form: %v", err)
	}
	built, _, err := Build(doc, BuildOptions{})
	if err != nil {
		t.Fatalf("build from compact form: %v", err)
	}
	back, err := Convert(built, "x.docx")
	if err != nil {
		t.Fatalf("reconvert: %v", err)
	}
	got := back.Blocks[0].Paragraph.Runs[0].Text
	if got != "Hello world" {
		t.Errorf("text = %q", got)
	}
}
