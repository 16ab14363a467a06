package codec

import (
	"strings"
	"testing"

	"github.com/roboco-io/docx2json/internal/ir"
)

const patchTargetJSON = `{
	"version": "1.0",
	"meta": {"core_properties": {"title": "Old"}},
	"blocks": [
		{"id": "doc-obj-1", "type": "paragraph", "style": "Heading 1",
		 "runs": [{"id": "doc-obj-2", "type": "run", "text": "old heading"}]},
		{"id": "doc-obj-3", "type": "table", "rows": [[
			{"id": "doc-obj-4", "type": "cell", "blocks": [
				{"id": "doc-obj-5", "type": "paragraph",
				 "runs": [{"id": "doc-obj-6", "type": "run", "text": "cell text"}]}
			]}
		]]}
	]
}`

func TestApplyPatchShallowMerge(t *testing.T) {
	patch := `[
		{"id": "doc-obj-2", "text": "new heading", "bold": true},
		{"id": "doc-obj-6", "text": "updated cell"}
	]`
	merged, result, err := ApplyPatchJSON([]byte(patchTargetJSON), []byte(patch))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied != 2 || len(result.Warnings) != 0 {
		t.Errorf("result = %+v", result)
	}

	doc, err := ir.Parse(merged)
	if err != nil {
		t.Fatalf("parse merged: %v", err)
	}
	run := doc.Blocks[0].Paragraph.Runs[0]
	if run.Text != "new heading" {
		t.Errorf("text = %q", run.Text)
	}
	if run.Bold == nil || !*run.Bold {
		t.Error("bold not applied")
	}
	// Untouched siblings stay intact.
	if *doc.Blocks[0].Paragraph.Style != "Heading 1" {
		t.Error("paragraph style clobbered")
	}
	if doc.Blocks[1].Table.Rows[0][0].Blocks[0].Paragraph.Runs[0].Text != "updated cell" {
		t.Error("nested cell text not applied")
	}
}

func TestApplyPatchUnknownIDWarns(t *testing.T) {
	patch := `[{"id": "doc-obj-999", "text": "ghost"}, {"text": "no id"}]`
	_, result, err := ApplyPatchJSON([]byte(patchTargetJSON), []byte(patch))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied != 0 {
		t.Errorf("applied = %d, want 0", result.Applied)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("warnings = %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "doc-obj-999") {
		t.Errorf("warning = %q", result.Warnings[0])
	}
}

func TestApplyPatchBareObject(t *testing.T) {
	patch := `{"id": "doc-obj-2", "text": "single fragment"}`
	merged, result, err := ApplyPatchJSON([]byte(patchTargetJSON), []byte(patch))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied != 1 {
		t.Errorf("applied = %d", result.Applied)
	}
	doc, err := ir.Parse(merged)
	if err != nil {
		t.Fatalf("parse merged: %v", err)
	}
	if doc.Blocks[0].Paragraph.Runs[0].Text != "single fragment" {
		t.Error("bare-object patch not applied")
	}
}

func TestApplyPatchReplacesRunList(t *testing.T) {
	// A fragment that sets "runs" swaps the whole list; later fragments can
	// then address the runs it introduced.
	patch := `[
		{"id": "doc-obj-1", "runs": [
			{"id": "doc-obj-100", "type": "run", "text": "first"},
			{"id": "doc-obj-101", "type": "run", "text": "second"}
		]},
		{"id": "doc-obj-101", "text": "second, revised"}
	]`
	merged, result, err := ApplyPatchJSON([]byte(patchTargetJSON), []byte(patch))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied != 2 {
		t.Errorf("applied = %d, warnings = %v", result.Applied, result.Warnings)
	}
	doc, err := ir.Parse(merged)
	if err != nil {
		t.Fatalf("parse merged: %v", err)
	}
	runs := doc.Blocks[0].Paragraph.Runs
	if len(runs) != 2 || runs[0].Text != "first" || runs[1].Text != "second, revised" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestParseFragmentsRejectsGarbage(t *testing.T) {
	if _, err := ParseFragments([]byte("")); err == nil {
		t.Error("empty patch should fail")
	}
	if _, err := ParseFragments([]byte("not json")); err == nil {
		t.Error("non-JSON patch should fail")
	}
}
