package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PatchResult reports what a patch application did.
type PatchResult struct {
	Applied  int
	Warnings []string
}

// ApplyPatch merges sparse edit fragments into a full document tree. Each
// fragment is an object carrying the "id" of the node it targets plus the
// fields to overwrite; the merge is shallow, so a fragment that sets "runs"
// replaces the whole run list of that paragraph. Fragments whose id does not
// occur in the document are skipped with a warning instead of failing the
// edit.
func ApplyPatch(document map[string]any, fragments []map[string]any) *PatchResult {
	index := make(map[string]map[string]any)
	indexByID(document, index)

	result := &PatchResult{}
	for i, frag := range fragments {
		id, _ := frag["id"].(string)
		if id == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("fragment %d has no id, skipped", i))
			continue
		}
		target, ok := index[id]
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("id %s not found in document, skipped", id))
			continue
		}
		for k, v := range frag {
			if k == "id" {
				continue
			}
			target[k] = v
		}
		result.Applied++
		// Fragments can introduce new addressable nodes (fresh runs, for
		// one); index them so later fragments in the same patch can refine
		// them.
		indexByID(frag, index)
	}
	return result
}

// indexByID walks the tree and records every object carrying a string "id".
// Later duplicates win, which does not matter for well-formed documents where
// ids are unique.
func indexByID(node any, index map[string]map[string]any) {
	switch t := node.(type) {
	case map[string]any:
		if id, ok := t["id"].(string); ok && id != "" {
			index[id] = t
		}
		for _, v := range t {
			indexByID(v, index)
		}
	case []any:
		for _, v := range t {
			indexByID(v, index)
		}
	}
}

// ApplyPatchJSON applies serialized fragments to a serialized document and
// returns the merged document. The patch may be a single object or an array
// of objects; model output often comes back as a bare object.
func ApplyPatchJSON(documentJSON, patchJSON []byte) ([]byte, *PatchResult, error) {
	var document map[string]any
	if err := decodeTree(documentJSON, &document); err != nil {
		return nil, nil, fmt.Errorf("document: %w", err)
	}
	fragments, err := ParseFragments(patchJSON)
	if err != nil {
		return nil, nil, err
	}
	result := ApplyPatch(document, fragments)
	merged, err := MarshalIndent(document)
	if err != nil {
		return nil, nil, fmt.Errorf("serialize merged document: %w", err)
	}
	return merged, result, nil
}

// ParseFragments decodes a patch payload, accepting either a JSON array of
// edit fragments or one bare fragment object.
func ParseFragments(patchJSON []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(patchJSON)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty patch")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if trimmed[0] == '{' {
		var single map[string]any
		if err := dec.Decode(&single); err != nil {
			return nil, fmt.Errorf("decode patch: %w", err)
		}
		return []map[string]any{single}, nil
	}
	var fragments []map[string]any
	if err := dec.Decode(&fragments); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return fragments, nil
}
