// Package editor drives the model-backed document workflows: editing an
// existing document through sparse JSON patches, and authoring a new document
// from a prose description.
package editor

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/roboco-io/docx2json/internal/codec"
	"github.com/roboco-io/docx2json/internal/ir"
	"github.com/roboco-io/docx2json/internal/llm"
)

//go:embed prompts/edit_system.txt
var editSystemPrompt string

//go:embed prompts/create_system.txt
var createSystemPrompt string

// Editor runs completions against one provider.
type Editor struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

// New creates an editor. maxTokens and temperature of zero select the
// provider request defaults.
func New(provider llm.Provider, maxTokens int, temperature float64) *Editor {
	return &Editor{provider: provider, maxTokens: maxTokens, temperature: temperature}
}

func (e *Editor) request(system, prompt string) llm.Request {
	req := llm.DefaultRequest()
	if e.maxTokens > 0 {
		req.MaxTokens = e.maxTokens
	}
	if e.temperature > 0 {
		req.Temperature = e.temperature
	}
	req.System = system
	req.Prompt = prompt
	req.JSONOnly = true
	return req
}

// EditResult is the outcome of one edit round.
type EditResult struct {
	// Document is the merged full document JSON.
	Document []byte
	// Patch is the raw fragment array the model produced.
	Patch []byte
	// Applied and Warnings report the patch application.
	Applied  int
	Warnings []string
	Usage    llm.TokenUsage
	Model    string
}

// Edit asks the model for edit fragments against the document and merges them
// into the full tree.
func (e *Editor) Edit(ctx context.Context, documentJSON []byte, instruction string) (*EditResult, error) {
	prompt := fmt.Sprintf("Instruction: %s\n\nDocument:\n%s", instruction, documentJSON)
	resp, err := e.provider.Complete(ctx, e.request(editSystemPrompt, prompt))
	if err != nil {
		return nil, err
	}

	patch := ExtractJSON(resp.Text)
	merged, result, err := codec.ApplyPatchJSON(documentJSON, []byte(patch))
	if err != nil {
		return nil, fmt.Errorf("model returned an unusable patch: %w", err)
	}
	return &EditResult{
		Document: merged,
		Patch:    []byte(patch),
		Applied:  result.Applied,
		Warnings: result.Warnings,
		Usage:    resp.Usage,
		Model:    resp.Model,
	}, nil
}

// CreateResult is the outcome of document authoring.
type CreateResult struct {
	Document []byte
	Usage    llm.TokenUsage
	Model    string
}

// Create asks the model to author a full document from a description. The
// response is validated by parsing it as a document before it is returned.
func (e *Editor) Create(ctx context.Context, description string) (*CreateResult, error) {
	resp, err := e.provider.Complete(ctx, e.request(createSystemPrompt, description))
	if err != nil {
		return nil, err
	}

	raw := ExtractJSON(resp.Text)
	doc, err := ir.Parse([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("model returned an unusable document: %w", err)
	}
	if doc.Version == "" {
		doc.Version = ir.Version
	}

	tree, err := codec.Compact(doc)
	if err != nil {
		return nil, err
	}
	out, err := codec.MarshalIndent(tree)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Document: out, Usage: resp.Usage, Model: resp.Model}, nil
}

// ExtractJSON strips the prose and code fences models wrap around JSON
// output, returning the first JSON value in the text.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)

	// Prefer a fenced block when one exists.
	if start := strings.Index(s, "```"); start >= 0 {
		rest := s[start+3:]
		// Skip a language tag like "json" on the fence line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			s = strings.TrimSpace(rest[:end])
		}
	}

	// Trim any remaining prose before the first bracket and after the
	// matching end of the payload.
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')
	start := objStart
	open, close := byte('{'), byte('}')
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		start = arrStart
		open, close = '[', ']'
	}
	if start < 0 {
		return s
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}
