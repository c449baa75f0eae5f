// Package rewriter provides prompt construction and response parsing shared
// by the rewrite backends, plus a factory to select one by name.
package rewriter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// SystemPrompt instructs the model to paraphrase without changing meaning.
// The answer kind and choice count in the user prompt pin down what must
// stay structurally intact.
const SystemPrompt = `You rewrite Belgian driving-exam questions in Dutch.
Paraphrase the question and explanation so they read naturally, without
changing their meaning, their correct answer, or any rule of the road they
reference. Do not translate. Do not add or remove information.

Respond with a single JSON object:
{"question": "<rewritten question>", "explanation": "<rewritten explanation>"}

Return only the JSON object, no other text.`

// UserPrompt renders one record into the backend-agnostic user message.
func UserPrompt(req driven.RewriteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer kind: %s\n", req.AnswerKind)
	if req.OptionCount > 0 {
		fmt.Fprintf(&b, "The question has %d answer choices; the rewrite must stay valid for all of them.\n", req.OptionCount)
	}
	fmt.Fprintf(&b, "\nQuestion:\n%s\n\nExplanation:\n%s\n", req.Question, req.Explanation)
	return b.String()
}

// rewritePayload is the JSON object the model is asked to return.
type rewritePayload struct {
	Question    string `json:"question"`
	Explanation string `json:"explanation"`
}

// ParseResponse extracts the rewrite payload from raw model output. Models
// wrap JSON in prose or code fences often enough that we take the substring
// from the first '{' to the last '}' before decoding.
func ParseResponse(recordID, raw string) (domain.RewriteResult, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return domain.RewriteResult{}, fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedResponse)
	}

	var payload rewritePayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return domain.RewriteResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if payload.Question == "" || payload.Explanation == "" {
		return domain.RewriteResult{}, fmt.Errorf("%w: response missing question or explanation", domain.ErrMalformedResponse)
	}

	return domain.RewriteResult{
		RecordID:    recordID,
		Question:    strings.TrimSpace(payload.Question),
		Explanation: strings.TrimSpace(payload.Explanation),
	}, nil
}
