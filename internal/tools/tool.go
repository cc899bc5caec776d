package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is one callable capability exposed to the agent platform.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) *Result
}

// Result is the unified return type from tool execution.
type Result struct {
	ForLLM  string `json:"for_llm"`            // content sent to the LLM
	ForUser string `json:"for_user,omitempty"` // content shown to the user
	IsError bool   `json:"is_error"`           // marks error
	Err     error  `json:"-"`                  // internal error (not serialized)
}

func NewResult(forLLM string) *Result {
	return &Result{ForLLM: forLLM}
}

func ErrorResult(message string) *Result {
	return &Result{ForLLM: message, IsError: true}
}

func (r *Result) WithError(err error) *Result {
	r.Err = err
	return r
}

// JSONResult marshals a payload for the LLM.
func JSONResult(v any) *Result {
	data, err := json.Marshal(v)
	if err != nil {
		return ErrorResult(fmt.Sprintf("marshal tool result: %v", err)).WithError(err)
	}
	return NewResult(string(data))
}
