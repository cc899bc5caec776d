package agentapi

import (
	"encoding/json"
	"log/slog"
	"os"
)

const (
	typeFunctionCall   = "function_call_message"
	typeFunctionReturn = "function_return"

	sendMessageTool = "send_message"
)

// ExtractMessageFromFunctionCall returns the text the agent asked to
// send to the user: the "message" argument of its send_message tool
// invocation. Returns "" when no such call exists or its arguments are
// not valid JSON.
func ExtractMessageFromFunctionCall(messages []Message) string {
	for _, m := range messages {
		if m.MessageType != typeFunctionCall || m.FunctionCall == nil || m.FunctionCall.Name != sendMessageTool {
			continue
		}
		var args struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(m.FunctionCall.Arguments), &args); err != nil {
			slog.Debug("unparseable send_message arguments", "error", err)
			continue
		}
		return args.Message
	}
	return ""
}

// ExtractFilePathFromFunctionReturn scans function-return entries for a
// "message" field naming a file that exists on disk. Tools that render
// reports return such a path; the caller sends the file as an image.
func ExtractFilePathFromFunctionReturn(messages []Message) (string, bool) {
	for _, m := range messages {
		if m.MessageType != typeFunctionReturn || m.FunctionReturn == "" {
			continue
		}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(m.FunctionReturn), &payload); err != nil {
			continue
		}
		if payload.Message == "" {
			continue
		}
		if info, err := os.Stat(payload.Message); err == nil && !info.IsDir() {
			return payload.Message, true
		}
	}
	return "", false
}
