// Package hook adapts agent-CLI hook events to policy decisions.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/adrianpk/layerguard/internal/policy"
)

// MaxInputSize limits how much of stdin is read for one event.
const MaxInputSize = 10 * 1024 * 1024

// Input is the hook event read from stdin.
type Input struct {
	HookEventName string                 `json:"hook_event_name"`
	ToolName      string                 `json:"tool_name"`
	ToolInput     map[string]interface{} `json:"tool_input"`
	Cwd           string                 `json:"cwd,omitempty"`
}

// ReadInput decodes one event. Empty input yields an empty event.
func ReadInput(r io.Reader) (*Input, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize))
	if err != nil {
		return nil, fmt.Errorf("cannot read input: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return &Input{}, nil
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("cannot decode input: %w", err)
	}
	return &in, nil
}

// Action maps the tool input onto an ActionDescription.
func (in *Input) Action() policy.ActionDescription {
	var a policy.ActionDescription
	if in == nil {
		return a
	}
	a.Cwd = in.Cwd
	if in.ToolInput == nil {
		return a
	}

	a.Path = in.str("path")
	if a.Path == "" {
		a.Path = in.str("file_path")
	}
	a.Command = in.str("command")
	a.Content = in.content()
	return a
}

func (in *Input) str(key string) string {
	if v, ok := in.ToolInput[key].(string); ok {
		return v
	}
	return ""
}

// content prefers content, then new_string, then the joined new_string of
// every edit.
func (in *Input) content() *string {
	for _, key := range []string{"content", "new_string"} {
		if v, ok := in.ToolInput[key].(string); ok {
			return &v
		}
	}

	edits, ok := in.ToolInput["edits"].([]interface{})
	if !ok {
		return nil
	}
	var parts []string
	for _, e := range edits {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		if s, ok := m["new_string"].(string); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, "\n")
	return &joined
}
