package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/adrianpk/layerguard/internal/policy"
)

// Response formats.
const (
	FormatGemini = "gemini"
	FormatClaude = "claude"
)

// DefaultClaudeEvent is reported when the input carried no event name.
const DefaultClaudeEvent = "PreToolUse"

// Decision values.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// GeminiOutput is the BeforeTool response.
type GeminiOutput struct {
	Decision      string `json:"decision"`
	Reason        string `json:"reason,omitempty"`
	SystemMessage string `json:"systemMessage,omitempty"`
}

// ClaudeOutput is the PreToolUse response.
type ClaudeOutput struct {
	HookSpecificOutput ClaudeSpecific `json:"hookSpecificOutput"`
	SystemMessage      string         `json:"systemMessage,omitempty"`
}

// ClaudeSpecific holds the permission decision.
type ClaudeSpecific struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
}

// Reason joins the reasons of a decision into one line per violation.
func Reason(d policy.Decision) string {
	return strings.Join(d.Reasons, "\n")
}

// Encode writes the decision in the given format. An empty format means
// gemini. The claude format echoes event as hookEventName.
func Encode(w io.Writer, format, event string, d policy.Decision) error {
	decision := DecisionAllow
	if !d.Allow {
		decision = DecisionDeny
	}

	var out interface{}
	switch format {
	case "", FormatGemini:
		out = GeminiOutput{
			Decision:      decision,
			Reason:        Reason(d),
			SystemMessage: d.DisplayMessage,
		}
	case FormatClaude:
		if event == "" {
			event = DefaultClaudeEvent
		}
		out = ClaudeOutput{
			HookSpecificOutput: ClaudeSpecific{
				HookEventName:            event,
				PermissionDecision:       decision,
				PermissionDecisionReason: Reason(d),
			},
			SystemMessage: d.DisplayMessage,
		}
	default:
		return fmt.Errorf("unknown response format %q", format)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("cannot encode response: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
