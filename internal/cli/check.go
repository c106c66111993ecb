package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/adrianpk/layerguard/internal/policy"
)

var (
	styleOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A"))
	styleFail = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E"))
)

// RunCheck validates paths without a hook event. content, when set, is
// checked as the text of every path.
func RunCheck(w io.Writer, p *policy.Policy, paths []string, content *string) (policy.Decision, error) {
	if p == nil {
		return policy.Decision{}, fmt.Errorf("no policy")
	}
	if len(paths) == 0 {
		return policy.Decision{}, fmt.Errorf("no paths given")
	}

	candidates := make([]policy.Candidate, 0, len(paths))
	for _, path := range paths {
		c := policy.Candidate{Path: path, Content: content}
		candidates = append(candidates, c)
		if v := p.Validate(c); v != nil {
			fmt.Fprintf(w, "%s %s\n     %s\n", styleFail.Render("FAIL"), path, v.Message)
			continue
		}
		fmt.Fprintf(w, "%s   %s\n", styleOK.Render("ok"), path)
	}

	d := p.Decide(candidates)
	if !d.Allow {
		fmt.Fprintf(w, "\n%s\n", d.DisplayMessage)
	}
	return d, nil
}
