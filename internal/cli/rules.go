package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/adrianpk/layerguard/internal/config"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true)
	styleSuffix = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))
	styleLayer  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A"))
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	stylePlain  = lipgloss.NewStyle()
)

// RunRules prints the rule table, whitelist, scope, isolation rules and
// command guards of cfg.
func RunRules(w io.Writer, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("no configuration")
	}
	arch := cfg.Architecture

	name := cfg.Profile
	if name == "" {
		name = config.DefaultProfile
	}
	fmt.Fprintf(w, "%s %s\n", styleTitle.Render("Profile:"), name)
	fmt.Fprintf(w, "%s %s files under %s/\n\n", styleTitle.Render("Governs:"), arch.Extension, strings.Trim(arch.SourceRoot, "/"))

	fmt.Fprintln(w, styleTitle.Render("Layers"))
	rows := make([][2]string, 0, len(arch.Rules))
	for _, r := range arch.Rules {
		rows = append(rows, [2]string{r.Suffix, r.Layer + "/"})
	}
	fmt.Fprint(w, alignColumns(rows, "  ", 3, styleSuffix, styleLayer))

	if len(arch.Whitelist) > 0 {
		fmt.Fprintf(w, "\n%s\n  %s\n", styleTitle.Render("Whitelist"), strings.Join(arch.Whitelist, ", "))
	}
	if len(cfg.Scope.Exclude) > 0 {
		fmt.Fprintf(w, "\n%s\n  %s\n", styleTitle.Render("Excluded"), strings.Join(cfg.Scope.Exclude, ", "))
	}

	if len(cfg.Isolation) > 0 {
		fmt.Fprintf(w, "\n%s\n", styleTitle.Render("Isolation"))
		for _, iso := range cfg.Isolation {
			fmt.Fprintf(w, "  %s in %s\n", iso.Name, strings.Join(iso.Layers, ", "))
			forbid := make([][2]string, 0, len(iso.Forbid))
			for _, f := range iso.Forbid {
				forbid = append(forbid, [2]string{"forbid", f})
			}
			fmt.Fprint(w, alignColumns(forbid, "    ", 1, styleMuted, stylePlain))
		}
	}

	if len(cfg.Commands.Guards) > 0 {
		fmt.Fprintf(w, "\n%s\n", styleTitle.Render("Command guards"))
		guards := make([][2]string, 0, len(cfg.Commands.Guards))
		for _, g := range cfg.Commands.Guards {
			match := g.Pattern
			if g.Operator != "" {
				if match != "" {
					match += " with "
				}
				match += "operator " + g.Operator
			}
			guards = append(guards, [2]string{g.Name, match})
		}
		fmt.Fprint(w, alignColumns(guards, "  ", 3, stylePlain, styleMuted))
	}
	return nil
}
