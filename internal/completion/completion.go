// Package completion provides CLI tab-completion for layerguard.
//
// The binary answers completion requests itself: when the shell sets
// COMP_LINE it prints the matches and the caller exits.
package completion

import (
	"os"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/install"
	"github.com/posener/complete/v2/predict"

	"github.com/adrianpk/layerguard/internal/config"
)

const name = "layerguard"

// command builds the completion tree. Profiles come from the embedded set.
func command() *complete.Command {
	profiles := predict.Set(config.Profiles())
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"hook":    {},
			"init":    {Flags: map[string]complete.Predictor{"local": predict.Nothing, "profile": profiles}},
			"rules":   {Flags: map[string]complete.Predictor{"profile": profiles}},
			"check":   {Flags: map[string]complete.Predictor{"content": predict.Files("*")}, Args: predict.Files("*")},
			"mcp":     {},
			"version": {},
			"completion": {Flags: map[string]complete.Predictor{
				"install":   predict.Nothing,
				"uninstall": predict.Nothing,
			}},
		},
	}
}

// Run answers a shell completion request. It returns false when the binary
// was not invoked for completion.
func Run() bool {
	if os.Getenv("COMP_LINE") != "" || os.Getenv("COMP_INSTALL") != "" || os.Getenv("COMP_UNINSTALL") != "" {
		command().Complete(name)
		return true
	}
	return false
}

// Install sets up shell completion for the detected shells.
func Install() error {
	return install.Install(name)
}

// Uninstall removes shell completion for the detected shells.
func Uninstall() error {
	return install.Uninstall(name)
}

// IsInstalled reports whether shell completion is already set up.
func IsInstalled() bool {
	return install.IsInstalled(name)
}
