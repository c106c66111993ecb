package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/adrianpk/layerguard/internal/cli"
	"github.com/adrianpk/layerguard/internal/completion"
	"github.com/adrianpk/layerguard/internal/config"
	"github.com/adrianpk/layerguard/internal/hook"
	"github.com/adrianpk/layerguard/internal/logger"
	"github.com/adrianpk/layerguard/internal/mcpserver"
	"github.com/adrianpk/layerguard/internal/policy"
)

// Version is set at build time.
var Version = "dev"

var log = logger.New("main")

func main() {
	if completion.Run() {
		return
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hook":
			runHook()
			return
		case "init":
			runInit(os.Args[2:])
			return
		case "rules":
			runRules(os.Args[2:])
			return
		case "check":
			runCheck(os.Args[2:])
			return
		case "mcp":
			runMCP()
			return
		case "completion":
			runCompletion(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage(os.Stdout)
			return
		case "version", "-v", "--version":
			fmt.Printf("layerguard version %s\n", Version)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
			printUsage(os.Stderr)
			os.Exit(2)
		}
	}

	runHook()
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `layerguard: layered architecture gate for agent tool calls

Usage:
  layerguard [hook]                      read one hook event on stdin, write the decision on stdout
  layerguard init [-local] [-profile P]  write a starter config
  layerguard rules [-profile P]          print the rule table
  layerguard check [-content FILE] PATH  check paths offline (exit 1 on violations)
  layerguard mcp                         serve check_action and list_layers over MCP stdio
  layerguard completion [-install|-uninstall]
  layerguard version

Environment:
  LAYERGUARD_CONFIG     config file to use instead of the local/global lookup
  LAYERGUARD_LOG_LEVEL  trace, debug, info, warn, error
  LAYERGUARD_FORMAT     gemini or claude
  LAYERGUARD_DISABLED   allow every action
  NO_COLOR              disable coloured diagnostics
`)
}

// setup reads the environment and configuration and configures logging.
// Configuration errors fall back to the built-in profile.
func setup() (*config.Env, *config.Config, func()) {
	env, err := config.LoadEnv()
	if err != nil {
		log.Warn("%v", err)
		env = &config.Env{}
	}

	cfg, err := config.Load(env)
	if err != nil {
		log.Error("%v", err)
		log.Warn("using built-in %s profile", config.DefaultProfile)
		cfg = config.Default()
	}

	logger.SetGlobalLevelFromString(cfg.Log.Level)
	logger.SetColored(!cfg.Log.NoColor)

	closer := func() {}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Warn("cannot open log file: %v", err)
		} else {
			logger.SetOutput(f)
			logger.SetColored(false)
			closer = func() {
				logger.SetOutput(nil)
				_ = f.Close()
			}
		}
	}
	return env, cfg, closer
}

// buildPolicy compiles cfg, falling back to the built-in profile. It
// returns nil only if the built-in profile cannot be compiled either.
func buildPolicy(cfg *config.Config) *policy.Policy {
	p, err := policy.New(cfg)
	if err == nil {
		return p
	}
	log.Error("cannot compile policy: %v", err)
	p, err = policy.New(config.Default())
	if err != nil {
		log.Error("cannot compile built-in policy: %v", err)
		return nil
	}
	return p
}

func runHook() {
	env, cfg, closeLog := setup()
	defer closeLog()

	e := hook.NewEvaluator(buildPolicy(cfg), env.Disabled)
	res := e.Run(os.Stdin)
	if res.Outcome != hook.OutcomeDecided {
		log.Debug("outcome %s, allowing", res.Outcome)
	}

	if err := hook.Encode(os.Stdout, cfg.Hook.Format, res.Event, res.Final()); err != nil {
		log.Error("%v", err)
	}
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	local := fs.Bool("local", false, "Write .layerguard.yml in the current directory")
	profile := fs.String("profile", config.DefaultProfile, "Built-in profile to extend")
	_ = fs.Parse(args)

	if err := cli.RunInit(os.Stdout, *local, *profile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runRules(args []string) {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	profile := fs.String("profile", "", "Show a built-in profile instead of the active config")
	_ = fs.Parse(args)

	var cfg *config.Config
	if *profile != "" {
		var err error
		cfg, err = config.Profile(*profile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		_, active, closeLog := setup()
		defer closeLog()
		cfg = active
	}

	if err := cli.RunRules(os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	contentFile := fs.String("content", "", "File whose text is checked as the content of every path")
	_ = fs.Parse(args)

	_, cfg, closeLog := setup()
	defer closeLog()

	var content *string
	if *contentFile != "" {
		data, err := os.ReadFile(*contentFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot read content: %v\n", err)
			os.Exit(2)
		}
		s := string(data)
		content = &s
	}

	d, err := cli.RunCheck(os.Stdout, buildPolicy(cfg), fs.Args(), content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if !d.Allow {
		closeLog()
		os.Exit(1)
	}
}

func runMCP() {
	_, cfg, closeLog := setup()
	defer closeLog()

	p := buildPolicy(cfg)
	if p == nil {
		fmt.Fprintln(os.Stderr, "error: no usable policy")
		os.Exit(1)
	}
	if err := mcpserver.New(p, Version).ServeStdio(); err != nil {
		log.Error("mcp: %v", err)
		os.Exit(1)
	}
}

func runCompletion(args []string) {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)
	install := fs.Bool("install", false, "Install shell completion")
	uninstall := fs.Bool("uninstall", false, "Remove shell completion")
	_ = fs.Parse(args)

	switch {
	case *install:
		if err := completion.Install(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Shell completion installed. Restart your shell to use it.")
	case *uninstall:
		if err := completion.Uninstall(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Shell completion removed.")
	default:
		if completion.IsInstalled() {
			fmt.Println("Shell completion is installed.")
		} else {
			fmt.Println("Shell completion is not installed. Run: layerguard completion -install")
		}
	}
}
