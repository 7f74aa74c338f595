package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jddutz/nexus/cmd/nexusctl/internal/project"
	"github.com/jddutz/nexus/pkg/config"
	"github.com/jddutz/nexus/pkg/logging"
	"github.com/jddutz/nexus/pkg/runtime"
	"github.com/jddutz/nexus/pkg/template"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Run a scene under the engine loop",
		Long: `Build a scene template's component tree and drive it with the
engine until interrupted.

Configuration is read from nexus.yaml in the working directory, or
from the file named by --config. With the inspector enabled, the
live tree is served at http://localhost:<port>/tree while the scene
runs.

Usage:
  nexusctl run scene.yaml
  nexusctl run scene.yaml --config dev.yaml`,
		Usage: "nexusctl run <template.yaml> [--config file]",
		Run:   runRun,
	})
}

func runRun(args []string) error {
	var tplArg, cfgPath string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a file path")
			}
			cfgPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			cfgPath = strings.TrimPrefix(arg, "--config=")
		case tplArg == "":
			tplArg = arg
		default:
			return fmt.Errorf("unexpected argument %q", arg)
		}
	}
	if tplArg == "" {
		return fmt.Errorf("template file is required\n\nUsage: nexusctl run <template.yaml> [--config file]")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Console)

	path, err := project.ResolveTemplate(tplArg, cfg.Templates.Dir)
	if err != nil {
		return err
	}

	tpl, err := template.Load(path)
	if err != nil {
		return err
	}
	root, err := template.Instantiate(tpl, stockRegistry())
	if err != nil {
		return err
	}

	engine := runtime.NewEngine(root, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx); err != nil {
		return err
	}

	fmt.Printf("\nscene stopped after %d frames\n", engine.Stats().Frames)
	return nil
}
