package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/esm-dev/libconf/lib"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/ije/gox/term"
	"golang.org/x/sync/errgroup"
)

const buildHelpMessage = `Build every environment with esbuild

Usage: libconf build [root] [options]

Arguments:
  root          Project root, default is current directory

Options:
  --config      Config file, default is "rslib.config.{json,jsonc,yaml,yml}" in the root
  --env         Only build the environments of the names, e.g. "esm,cjs"
  --log-level   Log level, default is "info"
  --help, -h    Show help message
`

// DtsEmitter emits the declaration files of the environments that enable dts.
// The declarations are skipped when it is nil.
var DtsEmitter lib.DtsEmitter

// Build builds the composed environments.
func Build() {
	configFile := flag.String("config", "", "config file")
	env := flag.String("env", "", "environment names, separated by comma")
	logLevel := flag.String("log-level", "", "log level")
	args, help := parseCommandFlags()
	if help {
		fmt.Print(buildHelpMessage)
		return
	}

	var root string
	if len(args) > 0 {
		root = args[0]
	}
	var only []string
	if *env != "" {
		only = strings.Split(*env, ",")
	}
	logger := newLogger(*logLevel)
	start := time.Now()
	err := build(context.Background(), root, *configFile, only, logger)
	if err != nil {
		os.Stderr.WriteString(term.Red(err.Error()) + "\n")
		os.Exit(1)
	}
	fmt.Println(term.Green("✔"), "Build done in", time.Since(start).Round(time.Millisecond))
}

type buildLogger interface {
	lib.Logger
	Infof(format string, v ...any)
}

func build(ctx context.Context, root string, configFile string, only []string, logger buildLogger) error {
	p, err := loadProject(root, configFile)
	if err != nil {
		return err
	}
	envs, err := p.compose(ctx, logger)
	if err != nil {
		return err
	}

	selected, err := selectEnvironments(envs, only)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, env := range selected {
		env := env
		g.Go(func() error {
			start := time.Now()
			opts, err := env.Config.BuildOptions(p.root, logger)
			if err != nil {
				return fmt.Errorf("build %s: %w", env.Name, err)
			}
			ret := api.Build(opts)
			if len(ret.Errors) > 0 {
				return fmt.Errorf("build %s: %s", env.Name, formatMessages(ret.Errors))
			}
			for _, msg := range ret.Warnings {
				logger.Warnf("build %s: %s", env.Name, msg.Text)
			}
			if dts := env.Config.Dts; dts != nil {
				if DtsEmitter == nil {
					logger.Warnf("build %s: no declaration emitter registered, skip emitting declaration files to %s", env.Name, dts.DistPath)
				} else if err := DtsEmitter.EmitDts(ctx, *dts); err != nil {
					if dts.AbortOnError {
						return fmt.Errorf("build %s(types): %w", env.Name, err)
					}
					logger.Warnf("build %s(types): %v", env.Name, err)
				}
			}
			logger.Infof("build '%s' done in %v", env.Name, time.Since(start))
			return nil
		})
	}
	return g.Wait()
}

// selectEnvironments returns the environments of the names, or all environments
// when no name is given.
func selectEnvironments(envs *lib.EnvironmentMap, names []string) ([]lib.Environment, error) {
	if len(names) == 0 {
		return envs.Environments, nil
	}
	selected := make([]lib.Environment, 0, len(names))
	for _, name := range names {
		env, ok := envs.Get(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("environment %q not found, available: %s", name, strings.Join(envs.Names(), ", "))
		}
		selected = append(selected, env)
	}
	return selected, nil
}

func formatMessages(messages []api.Message) string {
	texts := make([]string, len(messages))
	for i, msg := range messages {
		if msg.Location != nil {
			texts[i] = fmt.Sprintf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text)
		} else {
			texts[i] = msg.Text
		}
	}
	return strings.Join(texts, "\n")
}
