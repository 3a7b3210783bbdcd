package cli

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/esm-dev/libconf/lib"
	"github.com/goccy/go-json"
	"github.com/ije/gox/term"
)

const inspectHelpMessage = `Print the composed environments as JSON

Usage: libconf inspect [root] [options]

Arguments:
  root          Project root, default is current directory

Options:
  --config      Config file, default is "rslib.config.{json,jsonc,yaml,yml}" in the root
  --env         Only print the environment of the name, e.g. "esm"
  --log-level   Log level, default is "info"
  --help, -h    Show help message
`

// Inspect prints the composed environments.
func Inspect() {
	configFile := flag.String("config", "", "config file")
	env := flag.String("env", "", "environment name")
	logLevel := flag.String("log-level", "", "log level")
	args, help := parseCommandFlags()
	if help {
		fmt.Print(inspectHelpMessage)
		return
	}

	var root string
	if len(args) > 0 {
		root = args[0]
	}
	data, err := inspect(root, *configFile, *env, newLogger(*logLevel))
	if err != nil {
		os.Stderr.WriteString(term.Red(err.Error()) + "\n")
		os.Exit(1)
	}
	os.Stdout.Write(data)
	os.Stdout.WriteString("\n")
}

func inspect(root string, configFile string, env string, logger lib.Logger) ([]byte, error) {
	p, err := loadProject(root, configFile)
	if err != nil {
		return nil, err
	}
	envs, err := p.compose(context.Background(), logger)
	if err != nil {
		return nil, err
	}
	if env != "" {
		e, ok := envs.Get(env)
		if !ok {
			return nil, fmt.Errorf("environment %q not found, available: %s", env, strings.Join(envs.Names(), ", "))
		}
		return json.MarshalIndent(e.Config, "", "  ")
	}
	data, err := envs.MarshalJSON()
	if err != nil {
		return nil, err
	}
	// indent without reordering the environments
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
