package cli

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/esm-dev/libconf/lib"
	"github.com/ije/gox/log"
)

// parseCommandFlags parses the flags of the command, `os.Args[2:]`, and
// returns the positional arguments. Flags may appear before or after the
// arguments.
func parseCommandFlags() (args []string, help bool) {
	return parseFlags(flag.CommandLine, os.Args[2:])
}

func parseFlags(fs *flag.FlagSet, input []string) (args []string, help bool) {
	rest := make([]string, 0, len(input))
	for _, arg := range input {
		if arg == "-h" || arg == "--help" || arg == "-help" {
			help = true
			continue
		}
		rest = append(rest, arg)
	}
	for {
		if err := fs.Parse(rest); err != nil {
			return args, true
		}
		if fs.NArg() == 0 {
			return args, help
		}
		args = append(args, fs.Arg(0))
		rest = fs.Args()[1:]
	}
}

// newLogger returns the logger of the level name, falling back to the
// `LOG_LEVEL` env var and then "info".
func newLogger(level string) *log.Logger {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	logger := &log.Logger{}
	logger.SetLevelByName(level)
	return logger
}

// project is a loaded config with its root directory.
type project struct {
	root       string
	configFile string
	spec       *lib.RootSpec
}

// loadProject finds and loads the config of the root directory,
// default is the current directory.
func loadProject(root string, configFile string) (*project, error) {
	var err error
	if root == "" {
		root, err = os.Getwd()
	} else {
		root, err = filepath.Abs(root)
	}
	if err != nil {
		return nil, err
	}
	filename, err := lib.FindConfig(root, configFile)
	if err != nil {
		return nil, err
	}
	spec, err := lib.LoadConfig(filename)
	if err != nil {
		return nil, err
	}
	return &project{root: root, configFile: filename, spec: spec}, nil
}

// compose composes the environments of the project.
func (p *project) compose(ctx context.Context, logger lib.Logger) (*lib.EnvironmentMap, error) {
	return lib.Compose(ctx, p.spec, lib.Options{Root: p.root, Logger: logger})
}
