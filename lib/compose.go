package lib

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/esm-dev/libconf/internal/npm"
	"golang.org/x/sync/errgroup"
)

// Options are the explicit inputs of a compose run.
type Options struct {
	// Root is the project root, normally the directory of the config file.
	Root string
	// Logger receives the compose warnings. Defaults to a no-op logger.
	Logger Logger
	// Packages reads the package.json of the root. A fresh reader is used when nil.
	Packages *npm.Reader
}

func (o Options) normalize() (Options, error) {
	if o.Root == "" {
		return o, fmt.Errorf("%w: root is required", ErrInvalidLibrarySpec)
	}
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return o, err
	}
	o.Root = root
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
	if o.Packages == nil {
		o.Packages = npm.NewReader(0)
	}
	return o, nil
}

// baselineConfig returns the built-in defaults every environment starts from.
func baselineConfig() Config {
	return Config{
		Output: OutputConfig{
			DistPath:     DistPath{Root: "./dist", JS: "./"},
			FilenameHash: boolPtr(false),
			Minify:       boolPtr(false),
		},
	}
}

// Validate checks the root config before composing.
func (r *RootSpec) Validate() error {
	if r == nil || len(r.Lib) == 0 {
		return fmt.Errorf("%w: expect lib field to be a non-empty array", ErrInvalidLibrarySpec)
	}
	for i := range r.Lib {
		if err := r.Lib[i].Validate(); err != nil {
			return fmt.Errorf("lib[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks the format and target of the library spec.
func (l *LibrarySpec) Validate() error {
	if err := l.Format.Validate(); err != nil {
		return err
	}
	return l.Target.Validate()
}

// Compose composes every library unit of the root config and assembles the
// environments. The units are composed concurrently; the first failure
// aborts the whole run and no environment is returned.
func Compose(ctx context.Context, spec *RootSpec, opts Options) (*EnvironmentMap, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	configs := make([]Config, len(spec.Lib))
	g, ctx := errgroup.WithContext(ctx)
	for i := range spec.Lib {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			config, err := ComposeLib(spec.Settings, spec.Lib[i], opts)
			if err != nil {
				return fmt.Errorf("lib[%d] (%s): %w", i, spec.Lib[i].Format, err)
			}
			configs[i] = config
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	formats := make([]Format, len(spec.Lib))
	for i, lib := range spec.Lib {
		formats[i] = lib.Format
	}
	return AssembleEnvironments(formats, configs), nil
}

// ComposeLib composes one library unit over the shared settings.
//
// The result merges, from low to high precedence: the baseline defaults,
// the format, externals, autoExtension, autoExternal, syntax, bundle,
// target, entry and dts fragments, and the user settings. The user entry
// and externals are already folded into their fragments and are not
// applied again.
func ComposeLib(shared Settings, lib LibrarySpec, opts Options) (Config, error) {
	if err := lib.Validate(); err != nil {
		return Config{}, err
	}
	opts, err := opts.normalize()
	if err != nil {
		return Config{}, err
	}

	user := mergeSettings(shared, lib.Settings)
	bundle := lib.IsBundle()
	target := lib.Target.orDefault()

	var pkg *npm.PackageJSON
	if lib.IsAutoExtension() || lib.AutoExternal.Enabled() {
		pkg = opts.Packages.Read(opts.Root)
	}

	formatFragment, err := formatConfig(lib.Format)
	if err != nil {
		return Config{}, err
	}
	externalsFragment, err := externalsConfig(lib.Format, user.Output.Externals)
	if err != nil {
		return Config{}, err
	}
	extensionFragment, ext := autoExtensionConfig(lib.Format, pkg, lib.IsAutoExtension(), opts.Logger)
	autoExternalFragment := autoExternalConfig(lib.AutoExternal, pkg, user.Output.Externals, opts.Logger)
	syntaxFragment, err := syntaxConfig(lib.Syntax, target)
	if err != nil {
		return Config{}, err
	}
	bundleFragment := bundleConfig(ext.JS, bundle)
	targetFragment, err := targetConfig(target)
	if err != nil {
		return Config{}, err
	}
	entryFragment, err := entryConfig(user.Entry, bundle, opts.Root)
	if err != nil {
		return Config{}, err
	}
	dtsFragment := dtsConfig(lib, user, ext.Dts)

	opts.Logger.Debugf("composed %s library config in %s", lib.Format, opts.Root)

	return MergeConfig(
		baselineConfig(),
		formatFragment,
		externalsFragment,
		extensionFragment,
		autoExternalFragment,
		syntaxFragment,
		bundleFragment,
		targetFragment,
		entryFragment,
		dtsFragment,
		userConfig(user),
	), nil
}

// userConfig converts the user settings to a fragment. Entry and externals
// are reset because the entry and externals fragments already contain them.
func userConfig(user Settings) Config {
	return Config{
		Source: SourceConfig{
			Define:       user.Source.Define,
			Alias:        user.Source.Alias,
			TsconfigPath: user.Source.TsconfigPath,
		},
		Output: OutputConfig{
			DistPath:     user.Output.DistPath,
			Filename:     user.Output.Filename,
			FilenameHash: user.Output.FilenameHash,
			Minify:       user.Output.Minify,
			SourceMap:    user.Output.SourceMap,
			UmdName:      user.Output.UmdName,
		},
	}
}
