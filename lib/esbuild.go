package lib

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
)

var esbuildTargets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
	"esnext": api.ESNext,
}

var esbuildEngines = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"deno":    api.EngineDeno,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ie":      api.EngineIE,
	"ios":     api.EngineIOS,
	"node":    api.EngineNode,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

const umdExportsName = "__umd_exports__"

const (
	entryNamespace          = "libconf-entry"
	moduleExternalNamespace = "libconf-module-external"
)

// BuildOptions converts the environment config to esbuild build options.
// root is the project root the dist path and relative entries are resolved
// against. Warnings of the externals decisions are reported to logger once
// per request.
//
// The build always runs in bundle mode: in bundleless mode every import is
// externalized by the RelativeRequest matcher, so each entry compiles to
// exactly one output file.
func (c *Config) BuildOptions(root string, logger Logger) (api.BuildOptions, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return api.BuildOptions{}, err
	}

	opts := api.BuildOptions{
		AbsWorkingDir: root,
		Outdir:        filepath.Join(root, filepath.FromSlash(c.Output.DistPath.Root), filepath.FromSlash(c.Output.DistPath.JS)),
		Bundle:        true,
		Write:         true,
		LogLevel:      api.LogLevelSilent,
		Define:        c.Source.Define,
		Alias:         c.Source.Alias,
		Tsconfig:      c.Source.TsconfigPath,
	}
	if c.Output.OutBase != "" {
		opts.Outbase = filepath.FromSlash(c.Output.OutBase)
	}

	names := make([]string, 0, len(c.Source.Entry))
	for name := range c.Source.Entry {
		names = append(names, name)
	}
	sort.Strings(names)
	virtualEntries := map[string][]string{}
	for _, name := range names {
		imports := c.Source.Entry[name]
		var input string
		switch len(imports) {
		case 0:
			return api.BuildOptions{}, fmt.Errorf("entry %q has no import", name)
		case 1:
			input = imports[0]
		default:
			// several imports are re-exported from one virtual module
			input = entryNamespace + ":" + name
			virtualEntries[name] = imports
		}
		opts.EntryPointsAdvanced = append(opts.EntryPointsAdvanced, api.EntryPoint{
			InputPath:  input,
			OutputPath: name,
		})
	}
	if len(opts.EntryPointsAdvanced) == 0 {
		return api.BuildOptions{}, errors.New("no entry")
	}
	if len(virtualEntries) > 0 {
		opts.Plugins = append(opts.Plugins, entriesPlugin(root, virtualEntries))
	}

	switch c.Module.Format {
	case FormatESM:
		opts.Format = api.FormatESModule
	case FormatCJS:
		opts.Format = api.FormatCommonJS
	case FormatUMD:
		umdName := c.Output.UmdName
		if umdName == "" {
			umdName = "lib"
		}
		opts.Format = api.FormatIIFE
		opts.GlobalName = umdExportsName
		opts.Banner = map[string]string{"js": umdBanner(umdName)}
		opts.Footer = map[string]string{"js": "return " + umdExportsName + ";\n});"}
	default:
		return api.BuildOptions{}, fmt.Errorf("unsupported format: %s", string(c.Module.Format))
	}

	switch c.Output.Target.orDefault() {
	case TargetWeb:
		opts.Platform = api.PlatformBrowser
	case TargetNode:
		opts.Platform = api.PlatformNode
	case TargetNeutral:
		opts.Platform = api.PlatformNeutral
	}

	for _, e := range c.Output.Syntax.Engines {
		if name, ok := esbuildEngines[e.Name]; ok {
			opts.Engines = append(opts.Engines, api.Engine{Name: name, Version: e.Version})
		}
	}
	opts.Target = api.ESNext
	if target, ok := esbuildTargets[c.Output.Syntax.ESTarget]; ok {
		opts.Target = target
	}
	// esbuild can not lower every ES2015 feature to ES5; when engines are
	// known they carry the constraint instead.
	if opts.Target == api.ES5 && len(opts.Engines) > 0 {
		opts.Target = api.ESNext
	}

	entryNames, ext := splitFilenameTemplate(c.Output.Filename.JS)
	// entry names may contain directories, e.g. `sub/b` in bundleless mode
	if !strings.Contains(entryNames, "[dir]") {
		entryNames = "[dir]/" + entryNames
	}
	if boolValue(c.Output.FilenameHash, false) && !strings.Contains(entryNames, "[hash]") {
		if c.isBundleless() {
			// relative imports between the emitted files are not hashed
			logger.Warnf("output.filenameHash is ignored in bundleless mode")
		} else {
			entryNames += "-[hash]"
		}
	}
	opts.EntryNames = entryNames
	if ext != "" && ext != ".js" {
		opts.OutExtension = map[string]string{".js": ext}
	}

	if boolValue(c.Output.Minify, false) {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}
	if boolValue(c.Output.SourceMap, false) {
		opts.Sourcemap = api.SourceMapLinked
	}

	if len(c.Output.Externals) > 0 {
		opts.Plugins = append(opts.Plugins, ExternalsPlugin(c.Output.Externals, logger))
	}
	return opts, nil
}

// isBundleless reports whether every import is externalized by the
// RelativeRequest matcher.
func (c *Config) isBundleless() bool {
	for _, m := range c.Output.Externals {
		if _, ok := m.(RelativeRequest); ok {
			return true
		}
	}
	return false
}

// ExternalsPlugin returns the esbuild plugin that externalizes the requests
// matched by the externals list.
//
// A `require` call externalized with the `module` type is redirected to a
// shim module re-exporting the ES module, so the output imports the request
// instead of requiring it.
func ExternalsPlugin(externals Externals, logger Logger) api.Plugin {
	if logger == nil {
		logger = nopLogger{}
	}
	var warned sync.Map
	onResolver := func(args api.OnResolveArgs) (api.OnResolveResult, error) {
		if args.Kind == api.ResolveEntryPoint {
			return api.OnResolveResult{}, nil
		}
		switch args.Namespace {
		case moduleExternalNamespace:
			return api.OnResolveResult{Path: args.Path, External: true}, nil
		case entryNamespace:
			// imports of a virtual entry are entries themselves
			return api.OnResolveResult{}, nil
		}
		decision, ok := externals.Resolve(Request{
			Path:     args.Path,
			Issuer:   args.Importer,
			CommonJS: args.Kind == api.ResolveJSRequireCall,
		})
		if !ok {
			return api.OnResolveResult{}, nil
		}
		if decision.Warning != "" {
			if _, loaded := warned.LoadOrStore(args.Path, true); !loaded {
				logger.Warnf("%s", decision.Warning)
			}
		}
		if decision.Type == ExternalModule && args.Kind == api.ResolveJSRequireCall {
			return api.OnResolveResult{
				Path:      decision.Path,
				Namespace: moduleExternalNamespace,
			}, nil
		}
		return api.OnResolveResult{
			Path:     decision.Path,
			External: true,
		}, nil
	}
	onLoader := func(args api.OnLoadArgs) (api.OnLoadResult, error) {
		request := strconv.Quote(args.Path)
		contents := fmt.Sprintf("export * from %s;\nexport { default } from %s;\n", request, request)
		return api.OnLoadResult{
			Contents: &contents,
			Loader:   api.LoaderJS,
		}, nil
	}
	return api.Plugin{
		Name: "externals",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, onResolver)
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: moduleExternalNamespace}, onLoader)
		},
	}
}

// entriesPlugin serves the entries with several imports as virtual modules
// re-exporting every import.
func entriesPlugin(root string, entries map[string][]string) api.Plugin {
	return api.Plugin{
		Name: "entries",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(
				api.OnResolveOptions{Filter: "^" + entryNamespace + ":"},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return api.OnResolveResult{
						Path:      strings.TrimPrefix(args.Path, entryNamespace+":"),
						Namespace: entryNamespace,
					}, nil
				},
			)
			build.OnLoad(
				api.OnLoadOptions{Filter: ".*", Namespace: entryNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					imports, ok := entries[args.Path]
					if !ok {
						return api.OnLoadResult{}, fmt.Errorf("entry %q not found", args.Path)
					}
					var b strings.Builder
					for _, imp := range imports {
						fmt.Fprintf(&b, "export * from %s;\n", strconv.Quote(toSlash(imp)))
					}
					contents := b.String()
					return api.OnLoadResult{
						Contents:   &contents,
						ResolveDir: root,
						Loader:     api.LoaderJS,
					}, nil
				},
			)
		},
	}
}

// splitFilenameTemplate splits `[name].mjs` into the entry names template
// and the output extension.
func splitFilenameTemplate(template string) (string, string) {
	if template == "" {
		return "[name]", ""
	}
	ext := path.Ext(template)
	if ext == "" || strings.ContainsAny(ext, "[]") {
		return template, ""
	}
	return strings.TrimSuffix(template, ext), ext
}

func umdBanner(name string) string {
	return fmt.Sprintf(
		"(function (root, factory) {\n"+
			"  if (typeof define === \"function\" && define.amd) define([], factory);\n"+
			"  else if (typeof module === \"object\" && module.exports) module.exports = factory();\n"+
			"  else root[%q] = factory();\n"+
			"})(typeof self !== \"undefined\" ? self : this, function () {",
		name,
	)
}
