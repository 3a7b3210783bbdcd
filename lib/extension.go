package lib

import (
	"github.com/esm-dev/libconf/internal/npm"
)

// Extensions are the output file extensions of a format.
type Extensions struct {
	JS  string
	Dts string
}

// DefaultExtensions returns the output extensions of the format.
//
// With autoExtension, ESM output of a commonjs package uses `.mjs` and
// CommonJS output of a module package uses `.cjs`; everything else,
// including UMD, uses `.js`.
func DefaultExtensions(format Format, pkgType string, autoExtension bool) Extensions {
	ext := Extensions{JS: ".js", Dts: ".d.ts"}
	if !autoExtension {
		return ext
	}
	switch format {
	case FormatESM:
		if pkgType == "commonjs" {
			ext = Extensions{JS: ".mjs", Dts: ".d.mts"}
		}
	case FormatCJS:
		if npm.IsModuleType(pkgType) {
			ext = Extensions{JS: ".cjs", Dts: ".d.cts"}
		}
	}
	return ext
}

// autoExtensionConfig returns the filename fragment for the format. The
// filenames are defaults only; user filenames win at merge time.
func autoExtensionConfig(format Format, pkg *npm.PackageJSON, autoExtension bool, logger Logger) (Config, Extensions) {
	var pkgType string
	if autoExtension {
		if pkg == nil {
			logger.Warnf("autoExtension configuration will not be applied due to read package.json failed")
			autoExtension = false
		} else {
			pkgType = pkg.Type
		}
	}
	ext := DefaultExtensions(format, pkgType, autoExtension)
	return Config{
		Output: OutputConfig{
			Filename: Filename{
				JS:  "[name]" + ext.JS,
				Dts: "[name]" + ext.Dts,
			},
		},
	}, ext
}
