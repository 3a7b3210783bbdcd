package lib

import "context"

// DtsEmitter emits the declaration files of an environment.
type DtsEmitter interface {
	EmitDts(ctx context.Context, options DtsOptions) error
}

// dtsConfig returns the declaration fragment, or an empty fragment when
// dts is disabled.
func dtsConfig(lib LibrarySpec, user Settings, dtsExtension string) Config {
	dts := lib.Dts
	if !dts.Enabled {
		return Config{}
	}
	distPath := dts.DistPath
	if distPath == "" {
		distPath = user.Output.DistPath.Root
	}
	if distPath == "" {
		distPath = "./dist"
	}
	return Config{
		Dts: &DtsOptions{
			Bundle:               boolValue(dts.Bundle, lib.IsBundle()),
			DistPath:             distPath,
			AbortOnError:         boolValue(dts.AbortOnError, true),
			DeclarationExtension: dtsExtension,
			AutoExternal:         lib.AutoExternal,
		},
	}
}
