package lib

import "fmt"

// formatConfig maps the format to the engine module settings.
func formatConfig(format Format) (Config, error) {
	switch format {
	case FormatESM:
		return Config{
			Module: ModuleConfig{
				Format:             FormatESM,
				OutputModule:       boolPtr(true),
				ChunkFormat:        "module",
				LibraryType:        "modern-module",
				ImportMeta:         boolPtr(false),
				ConcatenateModules: boolPtr(true),
			},
		}, nil
	case FormatCJS:
		return Config{
			Module: ModuleConfig{
				Format:       FormatCJS,
				OutputModule: boolPtr(false),
				ChunkFormat:  "commonjs",
				LibraryType:  "commonjs",
				IIFE:         boolPtr(false),
				ImportMeta:   boolPtr(false),
			},
		}, nil
	case FormatUMD:
		return Config{
			Module: ModuleConfig{
				Format:       FormatUMD,
				OutputModule: boolPtr(false),
				LibraryType:  "umd",
			},
		}, nil
	default:
		return Config{}, fmt.Errorf("unsupported format: %s", string(format))
	}
}
