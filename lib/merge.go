package lib

// MergeConfig merges the configs in order, later configs win.
//
// Every field has a fixed strategy: scalars and pointers are replaced when
// set, `define`, `alias` and `entry` are shallow-merged per key, externals
// are appended, the syntax engines and browserslist are replaced as a whole,
// and the dts options are replaced. The inputs are never mutated.
func MergeConfig(configs ...Config) Config {
	var out Config
	for _, c := range configs {
		out = mergeConfig(out, c)
	}
	return out
}

func mergeConfig(a, b Config) Config {
	return Config{
		Source: SourceConfig{
			Entry:        mergeEntry(a.Source.Entry, b.Source.Entry),
			Define:       mergeStringMap(a.Source.Define, b.Source.Define),
			Alias:        mergeStringMap(a.Source.Alias, b.Source.Alias),
			TsconfigPath: pickString(a.Source.TsconfigPath, b.Source.TsconfigPath),
		},
		Output: OutputConfig{
			Target:       Target(pickString(string(a.Output.Target), string(b.Output.Target))),
			DistPath:     mergeDistPath(a.Output.DistPath, b.Output.DistPath),
			Filename:     mergeFilename(a.Output.Filename, b.Output.Filename),
			FilenameHash: pickBool(a.Output.FilenameHash, b.Output.FilenameHash),
			Externals:    appendExternals(a.Output.Externals, b.Output.Externals),
			Minify:       pickBool(a.Output.Minify, b.Output.Minify),
			SourceMap:    pickBool(a.Output.SourceMap, b.Output.SourceMap),
			UmdName:      pickString(a.Output.UmdName, b.Output.UmdName),
			OutBase:      pickString(a.Output.OutBase, b.Output.OutBase),
			Syntax:       mergeSyntax(a.Output.Syntax, b.Output.Syntax),
		},
		Module: ModuleConfig{
			Format:             Format(pickString(string(a.Module.Format), string(b.Module.Format))),
			OutputModule:       pickBool(a.Module.OutputModule, b.Module.OutputModule),
			ChunkFormat:        pickString(a.Module.ChunkFormat, b.Module.ChunkFormat),
			LibraryType:        pickString(a.Module.LibraryType, b.Module.LibraryType),
			ExternalsType:      ExternalType(pickString(string(a.Module.ExternalsType), string(b.Module.ExternalsType))),
			IIFE:               pickBool(a.Module.IIFE, b.Module.IIFE),
			ImportMeta:         pickBool(a.Module.ImportMeta, b.Module.ImportMeta),
			ConcatenateModules: pickBool(a.Module.ConcatenateModules, b.Module.ConcatenateModules),
		},
		Dts: pickDts(a.Dts, b.Dts),
	}
}

func pickString(a, b string) string {
	if b != "" {
		return b
	}
	return a
}

func pickBool(a, b *bool) *bool {
	if b != nil {
		return boolPtr(*b)
	}
	if a != nil {
		return boolPtr(*a)
	}
	return nil
}

func pickDts(a, b *DtsOptions) *DtsOptions {
	if b != nil {
		d := *b
		return &d
	}
	if a != nil {
		d := *a
		return &d
	}
	return nil
}

func mergeStringMap(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	m := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		m[k] = v
	}
	for k, v := range b {
		m[k] = v
	}
	return m
}

func mergeEntry(a, b map[string][]string) map[string][]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	m := make(map[string][]string, len(a)+len(b))
	for k, v := range a {
		m[k] = append([]string(nil), v...)
	}
	for k, v := range b {
		m[k] = append([]string(nil), v...)
	}
	return m
}

func mergeDistPath(a, b DistPath) DistPath {
	return DistPath{
		Root: pickString(a.Root, b.Root),
		JS:   pickString(a.JS, b.JS),
	}
}

func mergeFilename(a, b Filename) Filename {
	return Filename{
		JS:  pickString(a.JS, b.JS),
		Dts: pickString(a.Dts, b.Dts),
	}
}

func mergeSyntax(a, b SyntaxConfig) SyntaxConfig {
	s := SyntaxConfig{ESTarget: pickString(a.ESTarget, b.ESTarget)}
	if b.Engines != nil {
		s.Engines = append([]Engine(nil), b.Engines...)
	} else if a.Engines != nil {
		s.Engines = append([]Engine(nil), a.Engines...)
	}
	if b.Browserslist != nil {
		s.Browserslist = append([]string(nil), b.Browserslist...)
	} else if a.Browserslist != nil {
		s.Browserslist = append([]string(nil), a.Browserslist...)
	}
	return s
}

func appendExternals(a, b Externals) Externals {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	m := make(Externals, 0, len(a)+len(b))
	m = append(m, a...)
	return append(m, b...)
}
