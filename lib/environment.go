package lib

// Config is the fully composed build configuration of one environment.
type Config struct {
	Source SourceConfig `json:"source"`
	Output OutputConfig `json:"output"`
	Module ModuleConfig `json:"module"`
	// Dts is nil when declaration emission is disabled.
	Dts *DtsOptions `json:"dts,omitempty"`
}

// SourceConfig defines the source options of an environment.
type SourceConfig struct {
	// Entry maps an output entry name to its imports. In bundleless mode each
	// entry has exactly one absolute source path.
	Entry        map[string][]string `json:"entry,omitempty"`
	Define       map[string]string   `json:"define,omitempty"`
	Alias        map[string]string   `json:"alias,omitempty"`
	TsconfigPath string              `json:"tsconfigPath,omitempty"`
}

// OutputConfig defines the output options of an environment.
type OutputConfig struct {
	Target       Target       `json:"target,omitempty"`
	DistPath     DistPath     `json:"distPath"`
	Filename     Filename     `json:"filename"`
	FilenameHash *bool        `json:"filenameHash,omitempty"`
	Externals    Externals    `json:"externals,omitempty"`
	Minify       *bool        `json:"minify,omitempty"`
	SourceMap    *bool        `json:"sourceMap,omitempty"`
	UmdName      string       `json:"umdName,omitempty"`
	// OutBase is the directory entry names are relative to in bundleless mode.
	OutBase string       `json:"outBase,omitempty"`
	Syntax  SyntaxConfig `json:"syntax"`
}

// DistPath defines the output directories.
type DistPath struct {
	Root string `json:"root,omitempty"`
	JS   string `json:"js,omitempty"`
}

// Filename defines the output filename templates, e.g. `[name].mjs`.
type Filename struct {
	JS  string `json:"js,omitempty"`
	Dts string `json:"dts,omitempty"`
}

// SyntaxConfig is the resolved syntax level of an environment.
type SyntaxConfig struct {
	// ESTarget is the lowest ES version the output is compiled to.
	ESTarget     string   `json:"esTarget,omitempty"`
	Engines      []Engine `json:"engines,omitempty"`
	Browserslist []string `json:"browserslist,omitempty"`
}

// Engine is a runtime with the minimum supported version.
type Engine struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ModuleConfig is the engine-level module output settings of a format.
type ModuleConfig struct {
	Format Format `json:"format,omitempty"`
	// OutputModule is true when the output is an ES module rather than a script.
	OutputModule       *bool        `json:"outputModule,omitempty"`
	ChunkFormat        string       `json:"chunkFormat,omitempty"`
	LibraryType        string       `json:"libraryType,omitempty"`
	ExternalsType      ExternalType `json:"externalsType,omitempty"`
	IIFE               *bool        `json:"iife,omitempty"`
	ImportMeta         *bool        `json:"importMeta,omitempty"`
	ConcatenateModules *bool        `json:"concatenateModules,omitempty"`
}

// DtsOptions are the options passed to the declaration emitter.
type DtsOptions struct {
	Bundle               bool         `json:"bundle"`
	DistPath             string       `json:"distPath"`
	AbortOnError         bool         `json:"abortOnError"`
	DeclarationExtension string       `json:"declarationExtension"`
	AutoExternal         AutoExternal `json:"autoExternal"`
}
