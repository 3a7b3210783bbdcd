package lib

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"
)

// RootSpec is the root config: shared settings plus an ordered list of library units.
type RootSpec struct {
	Settings
	Lib []LibrarySpec `json:"lib"`
}

// Settings are the settings a library unit can share with the root config.
type Settings struct {
	// Entry maps a logical entry name to a glob string or a list of globs.
	Entry  map[string]any `json:"entry,omitempty"`
	Source SourceSpec     `json:"source,omitempty"`
	Output OutputSpec     `json:"output,omitempty"`
}

// SourceSpec defines the user source options.
type SourceSpec struct {
	Define       map[string]string `json:"define,omitempty"`
	Alias        map[string]string `json:"alias,omitempty"`
	TsconfigPath string            `json:"tsconfigPath,omitempty"`
}

// OutputSpec defines the user output options.
type OutputSpec struct {
	DistPath     DistPath  `json:"distPath,omitempty"`
	Filename     Filename  `json:"filename,omitempty"`
	FilenameHash *bool     `json:"filenameHash,omitempty"`
	Externals    Externals `json:"externals,omitempty"`
	Minify       *bool     `json:"minify,omitempty"`
	SourceMap    *bool     `json:"sourceMap,omitempty"`
	UmdName      string    `json:"umdName,omitempty"`
}

// LibrarySpec is one declared build unit.
type LibrarySpec struct {
	Settings
	Format        Format       `json:"format"`
	Bundle        *bool        `json:"bundle,omitempty"`
	AutoExtension *bool        `json:"autoExtension,omitempty"`
	AutoExternal  AutoExternal `json:"autoExternal,omitempty"`
	Target        Target       `json:"target,omitempty"`
	Syntax        Syntax       `json:"syntax,omitempty"`
	Dts           DtsSpec      `json:"dts,omitempty"`
}

// IsBundle returns the bundle flag, true by default.
func (l *LibrarySpec) IsBundle() bool {
	return boolValue(l.Bundle, true)
}

// IsAutoExtension returns the autoExtension flag, true by default.
func (l *LibrarySpec) IsAutoExtension() bool {
	return boolValue(l.AutoExtension, true)
}

// AutoExternal selects which dependency lists of the package.json are
// externalized. The zero value is enabled with the default selection.
type AutoExternal struct {
	Disabled         bool  `json:"-"`
	Dependencies     *bool `json:"dependencies,omitempty"`
	PeerDependencies *bool `json:"peerDependencies,omitempty"`
	DevDependencies  *bool `json:"devDependencies,omitempty"`
}

// AutoExternalSelection is the resolved selection of dependency lists.
type AutoExternalSelection struct {
	Dependencies     bool `json:"dependencies"`
	PeerDependencies bool `json:"peerDependencies"`
	DevDependencies  bool `json:"devDependencies"`
}

// Enabled reports whether any dependency list is externalized.
func (a AutoExternal) Enabled() bool {
	s := a.Selection()
	return s.Dependencies || s.PeerDependencies || s.DevDependencies
}

// Selection resolves the selection: dependencies and peerDependencies are on by default.
func (a AutoExternal) Selection() AutoExternalSelection {
	if a.Disabled {
		return AutoExternalSelection{}
	}
	return AutoExternalSelection{
		Dependencies:     boolValue(a.Dependencies, true),
		PeerDependencies: boolValue(a.PeerDependencies, true),
		DevDependencies:  boolValue(a.DevDependencies, false),
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (a *AutoExternal) UnmarshalJSON(b []byte) error {
	var enabled bool
	if json.Unmarshal(b, &enabled) == nil {
		*a = AutoExternal{Disabled: !enabled}
		return nil
	}
	type selection AutoExternal
	var s selection
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("autoExternal must be a boolean or an object")
	}
	*a = AutoExternal(s)
	a.Disabled = false
	return nil
}

// MarshalJSON implements the json.Marshaler interface
func (a AutoExternal) MarshalJSON() ([]byte, error) {
	if a.Disabled {
		return []byte("false"), nil
	}
	return json.Marshal(a.Selection())
}

// Syntax is a list of ES versions (`es2015`, `esnext`) or browserslist queries.
type Syntax []string

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Syntax) UnmarshalJSON(b []byte) error {
	var one string
	if json.Unmarshal(b, &one) == nil {
		if one == "" {
			*s = nil
		} else {
			*s = Syntax{one}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return errors.New("syntax must be a string or an array of strings")
	}
	*s = list
	return nil
}

// DtsSpec defines the declaration emission settings. The zero value is disabled.
type DtsSpec struct {
	Enabled      bool   `json:"-"`
	Bundle       *bool  `json:"bundle,omitempty"`
	DistPath     string `json:"distPath,omitempty"`
	AbortOnError *bool  `json:"abortOnError,omitempty"`
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (d *DtsSpec) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = DtsSpec{}
		return nil
	}
	var enabled bool
	if json.Unmarshal(b, &enabled) == nil {
		*d = DtsSpec{Enabled: enabled}
		return nil
	}
	type options DtsSpec
	var o options
	if err := json.Unmarshal(b, &o); err != nil {
		return errors.New("dts must be a boolean or an object")
	}
	*d = DtsSpec(o)
	d.Enabled = true
	return nil
}

// MarshalJSON implements the json.Marshaler interface
func (d DtsSpec) MarshalJSON() ([]byte, error) {
	if !d.Enabled {
		return []byte("false"), nil
	}
	type options DtsSpec
	return json.Marshal(options(d))
}

// mergeSettings merges the library settings over the shared settings.
// Neither input is mutated.
func mergeSettings(shared Settings, lib Settings) Settings {
	return Settings{
		Entry: mergeAnyMap(shared.Entry, lib.Entry),
		Source: SourceSpec{
			Define:       mergeStringMap(shared.Source.Define, lib.Source.Define),
			Alias:        mergeStringMap(shared.Source.Alias, lib.Source.Alias),
			TsconfigPath: pickString(shared.Source.TsconfigPath, lib.Source.TsconfigPath),
		},
		Output: OutputSpec{
			DistPath:     mergeDistPath(shared.Output.DistPath, lib.Output.DistPath),
			Filename:     mergeFilename(shared.Output.Filename, lib.Output.Filename),
			FilenameHash: pickBool(shared.Output.FilenameHash, lib.Output.FilenameHash),
			Externals:    appendExternals(shared.Output.Externals, lib.Output.Externals),
			Minify:       pickBool(shared.Output.Minify, lib.Output.Minify),
			SourceMap:    pickBool(shared.Output.SourceMap, lib.Output.SourceMap),
			UmdName:      pickString(shared.Output.UmdName, lib.Output.UmdName),
		},
	}
}

func mergeAnyMap(a, b map[string]any) map[string]any {
	if a == nil && b == nil {
		return nil
	}
	m := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		m[k] = v
	}
	for k, v := range b {
		m[k] = v
	}
	return m
}
