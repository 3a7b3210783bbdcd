package lib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/esm-dev/libconf/internal/npm"
	"github.com/google/go-cmp/cmp"
)

type testLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *testLogger) Debugf(format string, v ...any) {}

func (l *testLogger) Warnf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

func writeFile(t *testing.T, root string, name string, content string) {
	t.Helper()
	filename := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newProject(t *testing.T, pkgJSON string) string {
	t.Helper()
	root := t.TempDir()
	if pkgJSON != "" {
		writeFile(t, root, "package.json", pkgJSON)
	}
	writeFile(t, root, "src/index.ts", "export default 1")
	return root
}

func singleEntry() Settings {
	return Settings{Entry: map[string]any{"index": "./src/index.ts"}}
}

func TestComposeExtensions(t *testing.T) {
	tests := []struct {
		name     string
		pkgJSON  string
		lib      LibrarySpec
		wantJS   string
		wantDts  string
		wantWarn bool
	}{
		{
			name:    "esm in commonjs package",
			pkgJSON: `{"name": "foo", "type": "commonjs"}`,
			lib:     LibrarySpec{Format: FormatESM},
			wantJS:  "[name].mjs",
			wantDts: "[name].d.mts",
		},
		{
			name:    "esm in commonjs package without autoExtension",
			pkgJSON: `{"name": "foo", "type": "commonjs"}`,
			lib:     LibrarySpec{Format: FormatESM, AutoExtension: boolPtr(false)},
			wantJS:  "[name].js",
			wantDts: "[name].d.ts",
		},
		{
			name:    "cjs in module package",
			pkgJSON: `{"name": "foo", "type": "module"}`,
			lib:     LibrarySpec{Format: FormatCJS},
			wantJS:  "[name].cjs",
			wantDts: "[name].d.cts",
		},
		{
			name:    "user filename wins",
			pkgJSON: `{"name": "foo", "type": "module"}`,
			lib: LibrarySpec{
				Format:   FormatCJS,
				Settings: Settings{Output: OutputSpec{Filename: Filename{JS: "[name].common.js"}}},
			},
			wantJS:  "[name].common.js",
			wantDts: "[name].d.cts",
		},
		{
			name:     "missing package.json",
			lib:      LibrarySpec{Format: FormatCJS},
			wantJS:   "[name].js",
			wantDts:  "[name].d.ts",
			wantWarn: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newProject(t, tt.pkgJSON)
			logger := &testLogger{}
			config, err := ComposeLib(singleEntry(), tt.lib, Options{Root: root, Logger: logger})
			if err != nil {
				t.Fatalf("ComposeLib() error = %v", err)
			}
			if config.Output.Filename.JS != tt.wantJS || config.Output.Filename.Dts != tt.wantDts {
				t.Errorf("filename = %+v, want %s, %s", config.Output.Filename, tt.wantJS, tt.wantDts)
			}
			if gotWarn := len(logger.warnings) > 0; gotWarn != tt.wantWarn {
				t.Errorf("warnings = %q, want warning %v", logger.warnings, tt.wantWarn)
			}
		})
	}
}

func TestComposeAutoExternal(t *testing.T) {
	root := newProject(t, `{
		"name": "foo",
		"dependencies": {"bar": "^1.0.0", "react": "^18.0.0"},
		"peerDependencies": {"react": "^18.0.0", "baz": "^2.0.0"},
		"devDependencies": {"typescript": "^5.0.0"}
	}`)
	shared := singleEntry()
	shared.Output.Externals = Externals{ExactName{Name: "react"}}

	config, err := ComposeLib(shared, LibrarySpec{Format: FormatCJS}, Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	want := Externals{
		ExactName{Name: "react"},
		PrefixPattern("bar"),
		PrefixPattern("baz"),
		ExactName{Name: "bar"},
		ExactName{Name: "baz"},
	}
	if diff := cmp.Diff(want, config.Output.Externals); diff != "" {
		t.Errorf("externals mismatch (-want +got):\n%s", diff)
	}
	if config.Module.ExternalsType != ExternalCommonJS {
		t.Errorf("externalsType = %q, want %q", config.Module.ExternalsType, ExternalCommonJS)
	}

	for _, request := range []string{"bar", "bar/sub", "react", "baz"} {
		if _, ok := config.Output.Externals.Resolve(Request{Path: request, Issuer: "/src/index.ts"}); !ok {
			t.Errorf("%s is not externalized", request)
		}
	}
	if _, ok := config.Output.Externals.Resolve(Request{Path: "typescript", Issuer: "/src/index.ts"}); ok {
		t.Errorf("devDependency typescript is externalized")
	}

	config, err = ComposeLib(shared, LibrarySpec{Format: FormatCJS, AutoExternal: AutoExternal{Disabled: true}}, Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Externals{ExactName{Name: "react"}}, config.Output.Externals); diff != "" {
		t.Errorf("externals with autoExternal disabled mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeBundleless(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name": "foo", "type": "module"}`)
	writeFile(t, root, "src/a.ts", "export const a = 1")
	writeFile(t, root, "src/sub/b.ts", "export const b = 2")

	lib := LibrarySpec{
		Format:   FormatESM,
		Bundle:   boolPtr(false),
		Settings: Settings{Entry: map[string]any{"index": "src/**/*.ts"}},
	}
	config, err := ComposeLib(Settings{}, lib, Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	wantEntry := map[string][]string{
		"a":     {filepath.Join(root, "src", "a.ts")},
		"sub/b": {filepath.Join(root, "src", "sub", "b.ts")},
	}
	if diff := cmp.Diff(wantEntry, config.Source.Entry); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
	if want := toSlash(filepath.Join(root, "src")); config.Output.OutBase != want {
		t.Errorf("outBase = %q, want %q", config.Output.OutBase, want)
	}
	wantExternals := Externals{CommonJSInterop{}, RelativeRequest{Extension: ".js"}}
	if diff := cmp.Diff(wantExternals, config.Output.Externals); diff != "" {
		t.Errorf("externals mismatch (-want +got):\n%s", diff)
	}
	d, ok := config.Output.Externals.Resolve(Request{Path: "./sub/b", Issuer: filepath.Join(root, "src", "a.ts")})
	if !ok || d.Path != "./sub/b.js" {
		t.Errorf("Resolve(./sub/b) = %+v, %v, want ./sub/b.js", d, ok)
	}
}

func TestComposeFormatAndTarget(t *testing.T) {
	root := newProject(t, `{"name": "foo"}`)

	config, err := ComposeLib(singleEntry(), LibrarySpec{Format: FormatESM, Target: TargetNode}, Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if config.Module.Format != FormatESM || !*config.Module.OutputModule || config.Module.LibraryType != "modern-module" {
		t.Errorf("module = %+v, want esm module output", config.Module)
	}
	if config.Output.Target != TargetNode {
		t.Errorf("target = %q, want node", config.Output.Target)
	}
	for _, request := range []string{"fs", "node:fs", "fs/promises"} {
		if _, ok := config.Output.Externals.Resolve(Request{Path: request, Issuer: "/src/index.ts"}); !ok {
			t.Errorf("builtin %s is not externalized", request)
		}
	}
	if _, ok := config.Output.Externals[0].(CommonJSInterop); !ok {
		t.Errorf("externals[0] = %#v, want CommonJSInterop", config.Output.Externals[0])
	}

	config, err = ComposeLib(singleEntry(), LibrarySpec{Format: FormatUMD}, Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if config.Output.Target != TargetWeb || config.Module.ExternalsType != ExternalUMD {
		t.Errorf("umd config = %+v, want web target with umd externals", config)
	}
	if _, ok := config.Output.Externals.Resolve(Request{Path: "fs", Issuer: "/src/index.ts"}); ok {
		t.Errorf("fs is externalized for web target")
	}
}

func TestComposeDts(t *testing.T) {
	root := newProject(t, `{"name": "foo", "type": "module"}`)

	config, err := ComposeLib(singleEntry(), LibrarySpec{Format: FormatESM}, Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if config.Dts != nil {
		t.Errorf("dts = %+v, want nil", config.Dts)
	}

	lib := LibrarySpec{Format: FormatCJS, Bundle: boolPtr(false), Dts: DtsSpec{Enabled: true}}
	config, err = ComposeLib(singleEntry(), lib, Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	want := &DtsOptions{
		Bundle:               false,
		DistPath:             "./dist",
		AbortOnError:         true,
		DeclarationExtension: ".d.cts",
	}
	if diff := cmp.Diff(want, config.Dts); diff != "" {
		t.Errorf("dts mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeErrors(t *testing.T) {
	root := newProject(t, `{"name": "foo"}`)
	tests := []struct {
		name    string
		spec    *RootSpec
		wantErr error
	}{
		{"nil", nil, ErrInvalidLibrarySpec},
		{"empty lib", &RootSpec{}, ErrInvalidLibrarySpec},
		{"missing format", &RootSpec{Lib: []LibrarySpec{{}}}, ErrInvalidLibrarySpec},
		{"unknown format", &RootSpec{Lib: []LibrarySpec{{Format: "amd"}}}, ErrInvalidLibrarySpec},
		{"unknown target", &RootSpec{Lib: []LibrarySpec{{Format: FormatESM, Target: "deno"}}}, ErrInvalidLibrarySpec},
		{
			"entry not found",
			&RootSpec{
				Settings: Settings{Entry: map[string]any{"index": "lib/*.ts"}},
				Lib:      []LibrarySpec{{Format: FormatESM}, {Format: FormatCJS, Bundle: boolPtr(false)}},
			},
			ErrEntryNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envs, err := Compose(context.Background(), tt.spec, Options{Root: root})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compose() error = %v, want %v", err, tt.wantErr)
			}
			if envs != nil {
				t.Errorf("Compose() returned environments on error")
			}
		})
	}
}

func TestComposeEnvironmentNames(t *testing.T) {
	root := newProject(t, `{"name": "foo", "type": "module"}`)
	spec := &RootSpec{
		Settings: singleEntry(),
		Lib: []LibrarySpec{
			{Format: FormatESM, Syntax: Syntax{"es2015"}},
			{Format: FormatESM},
			{Format: FormatCJS},
		},
	}
	envs, err := Compose(context.Background(), spec, Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"esm0", "esm1", "cjs"}, envs.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	esm0, ok := envs.Get("esm0")
	if !ok || esm0.Config.Output.Syntax.ESTarget != "es2015" {
		t.Errorf("Get(esm0) = %+v, %v, want es2015 syntax", esm0.Config.Output.Syntax, ok)
	}
	if _, ok := envs.Get("esm"); ok {
		t.Errorf("Get(esm) found, want not found")
	}
}

func TestComposeDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name": "foo", "dependencies": {"a": "1", "b": "1", "c": "1"}}`)
	writeFile(t, root, "src/index.ts", "export default 1")
	writeFile(t, root, "src/utils/x.ts", "export default 1")
	spec := &RootSpec{
		Settings: Settings{Entry: map[string]any{"index": "src/**/*.ts"}},
		Lib: []LibrarySpec{
			{Format: FormatESM, Bundle: boolPtr(false), Dts: DtsSpec{Enabled: true}},
			{Format: FormatCJS, Target: TargetNode},
			{Format: FormatUMD, Syntax: Syntax{"chrome >= 87"}},
		},
	}
	packages := npm.NewReader(0)
	first, err := Compose(context.Background(), spec, Options{Root: root, Packages: packages})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Compose(context.Background(), spec, Options{Root: root, Packages: packages})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Compose() is not deterministic (-first +second):\n%s", diff)
	}
	a, _ := first.MarshalJSON()
	b, _ := second.MarshalJSON()
	if string(a) != string(b) {
		t.Errorf("MarshalJSON() is not deterministic")
	}
}

func TestComposeCancelled(t *testing.T) {
	root := newProject(t, `{"name": "foo"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	spec := &RootSpec{Settings: singleEntry(), Lib: []LibrarySpec{{Format: FormatESM}}}
	if _, err := Compose(ctx, spec, Options{Root: root}); !errors.Is(err, context.Canceled) {
		t.Errorf("Compose() error = %v, want %v", err, context.Canceled)
	}
}
