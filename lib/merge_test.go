package lib

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeConfig(t *testing.T) {
	base := Config{
		Source: SourceConfig{
			Entry:  map[string][]string{"index": {"./src/index.ts"}},
			Define: map[string]string{"A": "1", "B": "2"},
		},
		Output: OutputConfig{
			DistPath:  DistPath{Root: "./dist", JS: "./"},
			Externals: Externals{ExactName{Name: "react"}},
			Minify:    boolPtr(false),
			Syntax: SyntaxConfig{
				ESTarget:     "esnext",
				Engines:      []Engine{{Name: "chrome", Version: "130"}, {Name: "node", Version: "23"}},
				Browserslist: []string{"last 1 Chrome versions"},
			},
		},
		Module: ModuleConfig{Format: FormatESM, OutputModule: boolPtr(true)},
	}
	override := Config{
		Source: SourceConfig{
			Entry:  map[string][]string{"cli": {"./src/cli.ts"}},
			Define: map[string]string{"B": "3"},
		},
		Output: OutputConfig{
			DistPath:  DistPath{Root: "./lib"},
			Externals: Externals{ExactName{Name: "vue"}},
			Minify:    boolPtr(true),
			Syntax: SyntaxConfig{
				ESTarget: "es2015",
				Engines:  []Engine{{Name: "chrome", Version: "51"}},
			},
		},
		Dts: &DtsOptions{DistPath: "./types"},
	}

	got := MergeConfig(base, override)
	want := Config{
		Source: SourceConfig{
			Entry:  map[string][]string{"index": {"./src/index.ts"}, "cli": {"./src/cli.ts"}},
			Define: map[string]string{"A": "1", "B": "3"},
		},
		Output: OutputConfig{
			DistPath:  DistPath{Root: "./lib", JS: "./"},
			Externals: Externals{ExactName{Name: "react"}, ExactName{Name: "vue"}},
			Minify:    boolPtr(true),
			Syntax: SyntaxConfig{
				ESTarget:     "es2015",
				Engines:      []Engine{{Name: "chrome", Version: "51"}},
				Browserslist: []string{"last 1 Chrome versions"},
			},
		},
		Module: ModuleConfig{Format: FormatESM, OutputModule: boolPtr(true)},
		Dts:    &DtsOptions{DistPath: "./types"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeConfig() mismatch (-want +got):\n%s", diff)
	}

	// inputs are not mutated
	if base.Source.Define["B"] != "2" || len(base.Output.Externals) != 1 || *base.Output.Minify {
		t.Errorf("MergeConfig() mutated the base config: %+v", base)
	}
	got.Dts.DistPath = "./changed"
	if override.Dts.DistPath != "./types" {
		t.Errorf("MergeConfig() shares the dts options with its input")
	}
}

func TestMergeConfigEmpty(t *testing.T) {
	if diff := cmp.Diff(Config{}, MergeConfig()); diff != "" {
		t.Errorf("MergeConfig() mismatch (-want +got):\n%s", diff)
	}
	c := Config{Output: OutputConfig{UmdName: "MyLib"}}
	if diff := cmp.Diff(c, MergeConfig(c, Config{})); diff != "" {
		t.Errorf("MergeConfig(c, empty) mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeSettings(t *testing.T) {
	shared := Settings{
		Entry:  map[string]any{"index": "./src/index.ts"},
		Output: OutputSpec{Externals: Externals{ExactName{Name: "react"}}, UmdName: "Shared"},
	}
	lib := Settings{
		Entry:  map[string]any{"index": "./src/main.ts"},
		Output: OutputSpec{Externals: Externals{ExactName{Name: "vue"}}},
	}
	got := mergeSettings(shared, lib)
	if got.Entry["index"] != "./src/main.ts" {
		t.Errorf("mergeSettings() entry = %v, want ./src/main.ts", got.Entry["index"])
	}
	if got.Output.UmdName != "Shared" {
		t.Errorf("mergeSettings() umdName = %q, want Shared", got.Output.UmdName)
	}
	if diff := cmp.Diff(Externals{ExactName{Name: "react"}, ExactName{Name: "vue"}}, got.Output.Externals); diff != "" {
		t.Errorf("mergeSettings() externals mismatch (-want +got):\n%s", diff)
	}
	if shared.Entry["index"] != "./src/index.ts" {
		t.Errorf("mergeSettings() mutated the shared settings")
	}
}
