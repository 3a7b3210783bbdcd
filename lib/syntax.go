package lib

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// esVersions are the supported ES versions, oldest first.
var esVersions = []string{
	"es5",
	"es2015",
	"es2016",
	"es2017",
	"es2018",
	"es2019",
	"es2020",
	"es2021",
	"es2022",
	"es2023",
	"es2024",
	"esnext",
}

var esVersionAliases = map[string]string{
	"es6": "es2015",
	"es7": "es2016",
}

var regexpESVersion = regexp.MustCompile(`^es(\d+|next)$`)

// esToBrowserslist maps ES versions to the browsers that fully support them.
var esToBrowserslist = map[string][]string{
	"es5":    {"chrome >= 5", "edge >= 12", "firefox >= 2", "ie >= 9", "ios >= 6", "node >= 0.4", "opera >= 10.1", "safari >= 3.1"},
	"es2015": {"chrome >= 51", "edge >= 15", "firefox >= 54", "ios >= 10", "node >= 6.5", "opera >= 38", "safari >= 10"},
	"es2016": {"chrome >= 52", "edge >= 15", "firefox >= 54", "ios >= 10.3", "node >= 7", "opera >= 39", "safari >= 10.1"},
	"es2017": {"chrome >= 58", "edge >= 16", "firefox >= 53", "ios >= 11", "node >= 7.6", "opera >= 45", "safari >= 11"},
	"es2018": {"chrome >= 64", "edge >= 79", "firefox >= 78", "ios >= 12", "node >= 10", "opera >= 51", "safari >= 12"},
	"es2019": {"chrome >= 66", "edge >= 79", "firefox >= 78", "ios >= 12", "node >= 10", "opera >= 53", "safari >= 12"},
	"es2020": {"chrome >= 80", "edge >= 80", "firefox >= 80", "ios >= 14.5", "node >= 14.18", "opera >= 67", "safari >= 14.1"},
	"es2021": {"chrome >= 85", "edge >= 85", "firefox >= 80", "ios >= 14.5", "node >= 15", "opera >= 71", "safari >= 14.1"},
	"es2022": {"chrome >= 94", "edge >= 94", "firefox >= 93", "ios >= 16.4", "node >= 16.11", "opera >= 80", "safari >= 16.4"},
	"es2023": {"chrome >= 110", "edge >= 110", "firefox >= 115", "ios >= 16.4", "node >= 20", "opera >= 96", "safari >= 16.4"},
	"es2024": {"chrome >= 117", "edge >= 117", "firefox >= 119", "ios >= 17.4", "node >= 22", "opera >= 103", "safari >= 17.4"},
	"esnext": {"last 1 chrome versions", "last 1 edge versions", "last 1 firefox versions", "last 1 ios_saf versions", "last 1 node versions", "last 1 opera versions", "last 1 safari versions"},
}

// latestBrowserslist is used when no syntax is declared.
var latestBrowserslist = map[Target][]string{
	TargetWeb:  {"last 1 Chrome versions", "last 1 Firefox versions", "last 1 Edge versions", "last 1 Safari versions", "last 1 ios_saf versions", "not dead"},
	TargetNode: {"last 1 node versions"},
}

// latestEngines are the engine versions matching latestBrowserslist.
var latestEngines = map[Target][]Engine{
	TargetWeb: {
		{Name: "chrome", Version: "130"},
		{Name: "edge", Version: "130"},
		{Name: "firefox", Version: "132"},
		{Name: "ios", Version: "18.1"},
		{Name: "safari", Version: "18.1"},
	},
	TargetNode: {
		{Name: "node", Version: "23"},
	},
}

// browserslist query names of the engines the bundling engine understands
var engineNames = map[string]string{
	"chrome":  "chrome",
	"and_chr": "chrome",
	"edge":    "edge",
	"firefox": "firefox",
	"ff":      "firefox",
	"ie":      "ie",
	"ios":     "ios",
	"ios_saf": "ios",
	"node":    "node",
	"opera":   "opera",
	"safari":  "safari",
	"deno":    "deno",
}

// normalizeESVersion reports whether the item names an ES version and returns it.
func normalizeESVersion(item string) (string, bool, error) {
	v := strings.ToLower(strings.TrimSpace(item))
	if !regexpESVersion.MatchString(v) {
		return "", false, nil
	}
	if alias, ok := esVersionAliases[v]; ok {
		v = alias
	}
	if _, ok := esToBrowserslist[v]; !ok {
		return "", true, fmt.Errorf("%w: unsupported ES version %q", ErrInvalidLibrarySpec, item)
	}
	return v, true, nil
}

func esVersionIndex(v string) int {
	for i, e := range esVersions {
		if e == v {
			return i
		}
	}
	return len(esVersions) - 1
}

// syntaxConfig resolves the syntax of the environment.
//
// A declared syntax compiles to the lowest ES version it names, or ES5
// when it names none, and keeps the browserslist queries, with ES versions
// expanded to the browsers supporting them. Without declared syntax the latest browsers of the
// target are assumed; neutral uses both web and node.
func syntaxConfig(syntax Syntax, target Target) (Config, error) {
	if len(syntax) == 0 {
		var queries []string
		var engines []Engine
		switch target.orDefault() {
		case TargetWeb, TargetNode:
			queries = append(queries, latestBrowserslist[target.orDefault()]...)
			engines = append(engines, latestEngines[target.orDefault()]...)
		case TargetNeutral:
			queries = append(queries, latestBrowserslist[TargetWeb]...)
			queries = append(queries, latestBrowserslist[TargetNode]...)
			engines = append(engines, latestEngines[TargetWeb]...)
			engines = append(engines, latestEngines[TargetNode]...)
		default:
			return Config{}, fmt.Errorf("%w: unsupported target %q", ErrInvalidLibrarySpec, string(target))
		}
		sortEngines(engines)
		return Config{
			Output: OutputConfig{
				Syntax: SyntaxConfig{ESTarget: "esnext", Engines: engines, Browserslist: queries},
			},
		}, nil
	}

	lowest := -1
	var queries []string
	seen := map[string]bool{}
	addQuery := func(q string) {
		if !seen[q] {
			seen[q] = true
			queries = append(queries, q)
		}
	}
	for _, item := range syntax {
		v, isES, err := normalizeESVersion(item)
		if err != nil {
			return Config{}, err
		}
		if isES {
			if i := esVersionIndex(v); lowest < 0 || i < lowest {
				lowest = i
			}
			for _, q := range esToBrowserslist[v] {
				addQuery(q)
			}
			continue
		}
		if q := strings.TrimSpace(item); q != "" {
			addQuery(q)
		}
	}

	// browserslist queries alone force the lowest target
	esTarget := "es5"
	if lowest >= 0 {
		esTarget = esVersions[lowest]
	}
	return Config{
		Output: OutputConfig{
			Syntax: SyntaxConfig{
				ESTarget:     esTarget,
				Engines:      parseEngines(queries),
				Browserslist: queries,
			},
		},
	}, nil
}

// parseEngines extracts the lowest version per engine from queries like
// `chrome >= 87`, `node 18.12` and `Safari > 15`. Other queries are ignored.
func parseEngines(queries []string) []Engine {
	lowest := map[string]*semver.Version{}
	for _, q := range queries {
		fields := strings.Fields(strings.ToLower(q))
		var name, version string
		switch {
		case len(fields) == 2:
			name, version = fields[0], fields[1]
		case len(fields) == 3 && (fields[1] == ">=" || fields[1] == ">"):
			name, version = fields[0], fields[2]
		default:
			continue
		}
		engine, ok := engineNames[name]
		if !ok {
			continue
		}
		v, err := semver.NewVersion(version)
		if err != nil {
			continue
		}
		if cur, ok := lowest[engine]; !ok || v.LessThan(cur) {
			lowest[engine] = v
		}
	}
	if len(lowest) == 0 {
		return nil
	}
	engines := make([]Engine, 0, len(lowest))
	for name, v := range lowest {
		engines = append(engines, Engine{Name: name, Version: v.Original()})
	}
	sortEngines(engines)
	return engines
}

func sortEngines(engines []Engine) {
	sort.Slice(engines, func(i, j int) bool {
		return engines[i].Name < engines[j].Name
	})
}
