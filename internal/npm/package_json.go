package npm

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ije/gox/utils"
)

// PackageJSONRaw defines the raw package.json of a local package
type PackageJSONRaw struct {
	Name             string `json:"name"`
	Version          string `json:"version"`
	Type             string `json:"type"`
	Dependencies     any    `json:"dependencies"`
	PeerDependencies any    `json:"peerDependencies"`
	DevDependencies  any    `json:"devDependencies"`
}

// PackageJSON defines the package.json fields used to compose library builds.
// A PackageJSON is never mutated after it is read.
type PackageJSON struct {
	Name             string
	Version          string
	Type             string
	Dependencies     map[string]string
	PeerDependencies map[string]string
	DevDependencies  map[string]string
}

// ToPackageJSON converts PackageJSONRaw to PackageJSON
func (a *PackageJSONRaw) ToPackageJSON() *PackageJSON {
	return &PackageJSON{
		Name:             a.Name,
		Version:          a.Version,
		Type:             a.Type,
		Dependencies:     toDependencyMap(a.Dependencies),
		PeerDependencies: toDependencyMap(a.PeerDependencies),
		DevDependencies:  toDependencyMap(a.DevDependencies),
	}
}

// IsModule returns true if the package declares `"type": "module"`.
func (p *PackageJSON) IsModule() bool {
	return IsModuleType(p.Type)
}

// DependencyNames returns the sorted names of the given dependency map.
func DependencyNames(deps map[string]string) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadPackageJSON reads the package.json in the given root directory.
// It returns nil if the file is missing or can not be parsed.
func ReadPackageJSON(root string) *PackageJSON {
	filename := filepath.Join(root, "package.json")
	fi, err := os.Stat(filename)
	if err != nil || fi.IsDir() {
		return nil
	}
	var raw PackageJSONRaw
	if utils.ParseJSONFile(filename, &raw) != nil {
		return nil
	}
	return raw.ToPackageJSON()
}

// toDependencyMap converts a decoded dependency field to a `map[string]string`,
// dropping entries that are not valid package names or version strings.
func toDependencyMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	deps := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok && s != "" && ValidatePackageName(k) {
			deps[k] = s
		}
	}
	return deps
}
