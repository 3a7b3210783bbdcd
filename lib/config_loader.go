package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"
)

// ConfigBaseName is the base name of the config file.
const ConfigBaseName = "rslib.config"

// ConfigExtensions are tried in order when looking up the config file.
var ConfigExtensions = []string{".json", ".jsonc", ".yaml", ".yml"}

// FindConfig returns the config file path. An explicit path, absolute or
// relative to root, must exist; otherwise `rslib.config` is tried with each
// of ConfigExtensions in order.
func FindConfig(root string, explicit string) (string, error) {
	if explicit != "" {
		filename := explicit
		if !filepath.IsAbs(filename) {
			filename = filepath.Join(root, filename)
		}
		if existsFile(filename) {
			return filename, nil
		}
		return "", fmt.Errorf("%w: %s does not exist", ErrConfigNotFound, filename)
	}
	for _, ext := range ConfigExtensions {
		filename := filepath.Join(root, ConfigBaseName+ext)
		if existsFile(filename) {
			return filename, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found in %s", ErrConfigNotFound, ConfigBaseName, root)
}

// LoadConfig loads the root config from a JSON, JSONC or YAML file.
func LoadConfig(filename string) (*RootSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("fail to read config file: %w", err)
	}
	spec, err := ParseConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("fail to parse config %s: %w", filename, err)
	}
	return spec, nil
}

// ParseConfig parses the root config; ext selects the syntax (`.json`,
// `.jsonc`, `.yaml` or `.yml`).
func ParseConfig(data []byte, ext string) (*RootSpec, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var err error
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, err
		}
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	default:
		return nil, fmt.Errorf("unsupported config file type %q", ext)
	}
	var spec RootSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func existsFile(filename string) bool {
	fi, err := os.Stat(filename)
	return err == nil && !fi.IsDir()
}
