package lib

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// Environment is one composed, independently executable build configuration.
type Environment struct {
	Name   string
	Format Format
	Config Config
}

// EnvironmentMap is the ordered map of the composed environments.
type EnvironmentMap struct {
	Environments []Environment
}

// Get returns the environment of the given name.
func (m *EnvironmentMap) Get(name string) (Environment, bool) {
	for _, env := range m.Environments {
		if env.Name == name {
			return env, true
		}
	}
	return Environment{}, false
}

// Names returns the environment names in declaration order.
func (m *EnvironmentMap) Names() []string {
	names := make([]string, len(m.Environments))
	for i, env := range m.Environments {
		names[i] = env.Name
	}
	return names
}

// MarshalJSON implements the json.Marshaler interface, keeping the declaration order.
func (m *EnvironmentMap) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")
	for i, env := range m.Environments {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := json.Marshal(env.Config)
		if err != nil {
			return nil, err
		}
		buf.WriteString(strconv.Quote(env.Name))
		buf.WriteByte(':')
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AssembleEnvironments names the composed configs. A format declared once
// is named after the format; repeated formats get a zero-based occurrence
// index, e.g. `esm0`, `esm1`, `cjs`.
func AssembleEnvironments(formats []Format, configs []Config) *EnvironmentMap {
	counts := map[Format]int{}
	for _, f := range formats {
		counts[f]++
	}
	seen := map[Format]int{}
	envs := make([]Environment, len(configs))
	for i, config := range configs {
		format := formats[i]
		name := string(format)
		if counts[format] > 1 {
			name += strconv.Itoa(seen[format])
			seen[format]++
		}
		envs[i] = Environment{Name: name, Format: format, Config: config}
	}
	return &EnvironmentMap{Environments: envs}
}
