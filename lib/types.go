package lib

import (
	"fmt"
)

// Format is the module format of a library output.
type Format string

const (
	FormatESM Format = "esm"
	FormatCJS Format = "cjs"
	FormatUMD Format = "umd"
)

// Validate checks that the format is one of esm, cjs and umd.
func (f Format) Validate() error {
	switch f {
	case FormatESM, FormatCJS, FormatUMD:
		return nil
	case "":
		return fmt.Errorf("%w: format is required", ErrInvalidLibrarySpec)
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidLibrarySpec, string(f))
	}
}

// Target is the platform a library output runs on.
type Target string

const (
	TargetWeb     Target = "web"
	TargetNode    Target = "node"
	TargetNeutral Target = "neutral"
)

// Validate checks that the target is one of web, node and neutral.
// The empty target is valid and means web.
func (t Target) Validate() error {
	switch t {
	case "", TargetWeb, TargetNode, TargetNeutral:
		return nil
	default:
		return fmt.Errorf("%w: unsupported target %q", ErrInvalidLibrarySpec, string(t))
	}
}

func (t Target) orDefault() Target {
	if t == "" {
		return TargetWeb
	}
	return t
}

// ExternalType is how an externalized request is loaded at runtime.
type ExternalType string

const (
	ExternalModuleImport ExternalType = "module-import"
	ExternalModule       ExternalType = "module"
	ExternalCommonJS     ExternalType = "commonjs"
	ExternalUMD          ExternalType = "umd"
)

// Logger is the logging interface used while composing.
// *log.Logger of github.com/ije/gox/log satisfies it.
type Logger interface {
	Debugf(format string, v ...any)
	Warnf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(format string, v ...any) {}
func (nopLogger) Warnf(format string, v ...any)  {}

func boolPtr(b bool) *bool {
	return &b
}

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
