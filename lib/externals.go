package lib

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/esm-dev/libconf/internal/npm"
	"github.com/goccy/go-json"
	"github.com/ije/gox/set"
	"github.com/ije/gox/term"
	"github.com/ije/gox/utils"
)

// Request is an import request seen by the bundling engine.
type Request struct {
	Path string
	// Issuer is the importing module, empty for entry modules.
	Issuer string
	// CommonJS is true when the request is a `require` call.
	CommonJS bool
}

// Decision is the result of externalizing a request.
type Decision struct {
	// Path is the request emitted in the output.
	Path string
	// Type overrides the externals type of the format when not empty.
	Type ExternalType
	// Warning is set when the decision changes the import semantics.
	Warning string
}

// Matcher is one externals rule. The set of matchers is closed:
// ExactName, Pattern, CommonJSInterop and RelativeRequest.
type Matcher interface {
	resolve(req Request, rest Externals) (Decision, bool)
	kind() string
}

// ExactName externalizes a request equal to Name.
type ExactName struct {
	Name string `json:"name"`
	// Request replaces the emitted request when not empty.
	Request string       `json:"request,omitempty"`
	Type    ExternalType `json:"type,omitempty"`
}

func (m ExactName) kind() string { return "exact" }

func (m ExactName) resolve(req Request, _ Externals) (Decision, bool) {
	if req.Path != m.Name {
		return Decision{}, false
	}
	d := Decision{Path: req.Path, Type: m.Type}
	if m.Request != "" {
		d.Path = m.Request
	}
	return d, true
}

// Pattern externalizes a request matching the regular expression Expr.
type Pattern struct {
	Expr string `json:"expr"`
	re   *regexp.Regexp
}

// NewPattern compiles the expression into a Pattern.
func NewPattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{Expr: expr, re: re}, nil
}

// PrefixPattern returns the pattern matching the package name and its subpaths,
// e.g. `react`, `react/jsx-runtime` and `react\index.js`.
func PrefixPattern(name string) Pattern {
	p, _ := NewPattern("^" + regexp.QuoteMeta(name) + `($|/|\\)`)
	return p
}

// Equal reports whether both patterns have the same expression.
func (m Pattern) Equal(o Pattern) bool {
	return m.Expr == o.Expr
}

func (m Pattern) kind() string { return "pattern" }

func (m Pattern) resolve(req Request, _ Externals) (Decision, bool) {
	re := m.re
	if re == nil {
		var err error
		re, err = regexp.Compile(m.Expr)
		if err != nil {
			return Decision{}, false
		}
	}
	if !re.MatchString(req.Path) {
		return Decision{}, false
	}
	return Decision{Path: req.Path}, true
}

// CommonJSInterop intercepts `require` requests in ESM output that the
// following matchers externalize, and turns them into `module` externals
// with a warning. A type set explicitly by the user is kept.
type CommonJSInterop struct{}

func (m CommonJSInterop) kind() string { return "commonjs-interop" }

func (m CommonJSInterop) resolve(req Request, rest Externals) (Decision, bool) {
	if req.Issuer == "" || !req.CommonJS {
		return Decision{}, false
	}
	d, ok := rest.Resolve(req)
	if !ok {
		return Decision{}, false
	}
	if d.Type == "" {
		d.Type = ExternalModule
		d.Warning = commonJSExternalWarning(req.Path)
	}
	return d, true
}

// commonJSExternalWarning returns the warning of a commonjs request
// externalized in ESM output.
func commonJSExternalWarning(request string) string {
	return fmt.Sprintf(
		"The externalized commonjs request %s will use %s external type in ESM format. If you want to specify other external type, considering set the request and type with %s.",
		term.Green(`"`+request+`"`),
		term.Cyan(`"module"`),
		term.Cyan(`"output.externals"`),
	)
}

// RelativeRequest externalizes every non-entry request in bundleless mode.
// Relative requests get the output extension so that the emitted files
// import each other.
type RelativeRequest struct {
	Extension string `json:"extension"`
}

func (m RelativeRequest) kind() string { return "relative-request" }

func (m RelativeRequest) resolve(req Request, _ Externals) (Decision, bool) {
	if req.Issuer == "" {
		return Decision{}, false
	}
	p := req.Path
	if strings.HasPrefix(p, ".") {
		p = replaceExtension(p, m.Extension)
	}
	return Decision{Path: p}, true
}

var sourceExtensions = set.NewReadOnly(".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".mts", ".cts")

// replaceExtension replaces the JS or TS source extension of the request, or
// appends ext when the request has none. Requests of other files, e.g.
// `./style.css`, are returned unchanged.
func replaceExtension(request string, ext string) string {
	dir, base := utils.SplitByLastByte(request, '/')
	if base == "" || base == "." || base == ".." {
		return request
	}
	if e := path.Ext(base); e != "" && e != base {
		if !sourceExtensions.Has(e) {
			return request
		}
		base = base[:len(base)-len(e)]
	}
	return dir + "/" + base + ext
}

// Externals is an ordered list of matchers; the first match wins.
type Externals []Matcher

// Resolve evaluates the list against the request.
func (e Externals) Resolve(req Request) (Decision, bool) {
	for i, m := range e {
		if d, ok := m.resolve(req, e[i+1:]); ok {
			return d, true
		}
	}
	return Decision{}, false
}

// UnmarshalJSON implements the json.Unmarshaler interface. The input is an
// array of names and `/regexp/` strings, or an object mapping names to
// requests (`"commonjs lodash"` also sets the type).
func (e *Externals) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*e = nil
		return nil
	}
	var list []string
	if json.Unmarshal(b, &list) == nil {
		ret := make(Externals, 0, len(list))
		for _, s := range list {
			m, err := parseExternal(s)
			if err != nil {
				return err
			}
			ret = append(ret, m)
		}
		*e = ret
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return errors.New("externals must be an array of strings or an object")
	}
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)
	ret := make(Externals, 0, len(names))
	for _, name := range names {
		m := ExactName{Name: name}
		switch v := obj[name].(type) {
		case bool:
			if !v {
				continue
			}
		case string:
			if t, r := utils.SplitByFirstByte(v, ' '); r != "" && isExternalType(t) {
				m.Type = ExternalType(t)
				m.Request = strings.TrimSpace(r)
			} else {
				m.Request = v
			}
			if m.Request == name {
				m.Request = ""
			}
		default:
			return fmt.Errorf("invalid external %q: value must be a string or boolean", name)
		}
		ret = append(ret, m)
	}
	*e = ret
	return nil
}

// MarshalJSON implements the json.Marshaler interface
func (e Externals) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("[")
	for i, m := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(buf, `{"kind":%q`, m.kind())
		if len(data) > 2 {
			buf.WriteByte(',')
			buf.Write(data[1 : len(data)-1])
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func parseExternal(s string) (Matcher, error) {
	if len(s) > 2 && s[0] == '/' && s[len(s)-1] == '/' {
		p, err := NewPattern(s[1 : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid external pattern %s: %w", s, err)
		}
		return p, nil
	}
	if s == "" {
		return nil, errors.New("invalid external: empty name")
	}
	return ExactName{Name: s}, nil
}

func isExternalType(t string) bool {
	switch ExternalType(t) {
	case ExternalModuleImport, ExternalModule, ExternalCommonJS, ExternalUMD, "var", "global", "import", "commonjs2", "node-commonjs":
		return true
	default:
		return false
	}
}

var externalsTypes = map[Format]ExternalType{
	FormatESM: ExternalModuleImport,
	FormatCJS: ExternalCommonJS,
	FormatUMD: ExternalUMD,
}

// externalsConfig returns the format externals strategy with the user
// externals folded in.
func externalsConfig(format Format, user Externals) (Config, error) {
	t, ok := externalsTypes[format]
	if !ok {
		return Config{}, fmt.Errorf("externals: unsupported format %q", string(format))
	}
	var externals Externals
	if format == FormatESM {
		externals = append(externals, CommonJSInterop{})
	}
	externals = appendExternals(externals, user)
	return Config{
		Module: ModuleConfig{ExternalsType: t},
		Output: OutputConfig{Externals: externals},
	}, nil
}

// autoExternalConfig externalizes the selected dependencies of the package.json.
// Names the user already externalized are skipped.
func autoExternalConfig(auto AutoExternal, pkg *npm.PackageJSON, user Externals, logger Logger) Config {
	if !auto.Enabled() {
		return Config{}
	}
	if pkg == nil {
		logger.Warnf("autoExternal configuration will not be applied due to read package.json failed")
		return Config{}
	}

	userNames := set.New[string]()
	for _, m := range user {
		if n, ok := m.(ExactName); ok {
			userNames.Add(n.Name)
		}
	}

	selection := auto.Selection()
	var lists []map[string]string
	if selection.Dependencies {
		lists = append(lists, pkg.Dependencies)
	}
	if selection.PeerDependencies {
		lists = append(lists, pkg.PeerDependencies)
	}
	if selection.DevDependencies {
		lists = append(lists, pkg.DevDependencies)
	}

	seen := set.New[string]()
	var names []string
	for _, deps := range lists {
		for _, name := range npm.DependencyNames(deps) {
			if userNames.Has(name) || seen.Has(name) {
				continue
			}
			seen.Add(name)
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return Config{}
	}

	externals := make(Externals, 0, 2*len(names))
	for _, name := range names {
		externals = append(externals, PrefixPattern(name))
	}
	for _, name := range names {
		externals = append(externals, ExactName{Name: name})
	}
	return Config{Output: OutputConfig{Externals: externals}}
}

// bundleConfig externalizes every import in bundleless mode, rewriting
// relative imports to the output extension.
func bundleConfig(jsExtension string, bundle bool) Config {
	if bundle {
		return Config{}
	}
	return Config{
		Output: OutputConfig{
			Externals: Externals{RelativeRequest{Extension: jsExtension}},
		},
	}
}
