package lib

import "fmt"

// nodeBuiltinModules are the built-in modules of Node.js
var nodeBuiltinModules = []string{
	"_http_agent",
	"_http_client",
	"_http_common",
	"_http_incoming",
	"_http_outgoing",
	"_http_server",
	"_stream_duplex",
	"_stream_passthrough",
	"_stream_readable",
	"_stream_transform",
	"_stream_wrap",
	"_stream_writable",
	"_tls_common",
	"_tls_wrap",
	"assert",
	"assert/strict",
	"async_hooks",
	"buffer",
	"child_process",
	"cluster",
	"console",
	"constants",
	"crypto",
	"dgram",
	"diagnostics_channel",
	"dns",
	"dns/promises",
	"domain",
	"events",
	"fs",
	"fs/promises",
	"http",
	"http2",
	"https",
	"inspector",
	"inspector/promises",
	"module",
	"net",
	"os",
	"path",
	"path/posix",
	"path/win32",
	"perf_hooks",
	"process",
	"punycode",
	"querystring",
	"readline",
	"readline/promises",
	"repl",
	"stream",
	"stream/consumers",
	"stream/promises",
	"stream/web",
	"string_decoder",
	"sys",
	"timers",
	"timers/promises",
	"tls",
	"trace_events",
	"tty",
	"url",
	"util",
	"util/types",
	"v8",
	"vm",
	"wasi",
	"worker_threads",
	"zlib",
}

// targetConfig maps the platform target. Node output externalizes all
// Node.js built-in modules, including `node:` prefixed requests.
func targetConfig(target Target) (Config, error) {
	switch target.orDefault() {
	case TargetWeb:
		return Config{Output: OutputConfig{Target: TargetWeb}}, nil
	case TargetNode:
		externals := make(Externals, 0, len(nodeBuiltinModules)+1)
		for _, name := range nodeBuiltinModules {
			externals = append(externals, ExactName{Name: name})
		}
		p, _ := NewPattern("^node:")
		externals = append(externals, p)
		return Config{Output: OutputConfig{Target: TargetNode, Externals: externals}}, nil
	case TargetNeutral:
		return Config{Output: OutputConfig{Target: TargetNeutral}}, nil
	default:
		return Config{}, fmt.Errorf("%w: unsupported target %q", ErrInvalidLibrarySpec, string(target))
	}
}
