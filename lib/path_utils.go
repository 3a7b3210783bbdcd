package lib

import (
	"path"
	"strings"
)

// toSlash normalizes the path separators to `/`.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// LongestCommonPath returns the longest common ancestor directory of the
// files. It returns false when there are no files or the only common
// ancestor is the filesystem root, in which case the caller should use the
// project root instead. Paths are compared case-sensitively.
//
// Both `/packages-a/src/index.ts` and `D:/packages-a/src/index.ts` styles
// are supported; the result uses `/` separators.
func LongestCommonPath(files []string) (string, bool) {
	if len(files) == 0 {
		return "", false
	}
	var common []string
	for i, file := range files {
		segments := strings.Split(path.Dir(toSlash(file)), "/")
		if i == 0 {
			common = segments
			continue
		}
		n := 0
		for n < len(common) && n < len(segments) && common[n] == segments[n] {
			n++
		}
		common = common[:n]
	}
	// drop empty segments of a root-only prefix, e.g. `[""]` for `/` or `["C:"]`
	meaningful := 0
	for _, s := range common {
		if s != "" {
			meaningful++
		}
	}
	if meaningful == 0 || (meaningful == 1 && isVolume(common[0])) {
		return "", false
	}
	return strings.Join(common, "/"), true
}

func isVolume(s string) bool {
	return len(s) == 2 && s[1] == ':' && ((s[0] >= 'a' && s[0] <= 'z') || (s[0] >= 'A' && s[0] <= 'Z'))
}
