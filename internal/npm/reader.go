package npm

import (
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const defaultReaderCacheSize = 256

// Reader reads package.json files and caches the result per root directory.
// It is safe for concurrent use.
type Reader struct {
	cache *lru.Cache[string, *PackageJSON]
	group singleflight.Group
	read  func(root string) *PackageJSON
}

// NewReader creates a Reader that caches up to size roots.
func NewReader(size int) *Reader {
	if size <= 0 {
		size = defaultReaderCacheSize
	}
	cache, err := lru.New[string, *PackageJSON](size)
	if err != nil {
		// lru.New only fails for a non-positive size
		panic(err)
	}
	return &Reader{cache: cache, read: ReadPackageJSON}
}

// Read returns the package.json of the given root, or nil if it is missing
// or unparsable. Missing results are cached too.
func (r *Reader) Read(root string) *PackageJSON {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if p, ok := r.cache.Get(root); ok {
		return p
	}
	v, _, _ := r.group.Do(root, func() (any, error) {
		if p, ok := r.cache.Get(root); ok {
			return p, nil
		}
		p := r.read(root)
		r.cache.Add(root, p)
		return p, nil
	})
	return v.(*PackageJSON)
}
