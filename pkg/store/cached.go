package store

import (
	"os"

	"github.com/Sumatoshi-tech/benchratio/pkg/cache"
	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
)

// CachedSource serves DirSource reports through an LRU keyed on path, size
// and modification time, so a changed file is always re-read.
type CachedSource struct {
	dir   *DirSource
	cache *cache.LRU
}

// NewCachedSource wraps dir with lru.
func NewCachedSource(dir *DirSource, lru *cache.LRU) *CachedSource {
	return &CachedSource{dir: dir, cache: lru}
}

// Root returns the directory of the wrapped DirSource.
func (s *CachedSource) Root() string {
	return s.dir.Root
}

// Read implements Source.
func (s *CachedSource) Read(category catalog.Category, action catalog.Action) ([]byte, error) {
	key, ok := s.key(category, action)
	if !ok {
		return s.dir.Read(category, action)
	}

	if data, hit := s.cache.Get(key); hit {
		return data, nil
	}

	data, err := s.dir.Read(category, action)
	if err != nil {
		return nil, err
	}

	s.cache.Put(key, data)

	return data, nil
}

func (s *CachedSource) key(category catalog.Category, action catalog.Action) (cache.Key, bool) {
	path, err := s.dir.Path(category, action)
	if err != nil {
		return cache.Key{}, false
	}

	for _, candidate := range []string{path, path + CompressedExt} {
		info, statErr := os.Stat(candidate)
		if statErr != nil || !info.Mode().IsRegular() {
			continue
		}

		return cache.Key{Path: candidate, Size: info.Size(), ModTime: info.ModTime()}, true
	}

	return cache.Key{}, false
}
