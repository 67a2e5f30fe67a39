package php

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

const defaultMaxDocuments = 1000

var ErrEmptyPath = errors.New("empty document path")

type storeEntry struct {
	doc *Document
	// open documents belong to the editor and are never reloaded or evicted
	open bool
	// modification time of the file the document was read from
	modTime time.Time
	used    uint64
}

// DocumentStore caches parsed documents by file path. Documents loaded from
// disk are reloaded when the file changes and evicted least recently used
// first once the store holds more than its limit.
type DocumentStore struct {
	mu      sync.Mutex
	limit   int
	clock   uint64
	entries map[string]*storeEntry
}

func NewDocumentStore(limit int) *DocumentStore {
	if limit <= 0 {
		limit = defaultMaxDocuments
	}
	return &DocumentStore{
		limit:   limit,
		entries: make(map[string]*storeEntry),
	}
}

// Open pins doc under path until Release is called for it. A document
// previously stored under the same path is closed.
func (s *DocumentStore) Open(path string, doc *Document) {
	if doc == nil || path == "" {
		return
	}
	path = filepath.Clean(path)
	doc.SetPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.entries[path]; ok && prev.doc != doc {
		prev.doc.Close()
	}
	entry := &storeEntry{doc: doc, open: true}
	s.entries[path] = entry
	s.touch(entry)
	s.evict(path)
}

// Release unpins path. Its next Get reads the file from disk again, since the
// editor buffer may never have been saved.
func (s *DocumentStore) Release(path string) {
	if path == "" {
		return
	}
	path = filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[path]; ok {
		entry.open = false
		entry.modTime = time.Time{}
	}
	s.evict("")
}

func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get returns the document for path: the pinned one if the file is open,
// the cached one if the file is unchanged, or a fresh parse of the file.
func (s *DocumentStore) Get(path string) (*Document, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	path = filepath.Clean(path)
	info, statErr := os.Stat(path)

	s.mu.Lock()
	if entry, ok := s.entries[path]; ok {
		if entry.open || (statErr == nil && entry.modTime.Equal(info.ModTime())) {
			s.touch(entry)
			s.mu.Unlock()
			return entry.doc, nil
		}
	}
	s.mu.Unlock()

	if statErr != nil {
		return nil, statErr
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	doc.SetPath(path)
	if err := doc.Update(data); err != nil {
		doc.Close()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[path]; ok {
		if entry.open {
			// opened while the file was being parsed
			doc.Close()
			s.touch(entry)
			return entry.doc, nil
		}
		commonlog.GetLoggerf("phpscan.store").Debugf("reloaded %s", path)
		entry.doc.Close()
	}
	entry := &storeEntry{doc: doc, modTime: info.ModTime()}
	s.entries[path] = entry
	s.touch(entry)
	s.evict(path)
	return doc, nil
}

func (s *DocumentStore) touch(entry *storeEntry) {
	s.clock++
	entry.used = s.clock
}

// evict drops the least recently used closed documents until the store fits
// its limit. The entry under keep is spared: its caller is about to use it.
func (s *DocumentStore) evict(keep string) {
	for len(s.entries) > s.limit {
		victim := ""
		oldest := uint64(math.MaxUint64)
		for path, entry := range s.entries {
			if entry.open || path == keep {
				continue
			}
			if entry.used < oldest {
				victim, oldest = path, entry.used
			}
		}
		if victim == "" {
			return
		}
		s.entries[victim].doc.Close()
		delete(s.entries, victim)
		commonlog.GetLoggerf("phpscan.store").Debugf("evicted %s", victim)
	}
}
