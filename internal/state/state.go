package state

import (
	"sync"

	"github.com/shinyvision/phpscan/internal/php"
	"github.com/shinyvision/phpscan/internal/utils"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// State tracks the documents the client has open. Documents are also
// registered with the store so they count towards, but are exempt from,
// its eviction bound.
type State struct {
	mu    sync.RWMutex
	docs  map[protocol.DocumentUri]*php.Document
	store *php.DocumentStore
}

func NewState(store *php.DocumentStore) *State {
	return &State{
		docs:  make(map[protocol.DocumentUri]*php.Document),
		store: store,
	}
}

// GetDocument retrieves an open document.
func (s *State) GetDocument(uri protocol.DocumentUri) (*php.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// OpenDocument creates (or replaces) the document for uri with text.
func (s *State) OpenDocument(uri protocol.DocumentUri, text string) (*php.Document, error) {
	doc := php.NewDocument()
	if err := doc.Update([]byte(text)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()

	s.store.Open(utils.UriToPath(uri), doc)
	return doc, nil
}

// CloseDocument forgets uri. The store may evict it from then on.
func (s *State) CloseDocument(uri protocol.DocumentUri) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	s.store.Release(utils.UriToPath(uri))
}

// Store exposes the document store backing the state.
func (s *State) Store() *php.DocumentStore {
	return s.store
}
