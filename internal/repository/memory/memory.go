// Package memory provides a map-backed storage adapter used by tests
// and local development without a database.
package memory

import (
	"sync"
	"time"
)

// Store holds the shared state for all in-memory repositories so that
// cascade deletes can reach across entity types.
type Store struct {
	mu         sync.RWMutex
	documents  *DocumentRepository
	analyses   *AnalysisRepository
	signatures *SignatureRepository
	users      *UserRepository
}

func NewStore() *Store {
	s := &Store{}
	s.documents = &DocumentRepository{store: s}
	s.analyses = &AnalysisRepository{store: s}
	s.signatures = &SignatureRepository{store: s}
	s.users = &UserRepository{store: s}
	return s
}

func (s *Store) Documents() *DocumentRepository   { return s.documents }
func (s *Store) Analyses() *AnalysisRepository    { return s.analyses }
func (s *Store) Signatures() *SignatureRepository { return s.signatures }
func (s *Store) Users() *UserRepository           { return s.users }

func now() time.Time {
	return time.Now().UTC()
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
