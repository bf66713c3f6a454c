package session

import (
	"maps"
	"sync"

	"github.com/massimiliano76/lapi/http"
)

// CookieName is the cookie holding the session id.
const CookieName = "SID"

const requestKey = "session"

/*
Inspired by https://github.com/symfony/symfony/blob/7.2/src/Symfony/Component/HttpFoundation/Session/SessionInterface.php
*/
type Session interface {
	ID() string
	Has(name string) bool
	Get(name string, fallback any) any
	Set(name string, value any)
	// Update replaces the named attribute with fn's result in one step.
	Update(name string, fn func(value any, found bool) any) any
	All() map[string]any
	Replace(attributes map[string]any)
	Remove(name string)
	Clear()
}

type defaultSession struct {
	mu         sync.RWMutex
	id         string
	attributes map[string]any
}

func New(id string, attributes map[string]any) Session {
	if attributes == nil {
		attributes = make(map[string]any)
	}

	return &defaultSession{
		id:         id,
		attributes: attributes,
	}
}

func (s *defaultSession) ID() string {
	return s.id
}

// All returns a copy of the attributes.
func (s *defaultSession) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.attributes)
}

func (s *defaultSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes = make(map[string]any)
}

func (s *defaultSession) Get(name string, fallback any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.attributes[name]
	if !found {
		return fallback
	}

	return value
}

func (s *defaultSession) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, found := s.attributes[name]
	return found
}

func (s *defaultSession) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attributes, name)
}

func (s *defaultSession) Replace(attributes map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes = maps.Clone(attributes)
	if s.attributes == nil {
		s.attributes = make(map[string]any)
	}
}

func (s *defaultSession) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes[name] = value
}

func (s *defaultSession) Update(name string, fn func(value any, found bool) any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, found := s.attributes[name]
	value = fn(value, found)
	s.attributes[name] = value
	return value
}

// Attach makes sess available to later middleware and the handler.
func Attach(req *http.Request, sess Session) {
	req.Set(requestKey, sess)
}

// FromRequest returns the session attached to req, if any.
func FromRequest(req *http.Request) (Session, bool) {
	value, found := req.Get(requestKey)
	if !found {
		return nil, false
	}

	sess, ok := value.(Session)
	return sess, ok
}
