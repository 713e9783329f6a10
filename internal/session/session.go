package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"EduChat/internal/endpoint"
)

// Credential is the identity handed over by the identity provider. An absent
// token means unauthenticated; it is never treated as an empty-string token.
type Credential struct {
	Token       string
	UserID      string
	DisplayName string
}

func (c Credential) Valid() bool {
	return c.Token != ""
}

// Context carries the session-scoped state shared by the dispatcher and the
// history loader. Credential and endpoint are set once at session start and
// read-only until Teardown.
type Context struct {
	mu        sync.RWMutex
	id        string
	startTime time.Time
	cred      Credential
	active    endpoint.Active
}

func NewContext(cred Credential, active endpoint.Active) *Context {
	return &Context{
		id:        uuid.NewString(),
		startTime: time.Now(),
		cred:      cred,
		active:    active,
	}
}

func (s *Context) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Context) StartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startTime
}

// Credential is a pure read; it performs no I/O.
func (s *Context) Credential() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

func (s *Context) Endpoint() endpoint.Active {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Teardown clears the credential and endpoint at session end.
func (s *Context) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = Credential{}
	s.active = endpoint.Active{}
}
