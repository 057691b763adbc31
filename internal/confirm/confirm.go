package confirm

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds planned mutations awaiting confirmation. Accepting a
// recommendation is a two-step exchange: plan returns a single-use token,
// commit spends it. Tokens expire after a TTL and can never be replayed.

var (
	ErrNotFound = errors.New("confirmation token not found")
	ErrExpired  = errors.New("confirmation token expired")
)

type ActionKind string

const (
	ActionAddAssignment    ActionKind = "add_assignment"
	ActionRemoveAssignment ActionKind = "remove_assignment"
)

// PendingAction is the mutation that will run on commit.
type PendingAction struct {
	Kind    ActionKind
	Summary string

	// add_assignment fields
	PersonID             uint
	ProjectID            uint
	RoleID               uint
	AllocationPercentage float64
	StartDate            time.Time
	EndDate              time.Time
	Billable             bool
	Notes                string

	// remove_assignment field
	AssignmentID uint
}

type pending struct {
	action    PendingAction
	expiresAt time.Time
}

type Registry struct {
	ttl time.Duration

	mu     sync.Mutex
	tokens map[string]pending
	clock  func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:    ttl,
		tokens: make(map[string]pending),
		clock:  time.Now,
	}
}

// Plan stores the action and returns its token and expiry.
func (r *Registry) Plan(action PendingAction) (string, time.Time) {
	token := uuid.NewString()
	expires := r.clock().Add(r.ttl)

	r.mu.Lock()
	r.tokens[token] = pending{action: action, expiresAt: expires}
	r.prune()
	r.mu.Unlock()

	return token, expires
}

// Take consumes the token. A token can be taken exactly once; expired and
// unknown tokens fail.
func (r *Registry) Take(token string) (PendingAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.tokens[token]
	if !ok {
		return PendingAction{}, ErrNotFound
	}
	delete(r.tokens, token)
	if r.clock().After(p.expiresAt) {
		return PendingAction{}, ErrExpired
	}
	return p.action, nil
}

// prune drops expired tokens; called under lock on each Plan so the map
// cannot grow unbounded.
func (r *Registry) prune() {
	now := r.clock()
	for token, p := range r.tokens {
		if now.After(p.expiresAt) {
			delete(r.tokens, token)
		}
	}
}
