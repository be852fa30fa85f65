package session

import (
	"github.com/pdtechteam/partyquiz/internal/protocol"
)

// Resolver decides whether a broadcast event concerns the local client. The
// session channel is shared by every participant, so "I joined" and "someone
// else joined" arrive as the same event type; this predicate is consulted
// before any mutation of the local player or host flag.
//
// Until the server confirms the join, the only correlator is the name the
// join command was issued with. Once an id is learned, comparison is by id
// only: two participants choosing the same name during the pre-id window are
// genuinely ambiguous and the name path is kept strictly as that bootstrap.
type Resolver struct {
	name    string
	id      int
	idKnown bool
}

// NewResolver starts resolving against the locally chosen join name.
func NewResolver(name string) *Resolver {
	return &Resolver{name: name}
}

// Learn upgrades the resolver to id-based comparison.
func (r *Resolver) Learn(id int) {
	r.id = id
	r.idKnown = true
}

// Forget drops the learned id, returning to the name bootstrap. Called when
// the client restarts its join flow from scratch.
func (r *Resolver) Forget() {
	r.id = 0
	r.idKnown = false
}

// IsMe reports whether the named participant is the local client.
func (r *Resolver) IsMe(p protocol.Player) bool {
	if r.idKnown {
		return p.ID == r.id
	}
	return p.Name == r.name
}

// IDKnown reports whether the stable participant id has been learned yet.
func (r *Resolver) IDKnown() bool {
	return r.idKnown
}
