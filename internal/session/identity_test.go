package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdtechteam/partyquiz/internal/protocol"
)

func TestResolverNameBootstrapThenID(t *testing.T) {
	r := NewResolver("ann")

	assert.False(t, r.IDKnown())
	assert.True(t, r.IsMe(protocol.Player{ID: 7, Name: "ann"}))
	assert.False(t, r.IsMe(protocol.Player{ID: 3, Name: "bob"}))

	r.Learn(7)
	assert.True(t, r.IDKnown())
	assert.True(t, r.IsMe(protocol.Player{ID: 7, Name: "renamed"}))
	// same name, different id: a distinct participant once the id is learned
	assert.False(t, r.IsMe(protocol.Player{ID: 9, Name: "ann"}))

	r.Forget()
	assert.False(t, r.IDKnown())
	assert.True(t, r.IsMe(protocol.Player{ID: 9, Name: "ann"}))
}
