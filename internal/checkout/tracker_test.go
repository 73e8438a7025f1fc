package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func presentIn(ids ...string) func(string) bool {
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestTracker_BlockedWhileAnyIDPresent(t *testing.T) {
	tr := NewTracker()
	tr.Record("sig", []string{"1", "2"})

	assert.True(t, tr.Blocked("sig", presentIn("1", "2")))
	assert.True(t, tr.Blocked("sig", presentIn("2")))
	assert.False(t, tr.Blocked("sig", presentIn()))
	assert.False(t, tr.Blocked("other", presentIn("1", "2")))
}

func TestTracker_PruneDropsMissingIDsAndEmptySignatures(t *testing.T) {
	tr := NewTracker()
	tr.Record("a", []string{"1", "2"})
	tr.Record("b", []string{"3"})

	released := tr.Prune(presentIn("2"))
	assert.Equal(t, []string{"b"}, released)
	assert.Equal(t, []string{"2"}, tr.Tracked("a"))
	assert.Equal(t, 1, tr.Len())

	released = tr.Prune(presentIn())
	assert.Equal(t, []string{"a"}, released)
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_RecordReplaces(t *testing.T) {
	tr := NewTracker()
	tr.Record("a", []string{"1", "2"})
	tr.Record("a", []string{"3"})
	assert.Equal(t, []string{"3"}, tr.Tracked("a"))
}

func TestTracker_CloneIsIndependent(t *testing.T) {
	tr := NewTracker()
	tr.Record("a", []string{"1"})
	c := tr.Clone()
	c.Prune(presentIn())

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, []string{"1"}, tr.Tracked("a"))
}

func TestTracker_Clear(t *testing.T) {
	tr := NewTracker()
	tr.Record("a", []string{"1"})
	tr.Clear()
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Tracked("a"))
}
