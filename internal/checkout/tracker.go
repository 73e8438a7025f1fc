package checkout

import "sort"

// Tracker remembers which product ids each scanned cart payload contributed,
// so the same tag cannot be scanned again while its items are in the cart.
type Tracker struct {
	entries map[string]map[string]struct{}
}

func NewTracker() Tracker {
	return Tracker{entries: make(map[string]map[string]struct{})}
}

// Clone returns a deep copy.
func (t Tracker) Clone() Tracker {
	out := NewTracker()
	for sig, ids := range t.entries {
		set := make(map[string]struct{}, len(ids))
		for id := range ids {
			set[id] = struct{}{}
		}
		out.entries[sig] = set
	}
	return out
}

// Blocked reports whether sig is tracked and at least one of its ids is still
// present according to present.
func (t Tracker) Blocked(sig string, present func(productID string) bool) bool {
	for id := range t.entries[sig] {
		if present(id) {
			return true
		}
	}
	return false
}

// Record replaces the id set tracked for sig.
func (t *Tracker) Record(sig string, productIDs []string) {
	if t.entries == nil {
		t.entries = make(map[string]map[string]struct{})
	}
	set := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		set[id] = struct{}{}
	}
	t.entries[sig] = set
}

// Prune strips ids that are no longer present and deletes signatures left
// empty. It returns the released signatures, sorted.
func (t *Tracker) Prune(present func(productID string) bool) []string {
	var released []string
	for sig, ids := range t.entries {
		for id := range ids {
			if !present(id) {
				delete(ids, id)
			}
		}
		if len(ids) == 0 {
			delete(t.entries, sig)
			released = append(released, sig)
		}
	}
	sort.Strings(released)
	return released
}

// Tracked returns the ids tracked for sig, sorted.
func (t Tracker) Tracked(sig string) []string {
	ids := make([]string, 0, len(t.entries[sig]))
	for id := range t.entries[sig] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t Tracker) Len() int { return len(t.entries) }

func (t *Tracker) Clear() {
	t.entries = make(map[string]map[string]struct{})
}
