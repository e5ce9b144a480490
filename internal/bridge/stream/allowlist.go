package stream

import (
	"sort"
	"strings"
	"sync/atomic"
)

// AllowList is the set of alarm-type ids forwarded downstream. It can be
// replaced while listeners are reading it.
type AllowList struct {
	ids atomic.Pointer[map[string]struct{}]
}

// NewAllowList creates an allow-list holding ids.
func NewAllowList(ids []string) *AllowList {
	a := &AllowList{}
	a.Set(ids)
	return a
}

// Set replaces the whole list. Blank ids are ignored.
func (a *AllowList) Set(ids []string) {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			m[id] = struct{}{}
		}
	}
	a.ids.Store(&m)
}

// Allowed reports whether the trimmed id is on the list.
func (a *AllowList) Allowed(id string) bool {
	m := a.ids.Load()
	if m == nil {
		return false
	}
	_, ok := (*m)[strings.TrimSpace(id)]
	return ok
}

// IDs returns the list in sorted order.
func (a *AllowList) IDs() []string {
	m := a.ids.Load()
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(*m))
	for id := range *m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
