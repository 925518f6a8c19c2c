// Package match classifies graph nodes against a search query.
package match

import (
	"slices"
	"strings"

	"github.com/matzehuels/jsonscope/pkg/graph"
)

// State is the highlight state of one node.
type State int

const (
	// StateNeutral means no search is active.
	StateNeutral State = iota
	// StateMatch marks a node that matches the active search.
	StateMatch
	// StateNonMatch marks a node that does not match and is dimmed.
	StateNonMatch
)

func (s State) String() string {
	switch s {
	case StateMatch:
		return "match"
	case StateNonMatch:
		return "dim"
	default:
		return "neutral"
	}
}

// Set holds the IDs of matching nodes.
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of matches.
func (s Set) Len() int { return len(s) }

// IDs returns the matching IDs in sorted order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Normalize trims and lower-cases a query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Active reports whether query filters anything. A blank query is inactive,
// which is not the same as a query that matches nothing.
func Active(query string) bool {
	return Normalize(query) != ""
}

// Match returns the nodes whose label or display value contains query,
// ignoring case. An inactive query returns an empty set.
func Match(nodes []graph.Node, query string) Set {
	q := Normalize(query)
	set := Set{}
	if q == "" {
		return set
	}
	for _, n := range nodes {
		if Node(n, q) {
			set[n.ID] = struct{}{}
		}
	}
	return set
}

// Node reports whether n matches an already normalized query.
func Node(n graph.Node, normalized string) bool {
	return strings.Contains(strings.ToLower(n.Label), normalized) ||
		strings.Contains(strings.ToLower(n.DisplayValue), normalized)
}

// Classify returns the state of the node id given the match set of a search.
func Classify(id string, set Set, active bool) State {
	switch {
	case !active:
		return StateNeutral
	case set.Has(id):
		return StateMatch
	default:
		return StateNonMatch
	}
}
