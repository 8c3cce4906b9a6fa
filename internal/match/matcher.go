package match

import "strings"

// Candidate is one entry of a registry a free-text name is matched against
type Candidate struct {
	ID   string
	Name string
}

// Tier reports which strategy produced a match
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierSubstring
	TierTokens
)

// Matcher resolves free-text names against a candidate list using a
// three-tier strategy: exact match, substring match, then token overlap.
// Tiers are tried in order and the first candidate to satisfy a tier wins.
type Matcher struct {
	minTokenLen   int
	allowReversed bool
}

// NewPersonMatcher builds a matcher tuned for "first last" person names:
// reversed "last first" order is accepted at the substring tier and tokens
// longer than 2 characters count as significant.
func NewPersonMatcher() *Matcher {
	return &Matcher{minTokenLen: 2, allowReversed: true}
}

// NewUnitMatcher builds a matcher for organizational-unit labels: no
// reversed order, tokens must be longer than 3 characters.
func NewUnitMatcher() *Matcher {
	return &Matcher{minTokenLen: 3, allowReversed: false}
}

// Match resolves search against candidates. It returns nil and TierNone
// when no tier produces a match; an unmatched name is not an error.
func (m *Matcher) Match(search string, candidates []Candidate) (*Candidate, Tier) {
	needle := Normalize(search)
	if needle == "" {
		return nil, TierNone
	}

	for i := range candidates {
		if m.matchExact(needle, candidates[i].Name) {
			return &candidates[i], TierExact
		}
	}
	for i := range candidates {
		if m.matchSubstring(needle, candidates[i].Name) {
			return &candidates[i], TierSubstring
		}
	}
	for i := range candidates {
		if m.matchTokens(needle, candidates[i].Name) {
			return &candidates[i], TierTokens
		}
	}
	return nil, TierNone
}

// Matches reports whether a single label satisfies any tier for the search
// string. The aggregation path uses this to decide which stored survey
// labels belong to a target unit.
func (m *Matcher) Matches(search, label string) bool {
	_, tier := m.Match(search, []Candidate{{Name: label}})
	return tier != TierNone
}

func (m *Matcher) matchExact(needle, candidate string) bool {
	return needle == Normalize(candidate)
}

func (m *Matcher) matchSubstring(needle, candidate string) bool {
	cand := Normalize(candidate)
	if cand == "" {
		return false
	}
	if strings.Contains(cand, needle) || strings.Contains(needle, cand) {
		return true
	}
	if m.allowReversed {
		rev := ReverseTokens(needle)
		if strings.Contains(cand, rev) || strings.Contains(rev, cand) {
			return true
		}
	}
	return false
}

func (m *Matcher) matchTokens(needle, candidate string) bool {
	searchToks := Tokens(needle, m.minTokenLen)
	if len(searchToks) == 0 {
		return false
	}
	required := 2
	if len(searchToks) < required {
		required = len(searchToks)
	}

	candToks := make(map[string]bool)
	for _, tok := range Tokens(candidate, m.minTokenLen) {
		candToks[tok] = true
	}

	shared := 0
	for _, tok := range searchToks {
		if candToks[tok] {
			shared++
		}
	}
	return shared >= required
}
