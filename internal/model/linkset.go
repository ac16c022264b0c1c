package model

import (
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
)

// LinkSet is a set of absolute URLs keyed on their exact string form.
// No normalization (trailing slash, query order, case) is applied, so two
// strings that differ in any byte are two distinct links.
//
// The zero value is ready to use.
type LinkSet struct {
	m map[string]struct{}
}

// NewLinkSet returns a set containing the given links.
func NewLinkSet(links ...string) LinkSet {
	s := LinkSet{m: make(map[string]struct{}, len(links))}
	for _, l := range links {
		s.m[l] = struct{}{}
	}
	return s
}

// Add inserts link and reports whether it was not already present.
func (s *LinkSet) Add(link string) bool {
	if s.m == nil {
		s.m = make(map[string]struct{})
	}
	if _, ok := s.m[link]; ok {
		return false
	}
	s.m[link] = struct{}{}
	return true
}

// Merge adds every link of other to s and returns how many were new.
// The count is the growth of s observed across the call, so it is only
// meaningful when a single goroutine owns s.
func (s *LinkSet) Merge(other LinkSet) int {
	before := s.Len()
	for l := range other.m {
		s.Add(l)
	}
	return s.Len() - before
}

// Contains reports whether link is in the set.
func (s LinkSet) Contains(link string) bool {
	_, ok := s.m[link]
	return ok
}

// Len returns the number of links in the set.
func (s LinkSet) Len() int {
	return len(s.m)
}

// Sorted returns the links in lexicographic byte order.
func (s LinkSet) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for l := range s.m {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold exactly the same links.
func (s LinkSet) Equal(other LinkSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for l := range s.m {
		if !other.Contains(l) {
			return false
		}
	}
	return true
}

// Fingerprint returns a hex SHA3-256 digest of the sorted, newline-joined
// links. Two sets with the same members always share a fingerprint, which
// lets archived runs be compared without loading their link lists.
func (s LinkSet) Fingerprint() string {
	sum := sha3.Sum256([]byte(strings.Join(s.Sorted(), "\n")))
	return hex.EncodeToString(sum[:])
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s LinkSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of strings into the set.
func (s *LinkSet) UnmarshalJSON(data []byte) error {
	var links []string
	if err := json.Unmarshal(data, &links); err != nil {
		return err
	}
	*s = NewLinkSet(links...)
	return nil
}
