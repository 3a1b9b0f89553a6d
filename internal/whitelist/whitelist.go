package whitelist

import (
	"strings"

	"golang.org/x/net/idna"
)

// List is an ordered set of trusted domains. It is not safe for concurrent
// use; the owner serializes access.
type List struct {
	domains []string
}

// New creates a list from domains, normalizing and dropping duplicates
func New(domains []string) *List {
	l := &List{}
	for _, d := range domains {
		l.Add(d)
	}
	return l
}

// Normalize lower-cases a domain, strips surrounding space and a trailing
// dot, and converts internationalized names to their ASCII form
func Normalize(domain string) string {
	d := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if d == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(d); err == nil {
		return ascii
	}
	return d
}

// Add appends domain unless it is already present. It reports whether the
// list changed.
func (l *List) Add(domain string) bool {
	d := Normalize(domain)
	if d == "" || l.index(d) >= 0 {
		return false
	}
	l.domains = append(l.domains, d)
	return true
}

// Remove deletes domain. It reports whether the list changed.
func (l *List) Remove(domain string) bool {
	i := l.index(Normalize(domain))
	if i < 0 {
		return false
	}
	l.domains = append(l.domains[:i], l.domains[i+1:]...)
	return true
}

// Domains returns a copy of the entries in insertion order
func (l *List) Domains() []string {
	out := make([]string, len(l.domains))
	copy(out, l.domains)
	return out
}

// Len returns the number of entries
func (l *List) Len() int {
	return len(l.domains)
}

// Matches reports whether host equals an entry or is a strict subdomain of one
func (l *List) Matches(host string) bool {
	h := Normalize(host)
	if h == "" {
		return false
	}
	for _, d := range l.domains {
		if h == d || strings.HasSuffix(h, "."+d) {
			return true
		}
	}
	return false
}

func (l *List) index(domain string) int {
	for i, d := range l.domains {
		if d == domain {
			return i
		}
	}
	return -1
}
