// Package mailgen generates throwaway email addresses.
// Addresses are display strings only; nothing is registered anywhere.
package mailgen

import (
	"math/rand/v2"
	"strings"
	"time"
)

const (
	// Alphabet is the set of characters a local part is drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// DefaultDomain is the suffix appended to every local part.
	DefaultDomain = "@cmail.asia"

	// DefaultLength is the number of characters in a local part.
	DefaultLength = 12
)

// Generator produces random addresses of a fixed shape.
type Generator struct {
	domain string
	length int
	rnd    *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces the random source. Tests use a seeded PCG.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		g.rnd = rand.New(src)
	}
}

// New creates a generator for the given domain and local part length.
// An empty domain falls back to DefaultDomain and a non-positive length
// to DefaultLength.
func New(domain string, length int, opts ...Option) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	g := &Generator{
		domain: normalizeDomain(domain),
		length: length,
		rnd:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a fresh address. Every call is an independent draw;
// collisions with earlier results are not checked.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(g.length + len(g.domain))
	for range g.length {
		b.WriteByte(Alphabet[g.rnd.IntN(len(Alphabet))])
	}
	b.WriteString(g.domain)
	return b.String()
}

// Domain returns the suffix, including the leading '@'.
func (g *Generator) Domain() string { return g.domain }

// Length returns the local part length.
func (g *Generator) Length() int { return g.length }

// Valid reports whether email has the shape this generator produces.
func (g *Generator) Valid(email string) bool {
	local, ok := strings.CutSuffix(email, g.domain)
	if !ok || len(local) != g.length {
		return false
	}
	for i := range len(local) {
		if strings.IndexByte(Alphabet, local[i]) < 0 {
			return false
		}
	}
	return true
}

// normalizeDomain makes sure the suffix starts with '@'.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return DefaultDomain
	}
	if !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}
	return domain
}
