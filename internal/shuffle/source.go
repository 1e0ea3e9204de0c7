// Package shuffle randomly reorders the children of every node in a
// document tree through a single replace transaction.
package shuffle

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks github.com/dgallion1/docshuffle/internal/shuffle Source

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// NewSource returns a PCG source seeded with seed, or the unseeded global
// source when seed is 0.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return globalSource{}
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// Locked wraps src so it can be shared between goroutines.
func Locked(src Source) Source {
	if _, ok := src.(globalSource); ok {
		return src
	}
	return &lockedSource{src: src}
}

// Permutation returns [0, n) in an order chosen by a Fisher-Yates shuffle.
func Permutation(n int, src Source) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
