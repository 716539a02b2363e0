package room

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"sync"
)

// vocabulary is the fixed set of item identifiers a game can draw from.
// Clients render these; the server only ever deals in the identifiers.
var vocabulary = []string{
	"anchor", "apple", "balloon", "bell", "bicycle", "book",
	"bridge", "butterfly", "cactus", "camera", "candle", "castle",
	"cherry", "clock", "cloud", "compass", "crown", "diamond",
	"drum", "feather", "guitar", "hammer", "island", "kettle",
	"kite", "ladder", "lantern", "lighthouse", "magnet", "mirror",
	"mountain", "mushroom", "owl", "padlock", "parrot", "pencil",
	"pyramid", "rainbow", "rocket", "snowflake", "telescope", "umbrella",
	"violin", "whale", "windmill",
}

// Catalog picks random distinct items from the vocabulary. The generator is
// seeded from OS entropy so a participant cannot precompute the item set
// before the host triggers generation.
type Catalog struct {
	words []string
	index map[string]struct{}

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCatalog returns a catalog over the built-in vocabulary.
func NewCatalog() *Catalog {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(err)
	}
	return newCatalog(vocabulary, seed)
}

// NewCatalogWithSeed returns a catalog with a fixed seed, for reproducible
// item sets in tests.
func NewCatalogWithSeed(seed [32]byte) *Catalog {
	return newCatalog(vocabulary, seed)
}

func newCatalog(words []string, seed [32]byte) *Catalog {
	index := make(map[string]struct{}, len(words))
	for _, w := range words {
		index[w] = struct{}{}
	}
	return &Catalog{
		words: words,
		index: index,
		rng:   rand.New(rand.NewChaCha8(seed)),
	}
}

// Generate returns count distinct items drawn without replacement.
func (c *Catalog) Generate(count int) ([]string, error) {
	if count > len(c.words) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientVocabulary, count, len(c.words))
	}

	c.mu.Lock()
	perm := c.rng.Perm(len(c.words))
	c.mu.Unlock()

	items := make([]string, count)
	for i := range items {
		items[i] = c.words[perm[i]]
	}
	return items, nil
}

// Contains reports whether item is part of the vocabulary.
func (c *Catalog) Contains(item string) bool {
	_, ok := c.index[item]
	return ok
}

// Items returns a copy of the full vocabulary.
func (c *Catalog) Items() []string {
	return append([]string(nil), c.words...)
}
