package cards

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mulligan-trainer/internal/scryfall"
)

// DefaultCacheTTL is how long resolved cards stay fresh in the cache.
const DefaultCacheTTL = 24 * time.Hour

// LookupClient is the card database collaborator the resolver depends on.
// *scryfall.Client satisfies it.
type LookupClient interface {
	Collection(ctx context.Context, names []string) ([]scryfall.Card, []string, error)
	Named(ctx context.Context, name string) (*scryfall.Card, error)
}

// LookupError wraps an upstream failure that aborted a Resolve call.
// No partial results are returned alongside it.
type LookupError struct {
	Err error
}

// Error implements the error interface for LookupError.
func (e *LookupError) Error() string {
	return fmt.Sprintf("card lookup failed: %v", e.Err)
}

// Unwrap returns the underlying upstream error.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one Resolve call.
type Result struct {
	// Resolved maps each input name to its card. Fuzzy-resolved entries
	// stay keyed by the name the caller supplied.
	Resolved map[string]ResolvedCard

	// NotFound lists input names that neither the batch lookup nor the
	// fuzzy fallback could match.
	NotFound []string

	// Aliases maps an input name to the canonical card name whenever the
	// two differ case-insensitively (e.g. a game-client name variant the
	// fuzzy lookup resolved to a different paper name).
	Aliases map[string]string
}

type cacheEntry struct {
	card      ResolvedCard
	expiresAt time.Time
}

// Resolver resolves card names against a lookup client, caching results
// in memory with a configurable TTL. Cache entries are evicted lazily:
// an expired entry is dropped when it is next looked up.
type Resolver struct {
	client LookupClient
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// TTL is how long cached cards stay fresh. Zero means entries are
	// stale on next access. Negative values fall back to DefaultCacheTTL.
	TTL time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewResolver creates a resolver backed by the given lookup client.
func NewResolver(client LookupClient, opts ResolverOptions) *Resolver {
	if opts.TTL < 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Resolver{
		client: client,
		ttl:    opts.TTL,
		now:    opts.Now,
		cache:  make(map[string]cacheEntry),
	}
}

// Resolve looks up the given card names and returns resolved cards, names
// that could not be found, and an alias map for fuzzy-matched variants.
// Input names are de-duplicated (exact match, first-seen order) before any
// lookup; cache hits never touch the network. Any upstream failure aborts
// the whole call with a *LookupError and no partial results.
//
// Cancelling ctx stops further batches; cards already fetched remain cached.
func (r *Resolver) Resolve(ctx context.Context, names []string) (*Result, error) {
	unique := dedupe(names)

	result := &Result{
		Resolved: make(map[string]ResolvedCard),
		NotFound: []string{},
		Aliases:  make(map[string]string),
	}

	// Satisfy what we can from cache, collecting the rest to fetch.
	var toFetch []string
	now := r.now()
	r.mu.Lock()
	for _, name := range unique {
		key := strings.ToLower(name)
		entry, ok := r.cache[key]
		switch {
		case ok && entry.expiresAt.After(now):
			result.Resolved[name] = entry.card
		case ok:
			delete(r.cache, key)
			toFetch = append(toFetch, name)
		default:
			toFetch = append(toFetch, name)
		}
	}
	r.mu.Unlock()

	if len(toFetch) == 0 {
		return result, nil
	}

	for start := 0; start < len(toFetch); start += scryfall.MaxBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, &LookupError{Err: err}
		}

		end := start + scryfall.MaxBatchSize
		if end > len(toFetch) {
			end = len(toFetch)
		}

		if err := r.resolveBatch(ctx, toFetch[start:end], result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// resolveBatch issues one collection request, caches and records the hits,
// and runs the fuzzy fallback for names the batch could not match.
func (r *Resolver) resolveBatch(ctx context.Context, batch []string, result *Result) error {
	fetched, _, err := r.client.Collection(ctx, batch)
	if err != nil {
		return &LookupError{Err: err}
	}

	// Index returned cards by lower-cased canonical name so each input
	// name in the batch can claim its match regardless of input casing.
	byName := make(map[string]ResolvedCard, len(fetched))
	for i := range fetched {
		card := FromScryfall(&fetched[i])
		byName[strings.ToLower(card.Name)] = card
		r.store(card)
	}

	for _, name := range batch {
		if card, ok := byName[strings.ToLower(name)]; ok {
			result.Resolved[name] = card
			continue
		}

		// Batch miss: one best-effort fuzzy lookup before giving up.
		card, err := r.fuzzyLookup(ctx, name)
		if err != nil {
			return err
		}
		if card == nil {
			result.NotFound = append(result.NotFound, name)
			continue
		}

		result.Resolved[name] = *card
		if !strings.EqualFold(name, card.Name) {
			result.Aliases[name] = card.Name
		}
	}

	return nil
}

// fuzzyLookup attempts a single best-effort lookup for a batch miss.
// A miss on the fuzzy endpoint returns (nil, nil); other errors abort.
func (r *Resolver) fuzzyLookup(ctx context.Context, name string) (*ResolvedCard, error) {
	raw, err := r.client.Named(ctx, name)
	if err != nil {
		if scryfall.IsNotFound(err) {
			return nil, nil
		}
		return nil, &LookupError{Err: err}
	}

	card := FromScryfall(raw)
	r.store(card)
	return &card, nil
}

// store caches a card under its lower-cased canonical name.
func (r *Resolver) store(card ResolvedCard) {
	r.mu.Lock()
	r.cache[strings.ToLower(card.Name)] = cacheEntry{
		card:      card,
		expiresAt: r.now().Add(r.ttl),
	}
	r.mu.Unlock()
}

// ClearCache drops all cached cards.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.mu.Unlock()
}

// dedupe removes exact duplicates preserving first-seen order.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	return unique
}
