package ca

import (
	"container/list"
	"crypto/tls"
	"sync"
	"time"

	"github.com/apisec/sentinel/pkg/config"
)

// Manager mints the process-lifetime root certificate on construction and
// produces signed per-host leaves on demand, caching them for the process
// lifetime (or under an LRU bound, if configured).
//
// Concurrent first-seen requests for the same host produce at most one
// signing operation: GetServerConfig holds mu for the full duration of a
// lookup miss, mint, and insert, so a second goroutine racing on the same
// host blocks until the first finishes and then observes a cache hit.
type Manager struct {
	root *root

	mu       sync.Mutex
	entries  map[string]*list.Element // host -> lru element, nil list if unbounded
	order    *list.List               // most-recently-used at the front; nil if unbounded
	maxEntry int

	keySize      int
	leafValidity time.Duration
}

type cacheEntry struct {
	host   string
	config *tls.Config
}

// NewManager mints a new root certificate and returns a ready Manager.
func NewManager(cfg config.CAConfig) (*Manager, error) {
	r, err := generateRoot(cfg.CommonName, cfg.Organization, cfg.KeySize, cfg.RootValidity)
	if err != nil {
		return nil, &RootError{Cause: err}
	}

	m := &Manager{
		root:         r,
		entries:      make(map[string]*list.Element),
		maxEntry:     cfg.LeafCacheMaxEntries,
		keySize:      cfg.KeySize,
		leafValidity: cfg.LeafValidity,
	}
	if m.maxEntry > 0 {
		m.order = list.New()
	}
	return m, nil
}

// RootPEM returns the root certificate in PEM form for export to an
// operator's trust store.
func (m *Manager) RootPEM() []byte {
	return m.root.PEM()
}

// GetServerConfig returns the TLS server configuration for host, minting
// and signing a fresh leaf on first use.
func (m *Manager) GetServerConfig(host string) (*tls.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[host]; ok {
		entry := el.Value.(*cacheEntry)
		if m.order != nil {
			m.order.MoveToFront(el)
		}
		return entry.config, nil
	}

	leaf, err := mintLeaf(m.root, host, m.keySize, m.leafValidity)
	if err != nil {
		return nil, &LeafError{Host: host, Cause: err}
	}
	cfg := serverConfig(leaf)

	entry := &cacheEntry{host: host, config: cfg}
	if m.order != nil {
		el := m.order.PushFront(entry)
		m.entries[host] = el
		m.evictIfNeeded()
	} else {
		m.entries[host] = &list.Element{Value: entry}
	}

	return cfg, nil
}

// evictIfNeeded removes the least-recently-used entry once the cache
// exceeds its configured bound. Must be called with mu held.
func (m *Manager) evictIfNeeded() {
	if m.order == nil {
		return
	}
	for m.order.Len() > m.maxEntry {
		oldest := m.order.Back()
		if oldest == nil {
			return
		}
		entry := oldest.Value.(*cacheEntry)
		m.order.Remove(oldest)
		delete(m.entries, entry.host)
	}
}

// Size returns the number of cached leaf certificates.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
