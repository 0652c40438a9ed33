package services

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ledgerdash/internal/dataprocessing"
	"ledgerdash/pkg/contracts/domain"
)

// entryKind separates uploaded ledgers from sales batches in the memo
type entryKind string

const (
	kindWorkbook entryKind = "workbook"
	kindSales    entryKind = "sales"
)

// memoEntry is one upload held in memory, keyed by its content hash
type memoEntry struct {
	id    string
	kind  entryKind
	names []string

	// ledger workbooks
	workbook *dataprocessing.Workbook
	sheets   []string

	mu      sync.Mutex
	closed  bool
	records map[string][]domain.Record

	// sales batches
	lines []domain.SaleLine
}

func (e *memoEntry) cachedRecords(sheet string) ([]domain.Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	recs, ok := e.records[sheet]
	return recs, ok
}

func (e *memoEntry) storeRecords(sheet string, recs []domain.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.records == nil {
		e.records = make(map[string][]domain.Record)
	}
	e.records[sheet] = recs
}

// withWorkbook runs fn on the open workbook. Calls are serialized and fail
// once the entry has been evicted.
func (e *memoEntry) withWorkbook(fn func(*dataprocessing.Workbook) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.workbook == nil {
		return errEvicted
	}
	return fn(e.workbook)
}

func (e *memoEntry) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.workbook != nil {
		_ = e.workbook.Close()
	}
}

// memo holds uploads in a go-cache store. Entries expire after ttl; when
// more than max are held the oldest is evicted. Every removal path closes
// the entry through the store's eviction callback.
type memo struct {
	mu    sync.Mutex
	store *cache.Cache
	order []string
	max   int
}

func newMemo(max int, ttl time.Duration) *memo {
	if max <= 0 {
		max = 1
	}
	expiration, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, ttl
	}

	store := cache.New(expiration, cleanup)
	store.OnEvicted(func(_ string, v interface{}) {
		if e, ok := v.(*memoEntry); ok {
			e.close()
		}
	})
	return &memo{store: store, max: max}
}

func (m *memo) get(id string) (*memoEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.store.Get(id)
	if !ok {
		m.dropLocked(id)
		return nil, false
	}
	return v.(*memoEntry), true
}

// put stores e and returns the entry now held under its id, which is the
// existing one if another caller stored it first
func (m *memo) put(e *memoEntry) (*memoEntry, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.store.Get(e.id); ok {
		return v.(*memoEntry), nil
	}
	m.pruneLocked()

	var evicted []string
	for len(m.order) >= m.max {
		oldest := m.order[0]
		m.dropLocked(oldest)
		evicted = append(evicted, oldest)
	}

	m.store.Set(e.id, e, cache.DefaultExpiration)
	m.order = append(m.order, e.id)
	return e, evicted
}

func (m *memo) remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store.Get(id)
	m.dropLocked(id)
	return ok
}

// dropLocked deletes id from the store, which closes the entry even when it
// has already expired, and from the eviction order
func (m *memo) dropLocked(id string) {
	m.store.Delete(id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// pruneLocked drops ids that expired or were cleaned up by the janitor
func (m *memo) pruneLocked() {
	for _, id := range append([]string(nil), m.order...) {
		if _, ok := m.store.Get(id); !ok {
			m.dropLocked(id)
		}
	}
}

func (m *memo) reset() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	n := len(m.order)
	for _, id := range append([]string(nil), m.order...) {
		m.dropLocked(id)
	}
	return n
}

func (m *memo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store.Items())
}
