package script

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the default number of compiled programs kept.
const DefaultCacheSize = 1000

// programs holds compiled programs keyed by source, so the same attribute
// text appearing on many nodes is compiled once.
var programs = newProgramCache(DefaultCacheSize)

// SetCacheSize bounds the number of cached programs. Sizes below one are
// raised to one.
func SetCacheSize(size int) { programs.resize(size) }

// CacheStats reports the number of cached programs and the hit/miss counts.
func CacheStats() (size int, hits, misses int64) { return programs.stats() }

type programCache struct {
	mu      sync.Mutex
	index   map[string]*list.Element
	lru     *list.List
	maxSize int
	hits    int64
	misses  int64
}

type cached struct {
	source  string
	program *vm.Program
}

func newProgramCache(maxSize int) *programCache {
	if maxSize < 1 {
		maxSize = DefaultCacheSize
	}
	return &programCache{
		index:   make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

func (c *programCache) get(source string) (*vm.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.index[source]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.lru.MoveToFront(elem)
	return elem.Value.(*cached).program, true
}

func (c *programCache) put(source string, program *vm.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.index[source]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cached).program = program
		return
	}
	c.index[source] = c.lru.PushFront(&cached{source: source, program: program})
	c.evict()
}

func (c *programCache) resize(maxSize int) {
	if maxSize < 1 {
		maxSize = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = maxSize
	c.evict()
}

func (c *programCache) evict() {
	for c.lru.Len() > c.maxSize {
		elem := c.lru.Back()
		delete(c.index, elem.Value.(*cached).source)
		c.lru.Remove(elem)
	}
}

func (c *programCache) stats() (int, int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len(), c.hits, c.misses
}

func (c *programCache) String() string {
	size, hits, misses := c.stats()
	return fmt.Sprintf("programCache{size=%d, hits=%d, misses=%d}", size, hits, misses)
}
