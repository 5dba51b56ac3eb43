package runtime

import (
	"strings"
	"sync"

	"github.com/dmnrun/feelengine/feel/ast"
)

// CacheScope selects where a parsed AST is stored (spec §4.9): None
// disables reuse, Execution/Context entries live in the owning
// ExecutionContext's own map, Definition/Global entries live in
// process-wide maps shared across every ExecutionContext built over the
// same Definition or over any Definition at all.
type CacheScope int

const (
	CacheNone CacheScope = iota
	CacheExecution
	CacheContext
	CacheDefinition
	CacheGlobal
)

// astCache is a concurrency-safe map from cache key to parsed AST. Every
// cache scope in the package is backed by one of these: a per-context
// instance for Execution/Context scope, and the two package-level
// instances below for Definition/Global scope.
type astCache struct {
	mu sync.RWMutex
	m  map[string]ast.Node
}

func newASTCache() *astCache {
	return &astCache{m: make(map[string]ast.Node)}
}

func (c *astCache) get(key string) (ast.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.m[key]
	return n, ok
}

func (c *astCache) put(key string, n ast.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = n
}

func (c *astCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]ast.Node)
}

func (c *astCache) purgePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	needle := prefix + "||"
	for k := range c.m {
		if strings.HasPrefix(k, needle) {
			delete(c.m, k)
		}
	}
}

var (
	globalCache      = newASTCache()
	definitionCaches sync.Map // definition id -> *astCache
)

func definitionCacheFor(definitionID string) *astCache {
	v, _ := definitionCaches.LoadOrStore(definitionID, newASTCache())
	return v.(*astCache)
}

// PurgeGlobalCache clears the process-wide global-scope AST cache (spec
// §4.9 typed purge operations).
func PurgeGlobalCache() {
	globalCache.purge()
}

// PurgeDefinitionCache clears the process-wide definition-scope AST
// cache for one definition id.
func PurgeDefinitionCache(definitionID string) {
	if v, ok := definitionCaches.Load(definitionID); ok {
		v.(*astCache).purge()
	}
}
