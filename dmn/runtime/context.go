// Package runtime holds the per-run execution state an
// dmn/orchestrate.Orchestrator evaluates a Definition against (spec §3):
// a variable store with input-parameter write protection, an AST cache
// keyed by scope, and a snapshot history. The snapshot list follows the
// append-only staged-then-committed log this module's teacher repo uses
// for editing history (undo/log.go): each decision's completion commits
// one more immutable entry, never rewriting or discarding an earlier
// one within a run.
package runtime

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmnrun/feelengine/dmn/model"
	"github.com/dmnrun/feelengine/dmn/trace"
	"github.com/dmnrun/feelengine/feel/ast"
	"github.com/dmnrun/feelengine/feel/scope"
	"github.com/dmnrun/feelengine/feel/value"
)

// ExecutionContext is one variable store bound to a Definition (spec
// §3): callers set input parameters, hand it to an
// dmn/orchestrate.Orchestrator's ExecuteDecision, then read the results
// back out of the store or the snapshot history.
type ExecutionContext struct {
	// ID identifies this context for the lifetime of the process; it is
	// the cache-key prefix for Context-scoped AST cache entries.
	ID         string
	Definition *model.Definition

	CacheScope       CacheScope
	AliasResolution  bool
	SnapshotsEnabled bool
	Logger           *log.Logger

	mu       sync.RWMutex
	vars     map[string]value.Value
	inputSet map[string]bool

	snapshots []trace.Snapshot

	contextCache  *astCache
	correlationID string
	noneCounter   uint64
}

// Option configures an ExecutionContext at construction.
type Option func(*ExecutionContext)

// WithCacheScope sets the AST cache scope (spec §4.9); the default is
// CacheContext.
func WithCacheScope(s CacheScope) Option {
	return func(ec *ExecutionContext) { ec.CacheScope = s }
}

// WithAliasResolution enables propagating an input-parameter write to
// the alias names the Definition recorded for it (spec §3); off by
// default.
func WithAliasResolution(enabled bool) Option {
	return func(ec *ExecutionContext) { ec.AliasResolution = enabled }
}

// WithSnapshots toggles snapshot capture (spec §3); on by default.
func WithSnapshots(enabled bool) Option {
	return func(ec *ExecutionContext) { ec.SnapshotsEnabled = enabled }
}

// WithLogger sets a diagnostic logger; nil discards output.
func WithLogger(l *log.Logger) Option {
	return func(ec *ExecutionContext) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		ec.Logger = l
	}
}

// NewExecutionContext builds a fresh variable store for def, with every
// input variable initialised to null.
func NewExecutionContext(def *model.Definition, opts ...Option) *ExecutionContext {
	ec := &ExecutionContext{
		ID:               uuid.NewString(),
		Definition:       def,
		CacheScope:       CacheContext,
		SnapshotsEnabled: true,
		Logger:           log.New(io.Discard, "", 0),
		vars:             make(map[string]value.Value),
		inputSet:         make(map[string]bool),
		contextCache:     newASTCache(),
	}
	for _, iv := range def.Inputs {
		ec.vars[model.NormalizeName(iv.Name)] = value.Nil
	}
	for _, opt := range opts {
		opt(ec)
	}
	return ec
}

// Set writes a non-input variable (a decision's output, or scratch
// state). It returns *InputProtectedError if name is bound to an
// input-parameter cell.
func (ec *ExecutionContext) Set(name string, v value.Value) error {
	norm := model.NormalizeName(name)
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if ec.inputSet[norm] {
		return &InputProtectedError{Name: name}
	}
	ec.vars[norm] = v
	return nil
}

// SetInputParameter writes one of the definition's declared input
// variables, marking it protected against Set, and — when
// AliasResolution is enabled — propagating the same value to every alias
// name the Definition recorded for it (spec §3).
func (ec *ExecutionContext) SetInputParameter(name string, v value.Value) error {
	iv, ok := ec.Definition.InputByName(name)
	if !ok {
		return &UnknownInputError{Name: name}
	}
	norm := model.NormalizeName(iv.Name)

	ec.mu.Lock()
	ec.vars[norm] = v
	ec.inputSet[norm] = true
	if ec.AliasResolution {
		for _, alias := range ec.Definition.Aliases()[norm] {
			ec.vars[alias] = v
		}
	}
	ec.mu.Unlock()
	return nil
}

// Get reads a variable by name, returning null if it was never set.
func (ec *ExecutionContext) Get(name string) value.Value {
	norm := model.NormalizeName(name)
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	if v, ok := ec.vars[norm]; ok {
		return v
	}
	return value.Nil
}

// Reset clears every non-input variable to null and clears the snapshot
// history (spec §3): a context can be re-run against the same input
// parameters, or given fresh ones via SetInputParameter, without
// rebuilding it.
func (ec *ExecutionContext) Reset() {
	ec.mu.Lock()
	for name := range ec.vars {
		if !ec.inputSet[name] {
			ec.vars[name] = value.Nil
		}
	}
	ec.mu.Unlock()
	ec.ResetSnapshots()
}

// ToScope copies the current variable store into a fresh feel/scope.Scope
// suitable for handing to the FEEL engine; the copy means later writes to
// ec are not visible through a scope already handed out.
func (ec *ExecutionContext) ToScope() *scope.Scope {
	s := scope.NewRoot()
	ec.mu.RLock()
	for k, v := range ec.vars {
		s.Set(k, v)
	}
	ec.mu.RUnlock()
	return s
}

// ResetSnapshots clears the snapshot history and, if snapshots are
// enabled, captures a fresh snapshot 0 of the current variable store
// (spec §3: "capture snapshot 0" at the start of a run).
func (ec *ExecutionContext) ResetSnapshots() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.snapshots = nil
	if ec.SnapshotsEnabled {
		ec.snapshots = append(ec.snapshots, trace.Snapshot{Index: 0, Variables: ec.snapshotVarsLocked()})
	}
}

// AppendSnapshot commits one more entry to the snapshot history once a
// decision's result has been written back to the store (spec §3): the
// append-only staged-then-committed shape this module's teacher carries
// in undo/log.go for editing history.
func (ec *ExecutionContext) AppendSnapshot(dec *model.Decision, result *trace.DecisionResult) {
	if !ec.SnapshotsEnabled {
		return
	}
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.snapshots = append(ec.snapshots, trace.Snapshot{
		Index:        len(ec.snapshots),
		DecisionName: dec.Name,
		DecisionID:   dec.ID,
		Variables:    ec.snapshotVarsLocked(),
		Result:       result,
	})
}

// Snapshots returns a copy of the snapshot history captured so far.
func (ec *ExecutionContext) Snapshots() []trace.Snapshot {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	out := make([]trace.Snapshot, len(ec.snapshots))
	copy(out, ec.snapshots)
	return out
}

func (ec *ExecutionContext) snapshotVarsLocked() map[string]value.Value {
	out := make(map[string]value.Value, len(ec.vars))
	for k, v := range ec.vars {
		out[k] = v
	}
	return out
}

// BeginRun mints the Execution-scope cache prefix for one
// Orchestrator.ExecuteDecision call; callers purge it via
// PurgeExecutionCache when the call returns.
func (ec *ExecutionContext) BeginRun(correlationID string) {
	ec.mu.Lock()
	ec.correlationID = correlationID
	ec.mu.Unlock()
}

// PurgeExecutionCache drops every Execution-scoped entry stored under
// correlationID (spec §4.9: "purged when the execute call returns").
func (ec *ExecutionContext) PurgeExecutionCache(correlationID string) {
	ec.contextCache.purgePrefix(correlationID)
}

// PurgeContextCache drops every Context-scoped entry owned by this
// ExecutionContext.
func (ec *ExecutionContext) PurgeContextCache() {
	ec.contextCache.purgePrefix(ec.ID)
}

// CachedParse looks up a previously parsed AST for (kind, text,
// outputType) under ec's configured CacheScope, calling parseFn and
// storing its result on a miss (spec §4.9). kind namespaces the cache
// key so the same text parsed as, say, both a unary-tests production and
// a full expression during the simple-unary-tests retry (spec §4.8)
// never collide.
func (ec *ExecutionContext) CachedParse(kind, text, outputType string, parseFn func() (ast.Node, error)) (ast.Node, error) {
	key := kind + "\x00" + text + "\x00" + outputType
	if node, ok := ec.lookupCache(key); ok {
		return node, nil
	}
	node, err := parseFn()
	if err != nil {
		return nil, err
	}
	ec.storeCache(key, node)
	return node, nil
}

func (ec *ExecutionContext) lookupCache(key string) (ast.Node, bool) {
	switch ec.CacheScope {
	case CacheNone:
		return nil, false
	case CacheExecution:
		ec.mu.RLock()
		prefix := ec.correlationID
		ec.mu.RUnlock()
		return ec.contextCache.get(prefix + "||" + key)
	case CacheContext:
		return ec.contextCache.get(ec.ID + "||" + key)
	case CacheDefinition:
		return definitionCacheFor(ec.Definition.ID).get("||" + key)
	case CacheGlobal:
		return globalCache.get("||" + key)
	default:
		return nil, false
	}
}

func (ec *ExecutionContext) storeCache(key string, node ast.Node) {
	switch ec.CacheScope {
	case CacheNone:
		// A fresh, never-reused prefix every store: the lookup above
		// always misses, but the cache still performs a real write
		// (spec §4.9: "store/fetch still occur but never collide").
		prefix := fmt.Sprintf("none-%d", atomic.AddUint64(&ec.noneCounter, 1))
		ec.contextCache.put(prefix+"||"+key, node)
	case CacheExecution:
		ec.mu.RLock()
		prefix := ec.correlationID
		ec.mu.RUnlock()
		ec.contextCache.put(prefix+"||"+key, node)
	case CacheContext:
		ec.contextCache.put(ec.ID+"||"+key, node)
	case CacheDefinition:
		definitionCacheFor(ec.Definition.ID).put("||"+key, node)
	case CacheGlobal:
		globalCache.put("||"+key, node)
	}
}
