package tools

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/ElManaa/MCPServer", "tools")

var (
	// ErrDuplicateName is returned when a tool name is already registered.
	// A name collision is a configuration defect: the caller must not
	// start serving with an inconsistent registry.
	ErrDuplicateName = errors.New("tool already registered")
	// ErrEmptyName is returned when a tool has no name.
	ErrEmptyName = errors.New("tool name must not be empty")
)

// Registry is the process-lifetime store of registered tools, keyed by
// unique name. It is populated during startup and read-mostly afterwards;
// concurrent lookups never block each other.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]ITool
	logger  *xlog.PackageLogger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]ITool),
		logger:  logger,
	}
}

// WithLogger overrides the event sink, mainly for tests.
func (r *Registry) WithLogger(l *xlog.PackageLogger) *Registry {
	r.logger = l
	return r
}

// Register inserts a tool under its name. It fails with ErrDuplicateName
// if the name is already taken (the registry is left unchanged), with
// ErrEmptyName for unnamed tools, and rejects tools whose schema breaks
// the required-subset-of-properties invariant.
func (r *Registry) Register(t ITool) error {
	name := t.Name()
	if name == "" {
		return ErrEmptyName
	}
	if err := t.Schema().Wellformed(); err != nil {
		return errors.WithMessagef(err, "tool %q has a malformed schema", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return errors.Wrapf(ErrDuplicateName, "tool %q", name)
	}
	r.entries[name] = t

	r.logger.KV(xlog.INFO, "event", "tool_registered", "tool", name)
	return nil
}

// Lookup resolves a tool by name. It does not fail; absence is reported
// through the boolean so the caller decides how to surface it.
func (r *Registry) Lookup(name string) (ITool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.entries[name]
	return t, ok
}

// Descriptors returns a snapshot of all registered tools' descriptors,
// sorted by name so discovery output is stable regardless of
// registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Descriptor, 0, len(r.entries))
	for _, t := range r.entries {
		list = append(list, Describe(t))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Names returns the sorted names of all registered tools, used for
// not-found diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
