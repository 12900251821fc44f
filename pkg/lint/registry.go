package lint

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Registry holds all registered lint rules, addressable by ID, name or alias.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Rule
	byName  map[string]Rule
	aliases map[string]string // alias -> canonical ID
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Rule),
		byName:  make(map[string]Rule),
		aliases: make(map[string]string),
	}
}

// Register adds a rule to the registry, replacing any rule with the same ID.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byID[rule.ID()]; ok {
		delete(r.byName, old.Name())
	}
	r.byID[rule.ID()] = rule
	r.byName[rule.Name()] = rule
}

// MustRegister adds a rule and panics if its ID or name is already taken.
// Built-in rules use it from init so collisions fail loudly.
func (r *Registry) MustRegister(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rule.ID()]; ok {
		panic(fmt.Sprintf("lint: duplicate rule ID %q", rule.ID()))
	}
	if _, ok := r.byName[rule.Name()]; ok {
		panic(fmt.Sprintf("lint: duplicate rule name %q", rule.Name()))
	}
	r.byID[rule.ID()] = rule
	r.byName[rule.Name()] = rule
}

// RegisterAlias maps an alias to a canonical rule ID, e.g. the plugin-style
// name "hbs/check-hbs-template-literals" used by older configurations.
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = ruleID
}

// Get retrieves a rule by ID, name, or alias.
func (r *Registry) Get(key string) (Rule, bool) {
	_, rule, ok := r.Resolve(key)
	return rule, ok
}

// Resolve returns the canonical ID and rule for a key, which may be a rule
// ID, name, or alias.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[key]; ok {
		return rule.ID(), rule, true
	}
	if rule, ok := r.byName[key]; ok {
		return rule.ID(), rule, true
	}
	if targetID, ok := r.aliases[key]; ok {
		if rule, ok := r.byID[targetID]; ok {
			return rule.ID(), rule, true
		}
	}
	return "", nil, false
}

// Rules returns all registered rules sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}

	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.ID(), b.ID())
	})

	return result
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byID))
	for id := range r.byID {
		result = append(result, id)
	}

	slices.Sort(result)
	return result
}

// DefaultRegistry is the global registry for built-in rules.
// Rules register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()
