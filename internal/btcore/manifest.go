package btcore

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// ErrDuplicateManifest is returned when a registration ID is already taken.
var ErrDuplicateManifest = errors.New("btcore: duplicate registration ID")

// TreeNodeManifest is what a tree loader needs to know about a node type.
type TreeNodeManifest struct {
	Type           NodeType
	RegistrationID string
	Ports          PortsList
	Description    string
}

// ManifestOf assembles the manifest of node type T through capability
// discovery.
func ManifestOf[T any](kind NodeType, id string) TreeNodeManifest {
	description, _ := ProvidedDescription[T]()
	return TreeNodeManifest{
		Type:           kind,
		RegistrationID: id,
		Ports:          ProvidedPorts[T](),
		Description:    description,
	}
}

// ManifestRegistry holds the manifests of registered node types, keyed by
// registration ID.
type ManifestRegistry struct {
	mu         sync.RWMutex
	manifests  map[string]TreeNodeManifest
	converters *ConverterRegistry
	strict     bool
}

// ManifestOption configures a ManifestRegistry.
type ManifestOption func(*ManifestRegistry)

// WithConverters sets the registry ports are validated against. The default
// is DefaultConverters.
func WithConverters(r *ConverterRegistry) ManifestOption {
	return func(m *ManifestRegistry) { m.converters = r }
}

// WithStrict rejects manifests with strongly typed ports that have no
// converter, instead of only logging them.
func WithStrict(strict bool) ManifestOption {
	return func(m *ManifestRegistry) { m.strict = strict }
}

func NewManifestRegistry(opts ...ManifestOption) *ManifestRegistry {
	m := &ManifestRegistry{
		manifests:  make(map[string]TreeNodeManifest),
		converters: DefaultConverters(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a manifest. The ID must be unique and non-empty, and in
// strict mode every port must pass PortsList.Validate.
func (r *ManifestRegistry) Register(m TreeNodeManifest) error {
	if m.RegistrationID == "" {
		return errors.New("btcore: empty registration ID")
	}
	if m.Ports == nil {
		m.Ports = PortsList{}
	}
	if err := m.Ports.Validate(r.converters); err != nil {
		if r.strict {
			return fmt.Errorf("btcore: node %q: %w", m.RegistrationID, err)
		}
		slog.Warn("node declares ports without text support",
			slog.String("component", "btcore"),
			slog.String("id", m.RegistrationID),
			slog.Any("error", err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.manifests[m.RegistrationID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateManifest, m.RegistrationID)
	}
	r.manifests[m.RegistrationID] = m
	return nil
}

// MustRegister is like Register but panics with a *RuntimeError.
func (r *ManifestRegistry) MustRegister(m TreeNodeManifest) {
	if err := r.Register(m); err != nil {
		panic(&RuntimeError{Msg: err.Error()})
	}
}

// RegisterNodeType registers node type T under id, discovering its ports and
// description.
func RegisterNodeType[T any](r *ManifestRegistry, kind NodeType, id string) error {
	return r.Register(ManifestOf[T](kind, id))
}

func (r *ManifestRegistry) Get(id string) (TreeNodeManifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.manifests[id]
	return m, ok
}

// IDs returns the registration IDs, sorted.
func (r *ManifestRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.manifests))
}

// List returns the manifests ordered by registration ID.
func (r *ManifestRegistry) List() []TreeNodeManifest {
	ids := r.IDs()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TreeNodeManifest, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.manifests[id]; ok {
			out = append(out, m)
		}
	}
	return out
}
