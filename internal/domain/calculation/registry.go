package calculation

import (
	"fmt"
	"sort"
)

// Registry maps kinds to models. It is built once at startup and only read
// afterwards, so it is safe for concurrent use.
type Registry struct {
	models map[Kind]Model
	order  []Kind
}

func NewRegistry(models ...Model) (*Registry, error) {
	r := &Registry{models: make(map[Kind]Model, len(models))}
	for _, m := range models {
		id := m.Describe().ID
		if _, exists := r.models[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, id)
		}
		r.models[id] = m
		r.order = append(r.order, id)
	}
	return r, nil
}

func (r *Registry) Lookup(kind Kind) (Model, error) {
	m, ok := r.models[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return m, nil
}

func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// Catalogue groups model descriptions by group name, keeping registration
// order inside each group.
func (r *Registry) Catalogue() map[string][]Description {
	out := make(map[string][]Description)
	for _, kind := range r.order {
		d := r.models[kind].Describe()
		out[d.Group] = append(out[d.Group], d)
	}
	return out
}

func (r *Registry) Groups() []string {
	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, kind := range r.order {
		g := r.models[kind].Describe().Group
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
