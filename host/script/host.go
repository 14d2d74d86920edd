package script

import (
	"fmt"
	"sort"
	"sync"

	"github.com/achilleasa/polaris-link/host"
)

// entity satisfies host.Object and host.Material; narrowing is decided by
// its kind.
type entity struct {
	id     host.ObjectID
	name   string
	kind   host.Kind
	typ    host.ObjectType
	parent *entity
	root   bool
	fail   bool
}

func (e *entity) ID() host.ObjectID     { return e.id }
func (e *entity) Name() string          { return e.name }
func (e *entity) Kind() host.Kind       { return e.kind }
func (e *entity) Type() host.ObjectType { return e.typ }
func (e *entity) IsRoot() bool          { return e.root }

func (e *entity) Parent() host.Entity {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// Host is a host.Host backed by a script.
type Host struct {
	sync.Mutex

	byID    map[host.ObjectID]*entity
	ids     []host.ObjectID
	objects []host.Entity
	lights  []host.Entity

	// Ids acknowledged by MarkClean, in call order.
	cleaned [][]host.ObjectID
}

// NewHost builds the entity graph of a script.
func NewHost(defs []EntityDef) (*Host, error) {
	h := &Host{byID: make(map[host.ObjectID]*entity, len(defs))}

	for _, def := range defs {
		id := host.ObjectID(def.ID)
		if _, exists := h.byID[id]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateEntity, def.ID)
		}

		kind, err := host.ParseKind(def.Kind)
		if err != nil {
			return nil, fmt.Errorf("script: entity %d: %w", def.ID, err)
		}
		typ := host.TypeNone
		if def.Type != "" {
			if typ, err = host.ParseObjectType(def.Type); err != nil {
				return nil, fmt.Errorf("script: entity %d: %w", def.ID, err)
			}
		}

		name := def.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", kind, def.ID)
		}
		h.byID[id] = &entity{id: id, name: name, kind: kind, typ: typ, root: def.Root, fail: def.Fail}
	}

	// Link parents once all entities exist so definitions may appear in any order.
	for _, def := range defs {
		if def.Parent == 0 {
			continue
		}
		parent, ok := h.byID[host.ObjectID(def.Parent)]
		if !ok {
			return nil, fmt.Errorf("%w: %d (parent of %d)", ErrUnknownEntity, def.Parent, def.ID)
		}
		h.byID[host.ObjectID(def.ID)].parent = parent
	}

	ids := make([]host.ObjectID, 0, len(h.byID))
	for id := range h.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	h.ids = ids
	for _, id := range ids {
		e := h.byID[id]
		switch {
		case e.kind == host.KindLight || (e.kind == host.KindObject && e.typ == host.TypeLight):
			h.lights = append(h.lights, e)
		case e.kind == host.KindObject || e.kind == host.KindCamera:
			h.objects = append(h.objects, e)
		}
	}

	return h, nil
}

func (h *Host) Objects() []host.Entity { return h.objects }
func (h *Host) Lights() []host.Entity  { return h.lights }

func (h *Host) Lookup(id host.ObjectID) (host.Entity, bool) {
	e, ok := h.byID[id]
	if !ok {
		return nil, false
	}
	return e, true
}

func (h *Host) MarkClean(ids []host.ObjectID) {
	h.Lock()
	defer h.Unlock()
	h.cleaned = append(h.cleaned, append([]host.ObjectID(nil), ids...))
}

// Cleaned returns the ids acknowledged by each MarkClean call.
func (h *Host) Cleaned() [][]host.ObjectID {
	h.Lock()
	defer h.Unlock()
	return h.cleaned
}

// Returns true if updates targeting id should fail.
func (h *Host) failing(id host.ObjectID) bool {
	e, ok := h.byID[id]
	return ok && e.fail
}
