package store

// Entity is implemented by models.Problem, models.Solution and models.Comment.
type Entity interface {
	EntityID() string
	Owner() string
	// Scope is the parent id the entity is fetched under ("" for problems).
	Scope() string
}

// collection is an insertion-ordered cache partitioned by scope. It is not
// safe for concurrent use; Store guards it.
type collection[T Entity] struct {
	items   map[string]T
	scopeOf map[string]string
	order   map[string][]string
	// scopes in the order they were first populated
	scopes []string
}

func newCollection[T Entity]() *collection[T] {
	return &collection[T]{
		items:   make(map[string]T),
		scopeOf: make(map[string]string),
		order:   make(map[string][]string),
	}
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

// replaceScope drops everything cached under scope and stores items in the
// given order. Ids that were cached under another scope move here.
func (c *collection[T]) replaceScope(scope string, items []T) {
	for _, id := range c.order[scope] {
		delete(c.items, id)
		delete(c.scopeOf, id)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		id := it.EntityID()
		if prev, ok := c.scopeOf[id]; ok && prev != scope {
			c.detach(prev, id)
		}
		if _, dup := c.items[id]; !dup {
			ids = append(ids, id)
		}
		c.items[id] = it
		c.scopeOf[id] = scope
	}

	c.touchScope(scope)
	c.order[scope] = ids
}

// upsert replaces an entity in place, or appends it to the end of its scope.
func (c *collection[T]) upsert(it T) {
	id, scope := it.EntityID(), it.Scope()
	if prev, ok := c.scopeOf[id]; ok && prev != scope {
		c.detach(prev, id)
	}
	if _, ok := c.scopeOf[id]; !ok {
		c.touchScope(scope)
		c.order[scope] = append(c.order[scope], id)
	}
	c.items[id] = it
	c.scopeOf[id] = scope
}

func (c *collection[T]) remove(id string) bool {
	scope, ok := c.scopeOf[id]
	if !ok {
		return false
	}
	c.detach(scope, id)
	return true
}

// dropScope removes a scope and returns the ids it held.
func (c *collection[T]) dropScope(scope string) []string {
	ids := c.order[scope]
	for _, id := range ids {
		delete(c.items, id)
		delete(c.scopeOf, id)
	}
	delete(c.order, scope)
	for i, s := range c.scopes {
		if s == scope {
			c.scopes = append(c.scopes[:i], c.scopes[i+1:]...)
			break
		}
	}
	return ids
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.items))
	for _, scope := range c.scopes {
		out = append(out, c.listScope(scope)...)
	}
	return out
}

func (c *collection[T]) listScope(scope string) []T {
	ids := c.order[scope]
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection[T]) detach(scope, id string) {
	ids := c.order[scope]
	for i, v := range ids {
		if v == id {
			c.order[scope] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	delete(c.items, id)
	delete(c.scopeOf, id)
}

func (c *collection[T]) touchScope(scope string) {
	if _, ok := c.order[scope]; ok {
		return
	}
	c.scopes = append(c.scopes, scope)
	c.order[scope] = nil
}
