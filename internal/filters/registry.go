package filters

import (
	"fmt"
	"image"
	"sync"

	"filter-bench/internal/models"
)

const (
	MinStrength = -10000
	MaxStrength = 10000
)

// Operation is a single filter. Apply must not modify img and returns a new image.
type Operation interface {
	Kind() Kind
	Apply(img image.Image, strength int, params []any) (image.Image, error)
}

// OperationFunc adapts a plain function to an Operation.
type OperationFunc struct {
	K  Kind
	Fn func(img image.Image, strength int, params []any) (image.Image, error)
}

func (f OperationFunc) Kind() Kind { return f.K }

func (f OperationFunc) Apply(img image.Image, strength int, params []any) (image.Image, error) {
	return f.Fn(img, strength, params)
}

// Registry maps kinds to their operations.
type Registry struct {
	mu  sync.RWMutex
	ops map[Kind]Operation
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[Kind]Operation)}
}

// Register installs op under its kind, replacing any previous entry.
func (r *Registry) Register(op Operation) error {
	if op == nil {
		return fmt.Errorf("nil operation")
	}
	if !op.Kind().Valid() {
		return fmt.Errorf("cannot register operation for invalid kind %d", int(op.Kind()))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op.Kind()] = op
	return nil
}

// Resolve looks up the operation for a filter identifier.
func (r *Registry) Resolve(id string) (Operation, error) {
	kind, ok := ParseKind(id)
	if !ok {
		return nil, &models.UnknownFilterError{ID: id}
	}
	return r.Lookup(kind)
}

func (r *Registry) Lookup(kind Kind) (Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[kind]
	if !ok {
		return nil, &models.UnknownFilterError{ID: kind.String()}
	}
	return op, nil
}

// Available returns the registered kinds in declaration order.
func (r *Registry) Available() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.ops))
	for _, k := range Kinds() {
		if _, ok := r.ops[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
