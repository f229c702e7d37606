package manifest

import "fmt"

type Registry struct {
	handlers map[Type]Handler
	order    []Type
}

func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[Type]Handler),
	}

	// Register default handlers; Detect tries them in this order
	r.Register(TypeExpo, NewExpoHandler())
	r.Register(TypeNode, NewNodeHandler())

	return r
}

func (r *Registry) Register(manifestType Type, handler Handler) {
	if _, ok := r.handlers[manifestType]; !ok {
		r.order = append(r.order, manifestType)
	}
	r.handlers[manifestType] = handler
}

func (r *Registry) Get(manifestType Type) (Handler, error) {
	handler, ok := r.handlers[manifestType]
	if !ok {
		return nil, fmt.Errorf("no handler for manifest type: %s", manifestType)
	}
	return handler, nil
}

// Types returns the registered manifest types in registration order.
func (r *Registry) Types() []Type {
	out := make([]Type, len(r.order))
	copy(out, r.order)
	return out
}

// Detect returns the first handler whose manifest exists under projectRoot.
func (r *Registry) Detect(projectRoot string) (Type, Handler, error) {
	for _, t := range r.order {
		h := r.handlers[t]
		if h.HasManifestFile(projectRoot) {
			return t, h, nil
		}
	}
	return "", nil, fmt.Errorf("%w in %s", ErrNoManifest, projectRoot)
}
