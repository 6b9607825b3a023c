package strategies

import (
	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/arthur-debert/rewind/pkg/registry"
	"github.com/arthur-debert/rewind/pkg/types"
)

// Registry maps each operation kind to its strategy. The kind set is
// closed and versioned: a kind without a registered strategy is a
// dispatch error, never a guess at a default.
type Registry struct {
	reg registry.Registry[Strategy]
}

// NewRegistry builds the dispatch table with one strategy per kind,
// all sharing the given filesystem for read-only preview inspection.
func NewRegistry(fs types.FS) *Registry {
	r := &Registry{reg: registry.New[Strategy]()}
	for _, kind := range types.Kinds() {
		// Registration of the full closed set cannot collide.
		if err := r.reg.Register(string(kind), forKind(kind, fs)); err != nil {
			panic(err)
		}
	}
	return r
}

// forKind is the exhaustive kind-to-strategy mapping. Adding a kind to
// types.Kinds without a case here panics at construction, which keeps
// the table honest at startup rather than at dispatch time.
func forKind(kind types.OperationKind, fs types.FS) Strategy {
	switch kind {
	case types.KindFileCreate:
		return newFileCreate(fs)
	case types.KindFileEdit:
		return newFileEdit(fs)
	case types.KindMultiEdit:
		return newMultiEdit(fs)
	case types.KindFileDelete:
		return newFileDelete(fs)
	case types.KindFileRename:
		return newFileRename(fs)
	case types.KindDirectoryCreate:
		return newDirectoryCreate(fs)
	case types.KindDirectoryDelete:
		return newDirectoryDelete(fs)
	case types.KindBashCommand:
		return newBashCommand(fs)
	default:
		panic("no strategy for operation kind: " + string(kind))
	}
}

// Get returns the strategy for kind, or an UNKNOWN_OPERATION_KIND
// error when the kind is not part of the closed set.
func (r *Registry) Get(kind types.OperationKind) (Strategy, error) {
	s, err := r.reg.Get(string(kind))
	if err != nil {
		return nil, errors.Newf(errors.ErrUnknownKind, "no strategy registered for operation kind %q", kind)
	}
	return s, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	return r.reg.List()
}
