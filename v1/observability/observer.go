// Package observability defines the hook through which the packages of this module report the
// operations they perform, without coupling them to a metrics or tracing backend.
package observability

import "time"

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the package that performed the operation, e.g. "redis".
	Component string

	// Operation is the lower-case operation name, e.g. "get" or "batch_sync".
	Operation string

	// Resource is the primary target of the operation, usually the full key.
	Resource string

	// SubResource carries secondary context such as a node address.
	SubResource string

	// Duration is the wall time the operation took.
	Duration time.Duration

	// Error is the error returned to the caller, if any.
	Error error

	// Size is the number of bytes or items read or written.
	Size int64

	// Metadata holds operation-specific details.
	Metadata map[string]interface{}
}

// Observer receives operation events. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}

type multiObserver []Observer

func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}

// Multi returns an Observer that forwards every event to each non-nil observer
// in order. It returns nil when no observers are given.
func Multi(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
