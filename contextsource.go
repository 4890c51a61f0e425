package policyreg

import (
	"context"
	"fmt"
)

type contextIDKey struct{}

// WithContextID returns a context carrying the policy context identifier
// for the current call path. It is the context.Context rendering of the
// thread-scoped policy context an encompassing runtime installs before
// dispatching into application code.
func WithContextID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextIDKey{}, id)
}

// ContextID extracts the policy context identifier from ctx, if any.
func ContextID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(contextIDKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ValueSource is the default ContextSource. It reads the identifier
// installed by WithContextID; an empty or missing value means no identifier
// is set, while a value of an unexpected dynamic type is a source failure.
type ValueSource struct{}

// CurrentContextID implements ContextSource.
func (ValueSource) CurrentContextID(ctx context.Context) (string, bool, error) {
	if ctx == nil {
		return "", false, nil
	}
	value := ctx.Value(contextIDKey{})
	if value == nil {
		return "", false, nil
	}
	id, ok := value.(string)
	if !ok {
		return "", false, fmt.Errorf("context id has type %T, want string", value)
	}
	if id == "" {
		return "", false, nil
	}
	return id, true, nil
}
