// Package transaction lets application handlers demarcate a unit of work
// without knowing which store backs it.
package transaction

import "context"

// Scope runs fn as one atomic unit. fn's ctx carries the open transaction and
// repositories pick it up from there. A non-nil error from fn rolls back.
//
// Spanner scopes may call fn more than once when the commit is aborted, so fn
// must not have side effects outside the store.
type Scope interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// ExecuteWithResult is Execute for a fn that produces a value. The value is
// the one from the last attempt.
func ExecuteWithResult[T any](ctx context.Context, scope Scope, fn func(ctx context.Context) (T, error)) (T, error) {
	var (
		result T
		zero   T
	)
	err := scope.Execute(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}
