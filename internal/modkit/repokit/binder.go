package repokit

import (
	"fmt"
	"reflect"
)

// Binder builds a domain repo on top of a Queryer, either the pool or an open transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc turns a repo constructor into a Binder
type BindFunc[T any] func(Queryer) T

// Bind implements Binder
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds b to q. A nil q or b is a wiring bug and panics with the repo type
func MustBind[T any](b Binder[T], q Queryer) T {
	if b == nil || q == nil {
		panic(fmt.Sprintf("repokit: cannot bind %s without a binder and a queryer", reflect.TypeFor[T]()))
	}
	return b.Bind(q)
}
