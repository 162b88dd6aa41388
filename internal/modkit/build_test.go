package modkit

import (
	"net/http"
	"reflect"
	"testing"
)

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	b := Build("imports", "/imports")
	if b.Name != "imports" || b.Prefix != "/imports" {
		t.Fatalf("defaults not applied: %+v", b)
	}
	if b.Ports != nil || len(b.Mw) != 0 {
		t.Fatalf("unexpected non-zero fields: %+v", b)
	}
}

func TestBuild_OptionsOverrideAndCopy(t *testing.T) {
	t.Parallel()

	fnPtr := func(f func(http.Handler) http.Handler) uintptr {
		return reflect.ValueOf(f).Pointer()
	}
	mwA := func(next http.Handler) http.Handler { return next }
	mwB := func(next http.Handler) http.Handler { return http.NotFoundHandler() }
	mid := []func(http.Handler) http.Handler{mwA, mwB}

	type ports struct{ X int }

	b := Build("imports", "/imports",
		WithName("uploads"),
		WithPrefix("/uploads"),
		WithMiddlewares(mid...),
		WithPorts(ports{X: 7}),
	)

	if b.Name != "uploads" || b.Prefix != "/uploads" {
		t.Fatalf("options not applied: %+v", b)
	}
	if got, ok := b.Ports.(ports); !ok || got.X != 7 {
		t.Fatalf("ports = %#v", b.Ports)
	}
	if len(b.Mw) != 2 || fnPtr(b.Mw[0]) != fnPtr(mwA) || fnPtr(b.Mw[1]) != fnPtr(mwB) {
		t.Fatalf("middleware order not preserved")
	}

	mid[0] = mwB
	if fnPtr(b.Mw[0]) != fnPtr(mwA) {
		t.Fatalf("Built.Mw aliases the caller slice")
	}
}
