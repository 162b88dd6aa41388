package module

import (
	"strings"
	"testing"

	kit "locsync/internal/platform/testkit"

	phttp "locsync/internal/platform/net/http"
)

type FooPort interface{ Foo() int }

type fooImpl struct{ v int }

func (f fooImpl) Foo() int { return f.v }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string             { return m.name }
func (m fakeModule) Ports() any               { return m.ports }
func (m fakeModule) MountRoutes(phttp.Router) {}

var _ Module = fakeModule{}

func TestPortsOf(t *testing.T) {
	t.Parallel()

	type bundle struct {
		Foo FooPort
		N   int
	}
	type hidden struct {
		foo FooPort
	}

	cases := []struct {
		name   string
		ports  any
		wantOK bool
		want   int
	}{
		{"nil ports", nil, false, 0},
		{"direct", FooPort(fooImpl{v: 42}), true, 42},
		{"exported field", bundle{Foo: fooImpl{v: 7}, N: 1}, true, 7},
		{"pointer to bundle", &bundle{Foo: fooImpl{v: 8}}, true, 8},
		{"nil field", bundle{N: 1}, false, 0},
		{"nil bundle pointer", (*bundle)(nil), false, 0},
		{"unexported field ignored", hidden{foo: fooImpl{v: 1}}, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[FooPort](fakeModule{name: tc.name, ports: tc.ports})
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got.Foo() != tc.want {
				t.Fatalf("Foo() = %d, want %d", got.Foo(), tc.want)
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "imports", ports: FooPort(fooImpl{v: 99})}
	if got := MustPortsOf[FooPort](m); got.Foo() != 99 {
		t.Fatalf("Foo() = %d", got.Foo())
	}

	defer func() {
		r := recover()
		msg, _ := r.(string)
		if !strings.Contains(msg, `"locations" does not expose module.FooPort`) {
			t.Fatalf("panic = %v", r)
		}
	}()
	_ = MustPortsOf[FooPort](fakeModule{name: "locations"})
}

func TestRegistry(t *testing.T) {
	kit.Serial(t)
	Reset()
	t.Cleanup(Reset)

	if got := Registered(); len(got) != 0 {
		t.Fatalf("Registered after Reset = %v", got)
	}

	Register("meta", nil)
	Register("imports", 1)
	Register("imports", 2)
	if got := Registered(); len(got) != 2 || got[0] != "imports" || got[1] != "meta" {
		t.Fatalf("Registered = %v, want [imports meta]", got)
	}
}
