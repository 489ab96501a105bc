package scribe

import (
	"errors"
	"reflect"
	"testing"
)

func TestCallCaseInsensitive(t *testing.T) {
	for _, name := range []string{"run", "RUN", "Run"} {
		d := New(nil)
		if err := d.Call(name, "echo hi"); err != nil {
			t.Fatalf("call %q: %v", name, err)
		}
		d.Finalize()

		got := d.Instructions()
		want := []string{"RUN echo hi"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("call %q: got %q, want %q", name, got, want)
		}
	}
}

func TestCallGenericDuplicates(t *testing.T) {
	d := New(nil)
	if err := d.Call("run", "echo one"); err != nil {
		t.Fatalf("call run: %v", err)
	}
	if err := d.Call("run", "echo two"); err != nil {
		t.Fatalf("call run: %v", err)
	}
	d.Finalize()

	got := d.Instructions()
	want := []string{"RUN echo one", "RUN echo two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCallCmdExecForm(t *testing.T) {
	d := New(nil)
	if err := d.Call("cmd", []string{"echo", "hi"}); err != nil {
		t.Fatalf("call cmd: %v", err)
	}
	if err := d.Call("entrypoint", "/bin/sh", "-c"); err != nil {
		t.Fatalf("call entrypoint: %v", err)
	}
	d.Finalize()

	got := d.Instructions()
	want := []string{
		`CMD ["echo", "hi"]`,
		`ENTRYPOINT ["/bin/sh", "-c"]`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCallFrom(t *testing.T) {
	d := New(nil)
	if err := d.Call("FROM", "alpine:3.18"); err != nil {
		t.Fatalf("call from: %v", err)
	}
	if !d.HasBase() {
		t.Errorf("no base after FROM")
	}

	got := d.Instructions()
	want := []string{"FROM alpine:3.18"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCallBadArguments(t *testing.T) {
	d := New(nil)

	for _, test := range []struct {
		name string
		args []any
	}{
		{"from", nil},
		{"from", []any{"a", "b"}},
		{"from", []any{42}},
		{"cmd", []any{7}},
		{"add", []any{"only-one"}},
		{"add", []any{"a", "b", "c"}},
		{"add", []any{1, "/dst"}},
		{"copy", []any{"src", 2}},
	} {
		err := d.Call(test.name, test.args...)
		if err == nil {
			t.Errorf("call %s with %v: no error", test.name, test.args)
			continue
		}
		if !errors.Is(err, ErrBadArguments) {
			t.Errorf("call %s with %v: got %v, want ErrBadArguments",
				test.name, test.args, err,
			)
		}
	}
}
