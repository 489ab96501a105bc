package scribe

import "fmt"

// Arg is a single argument of an ongoing instruction. It is either a
// literal value or a deferred computation whose value is not known until
// the Dockerfile is finalized.
type Arg struct {
	lit string
	fn  func() string
}

// Lit makes a literal argument from any value, using its default string
// form.
func Lit(v any) Arg {
	return Arg{lit: fmt.Sprint(v)}
}

// Deferred makes an argument that resolves by calling fn at finalize time.
func Deferred(fn func() string) Arg {
	return Arg{fn: fn}
}

func (a Arg) resolve() string {
	if a.fn != nil {
		return a.fn()
	}
	return a.lit
}

// toArg coerces a raw value into an Arg. An Arg passes through, a
// func() string becomes a deferred argument, and everything else is
// taken as a literal.
func toArg(v any) Arg {
	switch v := v.(type) {
	case Arg:
		return v
	case func() string:
		return Deferred(v)
	}
	return Lit(v)
}

func toArgs(vs []any) []Arg {
	args := make([]Arg, 0, len(vs))
	for _, v := range vs {
		args = append(args, toArg(v))
	}
	return args
}
