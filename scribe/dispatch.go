package scribe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadArguments is returned when an instruction is invoked with the
// wrong argument count or types.
var ErrBadArguments = errors.New("bad arguments")

func oneString(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf(
			"%w: %s takes 1 argument, got %d", ErrBadArguments, name, len(args),
		)
	}
	s, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf(
			"%w: %s takes a string, got %T", ErrBadArguments, name, args[0],
		)
	}
	return s, nil
}

// stringList accepts either a single []string argument or all-string
// variadic arguments.
func stringList(name string, args []any) ([]string, error) {
	if len(args) == 1 {
		if list, ok := args[0].([]string); ok {
			return list, nil
		}
	}
	list := make([]string, 0, len(args))
	for _, a := range args {
		s, ok := a.(string)
		if !ok {
			return nil, fmt.Errorf(
				"%w: %s takes strings, got %T", ErrBadArguments, name, a,
			)
		}
		list = append(list, s)
	}
	return list, nil
}

// callAddCopy accepts either (source string, dest string) or a single
// *FileSet.
func (d *Dockerfile) callAddCopy(name string, args []any) error {
	if len(args) == 1 {
		set, ok := args[0].(*FileSet)
		if !ok {
			return fmt.Errorf(
				"%w: %s takes a source and destination, or a file set; got %T",
				ErrBadArguments, name, args[0],
			)
		}
		if name == "add" {
			return d.AddFileSet(set)
		}
		return d.CopyFileSet(set)
	}

	if len(args) != 2 {
		return fmt.Errorf(
			"%w: %s takes 2 arguments, got %d", ErrBadArguments, name, len(args),
		)
	}
	src, ok := args[0].(string)
	if !ok {
		return fmt.Errorf(
			"%w: %s source must be a string, got %T", ErrBadArguments, name, args[0],
		)
	}
	dest, ok := args[1].(string)
	if !ok {
		return fmt.Errorf(
			"%w: %s destination must be a string, got %T",
			ErrBadArguments, name, args[1],
		)
	}
	if name == "add" {
		return d.Add(src, dest)
	}
	return d.Copy(src, dest)
}

// Call declares an instruction by name. Names are case-insensitive, so
// "RUN", "Run" and "run" all resolve to the same instruction. A small
// set of instructions has custom argument encoding (FROM, CMD,
// ENTRYPOINT, ADD, COPY); every other name is recorded generically as an
// ongoing instruction with its raw arguments.
func (d *Dockerfile) Call(name string, args ...any) error {
	switch strings.ToLower(name) {
	case "from":
		image, err := oneString("from", args)
		if err != nil {
			return err
		}
		d.From(image)
		return nil

	case "cmd":
		list, err := stringList("cmd", args)
		if err != nil {
			return err
		}
		d.Cmd(list...)
		return nil

	case "entrypoint":
		list, err := stringList("entrypoint", args)
		if err != nil {
			return err
		}
		d.Entrypoint(list...)
		return nil

	case "add":
		return d.callAddCopy("add", args)

	case "copy":
		return d.callAddCopy("copy", args)

	case "extenddockerfile":
		path, err := oneString("extendDockerfile", args)
		if err != nil {
			return err
		}
		return d.ExtendDockerfile(path)
	}

	d.ledger.AppendOngoing(strings.ToLower(name), args...)
	return nil
}
