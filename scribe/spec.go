package scribe

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Instruction is one entry of a build description's instruction list.
// Name is case-insensitive. Most instructions use Args; CMD and
// ENTRYPOINT use List for exec form; ADD and COPY use Src/Dest or
// FileSet.
type Instruction struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args,omitempty"`

	List []string `yaml:"list,omitempty"`

	Src     string   `yaml:"src,omitempty"`
	Dest    string   `yaml:"dest,omitempty"`
	FileSet *FileSet `yaml:"fileset,omitempty"`
}

// Spec is a declarative build description for one Dockerfile.
type Spec struct {
	Name string `yaml:"name,omitempty"`

	// From is the base image. BaseDockerfile imports an existing
	// Dockerfile as the base instead. Setting both is an error.
	From           string `yaml:"from,omitempty"`
	BaseDockerfile string `yaml:"base_dockerfile,omitempty"`

	// EnvFiles lists KEY=value files; each pair becomes one ENV
	// instruction, before the instruction list.
	EnvFiles []string `yaml:"env_files,omitempty"`

	Instructions []*Instruction `yaml:"instructions,omitempty"`
}

// ParseSpecFile reads a build description from a YAML file. Unknown
// fields are rejected.
func ParseSpecFile(f string) (*Spec, error) {
	bs, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	spec := new(Spec)
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true)
	if err := dec.Decode(spec); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}

	return spec, nil
}

func applyInstruction(d *Dockerfile, ins *Instruction) error {
	name := strings.ToLower(ins.Name)
	if name == "" {
		return fmt.Errorf("%w: instruction with empty name", ErrBadArguments)
	}

	switch name {
	case "add", "copy":
		if ins.FileSet != nil {
			return d.Call(name, ins.FileSet)
		}
		if ins.Src == "" || ins.Dest == "" {
			return fmt.Errorf(
				"%w: %s needs src and dest, or a fileset",
				ErrBadArguments, name,
			)
		}
		return d.Call(name, ins.Src, ins.Dest)
	case "cmd", "entrypoint":
		if len(ins.Args) > 0 {
			return fmt.Errorf(
				"%w: %s takes a list, not args", ErrBadArguments, name,
			)
		}
		if len(ins.List) == 0 {
			return fmt.Errorf(
				"%w: %s needs a non-empty list", ErrBadArguments, name,
			)
		}
		return d.Call(name, ins.List)
	}

	args := make([]any, 0, len(ins.Args))
	for _, a := range ins.Args {
		args = append(args, a)
	}
	return d.Call(name, args...)
}

// Apply declares every part of the spec on the Dockerfile: the base
// image or base Dockerfile, env file variables, then the instruction
// list in order. It does not drain the staging backlog.
func (s *Spec) Apply(d *Dockerfile, workDir string) error {
	if s.From != "" && s.BaseDockerfile != "" {
		return fmt.Errorf("spec sets both from and base_dockerfile")
	}

	if s.From != "" {
		if err := checkImageRef(s.From); err != nil {
			return fmt.Errorf("base image: %w", err)
		}
		d.From(s.From)
	}
	if s.BaseDockerfile != "" {
		p := filepath.Join(workDir, filepath.FromSlash(s.BaseDockerfile))
		if err := d.ExtendDockerfile(p); err != nil {
			return err
		}
	}

	for _, f := range s.EnvFiles {
		p := filepath.Join(workDir, filepath.FromSlash(f))
		vars, err := ParseEnvFile(p)
		if err != nil {
			return fmt.Errorf("env file %q: %w", f, err)
		}
		for _, v := range vars {
			if err := d.Call("env", v.Key+"="+v.Value); err != nil {
				return err
			}
		}
	}

	for i, ins := range s.Instructions {
		if err := applyInstruction(d, ins); err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i+1, ins.Name, err)
		}
	}
	return nil
}
