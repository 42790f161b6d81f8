package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Project is an invl.yaml or invl.toml project file.
//
//	compiler:
//	  command: clang++
//	  flags: [-std=c++20, -O2]
//	output:
//	  dir: build
//	  prelude: inline
type Project struct {
	Compiler CompilerConfig `yaml:"compiler" toml:"compiler"`
	Output   OutputConfig   `yaml:"output" toml:"output"`

	// Path is the file the project was loaded from, empty for defaults.
	Path string `yaml:"-" toml:"-"`
}

type CompilerConfig struct {
	// Command is the C++ compiler executable.
	Command string `yaml:"command,omitempty" toml:"command,omitempty"`
	// Flags are passed before the output and source arguments.
	Flags []string `yaml:"flags,omitempty" toml:"flags,omitempty"`
}

type OutputConfig struct {
	// Dir receives generated files, relative to the project file. Empty
	// means next to each source.
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	// Prelude is "include" or "inline".
	Prelude string `yaml:"prelude,omitempty" toml:"prelude,omitempty"`
}

// Default returns the configuration used when no project file exists.
func Default() *Project {
	p := &Project{}
	p.setDefaults()
	return p
}

// LoadProject reads and parses a project file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseProject(data, path)
}

// ParseProject parses project file content. The extension of path selects
// the format; unknown keys are errors in both.
func ParseProject(data []byte, path string) (*Project, error) {
	var p Project
	switch filepath.Ext(path) {
	case ".toml":
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// io.EOF means an empty document, which is valid.
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := p.validate(path); err != nil {
		return nil, err
	}
	p.setDefaults()
	p.Path = path
	return &p, nil
}

// FindProject searches for a project file starting from dir and walking up
// to parent directories. The search stops at a .git boundary. Returns ""
// and a nil error if nothing is found.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ProjectFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// Discover loads the project file governing dir, or the defaults.
func Discover(dir string) (*Project, error) {
	path, err := FindProject(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return LoadProject(path)
}

// validate checks the configuration for semantic errors.
func (p *Project) validate(path string) error {
	if p.Compiler.Command != "" && strings.TrimSpace(p.Compiler.Command) != p.Compiler.Command {
		return fmt.Errorf("%s: compiler.command %q has surrounding whitespace", path, p.Compiler.Command)
	}
	for i, f := range p.Compiler.Flags {
		if f == "" {
			return fmt.Errorf("%s: compiler.flags[%d] is empty", path, i)
		}
	}
	switch p.Output.Prelude {
	case "", PreludeInclude, PreludeInline:
	default:
		return fmt.Errorf("%s: output.prelude must be %q or %q, got %q", path, PreludeInclude, PreludeInline, p.Output.Prelude)
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (p *Project) setDefaults() {
	if p.Compiler.Command == "" {
		p.Compiler.Command = DefaultCompiler
	}
	if p.Compiler.Flags == nil {
		p.Compiler.Flags = DefaultCompilerFlags()
	}
	if p.Output.Prelude == "" {
		p.Output.Prelude = PreludeInclude
	}
}

// Dir is the directory relative paths resolve against.
func (p *Project) Dir() string {
	if p.Path == "" {
		return "."
	}
	return filepath.Dir(p.Path)
}

// OutputPath is where the C++ generated from source is written. An explicit
// override wins over output.dir.
func (p *Project) OutputPath(source, override string) string {
	switch {
	case override != "":
		return override
	case p.Output.Dir != "":
		dir := p.Output.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(p.Dir(), dir)
		}
		return filepath.Join(dir, OutputName(source))
	}
	return filepath.Join(filepath.Dir(source), OutputName(source))
}
