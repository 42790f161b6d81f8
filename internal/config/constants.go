package config

import (
	"path/filepath"
	"strings"
)

const SourceFileExt = ".invl"

// OutputExt is the extension of generated C++ sources.
const OutputExt = ".cpp"

// ProjectFileNames are looked up in this order in every directory.
var ProjectFileNames = []string{"invl.yaml", "invl.yml", "invl.toml"}

// DefaultCompiler is the C++ compiler used when no project file names one.
const DefaultCompiler = "c++"

// DefaultCompilerFlags returns a fresh copy of the default flags.
func DefaultCompilerFlags() []string {
	return []string{"-std=c++20", "-O2"}
}

// Prelude modes accepted in output.prelude.
const (
	PreludeInclude = "include"
	PreludeInline  = "inline"
)

// IsSourceFile reports whether path has the source extension.
func IsSourceFile(path string) bool {
	return filepath.Ext(path) == SourceFileExt
}

// OutputName maps a source path to its generated C++ file name.
func OutputName(source string) string {
	return strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + OutputExt
}
