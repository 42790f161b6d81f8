package codegen

import _ "embed"

// PreludeFile is the header name generated sources include.
const PreludeFile = "prelude.hpp"

//go:embed prelude.hpp
var prelude string

// Prelude returns the runtime header every generated translation unit needs.
func Prelude() string {
	return prelude
}
