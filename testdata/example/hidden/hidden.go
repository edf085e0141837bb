// Package hidden is left out of the generated docs.
//
// lazydocs: ignore
package hidden

// Value would be documented if the package were not ignored.
const Value = 1
