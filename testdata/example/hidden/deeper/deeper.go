// Package deeper sits below an ignored package and is skipped with it.
package deeper

// Value is never documented.
const Value = 2
