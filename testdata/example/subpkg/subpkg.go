// Package subpkg exists to test directory output.
package subpkg

// Message exposes a sample constant.
const Message = "hi"
