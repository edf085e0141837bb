// Package example demonstrates documentation rendering for lazydocs tests.
//
// Features:
//   - **Alpha**: demonstrates bold formatting preservation.
//   - **Beta**: verifies list items stay intact.
package example

import (
	"errors"
	"strings"
)

const (
	// Answer documents an exported constant.
	Answer = 42

	// hidden constant is never documented.
	internalConstant = 0
)

// DefaultGreeter is used by Hello.
var DefaultGreeter = NewGreeter("world")

// Greeter produces greeting messages.
//
// Attributes:
//	Name (string): who is greeted.
type Greeter struct {
	// Name is included to verify field documentation.
	Name string

	prefix string
}

// NewGreeter constructs a Greeter.
//
// Args:
//	name (string): the person to greet.
//
// Returns:
//	*Greeter: a ready to use greeter.
func NewGreeter(name string) *Greeter {
	return &Greeter{Name: name, prefix: "hello"}
}

// Greet returns a friendly message.
//
// Args:
//	punctuation (string): appended to the greeting.
//	loud (bool): upper-cases the
//		whole message.
//
// Returns:
//	string: the greeting.
//
// Usage::
//
//	g.Greet("!", false)
func (g *Greeter) Greet(punctuation string, loud bool) string {
	msg := g.prefix + " " + g.Name + punctuation
	if loud {
		return strings.ToUpper(msg)
	}
	return msg
}

// Speaker is anything that can greet.
type Speaker interface {
	// Speak returns a greeting for name.
	Speak(name string) string
}

// Color is a palette entry.
type Color int

// Palette entries.
const (
	// Red is the first color.
	Red Color = iota
	Green
	Blue
)

// NotFoundError reports a missing greeting.
type NotFoundError struct {
	// Key is the missing name.
	Key string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Key
}

// Hello greets name with the default greeter.
//
// Args:
//	name (string): who to greet.
//
// Raises:
//	NotFoundError: when name is empty.
func Hello(name string) (string, error) {
	if name == "" {
		return "", &NotFoundError{Key: name}
	}
	return NewGreeter(name).Greet(".", false), nil
}

// Configure applies every option to the default greeter and reports
// whether anything changed.
func Configure(prefix string, suffix string, loud bool, repeat int, separator string) (bool, error) {
	if repeat < 0 {
		return false, errors.New("negative repeat")
	}
	DefaultGreeter.prefix = strings.Repeat(prefix+separator, repeat) + suffix
	return loud, nil
}

// Secret is internal plumbing.
//
// lazydocs: ignore
func Secret() {}
