// Package invalid carries doc comments that fail validation.
package invalid

// Sum adds numbers.
//
// args:
//	a (int): the first number.
//	c (int): not a parameter.
//
// Returns:
func Sum(a, b int) int {
	return a + b
}
