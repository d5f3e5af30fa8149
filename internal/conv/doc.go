// Package conv provides safe integer conversions.
//
// Go silently truncates integer conversions. These helpers return an error
// instead, so offset arithmetic in the columnar layer never wraps around.
package conv
