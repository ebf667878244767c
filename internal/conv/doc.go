// Package conv provides bounds-checked integer conversions for values read
// from file headers and for row ids stored in 32-bit bitmaps.
package conv
