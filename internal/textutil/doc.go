// Package textutil turns titles and ids from media settings into names that
// are safe to use as file and directory names.
package textutil
