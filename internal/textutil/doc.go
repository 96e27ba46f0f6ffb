// Package textutil turns free-form names (backends, model identifiers) into
// tokens that are safe to use as file names.
package textutil
