// Package fileutil holds small file helpers shared across packages.
package fileutil
