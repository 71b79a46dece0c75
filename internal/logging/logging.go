// Package logging adapts logr to the HAL line logger.
package logging

import (
	"retrocalc/hal"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Verbosity levels passed to logr's V.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// New returns a logger that writes one line per entry to out.
// Entries above verbosity v are dropped.
func New(out hal.Logger, v int) logr.Logger {
	if out == nil {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			out.WriteLineString(prefix + ": " + args)
			return
		}
		out.WriteLineString(args)
	}, funcr.Options{Verbosity: v})
}
