package metta

import "github.com/hashicorp/go-hclog"

// newLogger returns the default logger used when a Space is constructed
// without an explicit one. Evaluation only logs at Debug for rule
// registration and budget exhaustion, never above that on the hot path.
func newLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "metta",
		Level: hclog.Warn,
	})
}
