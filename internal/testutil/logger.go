package testutil

import "log/slog"

// DiscardLogger returns a logger that drops everything. Fixtures wire it
// into components whose log output the test does not assert on; tests
// that do inspect output build their own logger over a bytes.Buffer with
// log.NewWithWriter instead.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
