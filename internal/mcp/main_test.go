package mcp

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in the mcp
// package. This catches sessions left open after in-memory transport
// tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
