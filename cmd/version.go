package cmd

import "fmt"

// Version information (injected at build time via ldflags).
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// runVersion prints version and build metadata.
func runVersion() {
	fmt.Printf("Coda AI Assistant %s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
