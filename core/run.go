package core

import (
	"fmt"
	"os"
	"runtime/debug"
)

// HandleCrash is the unified panic handler for background goroutines.
// It prints the failure and stack trace to stderr before exiting.
func HandleCrash(r any) {
	if r == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "CRASH DETECTED: %v\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword for long-lived loops so a crash
// surfaces with a full stack trace instead of a silent goroutine death.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
