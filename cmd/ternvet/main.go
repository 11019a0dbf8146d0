// Ternvet checks component functions for hook calling-rule violations.
//
// Usage:
//
//	ternvet ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/go-tern/tern/pkg/hookcheck"
)

func main() {
	singlechecker.Main(hookcheck.Analyzer)
}
