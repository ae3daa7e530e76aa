// Package util holds small helpers shared by the command-line binaries.
package util

import (
	"fmt"
	"io"
)

// orNA substitutes "N/A" for empty build metadata.
func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// WriteBuildInfo prints the ldflags-injected build identification.
func WriteBuildInfo(w io.Writer, version, date, commit string) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(version))
	fmt.Fprintf(w, "Build date: %s\n", orNA(date))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(commit))
}
