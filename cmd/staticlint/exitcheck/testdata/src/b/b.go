// Package b has a function named main but is not a main package, so the
// analyzer leaves it alone.
package b

import "os"

func main() {
	os.Exit(1)
}
