package main

import (
	"fmt"
	"os"
)

func main() {
	defer func() {
		os.Exit(3)
	}()

	if len(os.Args) > 1 {
		os.Exit(1) // want `do not call os\.Exit directly in main\.main`
	}

	fmt.Println("running")
	quit(0)
}

func quit(code int) {
	os.Exit(code)
}
