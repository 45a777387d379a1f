// Package main provides aguiwatch, a terminal watcher for AG-UI agent
// streams.
//
// It connects to an AG-UI endpoint, prints every event as it arrives,
// and can approve or reject pending tool calls interactively or
// automatically.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
