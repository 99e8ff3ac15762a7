// Command workflowcore validates Petri nets, projects them to DAGs, and
// runs DAGs through the execution engine.
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
