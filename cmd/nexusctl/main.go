// Nexusctl is the command-line companion to the Nexus engine: it
// validates scene templates, previews the component trees they build,
// and runs scenes under the engine loop.
package main

import (
	"fmt"
	"os"

	"github.com/jddutz/nexus/cmd/nexusctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
