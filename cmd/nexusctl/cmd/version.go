package cmd

import (
	"fmt"
	"runtime"

	"github.com/jddutz/nexus/pkg/template"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long: `Show the nexusctl version, build time, and the newest scene
template format this build reads.`,
		Usage: "nexusctl version",
		Run:   runVersion,
	})
}

func runVersion(args []string) error {
	fmt.Printf("nexusctl version %s\n", Version)
	fmt.Printf("  built:           %s\n", BuildTime)
	fmt.Printf("  go:              %s\n", runtime.Version())
	fmt.Printf("  template format: %s\n", template.FormatVersion)
	return nil
}
