package cmd

import (
	"fmt"

	"github.com/jddutz/nexus/cmd/nexusctl/internal/project"
	"github.com/jddutz/nexus/pkg/config"
	"github.com/jddutz/nexus/pkg/template"
)

func init() {
	RegisterCommand(&Command{
		Name:  "validate",
		Short: "Check a scene template",
		Long: `Validate a scene template without running it.

The template is parsed, its format version checked, and the tree
instantiated against the built-in component set, which verifies
component types, property names, lookup modes, and converter specs.
Paths that do not exist directly are resolved against the templates
directory at the project root.`,
		Usage: "nexusctl validate <template.yaml>",
		Run:   runValidate,
	})
}

func runValidate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("template file is required\n\nUsage: nexusctl validate <template.yaml>")
	}

	path, err := project.ResolveTemplate(args[0], config.Default().Templates.Dir)
	if err != nil {
		return err
	}

	tpl, err := template.Load(path)
	if err != nil {
		fmt.Printf("%s %s\n", errStyle.Render("FAIL"), path)
		return err
	}
	root, err := template.Instantiate(tpl, stockRegistry())
	if err != nil {
		fmt.Printf("%s %s\n", errStyle.Render("FAIL"), path)
		return err
	}

	components, bindings := treeStats(root)
	fmt.Printf("%s %s (format %s, %d components, %d bindings)\n",
		okStyle.Render("OK"), path, tpl.Version, components, bindings)
	return nil
}
