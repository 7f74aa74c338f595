package cmd

import (
	"fmt"
	"reflect"

	"github.com/jddutz/nexus/cmd/nexusctl/internal/project"
	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/config"
	"github.com/jddutz/nexus/pkg/template"
)

func init() {
	RegisterCommand(&Command{
		Name:  "tree",
		Short: "Print the component tree a template builds",
		Long: `Instantiate a scene template and print the resulting component
tree: names, types, and per-component binding counts. Nothing is
activated, so bindings are shown as declared, not resolved.`,
		Usage: "nexusctl tree <template.yaml>",
		Run:   runTree,
	})
}

func runTree(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("template file is required\n\nUsage: nexusctl tree <template.yaml>")
	}

	path, err := project.ResolveTemplate(args[0], config.Default().Templates.Dir)
	if err != nil {
		return err
	}

	tpl, err := template.Load(path)
	if err != nil {
		return err
	}
	root, err := template.Instantiate(tpl, stockRegistry())
	if err != nil {
		return err
	}

	// Load without activating so OnLoad-declared bindings appear in
	// the counts without wiring any subscriptions.
	root.Load()

	printTree(root, "")
	components, bindings := treeStats(root)
	fmt.Printf("\n%d components, %d bindings\n", components, bindings)
	return nil
}

func printTree(c component.Component, indent string) {
	line := indent + branchStyle.Render("- ") + nameStyle.Render(c.Name()) +
		" " + typeStyle.Render(reflect.TypeOf(c).String())
	if n := countBindings(c); n > 0 {
		line += " " + bindingStyle.Render(fmt.Sprintf("[%d bindings]", n))
	}
	fmt.Println(line)
	for _, child := range c.Children() {
		printTree(child, indent+"  ")
	}
}

func countBindings(c component.Component) int {
	counter, ok := c.(interface{ BindingCount() int })
	if !ok {
		return 0
	}
	return counter.BindingCount()
}

func treeStats(root component.Component) (components, bindings int) {
	component.Walk(root, func(c component.Component) bool {
		components++
		bindings += countBindings(c)
		return true
	})
	return components, bindings
}
