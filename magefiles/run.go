//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Prints the binding plan of the test shader against the test layout.
func (Run) Plan() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run bindplan...")
	_, err := executeCmd("bin/bindplan", withArgs(planArgs()...), withStream())
	return err
}

// Same as Plan but keeps watching the asset root for changes.
func (Run) Watch() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd("bin/bindplan", withArgs(append(planArgs(), "-watch")...), withStream())
	return err
}

// planArgs honours BINDPLAN_SHADER and BINDPLAN_LAYOUT, defaulting to the
// fixtures shipped with the asset tests.
func planArgs() []string {
	shader, layout := os.Getenv("BINDPLAN_SHADER"), os.Getenv("BINDPLAN_LAYOUT")
	if shader == "" {
		shader = "basic"
	}
	if layout == "" {
		layout = "mesh"
	}
	return []string{"-assets", "engine/assets/testdata", "-shader", shader, "-layout", layout}
}
