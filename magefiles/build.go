//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Runs go vet over the whole module.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

// Builds the bindplan binary into bin/.
func (Build) Binary() error {
	mg.Deps(Build.Vet)
	_, err := executeCmd("go", withArgs("build", "-o", "bin/bindplan", "."), withStream())
	return err
}

type Test mg.Namespace

// Runs the unit tests.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./engine/..."), withStream())
	return err
}

// Runs the unit tests under the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./engine/..."), withStream())
	return err
}
