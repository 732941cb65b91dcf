//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Extracts the built-in testbed scene.
func (Run) Testbed() error {
	fmt.Println("Run extractor on the testbed scene...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}

// Extracts a scene file and keeps watching it for changes.
func (Run) Watch(scenePath string) error {
	fmt.Println("Run extractor in watch mode...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "--watch", scenePath), withStream()); err != nil {
		return err
	}
	return nil
}
