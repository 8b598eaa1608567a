//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "photobooth"

var Default = Build

// Build compiles the photobooth binary
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/photobooth")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the tests with the race detector; the feed and thumbnail
// packages are the concurrent ones
func Race() error {
	return sh.RunV("go", "test", "-race", "./internal/feed/...", "./internal/gui/...", "./internal/unsplash/...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Build)
	return sh.RunV("go", "install", "./cmd/photobooth")
}

// Clean removes build output
func Clean() error {
	fmt.Println("Removing", binary)
	return os.RemoveAll(binary)
}
