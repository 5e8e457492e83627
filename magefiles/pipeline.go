//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Harvest downloads PDFs and source bundles for every known category.
func Harvest() error {
	mg.Deps(Build)
	return runBin("harvest")
}

// Extract unpacks downloaded source bundles into per-paper directories.
func Extract() error {
	mg.Deps(Build)
	return runBin("extract")
}

// Catalog scans extracted sources into the CSV report and database.
func Catalog() error {
	mg.Deps(Build)
	return runBin("catalog", "build")
}

// Pipeline runs harvest, extract, and catalog in order.
func Pipeline() {
	mg.SerialDeps(Harvest, Extract, Catalog)
}

func runBin(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
