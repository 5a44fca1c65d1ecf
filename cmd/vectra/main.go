// Package main is the entry point for the vectra CLI tool.
package main

import (
	"github.com/vectra-ml/vectra/internal/cmd"
)

func main() {
	cmd.Execute()
}
