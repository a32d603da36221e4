// Package main provides the entry point for the household-split CLI application.
package main

import (
	"fmt"
	"os"

	"fjacquet/household-split/cmd/batch"
	"fjacquet/household-split/cmd/calculate"
	"fjacquet/household-split/cmd/classify"
	"fjacquet/household-split/cmd/root"
	"fjacquet/household-split/cmd/validate"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(calculate.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
