package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"scene-physics/internal/commands"
	"scene-physics/internal/env"
)

func main() {
	if _, err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
	}

	reg := commands.NewRegistry()
	registerRun(reg)
	registerHeadless(reg)
	registerInspect(reg)
	registerInit(reg)

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"run"}
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		reg.Usage(os.Stdout)
		return
	}
	if err := reg.Execute(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
			reg.Usage(os.Stderr)
		}
		os.Exit(1)
	}
}
