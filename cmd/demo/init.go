package main

import (
	"fmt"
	"os"

	"scene-physics/internal/commands"
	"scene-physics/internal/config"
)

func registerInit(reg *commands.Registry) {
	fs, path := newFlagSet("init")
	force := fs.Bool("force", false, "overwrite an existing file")
	reg.Register("init", "write the default settings file", fs, func() error {
		if _, err := os.Stat(*path); err == nil && !*force {
			return fmt.Errorf("init: %s exists (use -force)", *path)
		}
		if err := config.Save(*path, config.Default()); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		fmt.Println("wrote", *path)
		return nil
	})
}
