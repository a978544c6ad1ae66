package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"scene-physics/internal/collider"
	"scene-physics/internal/commands"
	"scene-physics/internal/scene"
)

func registerInspect(reg *commands.Registry) {
	fs, path := newFlagSet("inspect")
	asset := fs.String("asset", "", "asset to inspect (defaults to the configured one)")
	reg.Register("inspect", "print every node's resolved collider", fs, func() error {
		s, err := openSession(*path, false)
		if err != nil {
			return err
		}
		defer s.close()
		if *asset != "" {
			s.cfg.Asset = *asset
		}
		h := s.server.Load(s.cfg.Asset)
		if err := wait(h, 10*time.Second); err != nil {
			return err
		}
		for i, tmpl := range h.Templates() {
			fmt.Fprintf(os.Stdout, "scene %d %q\n", i, tmpl.Name)
			for _, n := range tmpl.Roots {
				printNode(os.Stdout, n, 1)
			}
		}
		return nil
	})
}

func printNode(w io.Writer, n *scene.TemplateNode, depth int) {
	fmt.Fprintf(w, "%*s%s", depth*2, "", n.Name)
	if n.Mesh != nil {
		fmt.Fprintf(w, " mesh=%q tris=%d", n.Mesh.Name, len(n.Mesh.Triangles()))
	}
	if n.Extras != "" {
		if desc, err := collider.Resolve(n.Extras); err != nil {
			fmt.Fprintf(w, " error: %v", err)
		} else {
			fmt.Fprintf(w, " -> %v", desc)
		}
	}
	fmt.Fprintln(w)
	for _, c := range n.Children {
		printNode(w, c, depth+1)
	}
}
