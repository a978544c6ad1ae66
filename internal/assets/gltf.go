// Package assets loads GLB/glTF files into scene templates.
package assets

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scene-physics/internal/scene"
)

// FromDocument converts every scene of doc into a template. Nodes referencing the same
// glTF mesh share one *scene.Mesh. Mesh extras are kept as their raw JSON text.
func FromDocument(doc *gltf.Document) ([]*scene.Template, error) {
	c := converter{doc: doc, meshes: make(map[int]*scene.Mesh), extras: make(map[int]string)}
	out := make([]*scene.Template, 0, len(doc.Scenes))
	for si, sc := range doc.Scenes {
		tmpl := &scene.Template{Name: sc.Name}
		if tmpl.Name == "" {
			tmpl.Name = fmt.Sprintf("Scene%d", si)
		}
		for _, ni := range sc.Nodes {
			tn, err := c.node(ni, 0)
			if err != nil {
				return nil, fmt.Errorf("scene %d: %w", si, err)
			}
			tmpl.Roots = append(tmpl.Roots, tn)
		}
		out = append(out, tmpl)
	}
	return out, nil
}

type converter struct {
	doc    *gltf.Document
	meshes map[int]*scene.Mesh
	extras map[int]string
}

func (c *converter) node(index, depth int) (*scene.TemplateNode, error) {
	if index < 0 || index >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", index)
	}
	if depth > len(c.doc.Nodes) {
		return nil, fmt.Errorf("node %d: cycle in hierarchy", index)
	}
	gn := c.doc.Nodes[index]
	tn := &scene.TemplateNode{Name: gn.Name, Transform: nodeTransform(gn)}
	if tn.Name == "" {
		tn.Name = fmt.Sprintf("Node%d", index)
	}
	if gn.Mesh != nil {
		mesh, err := c.mesh(*gn.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", tn.Name, err)
		}
		tn.Mesh = mesh
		tn.Extras = c.extras[*gn.Mesh]
	}
	for _, ci := range gn.Children {
		child, err := c.node(ci, depth+1)
		if err != nil {
			return nil, err
		}
		tn.Children = append(tn.Children, child)
	}
	return tn, nil
}

func (c *converter) mesh(index int) (*scene.Mesh, error) {
	if m, ok := c.meshes[index]; ok {
		return m, nil
	}
	if index < 0 || index >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", index)
	}
	gm := c.doc.Meshes[index]
	m := &scene.Mesh{Name: gm.Name}
	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if posIdx < 0 || posIdx >= len(c.doc.Accessors) {
			return nil, fmt.Errorf("mesh %q primitive %d: accessor %d out of range", gm.Name, pi, posIdx)
		}
		positions, err := modeler.ReadPosition(c.doc, c.doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: positions: %w", gm.Name, pi, err)
		}
		base := uint32(len(m.Positions))
		for _, p := range positions {
			m.Positions = append(m.Positions, mgl32.Vec3(p))
		}
		if prim.Indices == nil {
			for i := range positions {
				m.Indices = append(m.Indices, base+uint32(i))
			}
			continue
		}
		if *prim.Indices < 0 || *prim.Indices >= len(c.doc.Accessors) {
			return nil, fmt.Errorf("mesh %q primitive %d: accessor %d out of range", gm.Name, pi, *prim.Indices)
		}
		indices, err := modeler.ReadIndices(c.doc, c.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: indices: %w", gm.Name, pi, err)
		}
		for _, i := range indices {
			m.Indices = append(m.Indices, base+i)
		}
	}
	if gm.Extras != nil {
		raw, err := json.Marshal(gm.Extras)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: extras: %w", gm.Name, err)
		}
		c.extras[index] = string(raw)
	}
	c.meshes[index] = m
	return m, nil
}

// nodeTransform reads TRS, falling back to decomposing the matrix when one is authored.
// Zero-valued fields are treated as the glTF defaults.
func nodeTransform(n *gltf.Node) scene.Transform {
	if m := n.Matrix; m != gltf.DefaultMatrix && m != ([16]float64{}) {
		var mat mgl32.Mat4
		for i, v := range m {
			mat[i] = float32(v)
		}
		return scene.Decompose(mat)
	}
	out := scene.IdentityTransform()
	t, r, s := n.Translation, n.Rotation, n.Scale
	out.Translation = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	if r != ([4]float64{}) {
		out.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	}
	if s != ([3]float64{}) {
		out.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	}
	return out
}
