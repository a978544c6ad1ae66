package collider

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"scene-physics/internal/extras"
	"scene-physics/internal/logger"
	"scene-physics/internal/physics"
	"scene-physics/internal/scene"
)

func TestResolveTrimeshKeepsBodyMode(t *testing.T) {
	cases := []struct {
		rigidBody string
		want      physics.BodyMode
	}{
		{"Static", physics.Static},
		{"Dynamic", physics.Dynamic},
	}
	for _, c := range cases {
		t.Run(c.rigidBody, func(t *testing.T) {
			raw := fmt.Sprintf(`{"collider":"TrimeshFromMesh","rigid_body":%q}`, c.rigidBody)
			got, err := Resolve(raw)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got.Mode != c.want {
				t.Fatalf("mode: expected %v, got %v", c.want, got.Mode)
			}
			if _, ok := got.Shape.(physics.TrimeshFromMesh); !ok {
				t.Fatalf("expected TrimeshFromMesh request, got %T", got.Shape)
			}
		})
	}
}

func TestResolveTrimeshIgnoresCubeSize(t *testing.T) {
	got, err := Resolve(`{"collider":"TrimeshFromMesh","rigid_body":"Static","cube_size":{"x":1,"y":1,"z":1}}`)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := got.Shape.(physics.TrimeshFromMesh); !ok {
		t.Fatalf("expected TrimeshFromMesh request, got %T", got.Shape)
	}
}

func TestResolveCuboidUsesExactExtents(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		mode physics.BodyMode
		size mgl32.Vec3
	}{
		{"static_2_1_2", `{"collider":"Cuboid","rigid_body":"Static","cube_size":{"x":2,"y":1,"z":2}}`, physics.Static, mgl32.Vec3{2, 1, 2}},
		{"dynamic_fractional", `{"collider":"Cuboid","rigid_body":"Dynamic","cube_size":{"x":0.25,"y":3.5,"z":1e-3}}`, physics.Dynamic, mgl32.Vec3{0.25, 3.5, 1e-3}},
		{"size_as_array", `{"collider":"Cuboid","rigid_body":"Static","cube_size":[2,1,2]}`, physics.Static, mgl32.Vec3{2, 1, 2}},
		{"legacy_tag", `{"collider":"Cubiod","rigid_body":"Dynamic","cube_size":{"x":1,"y":1,"z":1}}`, physics.Dynamic, mgl32.Vec3{1, 1, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Resolve(c.raw)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got.Mode != c.mode {
				t.Fatalf("mode: expected %v, got %v", c.mode, got.Mode)
			}
			box, ok := got.Shape.(physics.Cuboid)
			if !ok {
				t.Fatalf("expected Cuboid, got %T", got.Shape)
			}
			if box.Size != c.size {
				t.Fatalf("size: expected %v, got %v", c.size, box.Size)
			}
		})
	}
}

func TestResolveCuboidWithoutSizeFails(t *testing.T) {
	_, err := Resolve(`{"collider":"Cuboid","rigid_body":"Dynamic"}`)
	if !errors.Is(err, ErrMissingDimension) {
		t.Fatalf("expected ErrMissingDimension, got %v", err)
	}
	var dimErr *MissingDimensionError
	if !errors.As(err, &dimErr) || dimErr.Field != "cube_size" || dimErr.Kind != extras.Cuboid {
		t.Fatalf("unexpected error detail %#v", err)
	}
	if errors.Is(err, extras.ErrDecode) {
		t.Fatalf("missing dimension must not look like a decode error")
	}
}

func TestResolveMalformed(t *testing.T) {
	for _, raw := range []string{``, `{`, `{"collider":"Sphere","rigid_body":"Static"}`} {
		if _, err := Resolve(raw); !errors.Is(err, extras.ErrDecode) {
			t.Fatalf("Resolve(%q): expected ErrDecode, got %v", raw, err)
		}
	}
}

func TestFromExtrasRejectsUnsetKinds(t *testing.T) {
	if _, err := FromExtras(extras.MeshPhysicsExtras{RigidBody: extras.Static}); err == nil {
		t.Fatalf("expected error for unset collider kind")
	}
	if _, err := FromExtras(extras.MeshPhysicsExtras{Collider: extras.TrimeshFromMesh}); err == nil {
		t.Fatalf("expected error for unset rigid body kind")
	}
}

func spawnOne(t *testing.T, tmpl *scene.Template) *scene.Node {
	t.Helper()
	w := scene.NewWorld()
	var root *scene.Node
	w.Spawn(scene.SpawnRequest{Source: scene.Ready(tmpl), OnReady: func(r *scene.Node) { root = r }})
	w.Update()
	if root == nil {
		t.Fatalf("spawn did not complete")
	}
	return root
}

func findNode(root *scene.Node, name string) *scene.Node {
	for _, n := range scene.Descendants(root) {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func TestOnSceneReadySkipsMalformedSiblings(t *testing.T) {
	mesh := &scene.Mesh{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}}
	tmpl := &scene.Template{Name: "level", Roots: []*scene.TemplateNode{
		{Name: "ground", Mesh: mesh, Extras: `{"collider":"TrimeshFromMesh","rigid_body":"Static"}`},
		{Name: "broken", Mesh: mesh, Extras: `{"collider":`},
		{Name: "decor", Mesh: mesh},
		{Name: "group", Children: []*scene.TemplateNode{
			{Name: "crate", Mesh: mesh, Extras: `{"collider":"Cuboid","rigid_body":"Dynamic","cube_size":{"x":2,"y":1,"z":2}}`},
		}},
	}}
	root := spawnOne(t, tmpl)

	log := logger.New("")
	report := NewAttacher(log, true).OnSceneReady(root)
	if report.Attached != 2 || report.Failed != 1 || report.Skipped != 2 {
		t.Fatalf("unexpected report %+v", report)
	}

	if n := findNode(root, "broken"); n.Physics != nil {
		t.Fatalf("malformed node must not get physics")
	}
	if n := findNode(root, "decor"); n.Physics != nil {
		t.Fatalf("node without extras must not get physics")
	}
	ground := findNode(root, "ground").Physics
	if ground == nil || ground.Mode != physics.Static {
		t.Fatalf("ground: unexpected physics %v", ground)
	}
	crate := findNode(root, "crate").Physics
	if crate == nil || crate.Mode != physics.Dynamic || crate.Shape != (physics.Cuboid{Size: mgl32.Vec3{2, 1, 2}}) {
		t.Fatalf("crate: unexpected physics %v", crate)
	}

	logged := strings.Join(log.Lines(), "\n")
	if !strings.Contains(logged, "couldn't deserialize extras on level/broken") {
		t.Fatalf("expected decode failure to be logged, got:\n%s", logged)
	}
}

func TestOnSceneReadyMissingSize(t *testing.T) {
	tmpl := &scene.Template{Name: "bad", Roots: []*scene.TemplateNode{
		{Name: "box", Extras: `{"collider":"Cuboid","rigid_body":"Static"}`},
		{Name: "after", Extras: `{"collider":"Cuboid","rigid_body":"Static","cube_size":{"x":1,"y":1,"z":1}}`},
	}}

	t.Run("strict_panics", func(t *testing.T) {
		root := spawnOne(t, tmpl)
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("expected panic in strict mode")
			}
			if msg := fmt.Sprint(r); !strings.Contains(msg, "cube_size") {
				t.Fatalf("panic should name the missing field, got %q", msg)
			}
		}()
		NewAttacher(logger.New(""), true).OnSceneReady(root)
	})

	t.Run("lenient_aborts_node_only", func(t *testing.T) {
		root := spawnOne(t, tmpl)
		log := logger.New("")
		report := NewAttacher(log, false).OnSceneReady(root)
		if report.Failed != 1 || report.Attached != 1 {
			t.Fatalf("unexpected report %+v", report)
		}
		if findNode(root, "box").Physics != nil {
			t.Fatalf("box must not get a default shape")
		}
		if findNode(root, "after").Physics == nil {
			t.Fatalf("sibling after the broken node should still resolve")
		}
		if !strings.Contains(strings.Join(log.Lines(), "\n"), "ERROR broken content on bad/box") {
			t.Fatalf("missing dimension must be logged at error level")
		}
	})
}
