package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type loadingSource struct {
	tmpl  *Template
	ready bool
	err   error
}

func (s *loadingSource) Template() (*Template, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return s.tmpl, s.ready, nil
}

func sampleTemplate() *Template {
	shared := &Mesh{Name: "cube", Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	return &Template{
		Name: "cubes",
		Roots: []*TemplateNode{
			{
				Name:      "parent",
				Transform: FromXYZ(1, 0, 0),
				Children: []*TemplateNode{
					{Name: "cube_a", Transform: FromXYZ(0, 2, 0), Mesh: shared, Extras: `{"collider":"TrimeshFromMesh","rigid_body":"Dynamic"}`},
					{Name: "cube_b", Mesh: shared},
				},
			},
			{Name: "lamp"},
		},
	}
}

func names(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestSpawnInstancesTemplateAndFiresOnce(t *testing.T) {
	w := NewWorld()
	calls := 0
	var got *Node
	w.Spawn(SpawnRequest{
		Source:    Ready(sampleTemplate()),
		Transform: FromXYZ(0, 10, 0),
		OnReady: func(root *Node) {
			calls++
			got = root
		},
	})
	if w.Len() != 0 {
		t.Fatalf("spawn must be deferred until Update")
	}

	if n := w.Update(); n != 1 {
		t.Fatalf("expected 1 instance, got %d", n)
	}
	w.Update()
	w.Update()
	if calls != 1 {
		t.Fatalf("OnReady should fire exactly once, fired %d", calls)
	}

	want := []string{"parent", "cube_a", "cube_b", "lamp"}
	gotNames := names(Descendants(got))
	if len(gotNames) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotNames)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotNames)
		}
	}
	if w.Len() != 5 {
		t.Fatalf("expected 5 live nodes, got %d", w.Len())
	}

	cubeA := Descendants(got)[1]
	if cubeA.Parent.Name != "parent" || cubeA.Path() != "cubes/parent/cube_a" {
		t.Fatalf("unexpected parent chain %q", cubeA.Path())
	}
	if !cubeA.HasExtras() {
		t.Fatalf("extras should be copied from the template")
	}
	pos := WorldPose(cubeA).Position
	if pos != (mgl32.Vec3{1, 12, 0}) {
		t.Fatalf("expected world position (1,12,0), got %v", pos)
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	w := NewWorld()
	tmpl := sampleTemplate()
	var roots []*Node
	for i := 0; i < 2; i++ {
		w.Spawn(SpawnRequest{Source: Ready(tmpl), OnReady: func(r *Node) { roots = append(roots, r) }})
	}
	w.Update()
	if len(roots) != 2 {
		t.Fatalf("expected two instances, got %d", len(roots))
	}
	a, b := Descendants(roots[0]), Descendants(roots[1])
	if a[1] == b[1] || a[1].ID == b[1].ID {
		t.Fatalf("instances must not share nodes")
	}
	if a[1].Mesh != b[1].Mesh {
		t.Fatalf("instances should share mesh data")
	}
	a[1].Transform.Translation = mgl32.Vec3{9, 9, 9}
	if tmpl.Roots[0].Children[0].Transform.Translation == (mgl32.Vec3{9, 9, 9}) {
		t.Fatalf("mutating an instance must not touch the template")
	}
}

func TestSpawnWaitsForLoadingSource(t *testing.T) {
	w := NewWorld()
	src := &loadingSource{tmpl: sampleTemplate()}
	fired := false
	w.Spawn(SpawnRequest{Source: src, OnReady: func(*Node) { fired = true }})

	if n := w.Update(); n != 0 || fired {
		t.Fatalf("nothing should spawn while loading")
	}
	if w.Pending() != 1 {
		t.Fatalf("request should stay queued, pending=%d", w.Pending())
	}
	src.ready = true
	if n := w.Update(); n != 1 || !fired {
		t.Fatalf("expected spawn after source became ready")
	}
	if w.Pending() != 0 {
		t.Fatalf("queue should be empty, pending=%d", w.Pending())
	}
}

func TestSpawnFailedSourceCallsOnError(t *testing.T) {
	w := NewWorld()
	loadErr := errors.New("broken asset")
	var gotErr error
	w.Spawn(SpawnRequest{
		Source:  &loadingSource{err: loadErr},
		OnReady: func(*Node) { t.Fatalf("OnReady must not run for failed source") },
		OnError: func(err error) { gotErr = err },
	})
	w.Update()
	if !errors.Is(gotErr, loadErr) {
		t.Fatalf("expected %v, got %v", loadErr, gotErr)
	}
	if w.Pending() != 0 {
		t.Fatalf("failed request must be dropped")
	}
}

func TestFailedInstanceLeavesNoNodes(t *testing.T) {
	w := NewWorld()
	tmpl := sampleTemplate()
	tmpl.Roots[0].Children = append(tmpl.Roots[0].Children, nil)
	var gotErr error
	w.Spawn(SpawnRequest{
		Source:  Ready(tmpl),
		OnReady: func(*Node) { t.Fatalf("OnReady must not run for a broken template") },
		OnError: func(err error) { gotErr = err },
	})
	if n := w.Update(); n != 0 {
		t.Fatalf("expected no instance, got %d", n)
	}
	if gotErr == nil {
		t.Fatalf("expected OnError for nil template node")
	}
	if w.Len() != 0 || len(w.Roots()) != 0 {
		t.Fatalf("partial instance leaked: nodes=%d roots=%d", w.Len(), len(w.Roots()))
	}

	w.Spawn(SpawnRequest{Source: Ready(sampleTemplate())})
	w.Update()
	if w.Len() != 5 {
		t.Fatalf("expected 5 live nodes after a good spawn, got %d", w.Len())
	}
}

func TestSpawnFromCallbackRunsNextUpdate(t *testing.T) {
	w := NewWorld()
	tmpl := sampleTemplate()
	second := false
	w.Spawn(SpawnRequest{Source: Ready(tmpl), OnReady: func(*Node) {
		w.Spawn(SpawnRequest{Source: Ready(tmpl), OnReady: func(*Node) { second = true }})
	}})
	w.Update()
	if second {
		t.Fatalf("nested spawn must wait for the next Update")
	}
	w.Update()
	if !second {
		t.Fatalf("nested spawn should run on the next Update")
	}
}

func TestDespawn(t *testing.T) {
	w := NewWorld()
	var root *Node
	w.Spawn(SpawnRequest{Source: Ready(sampleTemplate()), OnReady: func(r *Node) { root = r }})
	w.Update()

	parent := root.Children[0]
	cubeA := parent.Children[0]
	w.Despawn(cubeA)
	if _, ok := w.Node(cubeA.ID); ok {
		t.Fatalf("despawned node still indexed")
	}
	if len(parent.Children) != 1 || parent.Children[0].Name != "cube_b" {
		t.Fatalf("unexpected siblings %v", names(parent.Children))
	}

	w.Despawn(root)
	if len(w.Roots()) != 0 || w.Len() != 0 {
		t.Fatalf("expected empty world, roots=%d nodes=%d", len(w.Roots()), w.Len())
	}
}

func TestSetWorldPositionUnderRotatedParent(t *testing.T) {
	parent := &Node{Name: "p", Transform: FromXYZ(5, 0, 0)}
	parent.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	child := &Node{Name: "c", Transform: IdentityTransform(), Parent: parent}
	parent.Children = []*Node{child}

	target := mgl32.Vec3{1, 2, 3}
	SetWorldPosition(child, target)
	got := WorldPose(child).Position
	if !got.ApproxEqualThreshold(target, 1e-4) {
		t.Fatalf("expected %v, got %v", target, got)
	}
}

func TestMeshTriangles(t *testing.T) {
	quad := &Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3, 0, 1},
	}
	if got := len(quad.Triangles()); got != 2 {
		t.Fatalf("expected 2 triangles, got %d", got)
	}
	list := &Mesh{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {5, 5, 5}}}
	if got := len(list.Triangles()); got != 1 {
		t.Fatalf("expected 1 triangle, got %d", got)
	}
	var none *Mesh
	if none.Triangles() != nil || none.Geometry() != nil {
		t.Fatalf("nil mesh should produce nothing")
	}
}
