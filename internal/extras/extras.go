package extras

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrDecode wraps every failure to turn a mesh extras blob into MeshPhysicsExtras.
// Callers treat it as recoverable: log it and skip the node.
var ErrDecode = errors.New("extras: decode")

// ColliderKind selects how a node's collision shape is built.
type ColliderKind int

const (
	colliderUnset ColliderKind = iota
	// TrimeshFromMesh asks the physics world to build a triangle mesh from the node's geometry.
	TrimeshFromMesh
	// Cuboid is a box whose side lengths come from MeshPhysicsExtras.CubeSize.
	Cuboid
)

// legacyCuboidTag is the misspelling shipped in early exported assets.
const legacyCuboidTag = "Cubiod"

func (k ColliderKind) String() string {
	switch k {
	case TrimeshFromMesh:
		return "TrimeshFromMesh"
	case Cuboid:
		return "Cuboid"
	default:
		return fmt.Sprintf("ColliderKind(%d)", int(k))
	}
}

// MarshalJSON writes the canonical tag.
func (k ColliderKind) MarshalJSON() ([]byte, error) {
	switch k {
	case TrimeshFromMesh, Cuboid:
		return json.Marshal(k.String())
	}
	return nil, fmt.Errorf("extras: invalid collider kind %d", int(k))
}

// UnmarshalJSON accepts "TrimeshFromMesh", "Cuboid" and the legacy "Cubiod".
func (k *ColliderKind) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("collider: %w", err)
	}
	switch tag {
	case "TrimeshFromMesh":
		*k = TrimeshFromMesh
	case "Cuboid", legacyCuboidTag:
		*k = Cuboid
	default:
		return fmt.Errorf("collider: unknown kind %q", tag)
	}
	return nil
}

// RigidBodyKind says whether the physics world may move the body.
type RigidBodyKind int

const (
	rigidBodyUnset RigidBodyKind = iota
	Static
	Dynamic
)

func (k RigidBodyKind) String() string {
	switch k {
	case Static:
		return "Static"
	case Dynamic:
		return "Dynamic"
	default:
		return fmt.Sprintf("RigidBodyKind(%d)", int(k))
	}
}

// MarshalJSON writes the canonical tag.
func (k RigidBodyKind) MarshalJSON() ([]byte, error) {
	switch k {
	case Static, Dynamic:
		return json.Marshal(k.String())
	}
	return nil, fmt.Errorf("extras: invalid rigid body kind %d", int(k))
}

// UnmarshalJSON accepts "Static" and "Dynamic".
func (k *RigidBodyKind) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("rigid_body: %w", err)
	}
	switch tag {
	case "Static":
		*k = Static
	case "Dynamic":
		*k = Dynamic
	default:
		return fmt.Errorf("rigid_body: unknown kind %q", tag)
	}
	return nil
}

// Vec3 is a size or position in extras. It is written as an {"x","y","z"} object;
// the [x, y, z] array form exported by some tools is read as well.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// UnmarshalJSON accepts {"x":1,"y":2,"z":3} and [1, 2, 3].
func (v *Vec3) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var xyz []float32
		if err := json.Unmarshal(trimmed, &xyz); err != nil {
			return fmt.Errorf("vec3: %w", err)
		}
		if len(xyz) != 3 {
			return fmt.Errorf("vec3: want 3 components, got %d", len(xyz))
		}
		*v = Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		return nil
	}
	type object Vec3
	var o object
	if err := json.Unmarshal(trimmed, &o); err != nil {
		return fmt.Errorf("vec3: %w", err)
	}
	*v = Vec3(o)
	return nil
}

// Vec converts to the math type used by the rest of the engine.
func (v Vec3) Vec() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// MeshPhysicsExtras is the physics metadata attached to a mesh in the scene asset.
// CubeSize is only meaningful when Collider is Cuboid.
type MeshPhysicsExtras struct {
	Collider  ColliderKind  `json:"collider"`
	RigidBody RigidBodyKind `json:"rigid_body"`
	CubeSize  *Vec3         `json:"cube_size,omitempty"`
}

// Decode parses one node's extras string. Unknown keys are ignored so authors can keep
// unrelated metadata next to the physics fields.
func Decode(raw string) (MeshPhysicsExtras, error) {
	var out MeshPhysicsExtras
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return MeshPhysicsExtras{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if out.Collider == colliderUnset {
		return MeshPhysicsExtras{}, fmt.Errorf("%w: missing collider", ErrDecode)
	}
	if out.RigidBody == rigidBodyUnset {
		return MeshPhysicsExtras{}, fmt.Errorf("%w: missing rigid_body", ErrDecode)
	}
	return out, nil
}
