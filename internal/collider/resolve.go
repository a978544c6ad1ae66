// Package collider turns mesh extras on scene nodes into physics descriptors.
package collider

import (
	"errors"
	"fmt"

	"scene-physics/internal/extras"
	"scene-physics/internal/physics"
)

// ErrMissingDimension matches every MissingDimensionError.
var ErrMissingDimension = errors.New("collider: missing dimension")

// MissingDimensionError reports a shape whose required size was not authored.
// There is no sane default box, so the content is considered broken.
type MissingDimensionError struct {
	Kind  extras.ColliderKind
	Field string
}

func (e *MissingDimensionError) Error() string {
	return fmt.Sprintf("collider: %s collider must have %s", e.Kind, e.Field)
}

// Is lets errors.Is(err, ErrMissingDimension) match.
func (e *MissingDimensionError) Is(target error) bool {
	return target == ErrMissingDimension
}

// Resolve decodes raw mesh extras and maps them to a physics descriptor.
// Decode failures wrap extras.ErrDecode.
func Resolve(raw string) (physics.Descriptor, error) {
	data, err := extras.Decode(raw)
	if err != nil {
		return physics.Descriptor{}, err
	}
	return FromExtras(data)
}

// FromExtras maps already decoded extras to a physics descriptor.
func FromExtras(data extras.MeshPhysicsExtras) (physics.Descriptor, error) {
	mode, err := bodyMode(data.RigidBody)
	if err != nil {
		return physics.Descriptor{}, err
	}
	switch data.Collider {
	case extras.TrimeshFromMesh:
		return physics.Descriptor{Mode: mode, Shape: physics.TrimeshFromMesh{}}, nil
	case extras.Cuboid:
		if data.CubeSize == nil {
			return physics.Descriptor{}, &MissingDimensionError{Kind: data.Collider, Field: "cube_size"}
		}
		return physics.Descriptor{Mode: mode, Shape: physics.Cuboid{Size: data.CubeSize.Vec()}}, nil
	default:
		return physics.Descriptor{}, fmt.Errorf("collider: unhandled collider kind %v", data.Collider)
	}
}

func bodyMode(k extras.RigidBodyKind) (physics.BodyMode, error) {
	switch k {
	case extras.Static:
		return physics.Static, nil
	case extras.Dynamic:
		return physics.Dynamic, nil
	default:
		return 0, fmt.Errorf("collider: unhandled rigid body kind %v", k)
	}
}
