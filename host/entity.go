// Package host models the scene graph of the content-creation host as seen
// by the synchronization controller.
package host

import (
	"errors"
	"fmt"
)

var (
	ErrWrongKind = errors.New("host: entity is not of the requested kind")
	ErrNilEntity = errors.New("host: nil entity")
)

// ObjectID uniquely identifies a host entity.
type ObjectID uint64

// Kind is the closed set of entity classes the host reports changes for.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindObject
	KindCamera
	KindLight
	KindKinematics
	KindPrimitive
	KindCluster
	KindClusterProperty
	KindProperty
	KindMaterial
	KindShader
	KindTexture
	KindVisibility
	KindPass
	KindPassProperty
	KindAmbience
	KindLightLinking

	numKinds
)

var kindNames = [numKinds]string{
	"unknown", "object", "camera", "light", "kinematics", "primitive",
	"cluster", "cluster-property", "property", "material", "shader",
	"texture", "visibility", "pass", "pass-property", "ambience",
	"light-linking",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind maps a kind name back to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, kname := range kindNames {
		if kname == name {
			return Kind(k), nil
		}
	}
	return KindUnknown, fmt.Errorf("host: unknown entity kind %q", name)
}

// ObjectType is the type tag of a scene object.
type ObjectType uint8

const (
	TypeNone ObjectType = iota
	TypeMesh
	TypeHair
	TypePointCloud
	TypeStrands
	TypeVolume
	TypeLight
	TypeCamera
	TypeNull
	TypeInstance

	numTypes
)

var typeNames = [numTypes]string{
	"none", "mesh", "hair", "pointcloud", "strands", "volume", "light",
	"camera", "null", "instance",
}

func (t ObjectType) String() string {
	if t < numTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", t)
}

// ParseObjectType maps a type name back to an ObjectType.
func ParseObjectType(name string) (ObjectType, error) {
	for t, tname := range typeNames {
		if tname == name {
			return ObjectType(t), nil
		}
	}
	return TypeNone, fmt.Errorf("host: unknown object type %q", name)
}

// Entity is an opaque reference to a host scene entity.
type Entity interface {
	ID() ObjectID
	Name() string
	Kind() Kind

	// The owning entity or nil for roots.
	Parent() Entity
}

// Object is an entity that lives in the scene hierarchy and carries a
// type tag.
type Object interface {
	Entity
	Type() ObjectType
}

// Material is an entity that owns a shading network.
type Material interface {
	Entity

	// True if this material is the root of its shading network rather
	// than a nested or library material.
	IsRoot() bool
}

// AsObject narrows an entity to an Object.
func AsObject(e Entity) (Object, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	switch e.Kind() {
	case KindObject, KindCamera, KindLight:
	default:
		return nil, fmt.Errorf("%w: %s %q is a %s", ErrWrongKind, "object", e.Name(), e.Kind())
	}
	obj, ok := e.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: %q does not expose an object type", ErrWrongKind, e.Name())
	}
	return obj, nil
}

// AsMaterial narrows an entity to a Material.
func AsMaterial(e Entity) (Material, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	if e.Kind() != KindMaterial {
		return nil, fmt.Errorf("%w: %s %q is a %s", ErrWrongKind, "material", e.Name(), e.Kind())
	}
	mat, ok := e.(Material)
	if !ok {
		return nil, fmt.Errorf("%w: %q does not expose a shading network", ErrWrongKind, e.Name())
	}
	return mat, nil
}

// OwningObject walks the parent chain of e (including e itself) and
// returns the first object.
func OwningObject(e Entity) (Object, error) {
	for cur := e; cur != nil; cur = cur.Parent() {
		if obj, err := AsObject(cur); err == nil {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("%w: no owning object", ErrWrongKind)
}

// OwningMaterial walks the parent chain of e (including e itself) and
// returns the first material.
func OwningMaterial(e Entity) (Material, error) {
	for cur := e; cur != nil; cur = cur.Parent() {
		if mat, err := AsMaterial(cur); err == nil {
			return mat, nil
		}
	}
	return nil, fmt.Errorf("%w: no owning material", ErrWrongKind)
}
