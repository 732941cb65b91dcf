package descriptor

import (
	"github.com/spaghettifunk/physika/physics/scene"
)

// ObjectType identifies the concrete kind of a parsed physics descriptor.
// The declaration order is also the order categories are reported in.
type ObjectType int

const (
	ObjectTypeUndefined ObjectType = iota
	ObjectTypeScene
	ObjectTypeCollisionGroup
	ObjectTypeRigidBodyMaterial
	ObjectTypeSphereShape
	ObjectTypeCubeShape
	ObjectTypeCapsuleShape
	ObjectTypeTaperedCapsuleShape
	ObjectTypeCylinderShape
	ObjectTypeTaperedCylinderShape
	ObjectTypeConeShape
	ObjectTypePlaneShape
	ObjectTypeMeshShape
	ObjectTypeSpherePointsShape
	ObjectTypeCustomShape
	ObjectTypeArticulation
	ObjectTypeRigidBody
	ObjectTypeFixedJoint
	ObjectTypeRevoluteJoint
	ObjectTypePrismaticJoint
	ObjectTypeSphericalJoint
	ObjectTypeDistanceJoint
	ObjectTypeD6Joint
	ObjectTypeCustomJoint

	objectTypeCount
)

var objectTypeNames = map[ObjectType]string{
	ObjectTypeUndefined:            "Undefined",
	ObjectTypeScene:                "Scene",
	ObjectTypeCollisionGroup:       "CollisionGroup",
	ObjectTypeRigidBodyMaterial:    "RigidBodyMaterial",
	ObjectTypeSphereShape:          "SphereShape",
	ObjectTypeCubeShape:            "CubeShape",
	ObjectTypeCapsuleShape:         "CapsuleShape",
	ObjectTypeTaperedCapsuleShape:  "TaperedCapsuleShape",
	ObjectTypeCylinderShape:        "CylinderShape",
	ObjectTypeTaperedCylinderShape: "TaperedCylinderShape",
	ObjectTypeConeShape:            "ConeShape",
	ObjectTypePlaneShape:           "PlaneShape",
	ObjectTypeMeshShape:            "MeshShape",
	ObjectTypeSpherePointsShape:    "SpherePointsShape",
	ObjectTypeCustomShape:          "CustomShape",
	ObjectTypeArticulation:         "Articulation",
	ObjectTypeRigidBody:            "RigidBody",
	ObjectTypeFixedJoint:           "FixedJoint",
	ObjectTypeRevoluteJoint:        "RevoluteJoint",
	ObjectTypePrismaticJoint:       "PrismaticJoint",
	ObjectTypeSphericalJoint:       "SphericalJoint",
	ObjectTypeDistanceJoint:        "DistanceJoint",
	ObjectTypeD6Joint:              "D6Joint",
	ObjectTypeCustomJoint:          "CustomJoint",
}

func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ReportOrder lists every reportable category in reporting order.
func ReportOrder() []ObjectType {
	out := make([]ObjectType, 0, int(objectTypeCount)-1)
	for t := ObjectTypeScene; t < objectTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// Object is a parsed physics descriptor of any concrete kind.
type Object interface {
	Desc() *Base
}

// Base carries the fields shared by every descriptor.
type Base struct {
	Type ObjectType
	// Path of the node the descriptor was parsed from.
	Path scene.Path
	// Valid is cleared when parsing or resolution failed for the node.
	// Invalid descriptors keep their slot so path and descriptor slices
	// stay index-aligned, but should not be consumed.
	Valid bool
}

func (b *Base) Desc() *Base { return b }

func NewBase(t ObjectType, path scene.Path) Base {
	return Base{Type: t, Path: path, Valid: true}
}
