package descriptor

import (
	vmath "github.com/spaghettifunk/physika/physics/math"
	"github.com/spaghettifunk/physika/physics/scene"
)

// SentinelLimit is the magnitude beyond which an authored limit value is
// treated as "not set".
const SentinelLimit float32 = 0.5e38

// Scene describes a simulation scene node.
type Scene struct {
	Base
	// GravityDirection is a unit vector. Defaults to the negated up axis.
	GravityDirection vmath.Vec3
	// GravityMagnitude defaults to earth gravity scaled by the scene units.
	GravityMagnitude float32
}

// CollisionGroup describes a collision group and its filtering.
type CollisionGroup struct {
	Base
	InvertFilteredGroups bool
	// MergeGroupName is non-empty when this group merges with every other
	// group authored with the same name.
	MergeGroupName string
	// MergedGroups lists the paths absorbed into this group, itself
	// included, when merging took place.
	MergedGroups   []scene.Path
	FilteredGroups []scene.Path
}

// RigidBodyMaterial describes a physics material.
type RigidBodyMaterial struct {
	Base
	StaticFriction  float32
	DynamicFriction float32
	Restitution     float32
	// Density is -1 when not authored.
	Density float32
}

// Shape carries the state shared by all collision shape descriptors.
type Shape struct {
	Base
	// RigidBody is the owning body path, empty for static world geometry.
	RigidBody scene.Path
	// Local pose of the shape relative to its body.
	LocalPosition vmath.Vec3
	LocalRotation vmath.Quaternion
	LocalScale    vmath.Vec3
	// Materials bound through the physics material binding.
	Materials          []scene.Path
	SimulationOwners   []scene.Path
	FilteredCollisions []scene.Path
	// CollisionGroups this shape belongs to, filled during group resolution.
	CollisionGroups  []scene.Path
	CollisionEnabled bool
}

func (s *Shape) ShapeDesc() *Shape { return s }

// ShapeObject is implemented by every concrete shape descriptor.
type ShapeObject interface {
	Object
	ShapeDesc() *Shape
}

type SphereShape struct {
	Shape
	Radius float32
}

type CubeShape struct {
	Shape
	HalfExtents vmath.Vec3
}

type CapsuleShape struct {
	Shape
	Radius     float32
	HalfHeight float32
	// Axis is the token of the local axis the capsule extends along.
	Axis scene.Token
}

type TaperedCapsuleShape struct {
	Shape
	TopRadius    float32
	BottomRadius float32
	HalfHeight   float32
	Axis         scene.Token
}

type CylinderShape struct {
	Shape
	Radius     float32
	HalfHeight float32
	Axis       scene.Token
}

type TaperedCylinderShape struct {
	Shape
	TopRadius    float32
	BottomRadius float32
	HalfHeight   float32
	Axis         scene.Token
}

type ConeShape struct {
	Shape
	Radius     float32
	HalfHeight float32
	Axis       scene.Token
}

type PlaneShape struct {
	Shape
	Axis scene.Token
}

type MeshShape struct {
	Shape
	// Approximation defaults to "none".
	Approximation scene.Token
	MeshScale     vmath.Vec3
	DoubleSided   bool
	// SubsetMaterials maps geometry subset paths to their bound material.
	SubsetMaterials map[scene.Path]scene.Path
}

type SpherePointsShape struct {
	Shape
	Centers []vmath.Vec3
	Radii   []float32
}

type CustomShape struct {
	Shape
	// CustomToken is the capability or type token that matched.
	CustomToken scene.Token
}

// RigidBody describes a dynamic, kinematic or static body.
type RigidBody struct {
	Base
	Position vmath.Vec3
	Rotation vmath.Quaternion
	Scale    vmath.Vec3
	// Collisions lists the shape paths owned by this body, filled during
	// body resolution.
	Collisions       []scene.Path
	Filtered         []scene.Path
	SimulationOwners []scene.Path

	RigidBodyEnabled bool
	Kinematic        bool
	StartsAsleep     bool

	LinearVelocity  vmath.Vec3
	AngularVelocity vmath.Vec3
}

// JointLimit is one limited degree of freedom.
type JointLimit struct {
	Enabled bool
	Lower   float32
	Upper   float32
}

// JointDrive actuates one degree of freedom.
type JointDrive struct {
	Enabled        bool
	TargetPosition float32
	TargetVelocity float32
	ForceLimit     float32
	Stiffness      float32
	Damping        float32
	// Acceleration selects acceleration drive over force drive.
	Acceleration bool
}

// Joint carries the state shared by all joint descriptors.
type Joint struct {
	Base
	// Rel0 and Rel1 are the raw relationship targets; Body0 and Body1 are
	// the owning body paths resolved from them, empty for the world.
	Rel0  scene.Path
	Rel1  scene.Path
	Body0 scene.Path
	Body1 scene.Path

	LocalPose0Position vmath.Vec3
	LocalPose0Rotation vmath.Quaternion
	LocalPose1Position vmath.Vec3
	LocalPose1Rotation vmath.Quaternion

	JointEnabled            bool
	BreakForce              float32
	BreakTorque             float32
	ExcludeFromArticulation bool
	CollisionEnabled        bool
}

func (j *Joint) JointDesc() *Joint { return j }

// JointObject is implemented by every concrete joint descriptor.
type JointObject interface {
	Object
	JointDesc() *Joint
}

type FixedJoint struct {
	Joint
}

type RevoluteJoint struct {
	Joint
	Axis  scene.Token
	Limit JointLimit
	Drive JointDrive
}

type PrismaticJoint struct {
	Joint
	Axis  scene.Token
	Limit JointLimit
	Drive JointDrive
}

type SphericalJoint struct {
	Joint
	Axis  scene.Token
	Limit JointLimit
}

type DistanceJoint struct {
	Joint
	MinEnabled bool
	Limit      JointLimit
	MaxEnabled bool
}

// D6DOF indexes the degrees of freedom of a D6 joint.
type D6DOF int

const (
	D6DOFDistance D6DOF = iota
	D6DOFTransX
	D6DOFTransY
	D6DOFTransZ
	D6DOFRotX
	D6DOFRotY
	D6DOFRotZ

	D6DOFCount
)

type D6Joint struct {
	Joint
	Limits map[D6DOF]JointLimit
	Drives map[D6DOF]JointDrive
}

type CustomJoint struct {
	Joint
	// CustomToken is the type token that matched.
	CustomToken scene.Token
}

// Articulation describes a reduced-coordinate articulation root.
type Articulation struct {
	Base
	// RootPaths holds the chosen root bodies or root joints.
	RootPaths          []scene.Path
	FilteredCollisions []scene.Path
	ArticulatedJoints  []scene.Path
	ArticulatedBodies  []scene.Path
}
