package parser

import "github.com/spaghettifunk/physika/physics/scene"

// Capability tokens applied to scene nodes.
const (
	CapRigidBody        scene.Token = "PhysicsRigidBodyAPI"
	CapCollision        scene.Token = "PhysicsCollisionAPI"
	CapArticulationRoot scene.Token = "PhysicsArticulationRootAPI"
	CapMaterial         scene.Token = "PhysicsMaterialAPI"
	CapMeshCollision    scene.Token = "PhysicsMeshCollisionAPI"
)

// Node type tokens.
const (
	TypeScene          scene.Token = "PhysicsScene"
	TypeCollisionGroup scene.Token = "PhysicsCollisionGroup"
	TypePointInstancer scene.Token = "PointInstancer"

	TypeSphere          scene.Token = "Sphere"
	TypeCube            scene.Token = "Cube"
	TypeCapsule         scene.Token = "Capsule"
	TypeTaperedCapsule  scene.Token = "Capsule_1"
	TypeCylinder        scene.Token = "Cylinder"
	TypeTaperedCylinder scene.Token = "Cylinder_1"
	TypeCone            scene.Token = "Cone"
	TypeMesh            scene.Token = "Mesh"
	TypePlane           scene.Token = "Plane"
	TypePoints          scene.Token = "Points"

	TypeJoint          scene.Token = "PhysicsJoint"
	TypeFixedJoint     scene.Token = "PhysicsFixedJoint"
	TypeRevoluteJoint  scene.Token = "PhysicsRevoluteJoint"
	TypePrismaticJoint scene.Token = "PhysicsPrismaticJoint"
	TypeSphericalJoint scene.Token = "PhysicsSphericalJoint"
	TypeDistanceJoint  scene.Token = "PhysicsDistanceJoint"
)

// Attribute tokens.
const (
	PropGravityDirection scene.Token = "physics:gravityDirection"
	PropGravityMagnitude scene.Token = "physics:gravityMagnitude"

	PropInvertFilteredGroups scene.Token = "physics:invertFilteredGroups"
	PropMergeGroup           scene.Token = "physics:mergeGroup"

	PropStaticFriction  scene.Token = "physics:staticFriction"
	PropDynamicFriction scene.Token = "physics:dynamicFriction"
	PropRestitution     scene.Token = "physics:restitution"
	PropDensity         scene.Token = "physics:density"

	PropCollisionEnabled scene.Token = "physics:collisionEnabled"
	PropApproximation    scene.Token = "physics:approximation"

	PropRadius       scene.Token = "radius"
	PropRadiusTop    scene.Token = "radiusTop"
	PropRadiusBottom scene.Token = "radiusBottom"
	PropHeight       scene.Token = "height"
	PropSize         scene.Token = "size"
	PropAxis         scene.Token = "axis"
	PropPoints       scene.Token = "points"
	PropWidths       scene.Token = "widths"
	PropDoubleSided  scene.Token = "doubleSided"

	PropRigidBodyEnabled scene.Token = "physics:rigidBodyEnabled"
	PropKinematicEnabled scene.Token = "physics:kinematicEnabled"
	PropStartsAsleep     scene.Token = "physics:startsAsleep"
	PropVelocity         scene.Token = "physics:velocity"
	PropAngularVelocity  scene.Token = "physics:angularVelocity"

	PropJointEnabled            scene.Token = "physics:jointEnabled"
	PropBreakForce              scene.Token = "physics:breakForce"
	PropBreakTorque             scene.Token = "physics:breakTorque"
	PropExcludeFromArticulation scene.Token = "physics:excludeFromArticulation"
	PropJointAxis               scene.Token = "physics:axis"
	PropLocalPos0               scene.Token = "physics:localPos0"
	PropLocalRot0               scene.Token = "physics:localRot0"
	PropLocalPos1               scene.Token = "physics:localPos1"
	PropLocalRot1               scene.Token = "physics:localRot1"
	PropLowerLimit              scene.Token = "physics:lowerLimit"
	PropUpperLimit              scene.Token = "physics:upperLimit"
	PropConeAngle0Limit         scene.Token = "physics:coneAngle0Limit"
	PropConeAngle1Limit         scene.Token = "physics:coneAngle1Limit"
	PropMinDistance             scene.Token = "physics:minDistance"
	PropMaxDistance             scene.Token = "physics:maxDistance"
)

// Relationship tokens.
const (
	RelMaterialBinding scene.Token = "material:binding:physics"
	RelFilteredGroups  scene.Token = "physics:filteredGroups"
	RelFilteredPairs   scene.Token = "physics:filteredPairs"
	RelSimulationOwner scene.Token = "physics:simulationOwner"
	RelJointBody0      scene.Token = "physics:body0"
	RelJointBody1      scene.Token = "physics:body1"
)

// Collection names.
const (
	CollectionColliders scene.Token = "colliders"
)

// Degree-of-freedom instance names for multi-apply limits and drives.
const (
	DOFDistance scene.Token = "distance"
	DOFTransX   scene.Token = "transX"
	DOFTransY   scene.Token = "transY"
	DOFTransZ   scene.Token = "transZ"
	DOFRotX     scene.Token = "rotX"
	DOFRotY     scene.Token = "rotY"
	DOFRotZ     scene.Token = "rotZ"

	DriveLinear  scene.Token = "linear"
	DriveAngular scene.Token = "angular"
)

// Axis tokens.
const (
	AxisX scene.Token = "X"
	AxisY scene.Token = "Y"
	AxisZ scene.Token = "Z"
)

// limitCapability is the applied capability token of a per-DOF limit,
// e.g. "PhysicsLimitAPI:rotX".
func limitCapability(dof scene.Token) scene.Token {
	return scene.Token("PhysicsLimitAPI:" + string(dof))
}

// driveCapability is the applied capability token of a per-instance drive,
// e.g. "PhysicsDriveAPI:angular".
func driveCapability(instance scene.Token) scene.Token {
	return scene.Token("PhysicsDriveAPI:" + string(instance))
}

func limitProp(dof scene.Token, field string) scene.Token {
	return scene.Token("limit:" + string(dof) + ":physics:" + field)
}

func driveProp(instance scene.Token, field string) scene.Token {
	return scene.Token("drive:" + string(instance) + ":physics:" + field)
}
