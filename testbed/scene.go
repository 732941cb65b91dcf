/*
Testbed builds a small in-memory scene exercising most of the extraction
pipeline: static ground, a dynamic stack, materials, collision groups and a
fixed-base pendulum articulation.
*/
package testbed

import (
	vmath "github.com/spaghettifunk/physika/physics/math"
	"github.com/spaghettifunk/physika/physics/parser"
	"github.com/spaghettifunk/physika/physics/scene"
)

func BuildWorld() *scene.World {
	w := scene.NewWorld("Z", 1.0)

	w.CreateNode("/physicsScene", parser.TypeScene)

	rubber := w.CreateNode("/looks/rubber", "Material")
	rubber.AddCapability(parser.CapMaterial)
	rubber.SetFloat(parser.PropStaticFriction, 0.8)
	rubber.SetFloat(parser.PropDynamicFriction, 0.6)
	rubber.SetFloat(parser.PropRestitution, 0.7)

	ground := w.CreateNode("/ground", parser.TypePlane)
	ground.AddCapability(parser.CapCollision)
	ground.SetToken(parser.PropAxis, parser.AxisZ)

	// a small stack of dynamic boxes
	for i, p := range []scene.Path{"/stack/box0", "/stack/box1", "/stack/box2"} {
		box := w.CreateNode(p, parser.TypeCube)
		box.AddCapability(parser.CapRigidBody)
		box.AddCapability(parser.CapCollision)
		box.SetFloat(parser.PropSize, 1.0)
		box.SetLocalTransform(
			vmath.NewVec3(0, 0, 0.5+float32(i)),
			vmath.NewQuatIdentity(),
			vmath.NewVec3One(),
		)
		box.SetRelationship(parser.RelMaterialBinding, "/looks/rubber")
	}

	ball := w.CreateNode("/ball", parser.TypeSphere)
	ball.AddCapability(parser.CapRigidBody)
	ball.AddCapability(parser.CapCollision)
	ball.SetFloat(parser.PropRadius, 0.25)
	ball.SetLocalTransform(vmath.NewVec3(2, 0, 4), vmath.NewQuatIdentity(), vmath.NewVec3One())
	ball.SetVec3(parser.PropVelocity, vmath.NewVec3(-1, 0, 0))

	// debris never collides with the stack
	debrisGroup := w.CreateNode("/groups/debris", parser.TypeCollisionGroup)
	debrisGroup.SetCollection(parser.CollectionColliders, "/ball")
	debrisGroup.SetRelationship(parser.RelFilteredGroups, "/groups/stack")
	stackGroup := w.CreateNode("/groups/stack", parser.TypeCollisionGroup)
	stackGroup.SetCollection(parser.CollectionColliders, "/stack")

	// fixed-base pendulum: anchor joint to the world, hinge to the bob
	pendulum := w.CreateNode("/pendulum", scene.TokenXform)
	pendulum.AddCapability(parser.CapArticulationRoot)

	arm := w.CreateNode("/pendulum/arm", parser.TypeCapsule)
	arm.AddCapability(parser.CapRigidBody)
	arm.AddCapability(parser.CapCollision)
	arm.SetFloat(parser.PropRadius, 0.05)
	arm.SetFloat(parser.PropHeight, 1.0)
	arm.SetLocalTransform(vmath.NewVec3(0, 2, 3), vmath.NewQuatIdentity(), vmath.NewVec3One())

	bob := w.CreateNode("/pendulum/bob", parser.TypeSphere)
	bob.AddCapability(parser.CapRigidBody)
	bob.AddCapability(parser.CapCollision)
	bob.SetFloat(parser.PropRadius, 0.2)
	bob.SetLocalTransform(vmath.NewVec3(0, 2, 2), vmath.NewQuatIdentity(), vmath.NewVec3One())

	anchor := w.CreateNode("/pendulum/anchor", parser.TypeFixedJoint)
	anchor.SetRelationship(parser.RelJointBody1, "/pendulum/arm")

	hinge := w.CreateNode("/pendulum/hinge", parser.TypeRevoluteJoint)
	hinge.SetRelationship(parser.RelJointBody0, "/pendulum/arm")
	hinge.SetRelationship(parser.RelJointBody1, "/pendulum/bob")
	hinge.SetToken(parser.PropJointAxis, parser.AxisX)
	hinge.SetFloat(parser.PropLowerLimit, -90)
	hinge.SetFloat(parser.PropUpperLimit, 90)

	return w
}
