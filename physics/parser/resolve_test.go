package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/physika/physics/descriptor"
	vmath "github.com/spaghettifunk/physika/physics/math"
	"github.com/spaghettifunk/physika/physics/scene"
)

func TestCollisionGroupMerging(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	shapeA := w.CreateNode("/shapes/a", TypeCube)
	shapeA.AddCapability(CapCollision)
	shapeB := w.CreateNode("/shapes/b", TypeCube)
	shapeB.AddCapability(CapCollision)

	ga := w.CreateNode("/groups/a", TypeCollisionGroup)
	ga.SetString(PropMergeGroup, "merged")
	ga.SetCollection(CollectionColliders, "/shapes/a")
	ga.SetRelationship(RelFilteredGroups, "/groups/other")

	gb := w.CreateNode("/groups/b", TypeCollisionGroup)
	gb.SetString(PropMergeGroup, "merged")
	gb.SetCollection(CollectionColliders, "/shapes/b")

	gc := w.CreateNode("/groups/c", TypeCollisionGroup)
	gc.SetCollection(CollectionColliders, "/shapes/a")

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	paths := rc.paths[descriptor.ObjectTypeCollisionGroup]
	require.Len(t, paths, 2, "the absorbed group loses its slot")
	assert.NotContains(t, paths, scene.Path("/groups/b"))

	var rep *descriptor.CollisionGroup
	for _, d := range rc.descs[descriptor.ObjectTypeCollisionGroup] {
		g := d.(*descriptor.CollisionGroup)
		if g.Path == "/groups/a" {
			rep = g
		}
	}
	require.NotNil(t, rep)
	assert.Equal(t, []scene.Path{"/groups/a", "/groups/b"}, rep.MergedGroups)
	assert.Equal(t, []scene.Path{"/groups/other"}, rep.FilteredGroups)

	// shapes in either original collection belong to the representative
	for _, d := range rc.descs[descriptor.ObjectTypeCubeShape] {
		s := d.(*descriptor.CubeShape)
		switch s.Path {
		case "/shapes/a":
			assert.Equal(t, []scene.Path{"/groups/a", "/groups/c"}, s.CollisionGroups)
		case "/shapes/b":
			assert.Equal(t, []scene.Path{"/groups/a"}, s.CollisionGroups)
		}
	}
}

func TestShapeLocalPoseRelativeToBody(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	body := w.CreateNode("/body", scene.TokenXform)
	body.AddCapability(CapRigidBody)
	body.SetLocalTransform(vmath.NewVec3(5, 0, 0), vmath.NewQuatIdentity(), vmath.NewVec3(2, 2, 2))
	shape := w.CreateNode("/body/shape", TypeSphere)
	shape.AddCapability(CapCollision)
	shape.SetLocalTransform(vmath.NewVec3(1, 0, 0), vmath.NewQuatIdentity(), vmath.NewVec3One())

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeSphereShape).(*descriptor.SphereShape)
	assert.Equal(t, scene.Path("/body"), d.RigidBody)
	// the body scale bakes into the offset
	assert.True(t, d.LocalPosition.Compare(vmath.NewVec3(2, 0, 0), 1e-4), "got %+v", d.LocalPosition)
	assert.True(t, d.LocalRotation.Compare(vmath.NewQuatIdentity(), 1e-4))
	assert.True(t, d.LocalScale.Compare(vmath.NewVec3One(), 1e-4))
}

func TestShapeOnBodyNodeHasIdentityPose(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	both := w.CreateNode("/b", TypeCube)
	both.AddCapability(CapRigidBody)
	both.AddCapability(CapCollision)
	both.SetLocalTransform(vmath.NewVec3(3, 2, 1), vmath.NewQuatIdentity(), vmath.NewVec3One())

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeCubeShape).(*descriptor.CubeShape)
	assert.Equal(t, scene.Path("/b"), d.RigidBody)
	assert.True(t, d.LocalPosition.Compare(vmath.NewVec3Zero(), 1e-5))
	assert.True(t, d.LocalRotation.Compare(vmath.NewQuatIdentity(), 1e-5))
}

func TestStaticShapeKeepsWorldPose(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	ground := w.CreateNode("/ground", TypeCube)
	ground.AddCapability(CapCollision)
	ground.SetLocalTransform(vmath.NewVec3(0, 0, -1), vmath.NewQuatIdentity(), vmath.NewVec3One())

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeCubeShape).(*descriptor.CubeShape)
	assert.True(t, d.RigidBody.IsEmpty(), "no body ancestor means static geometry")
	assert.True(t, d.LocalPosition.Compare(vmath.NewVec3(0, 0, -1), 1e-5))
}

func TestRevoluteJointLimits(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	w.CreateNode("/a", scene.TokenXform).AddCapability(CapRigidBody)

	full := w.CreateNode("/full", TypeRevoluteJoint)
	full.SetRelationship(RelJointBody0, "/a")
	full.SetToken(PropJointAxis, AxisZ)
	full.SetFloat(PropLowerLimit, -45)
	full.SetFloat(PropUpperLimit, 45)

	half := w.CreateNode("/half", TypeRevoluteJoint)
	half.SetRelationship(RelJointBody0, "/a")
	half.SetFloat(PropLowerLimit, -45)

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	for i, p := range rc.paths[descriptor.ObjectTypeRevoluteJoint] {
		d := rc.descs[descriptor.ObjectTypeRevoluteJoint][i].(*descriptor.RevoluteJoint)
		switch p {
		case "/full":
			assert.True(t, d.Limit.Enabled)
			assert.InDelta(t, -45.0, d.Limit.Lower, 1e-5)
			assert.InDelta(t, 45.0, d.Limit.Upper, 1e-5)
			assert.Equal(t, AxisZ, d.Axis)
			assert.Equal(t, scene.Path("/a"), d.Body0)
			assert.True(t, d.Body1.IsEmpty())
		case "/half":
			assert.False(t, d.Limit.Enabled, "a revolute limit needs both bounds")
		}
	}
}

func TestPrismaticJointSingleBoundLimit(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	w.CreateNode("/a", scene.TokenXform).AddCapability(CapRigidBody)
	j := w.CreateNode("/slider", TypePrismaticJoint)
	j.SetRelationship(RelJointBody0, "/a")
	j.SetFloat(PropUpperLimit, 2)
	j.AddCapability(driveCapability(DriveLinear))
	j.SetFloat(driveProp(DriveLinear, "targetVelocity"), 1.5)
	j.SetToken(driveProp(DriveLinear, "type"), "acceleration")

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypePrismaticJoint).(*descriptor.PrismaticJoint)
	assert.True(t, d.Limit.Enabled, "one bound is enough for a slide limit")
	assert.True(t, d.Drive.Enabled)
	assert.InDelta(t, 1.5, d.Drive.TargetVelocity, 1e-5)
	assert.True(t, d.Drive.Acceleration)
	assert.Greater(t, d.Drive.ForceLimit, descriptor.SentinelLimit, "unauthored force limit is unbounded")
}

func TestD6JointLimitsAndDrives(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	w.CreateNode("/a", scene.TokenXform).AddCapability(CapRigidBody)
	j := w.CreateNode("/d6", TypeJoint)
	j.SetRelationship(RelJointBody0, "/a")
	j.AddCapability(limitCapability(DOFRotX))
	j.SetFloat(limitProp(DOFRotX, "low"), -10)
	j.SetFloat(limitProp(DOFRotX, "high"), 10)
	j.AddCapability(limitCapability(DOFTransZ))
	j.SetFloat(limitProp(DOFTransZ, "high"), 0.5)
	j.AddCapability(driveCapability(DOFRotX))
	j.SetFloat(driveProp(DOFRotX, "stiffness"), 100)

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeD6Joint).(*descriptor.D6Joint)
	require.Len(t, d.Limits, 2)
	rotX := d.Limits[descriptor.D6DOFRotX]
	assert.True(t, rotX.Enabled)
	assert.InDelta(t, -10.0, rotX.Lower, 1e-5)
	transZ := d.Limits[descriptor.D6DOFTransZ]
	assert.True(t, transZ.Enabled)
	assert.InDelta(t, 0.5, transZ.Upper, 1e-5)

	require.Len(t, d.Drives, 1)
	assert.InDelta(t, 100.0, d.Drives[descriptor.D6DOFRotX].Stiffness, 1e-5)
}

func TestJointAnchorRebasing(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	body := w.CreateNode("/body", scene.TokenXform)
	body.AddCapability(CapRigidBody)
	body.SetLocalTransform(vmath.NewVec3(10, 0, 0), vmath.NewQuatIdentity(), vmath.NewVec3One())
	attach := w.CreateNode("/body/attach", scene.TokenXform)
	attach.SetLocalTransform(vmath.NewVec3(0, 2, 0), vmath.NewQuatIdentity(), vmath.NewVec3One())

	j := w.CreateNode("/joint", TypeFixedJoint)
	j.SetRelationship(RelJointBody0, "/body/attach")
	j.SetVec3(PropLocalPos0, vmath.NewVec3(0, 0, 1))

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeFixedJoint).(*descriptor.FixedJoint)
	assert.Equal(t, scene.Path("/body"), d.Body0, "the anchor target resolves to its body ancestor")
	// the anchor moves from the attach frame into the body frame
	assert.True(t, d.LocalPose0Position.Compare(vmath.NewVec3(0, 2, 1), 1e-4),
		"got %+v", d.LocalPose0Position)
}

func TestJointAnchorOnScaledBody(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	body := w.CreateNode("/body", scene.TokenXform)
	body.AddCapability(CapRigidBody)
	body.SetLocalTransform(vmath.NewVec3Zero(), vmath.NewQuatIdentity(), vmath.NewVec3(2, 2, 2))

	j := w.CreateNode("/joint", TypeFixedJoint)
	j.SetRelationship(RelJointBody0, "/body")
	j.SetVec3(PropLocalPos0, vmath.NewVec3(1, 0, 0))

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeFixedJoint).(*descriptor.FixedJoint)
	assert.Equal(t, scene.Path("/body"), d.Body0)
	// the body scale folds into the anchor even without a frame change
	assert.True(t, d.LocalPose0Position.Compare(vmath.NewVec3(2, 0, 0), 1e-4),
		"got %+v", d.LocalPose0Position)
}

func TestJointBodyFallsBackToCollisionAncestor(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	static := w.CreateNode("/static", TypeCube)
	static.AddCapability(CapCollision)
	static.SetLocalTransform(vmath.NewVec3(5, 0, 0), vmath.NewQuatIdentity(), vmath.NewVec3One())
	attach := w.CreateNode("/static/attach", scene.TokenXform)
	attach.SetLocalTransform(vmath.NewVec3(0, 2, 0), vmath.NewQuatIdentity(), vmath.NewVec3One())

	bob := w.CreateNode("/bob", TypeSphere)
	bob.AddCapability(CapRigidBody)
	bob.AddCapability(CapCollision)

	j := w.CreateNode("/j", TypeFixedJoint)
	j.SetRelationship(RelJointBody0, "/static/attach")
	j.SetRelationship(RelJointBody1, "/bob")
	j.SetVec3(PropLocalPos0, vmath.NewVec3(0, 0, 1))

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeFixedJoint).(*descriptor.FixedJoint)
	assert.Equal(t, scene.Path("/static"), d.Body0,
		"without a rigid body ancestor the joint attaches to the collision ancestor")
	assert.Equal(t, scene.Path("/bob"), d.Body1)
	// the anchor moves from the attach frame into the collision ancestor frame
	assert.True(t, d.LocalPose0Position.Compare(vmath.NewVec3(0, 2, 1), 1e-4),
		"got %+v", d.LocalPose0Position)

	// static anchors survive owner filtering as long as the body side does
	rc = newCollector()
	opts := &Options{SimulationOwners: []scene.Path{""}}
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, opts))
	assert.Equal(t, []scene.Path{"/j"}, rc.paths[descriptor.ObjectTypeFixedJoint])
}

func TestFixedBaseArticulationRoot(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	art := w.CreateNode("/art", scene.TokenXform)
	art.AddCapability(CapArticulationRoot)
	w.CreateNode("/art/link1", TypeCube).AddCapability(CapRigidBody)
	w.CreateNode("/art/link2", TypeCube).AddCapability(CapRigidBody)

	anchor := w.CreateNode("/art/anchor", TypeFixedJoint)
	anchor.SetRelationship(RelJointBody1, "/art/link1")
	hinge := w.CreateNode("/art/hinge", TypeRevoluteJoint)
	hinge.SetRelationship(RelJointBody0, "/art/link1")
	hinge.SetRelationship(RelJointBody1, "/art/link2")

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeArticulation).(*descriptor.Articulation)
	assert.True(t, d.Valid)
	assert.Equal(t, []scene.Path{"/art/anchor"}, d.RootPaths,
		"a fixed connection to the world roots the articulation at that joint")
	assert.Equal(t, []scene.Path{"/art/anchor", "/art/hinge"}, d.ArticulatedJoints)
	assert.Equal(t, []scene.Path{"", "/art/link1", "/art/link2"}, d.ArticulatedBodies)
}

func TestFloatingArticulationUsesCenterOfGraph(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	art := w.CreateNode("/art", scene.TokenXform)
	art.AddCapability(CapArticulationRoot)
	for _, p := range []scene.Path{"/art/l1", "/art/l2", "/art/l3"} {
		w.CreateNode(p, TypeCube).AddCapability(CapRigidBody)
	}
	j12 := w.CreateNode("/art/j12", TypeRevoluteJoint)
	j12.SetRelationship(RelJointBody0, "/art/l1")
	j12.SetRelationship(RelJointBody1, "/art/l2")
	j23 := w.CreateNode("/art/j23", TypeRevoluteJoint)
	j23.SetRelationship(RelJointBody0, "/art/l2")
	j23.SetRelationship(RelJointBody1, "/art/l3")

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeArticulation).(*descriptor.Articulation)
	assert.True(t, d.Valid)
	assert.Equal(t, []scene.Path{"/art/l2"}, d.RootPaths,
		"the middle of the chain minimizes the eccentricity")
}

func TestBodySeededArticulation(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	base := w.CreateNode("/base", TypeCube)
	base.AddCapability(CapRigidBody)
	base.AddCapability(CapArticulationRoot)
	w.CreateNode("/base/arm", TypeCube).AddCapability(CapRigidBody)
	j := w.CreateNode("/base/j", TypeRevoluteJoint)
	j.SetRelationship(RelJointBody0, "/base")
	j.SetRelationship(RelJointBody1, "/base/arm")

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeArticulation).(*descriptor.Articulation)
	assert.True(t, d.Valid)
	assert.Equal(t, []scene.Path{"/base"}, d.RootPaths)
	assert.Equal(t, []scene.Path{"/base/j"}, d.ArticulatedJoints)
}

func TestArticulationWithoutLinksIsInvalid(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	lonely := w.CreateNode("/lonely", scene.TokenXform)
	lonely.AddCapability(CapArticulationRoot)

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeArticulation).(*descriptor.Articulation)
	assert.False(t, d.Valid)
	assert.Empty(t, d.RootPaths)
}

func TestDisabledJointBreaksArticulationChain(t *testing.T) {
	w := scene.NewWorld("Z", 1.0)
	art := w.CreateNode("/art", scene.TokenXform)
	art.AddCapability(CapArticulationRoot)
	w.CreateNode("/art/l1", TypeCube).AddCapability(CapRigidBody)
	w.CreateNode("/art/l2", TypeCube).AddCapability(CapRigidBody)
	j := w.CreateNode("/art/j", TypeRevoluteJoint)
	j.SetRelationship(RelJointBody0, "/art/l1")
	j.SetRelationship(RelJointBody1, "/art/l2")
	j.SetBool(PropJointEnabled, false)

	rc := newCollector()
	require.True(t, Extract(w, []scene.Path{"/"}, rc.report, nil, nil))

	d := rc.single(t, descriptor.ObjectTypeArticulation).(*descriptor.Articulation)
	assert.False(t, d.Valid, "disabled joints do not link bodies")
}
