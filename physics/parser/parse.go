package parser

import (
	"github.com/spaghettifunk/physika/physics/core"
	"github.com/spaghettifunk/physika/physics/descriptor"
	vmath "github.com/spaghettifunk/physika/physics/math"
	"github.com/spaghettifunk/physika/physics/scene"
)

// earthGravity is the default gravity magnitude in meters per second squared.
const earthGravity float32 = 9.81

var shapeObjectTypes = []descriptor.ObjectType{
	descriptor.ObjectTypeSphereShape,
	descriptor.ObjectTypeCubeShape,
	descriptor.ObjectTypeCapsuleShape,
	descriptor.ObjectTypeTaperedCapsuleShape,
	descriptor.ObjectTypeCylinderShape,
	descriptor.ObjectTypeTaperedCylinderShape,
	descriptor.ObjectTypeConeShape,
	descriptor.ObjectTypePlaneShape,
	descriptor.ObjectTypeMeshShape,
	descriptor.ObjectTypeSpherePointsShape,
	descriptor.ObjectTypeCustomShape,
}

var jointObjectTypes = []descriptor.ObjectType{
	descriptor.ObjectTypeFixedJoint,
	descriptor.ObjectTypeRevoluteJoint,
	descriptor.ObjectTypePrismaticJoint,
	descriptor.ObjectTypeSphericalJoint,
	descriptor.ObjectTypeDistanceJoint,
	descriptor.ObjectTypeD6Joint,
	descriptor.ObjectTypeCustomJoint,
}

// parseAll parses one bucket of nodes into descriptors of kind D, in
// parallel batches. The returned path and descriptor slices are index
// aligned; a node that fails to parse keeps its slot with Valid cleared.
func parseAll[D any, PD interface {
	*D
	descriptor.Object
}](e *extraction, t descriptor.ObjectType, nodes []scene.Node, fn func(scene.Node, PD) error) {
	if len(nodes) == 0 {
		return
	}
	paths := make([]scene.Path, len(nodes))
	descs := make([]descriptor.Object, len(nodes))
	e.jobs.ParallelFor(len(nodes), batchGrainSize, func(begin, end int) {
		for i := begin; i < end; i++ {
			n := nodes[i]
			d := PD(new(D))
			*d.Desc() = descriptor.NewBase(t, n.Path())
			if err := fn(n, d); err != nil {
				core.LogWarn("failed to parse %s at %s: %v", t, n.Path(), err)
				d.Desc().Valid = false
			}
			paths[i] = n.Path()
			descs[i] = d
		}
	})
	e.paths[t] = paths
	e.descs[t] = descs
}

// parse turns every classified bucket into descriptors and builds the
// cross-reference indexes the resolution passes need.
func (e *extraction) parse(b *buckets) {
	parseAll(e, descriptor.ObjectTypeScene, b.scenes, e.parseScene)
	parseAll(e, descriptor.ObjectTypeCollisionGroup, b.groups, e.parseGroup)
	parseAll(e, descriptor.ObjectTypeRigidBodyMaterial, b.materials, e.parseMaterial)
	parseAll(e, descriptor.ObjectTypeRigidBody, b.bodies, e.parseBody)
	parseAll(e, descriptor.ObjectTypeArticulation, b.articulations, e.parseArticulation)
	e.parseShapes(b.collisions)
	e.parseJoints(b.joints)
	e.buildIndexes()
}

func (e *extraction) buildIndexes() {
	e.bodyMap = make(map[scene.Path]*descriptor.RigidBody, len(e.descs[descriptor.ObjectTypeRigidBody]))
	for _, d := range e.descs[descriptor.ObjectTypeRigidBody] {
		body := d.(*descriptor.RigidBody)
		if body.Valid {
			e.bodyMap[body.Path] = body
		}
	}

	e.jointMap = make(map[scene.Path]*descriptor.Joint)
	for _, t := range jointObjectTypes {
		for _, d := range e.descs[t] {
			j := d.(descriptor.JointObject).JointDesc()
			if j.Valid {
				e.jointMap[j.Path] = j
			}
		}
	}
}

func (e *extraction) upAxisVector() vmath.Vec3 {
	switch e.graph.UpAxis() {
	case AxisX:
		return vmath.NewVec3(1, 0, 0)
	case AxisY:
		return vmath.NewVec3(0, 1, 0)
	default:
		return vmath.NewVec3(0, 0, 1)
	}
}

func (e *extraction) parseScene(n scene.Node, d *descriptor.Scene) error {
	dir, _ := n.Vec3(PropGravityDirection)
	if dir.LengthSquared() == 0 {
		// unauthored or zero direction falls down the up axis
		d.GravityDirection = e.upAxisVector().MulScalar(-1)
	} else {
		d.GravityDirection = dir.Normalize()
	}

	mag := floatOr(n, PropGravityMagnitude, -vmath.K_INFINITY)
	if mag < -descriptor.SentinelLimit {
		d.GravityMagnitude = earthGravity / e.graph.MetersPerUnit()
	} else {
		d.GravityMagnitude = mag
	}
	return nil
}

func (e *extraction) parseGroup(n scene.Node, d *descriptor.CollisionGroup) error {
	d.InvertFilteredGroups = boolOr(n, PropInvertFilteredGroups, false)
	d.MergeGroupName, _ = n.StringValue(PropMergeGroup)
	d.FilteredGroups = n.Relationship(RelFilteredGroups)
	return nil
}

func (e *extraction) parseMaterial(n scene.Node, d *descriptor.RigidBodyMaterial) error {
	d.StaticFriction = floatOr(n, PropStaticFriction, 0)
	d.DynamicFriction = floatOr(n, PropDynamicFriction, 0)
	d.Restitution = floatOr(n, PropRestitution, 0)
	d.Density = floatOr(n, PropDensity, -1)
	return nil
}

func (e *extraction) parseBody(n scene.Node, d *descriptor.RigidBody) error {
	position, rotation, scale := n.WorldTransform().Decompose()
	d.Position = position
	d.Rotation = rotation.Normalize()
	d.Scale = scale

	d.RigidBodyEnabled = boolOr(n, PropRigidBodyEnabled, true)
	d.Kinematic = boolOr(n, PropKinematicEnabled, false)
	d.StartsAsleep = boolOr(n, PropStartsAsleep, false)
	d.LinearVelocity, _ = n.Vec3(PropVelocity)
	d.AngularVelocity, _ = n.Vec3(PropAngularVelocity)
	d.SimulationOwners = n.Relationship(RelSimulationOwner)
	d.Filtered = n.Relationship(RelFilteredPairs)
	return nil
}

func (e *extraction) parseArticulation(n scene.Node, d *descriptor.Articulation) error {
	d.FilteredCollisions = n.Relationship(RelFilteredPairs)
	return nil
}

// attribute helpers, unauthored attributes fall back to the given default

func boolOr(n scene.Node, name scene.Token, def bool) bool {
	if v, ok := n.Bool(name); ok {
		return v
	}
	return def
}

func floatOr(n scene.Node, name scene.Token, def float32) float32 {
	if v, ok := n.Float(name); ok {
		return v
	}
	return def
}

func tokenOr(n scene.Node, name scene.Token, def scene.Token) scene.Token {
	if v, ok := n.TokenValue(name); ok {
		return v
	}
	return def
}

func firstTarget(n scene.Node, name scene.Token) scene.Path {
	targets := n.Relationship(name)
	if len(targets) == 0 {
		return scene.EmptyPath
	}
	return targets[0]
}
