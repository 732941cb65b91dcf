package parser

import (
	"github.com/spaghettifunk/physika/physics/descriptor"
	vmath "github.com/spaghettifunk/physika/physics/math"
	"github.com/spaghettifunk/physika/physics/scene"
)

func (e *extraction) parseJoints(byKind map[descriptor.ObjectType][]scene.Node) {
	parseAll(e, descriptor.ObjectTypeFixedJoint, byKind[descriptor.ObjectTypeFixedJoint], e.parseFixedJoint)
	parseAll(e, descriptor.ObjectTypeRevoluteJoint, byKind[descriptor.ObjectTypeRevoluteJoint], e.parseRevoluteJoint)
	parseAll(e, descriptor.ObjectTypePrismaticJoint, byKind[descriptor.ObjectTypePrismaticJoint], e.parsePrismaticJoint)
	parseAll(e, descriptor.ObjectTypeSphericalJoint, byKind[descriptor.ObjectTypeSphericalJoint], e.parseSphericalJoint)
	parseAll(e, descriptor.ObjectTypeDistanceJoint, byKind[descriptor.ObjectTypeDistanceJoint], e.parseDistanceJoint)
	parseAll(e, descriptor.ObjectTypeD6Joint, byKind[descriptor.ObjectTypeD6Joint], e.parseD6Joint)
	parseAll(e, descriptor.ObjectTypeCustomJoint, byKind[descriptor.ObjectTypeCustomJoint], e.parseCustomJoint)
}

func (e *extraction) parseJointCommon(n scene.Node, j *descriptor.Joint) {
	j.Rel0 = firstTarget(n, RelJointBody0)
	j.Rel1 = firstTarget(n, RelJointBody1)

	j.LocalPose0Position, _ = n.Vec3(PropLocalPos0)
	j.LocalPose1Position, _ = n.Vec3(PropLocalPos1)
	j.LocalPose0Rotation = quatOr(n, PropLocalRot0).Normalize()
	j.LocalPose1Rotation = quatOr(n, PropLocalRot1).Normalize()

	j.JointEnabled = boolOr(n, PropJointEnabled, true)
	j.BreakForce = floatOr(n, PropBreakForce, vmath.K_INFINITY)
	j.BreakTorque = floatOr(n, PropBreakTorque, vmath.K_INFINITY)
	j.ExcludeFromArticulation = boolOr(n, PropExcludeFromArticulation, false)
	j.CollisionEnabled = boolOr(n, PropCollisionEnabled, false)
}

func quatOr(n scene.Node, name scene.Token) vmath.Quaternion {
	if v, ok := n.Quat(name); ok {
		return v
	}
	return vmath.NewQuatIdentity()
}

// parseDrive reads a drive instance. The caller has already checked that
// the drive capability is applied.
func parseDrive(n scene.Node, instance scene.Token) descriptor.JointDrive {
	return descriptor.JointDrive{
		Enabled:        true,
		TargetPosition: floatOr(n, driveProp(instance, "targetPosition"), 0),
		TargetVelocity: floatOr(n, driveProp(instance, "targetVelocity"), 0),
		ForceLimit:     floatOr(n, driveProp(instance, "maxForce"), vmath.K_INFINITY),
		Stiffness:      floatOr(n, driveProp(instance, "stiffness"), 0),
		Damping:        floatOr(n, driveProp(instance, "damping"), 0),
		Acceleration:   tokenOr(n, driveProp(instance, "type"), "force") == "acceleration",
	}
}

func (e *extraction) parseFixedJoint(n scene.Node, d *descriptor.FixedJoint) error {
	e.parseJointCommon(n, &d.Joint)
	return nil
}

func (e *extraction) parseRevoluteJoint(n scene.Node, d *descriptor.RevoluteJoint) error {
	e.parseJointCommon(n, &d.Joint)
	d.Axis = tokenOr(n, PropJointAxis, AxisX)

	lower := floatOr(n, PropLowerLimit, -vmath.K_INFINITY)
	upper := floatOr(n, PropUpperLimit, vmath.K_INFINITY)
	d.Limit = descriptor.JointLimit{
		// a revolute limit needs both bounds
		Enabled: lower > -descriptor.SentinelLimit && upper < descriptor.SentinelLimit,
		Lower:   lower,
		Upper:   upper,
	}
	if n.HasCapability(driveCapability(DriveAngular)) {
		d.Drive = parseDrive(n, DriveAngular)
	}
	return nil
}

func (e *extraction) parsePrismaticJoint(n scene.Node, d *descriptor.PrismaticJoint) error {
	e.parseJointCommon(n, &d.Joint)
	d.Axis = tokenOr(n, PropJointAxis, AxisX)

	lower := floatOr(n, PropLowerLimit, -vmath.K_INFINITY)
	upper := floatOr(n, PropUpperLimit, vmath.K_INFINITY)
	d.Limit = descriptor.JointLimit{
		// a single authored bound already limits the slide
		Enabled: lower > -descriptor.SentinelLimit || upper < descriptor.SentinelLimit,
		Lower:   lower,
		Upper:   upper,
	}
	if n.HasCapability(driveCapability(DriveLinear)) {
		d.Drive = parseDrive(n, DriveLinear)
	}
	return nil
}

func (e *extraction) parseSphericalJoint(n scene.Node, d *descriptor.SphericalJoint) error {
	e.parseJointCommon(n, &d.Joint)
	d.Axis = tokenOr(n, PropJointAxis, AxisX)

	cone0 := floatOr(n, PropConeAngle0Limit, -1)
	cone1 := floatOr(n, PropConeAngle1Limit, -1)
	d.Limit = descriptor.JointLimit{
		Enabled: cone0 >= 0 && cone1 >= 0,
		Lower:   cone0,
		Upper:   cone1,
	}
	return nil
}

func (e *extraction) parseDistanceJoint(n scene.Node, d *descriptor.DistanceJoint) error {
	e.parseJointCommon(n, &d.Joint)

	minDist := floatOr(n, PropMinDistance, -1)
	maxDist := floatOr(n, PropMaxDistance, -1)
	d.MinEnabled = minDist >= 0
	d.MaxEnabled = maxDist >= 0
	d.Limit = descriptor.JointLimit{
		Enabled: d.MinEnabled || d.MaxEnabled,
		Lower:   minDist,
		Upper:   maxDist,
	}
	return nil
}

var d6DOFTokens = map[scene.Token]descriptor.D6DOF{
	DOFDistance: descriptor.D6DOFDistance,
	DOFTransX:   descriptor.D6DOFTransX,
	DOFTransY:   descriptor.D6DOFTransY,
	DOFTransZ:   descriptor.D6DOFTransZ,
	DOFRotX:     descriptor.D6DOFRotX,
	DOFRotY:     descriptor.D6DOFRotY,
	DOFRotZ:     descriptor.D6DOFRotZ,
}

var d6DOFOrder = []scene.Token{
	DOFDistance, DOFTransX, DOFTransY, DOFTransZ, DOFRotX, DOFRotY, DOFRotZ,
}

func (e *extraction) parseD6Joint(n scene.Node, d *descriptor.D6Joint) error {
	e.parseJointCommon(n, &d.Joint)

	for _, dof := range d6DOFOrder {
		if n.HasCapability(limitCapability(dof)) {
			lower := floatOr(n, limitProp(dof, "low"), -vmath.K_INFINITY)
			upper := floatOr(n, limitProp(dof, "high"), vmath.K_INFINITY)
			if d.Limits == nil {
				d.Limits = make(map[descriptor.D6DOF]descriptor.JointLimit)
			}
			d.Limits[d6DOFTokens[dof]] = descriptor.JointLimit{
				Enabled: lower > -descriptor.SentinelLimit || upper < descriptor.SentinelLimit,
				Lower:   lower,
				Upper:   upper,
			}
		}
		if n.HasCapability(driveCapability(dof)) {
			if d.Drives == nil {
				d.Drives = make(map[descriptor.D6DOF]descriptor.JointDrive)
			}
			d.Drives[d6DOFTokens[dof]] = parseDrive(n, dof)
		}
	}
	return nil
}

func (e *extraction) parseCustomJoint(n scene.Node, d *descriptor.CustomJoint) error {
	e.parseJointCommon(n, &d.Joint)
	d.CustomToken = n.TypeName()
	return nil
}
