package parser

import (
	"github.com/spaghettifunk/physika/physics/descriptor"
	vmath "github.com/spaghettifunk/physika/physics/math"
	"github.com/spaghettifunk/physika/physics/scene"
)

// ownerBody walks from the given path up the ancestor chain and returns
// the first rigid body found, or the empty path for static geometry.
func (e *extraction) ownerBody(path scene.Path) scene.Path {
	for p := path; !p.IsEmpty(); p = p.Parent() {
		if _, ok := e.bodyMap[p]; ok {
			return p
		}
	}
	return scene.EmptyPath
}

// resolveShapes assigns every shape its owning body, its collision groups
// and its local pose relative to the body. The per-shape work runs in
// parallel; appending the shapes to the body collision lists happens in a
// sequential scatter afterwards so the body descriptors see no concurrent
// writes.
func (e *extraction) resolveShapes() {
	for _, t := range shapeObjectTypes {
		descs := e.descs[t]
		e.jobs.ParallelFor(len(descs), batchGrainSize, func(begin, end int) {
			for i := begin; i < end; i++ {
				s := descs[i].(descriptor.ShapeObject).ShapeDesc()
				if s.Valid {
					e.finalizeShape(s)
				}
			}
		})
	}

	for _, t := range shapeObjectTypes {
		for _, d := range e.descs[t] {
			s := d.(descriptor.ShapeObject).ShapeDesc()
			if !s.Valid || s.RigidBody.IsEmpty() {
				continue
			}
			if body, ok := e.bodyMap[s.RigidBody]; ok {
				body.Collisions = append(body.Collisions, s.Path)
			}
		}
	}
}

func (e *extraction) finalizeShape(s *descriptor.Shape) {
	s.RigidBody = e.ownerBody(s.Path)
	s.CollisionGroups = e.groupMembership[s.Path]

	bodyWorld := vmath.NewMat4Identity()
	if !s.RigidBody.IsEmpty() {
		if bodyNode, ok := e.graph.Node(s.RigidBody); ok {
			bodyWorld = bodyNode.WorldTransform()
		}
	}

	if s.Path == s.RigidBody {
		s.LocalPosition = vmath.NewVec3Zero()
		s.LocalRotation = vmath.NewQuatIdentity()
		s.LocalScale = vmath.NewVec3One()
	} else {
		node, ok := e.graph.Node(s.Path)
		if !ok {
			return
		}
		local := node.WorldTransform().Mul(bodyWorld.Inverse())
		position, rotation, scale := local.Decompose()
		s.LocalPosition = position
		s.LocalRotation = rotation
		s.LocalScale = scale
	}

	// simulation does not support body scale, bake it into the offset
	bodyScale := bodyWorld.ScaleVec()
	s.LocalPosition = s.LocalPosition.Mul(bodyScale)
}

// resolveJoints resolves the body each joint side attaches to and rebases
// the authored anchors from the relationship targets onto those bodies.
func (e *extraction) resolveJoints() {
	for _, t := range jointObjectTypes {
		descs := e.descs[t]
		e.jobs.ParallelFor(len(descs), batchGrainSize, func(begin, end int) {
			for i := begin; i < end; i++ {
				j := descs[i].(descriptor.JointObject).JointDesc()
				if j.Valid {
					e.finalizeJoint(j)
				}
			}
		})
	}
}

// jointBody resolves the body a joint side attaches to: the nearest rigid
// body ancestor of the rel target, or failing that the nearest ancestor
// carrying a collision capability, so joints can anchor to static geometry.
func (e *extraction) jointBody(path scene.Path) scene.Path {
	collision := scene.EmptyPath
	for p := path; !p.IsEmpty(); p = p.Parent() {
		if _, ok := e.bodyMap[p]; ok {
			return p
		}
		if collision.IsEmpty() {
			if n, ok := e.graph.Node(p); ok && n.HasCapability(CapCollision) {
				collision = p
			}
		}
	}
	return collision
}

func (e *extraction) finalizeJoint(j *descriptor.Joint) {
	j.Body0 = e.jointBody(j.Rel0)
	j.Body1 = e.jointBody(j.Rel1)

	j.LocalPose0Position, j.LocalPose0Rotation =
		e.rebaseAnchor(j.Rel0, j.Body0, j.LocalPose0Position, j.LocalPose0Rotation)
	j.LocalPose1Position, j.LocalPose1Rotation =
		e.rebaseAnchor(j.Rel1, j.Body1, j.LocalPose1Position, j.LocalPose1Rotation)
}

// rebaseAnchor moves an anchor authored relative to rel into the frame of
// the resolved body. Joints with no relationship target pass through
// unchanged; anchors already authored on the body keep their frame but the
// body scale still folds into the translation.
func (e *extraction) rebaseAnchor(rel, body scene.Path, position vmath.Vec3, rotation vmath.Quaternion) (vmath.Vec3, vmath.Quaternion) {
	if rel.IsEmpty() {
		return position, rotation
	}
	if rel == body {
		if node, ok := e.graph.Node(rel); ok {
			position = position.Mul(node.WorldTransform().ScaleVec())
		}
		return position, rotation
	}
	relNode, ok := e.graph.Node(rel)
	if !ok {
		return position, rotation
	}
	relWorld := relNode.WorldTransform()

	bodyWorld := vmath.NewMat4Identity()
	if !body.IsEmpty() {
		if bodyNode, ok := e.graph.Node(body); ok {
			bodyWorld = bodyNode.WorldTransform()
		}
	}

	anchor := vmath.NewMat4FromTRS(position, rotation, vmath.NewVec3One())
	rebased := anchor.Mul(relWorld).Mul(bodyWorld.Inverse()).RemoveScaleShear()

	outPosition := rebased.Translation()
	outRotation := vmath.NewQuatFromMat4(rebased)

	// body scale folds into the offset, same as shape local poses
	outPosition = outPosition.Mul(bodyWorld.ScaleVec())
	return outPosition, outRotation
}
