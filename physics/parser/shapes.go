package parser

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/spaghettifunk/physika/physics/core"
	"github.com/spaghettifunk/physika/physics/descriptor"
	vmath "github.com/spaghettifunk/physika/physics/math"
	"github.com/spaghettifunk/physika/physics/scene"
)

// TypeGeomSubset marks a geometry subset child of a mesh, used to bind
// per-subset physics materials.
const TypeGeomSubset scene.Token = "GeomSubset"

// parseShapes types each collision node, buckets them per shape kind and
// parses every kind in parallel batches.
func (e *extraction) parseShapes(nodes []scene.Node) {
	if len(nodes) == 0 {
		return
	}

	kinds := make([]descriptor.ObjectType, len(nodes))
	e.jobs.ParallelFor(len(nodes), batchGrainSize, func(begin, end int) {
		for i := begin; i < end; i++ {
			kinds[i], _ = e.shapeTypeFor(nodes[i])
		}
	})

	byKind := make(map[descriptor.ObjectType][]scene.Node)
	for i, n := range nodes {
		if kinds[i] == descriptor.ObjectTypeUndefined {
			core.LogWarn("unsupported collision geometry %s at %s, ignoring",
				n.TypeName(), n.Path())
			continue
		}
		byKind[kinds[i]] = append(byKind[kinds[i]], n)
	}

	parseAll(e, descriptor.ObjectTypeSphereShape, byKind[descriptor.ObjectTypeSphereShape], e.parseSphere)
	parseAll(e, descriptor.ObjectTypeCubeShape, byKind[descriptor.ObjectTypeCubeShape], e.parseCube)
	parseAll(e, descriptor.ObjectTypeCapsuleShape, byKind[descriptor.ObjectTypeCapsuleShape], e.parseCapsule)
	parseAll(e, descriptor.ObjectTypeTaperedCapsuleShape, byKind[descriptor.ObjectTypeTaperedCapsuleShape], e.parseTaperedCapsule)
	parseAll(e, descriptor.ObjectTypeCylinderShape, byKind[descriptor.ObjectTypeCylinderShape], e.parseCylinder)
	parseAll(e, descriptor.ObjectTypeTaperedCylinderShape, byKind[descriptor.ObjectTypeTaperedCylinderShape], e.parseTaperedCylinder)
	parseAll(e, descriptor.ObjectTypeConeShape, byKind[descriptor.ObjectTypeConeShape], e.parseCone)
	parseAll(e, descriptor.ObjectTypePlaneShape, byKind[descriptor.ObjectTypePlaneShape], e.parsePlane)
	parseAll(e, descriptor.ObjectTypeMeshShape, byKind[descriptor.ObjectTypeMeshShape], e.parseMesh)
	parseAll(e, descriptor.ObjectTypeSpherePointsShape, byKind[descriptor.ObjectTypeSpherePointsShape], e.parseSpherePoints)
	parseAll(e, descriptor.ObjectTypeCustomShape, byKind[descriptor.ObjectTypeCustomShape], e.parseCustomShape)
}

// shapeTypeFor resolves the shape category of a collision node.
// Application-defined shape tokens take precedence over the built-in
// geometry types.
func (e *extraction) shapeTypeFor(n scene.Node) (descriptor.ObjectType, scene.Token) {
	if e.opts.CustomTokens != nil {
		for _, tok := range e.opts.CustomTokens.ShapeTokens {
			if n.HasCapability(tok) || n.TypeName() == tok {
				return descriptor.ObjectTypeCustomShape, tok
			}
		}
	}
	switch n.TypeName() {
	case TypeSphere:
		return descriptor.ObjectTypeSphereShape, ""
	case TypeCube:
		return descriptor.ObjectTypeCubeShape, ""
	case TypeCapsule:
		return descriptor.ObjectTypeCapsuleShape, ""
	case TypeTaperedCapsule:
		return descriptor.ObjectTypeTaperedCapsuleShape, ""
	case TypeCylinder:
		return descriptor.ObjectTypeCylinderShape, ""
	case TypeTaperedCylinder:
		return descriptor.ObjectTypeTaperedCylinderShape, ""
	case TypeCone:
		return descriptor.ObjectTypeConeShape, ""
	case TypeMesh:
		return descriptor.ObjectTypeMeshShape, ""
	case TypePlane:
		return descriptor.ObjectTypePlaneShape, ""
	case TypePoints:
		return descriptor.ObjectTypeSpherePointsShape, ""
	}
	return descriptor.ObjectTypeUndefined, ""
}

// parseShapeCommon fills the shared collision state and returns the world
// scale of the shape node, which the per-kind parsers fold into their
// dimensions. Simulation does not support scaled geometry.
func (e *extraction) parseShapeCommon(n scene.Node, s *descriptor.Shape) vmath.Vec3 {
	s.CollisionEnabled = boolOr(n, PropCollisionEnabled, true)
	s.Materials = e.boundMaterials(n)
	s.FilteredCollisions = n.Relationship(RelFilteredPairs)
	s.SimulationOwners = n.Relationship(RelSimulationOwner)
	s.LocalScale = vmath.NewVec3One()

	_, _, scale := n.WorldTransform().Decompose()
	return scale
}

// boundMaterials returns the physics material binding targets that resolve
// to actual material nodes.
func (e *extraction) boundMaterials(n scene.Node) []scene.Path {
	var out []scene.Path
	for _, target := range n.Relationship(RelMaterialBinding) {
		mat, ok := e.graph.Node(target)
		if !ok || !mat.HasCapability(CapMaterial) {
			core.LogWarn("material binding on %s targets %s which is not a physics material",
				n.Path(), target)
			continue
		}
		out = append(out, target)
	}
	return out
}

func axisIndex(axis scene.Token) int {
	switch axis {
	case AxisX:
		return 0
	case AxisY:
		return 1
	default:
		return 2
	}
}

func scaleComponent(scale vmath.Vec3, idx int) float32 {
	switch idx {
	case 0:
		return scale.X
	case 1:
		return scale.Y
	default:
		return scale.Z
	}
}

// orthogonalMax returns the largest absolute scale component orthogonal to
// the given axis.
func orthogonalMax(scale vmath.Vec3, axis int) float32 {
	s := scale.Abs()
	switch axis {
	case 0:
		return math32.Max(s.Y, s.Z)
	case 1:
		return math32.Max(s.X, s.Z)
	default:
		return math32.Max(s.X, s.Y)
	}
}

func (e *extraction) parseSphere(n scene.Node, d *descriptor.SphereShape) error {
	scale := e.parseShapeCommon(n, &d.Shape)
	radius := floatOr(n, PropRadius, 1.0)
	d.Radius = math32.Abs(radius) * scale.Abs().MaxComponent()
	return nil
}

func (e *extraction) parseCube(n scene.Node, d *descriptor.CubeShape) error {
	scale := e.parseShapeCommon(n, &d.Shape)
	size := floatOr(n, PropSize, 2.0)
	half := size * 0.5
	d.HalfExtents = vmath.NewVec3(
		math32.Abs(half*scale.X),
		math32.Abs(half*scale.Y),
		math32.Abs(half*scale.Z),
	)
	return nil
}

// parseAxial handles the capsule, cylinder and cone family: the height is
// scaled along the shape axis, the radius by the largest orthogonal scale.
func (e *extraction) parseAxial(n scene.Node, s *descriptor.Shape, defRadius, defHeight float32) (radius, halfHeight float32, axis scene.Token) {
	scale := e.parseShapeCommon(n, s)
	axis = tokenOr(n, PropAxis, AxisZ)
	idx := axisIndex(axis)

	height := floatOr(n, PropHeight, defHeight)
	halfHeight = math32.Abs(height * 0.5 * scaleComponent(scale, idx))
	radius = math32.Abs(floatOr(n, PropRadius, defRadius)) * orthogonalMax(scale, idx)
	return radius, halfHeight, axis
}

func (e *extraction) parseTaperedAxial(n scene.Node, s *descriptor.Shape, defRadius, defHeight float32) (top, bottom, halfHeight float32, axis scene.Token) {
	scale := e.parseShapeCommon(n, s)
	axis = tokenOr(n, PropAxis, AxisZ)
	idx := axisIndex(axis)

	height := floatOr(n, PropHeight, defHeight)
	halfHeight = math32.Abs(height * 0.5 * scaleComponent(scale, idx))
	radialScale := orthogonalMax(scale, idx)
	top = math32.Abs(floatOr(n, PropRadiusTop, defRadius)) * radialScale
	bottom = math32.Abs(floatOr(n, PropRadiusBottom, defRadius)) * radialScale
	return top, bottom, halfHeight, axis
}

func (e *extraction) parseCapsule(n scene.Node, d *descriptor.CapsuleShape) error {
	d.Radius, d.HalfHeight, d.Axis = e.parseAxial(n, &d.Shape, 0.5, 1.0)
	return nil
}

func (e *extraction) parseTaperedCapsule(n scene.Node, d *descriptor.TaperedCapsuleShape) error {
	d.TopRadius, d.BottomRadius, d.HalfHeight, d.Axis = e.parseTaperedAxial(n, &d.Shape, 0.5, 1.0)
	return nil
}

func (e *extraction) parseCylinder(n scene.Node, d *descriptor.CylinderShape) error {
	d.Radius, d.HalfHeight, d.Axis = e.parseAxial(n, &d.Shape, 1.0, 2.0)
	return nil
}

func (e *extraction) parseTaperedCylinder(n scene.Node, d *descriptor.TaperedCylinderShape) error {
	d.TopRadius, d.BottomRadius, d.HalfHeight, d.Axis = e.parseTaperedAxial(n, &d.Shape, 1.0, 2.0)
	return nil
}

func (e *extraction) parseCone(n scene.Node, d *descriptor.ConeShape) error {
	d.Radius, d.HalfHeight, d.Axis = e.parseAxial(n, &d.Shape, 1.0, 2.0)
	return nil
}

func (e *extraction) parsePlane(n scene.Node, d *descriptor.PlaneShape) error {
	e.parseShapeCommon(n, &d.Shape)
	d.Axis = tokenOr(n, PropAxis, AxisZ)
	return nil
}

func (e *extraction) parseMesh(n scene.Node, d *descriptor.MeshShape) error {
	scale := e.parseShapeCommon(n, &d.Shape)
	d.MeshScale = scale
	d.DoubleSided = boolOr(n, PropDoubleSided, false)

	d.Approximation = "none"
	if n.HasCapability(CapMeshCollision) {
		d.Approximation = tokenOr(n, PropApproximation, "none")
	}

	// geometry subsets can override the material per face set
	for _, childPath := range n.Children() {
		child, ok := e.graph.Node(childPath)
		if !ok || child.TypeName() != TypeGeomSubset {
			continue
		}
		materials := e.boundMaterials(child)
		if len(materials) == 0 {
			continue
		}
		if d.SubsetMaterials == nil {
			d.SubsetMaterials = make(map[scene.Path]scene.Path)
		}
		d.SubsetMaterials[childPath] = materials[0]
	}
	return nil
}

func (e *extraction) parseSpherePoints(n scene.Node, d *descriptor.SpherePointsShape) error {
	scale := e.parseShapeCommon(n, &d.Shape)

	points, hasPoints := n.Vec3Slice(PropPoints)
	widths, hasWidths := n.FloatSlice(PropWidths)
	if !hasPoints || !hasWidths {
		return fmt.Errorf("points geometry requires both %s and %s", PropPoints, PropWidths)
	}
	if len(points) != len(widths) {
		return fmt.Errorf("points and widths length mismatch: %d vs %d", len(points), len(widths))
	}

	maxScale := scale.Abs().MaxComponent()
	d.Centers = append([]vmath.Vec3(nil), points...)
	d.Radii = make([]float32, len(widths))
	for i, w := range widths {
		d.Radii[i] = math32.Abs(w * 0.5 * maxScale)
	}
	return nil
}

func (e *extraction) parseCustomShape(n scene.Node, d *descriptor.CustomShape) error {
	e.parseShapeCommon(n, &d.Shape)
	_, token := e.shapeTypeFor(n)
	d.CustomToken = token
	return nil
}
