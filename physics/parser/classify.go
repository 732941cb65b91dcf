package parser

import (
	"github.com/spaghettifunk/physika/physics/core"
	"github.com/spaghettifunk/physika/physics/descriptor"
	"github.com/spaghettifunk/physika/physics/scene"
)

// buckets holds the classified nodes per category, in traversal order.
type buckets struct {
	scenes        []scene.Node
	groups        []scene.Node
	materials     []scene.Node
	collisions    []scene.Node
	bodies        []scene.Node
	articulations []scene.Node
	joints        map[descriptor.ObjectType][]scene.Node
}

// classify walks the include subtrees in pre-order and sorts every physics
// node into its category bucket. Classification is single threaded; the
// buckets feed the parallel parse stage.
func (e *extraction) classify(include []scene.Path) *buckets {
	b := &buckets{joints: make(map[descriptor.ObjectType][]scene.Node)}

	exclude := make(map[scene.Path]struct{}, len(e.opts.ExcludePaths))
	for _, p := range e.opts.ExcludePaths {
		exclude[p] = struct{}{}
	}

	// overlapping include roots must not classify a node twice
	seen := make(map[scene.Path]struct{})
	for _, root := range include {
		e.classifySubtree(root, exclude, seen, b)
	}
	return b
}

func (e *extraction) classifySubtree(path scene.Path, exclude, seen map[scene.Path]struct{}, b *buckets) {
	if _, skip := exclude[path]; skip {
		return
	}
	if _, dup := seen[path]; dup {
		return
	}
	seen[path] = struct{}{}

	node, ok := e.graph.Node(path)
	if !ok {
		core.LogWarn("no node found at %s, skipping subtree", path)
		return
	}

	e.classifyNode(node, b)

	// instancer prototypes are not simulated, prune the children but keep
	// the instancer node itself
	if e.isInstancer(node) {
		return
	}
	for _, child := range node.Children() {
		e.classifySubtree(child, exclude, seen, b)
	}
}

func (e *extraction) classifyNode(node scene.Node, b *buckets) {
	typeName := node.TypeName()

	hasRigidBody := node.HasCapability(CapRigidBody)
	hasCollision := node.HasCapability(CapCollision)
	hasArticulationRoot := node.HasCapability(CapArticulationRoot)
	// a material applied next to other physics capabilities configures
	// them instead of defining a standalone material
	isMaterial := node.HasCapability(CapMaterial) &&
		!hasRigidBody && !hasCollision && !hasArticulationRoot

	switch {
	case typeName == TypeScene:
		b.scenes = append(b.scenes, node)
	case typeName == TypeCollisionGroup:
		b.groups = append(b.groups, node)
	case isMaterial:
		b.materials = append(b.materials, node)
	default:
		if jointType := e.jointTypeFor(typeName); jointType != descriptor.ObjectTypeUndefined {
			b.joints[jointType] = append(b.joints[jointType], node)
			if hasArticulationRoot {
				b.articulations = append(b.articulations, node)
			}
			return
		}
		if hasCollision {
			b.collisions = append(b.collisions, node)
		}
		if hasRigidBody {
			b.bodies = append(b.bodies, node)
		}
		if hasArticulationRoot {
			b.articulations = append(b.articulations, node)
		}
	}
}

// jointTypeFor maps a node type to its joint category, or Undefined for
// non-joint types. Application-defined joint tokens take precedence.
func (e *extraction) jointTypeFor(typeName scene.Token) descriptor.ObjectType {
	if e.opts.CustomTokens != nil {
		for _, tok := range e.opts.CustomTokens.JointTokens {
			if typeName == tok {
				return descriptor.ObjectTypeCustomJoint
			}
		}
	}
	switch typeName {
	case TypeFixedJoint:
		return descriptor.ObjectTypeFixedJoint
	case TypeRevoluteJoint:
		return descriptor.ObjectTypeRevoluteJoint
	case TypePrismaticJoint:
		return descriptor.ObjectTypePrismaticJoint
	case TypeSphericalJoint:
		return descriptor.ObjectTypeSphericalJoint
	case TypeDistanceJoint:
		return descriptor.ObjectTypeDistanceJoint
	case TypeJoint:
		// the generic joint type maps to the fully configurable joint
		return descriptor.ObjectTypeD6Joint
	}
	return descriptor.ObjectTypeUndefined
}

func (e *extraction) isInstancer(node scene.Node) bool {
	if node.TypeName() == TypePointInstancer {
		return true
	}
	if e.opts.CustomTokens != nil {
		for _, tok := range e.opts.CustomTokens.InstancerTokens {
			if node.TypeName() == tok {
				return true
			}
		}
	}
	return false
}
