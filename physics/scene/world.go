package scene

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	vmath "github.com/spaghettifunk/physika/physics/math"
)

// TokenXform is the type assigned to auto-created intermediate nodes.
const TokenXform Token = "Xform"

// World is an in-memory Graph used by the loader, the testbed and the
// tests. Nodes carry a local TRS transform; the world transform of a node
// is its local matrix composed with the parent chain.
//
// Building the world is not goroutine safe. Once built it is read-only
// and safe for concurrent readers.
type World struct {
	upAxis        Token
	metersPerUnit float32
	nodes         map[Path]*WorldNode
}

func NewWorld(upAxis Token, metersPerUnit float32) *World {
	if upAxis == "" {
		upAxis = "Z"
	}
	if metersPerUnit <= 0 {
		metersPerUnit = 1.0
	}
	w := &World{
		upAxis:        upAxis,
		metersPerUnit: metersPerUnit,
		nodes:         make(map[Path]*WorldNode),
	}
	w.nodes[RootPath] = newWorldNode(w, RootPath, TokenXform)
	return w
}

func (w *World) UpAxis() Token          { return w.upAxis }
func (w *World) MetersPerUnit() float32 { return w.metersPerUnit }

func (w *World) Node(path Path) (Node, bool) {
	n, ok := w.nodes[path]
	if !ok {
		return nil, false
	}
	return n, true
}

// Paths returns every node path in the world in sorted order.
func (w *World) Paths() []Path {
	paths := maps.Keys(w.nodes)
	slices.Sort(paths)
	return paths
}

// CreateNode adds a node at the given path and returns it for attribute
// population. Missing ancestors are created as plain transform nodes.
// Creating a path twice returns the existing node with its type updated.
func (w *World) CreateNode(path Path, typeName Token) *WorldNode {
	if path.IsEmpty() {
		return nil
	}
	if existing, ok := w.nodes[path]; ok {
		existing.typeName = typeName
		return existing
	}

	parentPath := path.Parent()
	var parent *WorldNode
	if !parentPath.IsEmpty() {
		parent = w.CreateNode(parentPath, TokenXform)
	}

	n := newWorldNode(w, path, typeName)
	w.nodes[path] = n
	if parent != nil {
		parent.children = append(parent.children, path)
		n.transform.Parent = &parent.transform
	}
	return n
}

// WorldNode is the mutable node type backing World.
type WorldNode struct {
	world    *World
	path     Path
	typeName Token

	capabilities []Token
	capSet       map[Token]struct{}
	children     []Path

	transform vmath.Transform

	bools       map[Token]bool
	floats      map[Token]float32
	vec3s       map[Token]vmath.Vec3
	quats       map[Token]vmath.Quaternion
	tokens      map[Token]Token
	strings     map[Token]string
	floatSlices map[Token][]float32
	vec3Slices  map[Token][]vmath.Vec3

	relationships map[Token][]Path
	collections   map[Token][]Path
}

func newWorldNode(w *World, path Path, typeName Token) *WorldNode {
	return &WorldNode{
		world:         w,
		path:          path,
		typeName:      typeName,
		capSet:        make(map[Token]struct{}),
		transform:     vmath.TransformCreate(),
		bools:         make(map[Token]bool),
		floats:        make(map[Token]float32),
		vec3s:         make(map[Token]vmath.Vec3),
		quats:         make(map[Token]vmath.Quaternion),
		tokens:        make(map[Token]Token),
		strings:       make(map[Token]string),
		floatSlices:   make(map[Token][]float32),
		vec3Slices:    make(map[Token][]vmath.Vec3),
		relationships: make(map[Token][]Path),
		collections:   make(map[Token][]Path),
	}
}

func (n *WorldNode) Path() Path      { return n.path }
func (n *WorldNode) TypeName() Token { return n.typeName }

func (n *WorldNode) Capabilities() []Token { return n.capabilities }

func (n *WorldNode) HasCapability(capability Token) bool {
	_, ok := n.capSet[capability]
	return ok
}

func (n *WorldNode) Children() []Path { return n.children }

func (n *WorldNode) Bool(name Token) (bool, bool) {
	v, ok := n.bools[name]
	return v, ok
}

func (n *WorldNode) Float(name Token) (float32, bool) {
	v, ok := n.floats[name]
	return v, ok
}

func (n *WorldNode) Vec3(name Token) (vmath.Vec3, bool) {
	v, ok := n.vec3s[name]
	return v, ok
}

func (n *WorldNode) Quat(name Token) (vmath.Quaternion, bool) {
	v, ok := n.quats[name]
	return v, ok
}

func (n *WorldNode) TokenValue(name Token) (Token, bool) {
	v, ok := n.tokens[name]
	return v, ok
}

func (n *WorldNode) StringValue(name Token) (string, bool) {
	v, ok := n.strings[name]
	return v, ok
}

func (n *WorldNode) FloatSlice(name Token) ([]float32, bool) {
	v, ok := n.floatSlices[name]
	return v, ok
}

func (n *WorldNode) Vec3Slice(name Token) ([]vmath.Vec3, bool) {
	v, ok := n.vec3Slices[name]
	return v, ok
}

func (n *WorldNode) Relationship(name Token) []Path {
	return n.relationships[name]
}

// Collection expands a named collection to its targets plus every
// descendant of each target, in sorted order without duplicates.
func (n *WorldNode) Collection(name Token) []Path {
	targets, ok := n.collections[name]
	if !ok {
		return nil
	}
	members := make(map[Path]struct{})
	for _, target := range targets {
		if _, exists := n.world.nodes[target]; !exists {
			continue
		}
		n.world.collectSubtree(target, members)
	}
	out := maps.Keys(members)
	slices.Sort(out)
	return out
}

func (w *World) collectSubtree(path Path, out map[Path]struct{}) {
	if _, seen := out[path]; seen {
		return
	}
	out[path] = struct{}{}
	node, ok := w.nodes[path]
	if !ok {
		return
	}
	for _, child := range node.children {
		w.collectSubtree(child, out)
	}
}

func (n *WorldNode) WorldTransform() vmath.Mat4 {
	return n.transform.GetWorld()
}

// Builder methods, used while constructing a world.

func (n *WorldNode) AddCapability(capability Token) *WorldNode {
	if _, ok := n.capSet[capability]; !ok {
		n.capabilities = append(n.capabilities, capability)
		n.capSet[capability] = struct{}{}
	}
	return n
}

func (n *WorldNode) SetLocalTransform(position vmath.Vec3, rotation vmath.Quaternion, scale vmath.Vec3) *WorldNode {
	parent := n.transform.Parent
	n.transform = vmath.TransformFromPositionRotationScale(position, rotation, scale)
	n.transform.Parent = parent
	return n
}

func (n *WorldNode) SetBool(name Token, v bool) *WorldNode {
	n.bools[name] = v
	return n
}

func (n *WorldNode) SetFloat(name Token, v float32) *WorldNode {
	n.floats[name] = v
	return n
}

func (n *WorldNode) SetVec3(name Token, v vmath.Vec3) *WorldNode {
	n.vec3s[name] = v
	return n
}

func (n *WorldNode) SetQuat(name Token, v vmath.Quaternion) *WorldNode {
	n.quats[name] = v
	return n
}

func (n *WorldNode) SetToken(name Token, v Token) *WorldNode {
	n.tokens[name] = v
	return n
}

func (n *WorldNode) SetString(name Token, v string) *WorldNode {
	n.strings[name] = v
	return n
}

func (n *WorldNode) SetFloatSlice(name Token, v []float32) *WorldNode {
	n.floatSlices[name] = v
	return n
}

func (n *WorldNode) SetVec3Slice(name Token, v []vmath.Vec3) *WorldNode {
	n.vec3Slices[name] = v
	return n
}

func (n *WorldNode) SetRelationship(name Token, targets ...Path) *WorldNode {
	n.relationships[name] = targets
	return n
}

func (n *WorldNode) SetCollection(name Token, targets ...Path) *WorldNode {
	n.collections[name] = targets
	return n
}
