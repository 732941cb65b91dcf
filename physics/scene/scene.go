package scene

import (
	"strings"

	vmath "github.com/spaghettifunk/physika/physics/math"
)

// Path identifies a node in the scene graph. Paths are absolute and
// slash separated, e.g. "/world/robot/arm". The root node is "/" and the
// empty path is a sentinel meaning "no node".
type Path string

// Token is an interned-style name used for node types, capabilities,
// attribute names and relationship names.
type Token string

const (
	// RootPath is the path of the scene graph root.
	RootPath Path = "/"
	// EmptyPath marks the absence of a node, for example the world side
	// of a joint.
	EmptyPath Path = ""
)

// IsEmpty reports whether the path is the "no node" sentinel.
func (p Path) IsEmpty() bool {
	return p == EmptyPath
}

// IsRoot reports whether the path names the scene graph root.
func (p Path) IsRoot() bool {
	return p == RootPath
}

// Parent returns the parent path. The parent of the root and of the
// empty path is the empty path.
func (p Path) Parent() Path {
	if p.IsEmpty() || p.IsRoot() {
		return EmptyPath
	}
	idx := strings.LastIndexByte(string(p), '/')
	if idx <= 0 {
		return RootPath
	}
	return p[:idx]
}

// Name returns the last element of the path.
func (p Path) Name() string {
	if p.IsEmpty() || p.IsRoot() {
		return ""
	}
	idx := strings.LastIndexByte(string(p), '/')
	return string(p[idx+1:])
}

// Child returns the path of a direct child with the given name.
func (p Path) Child(name string) Path {
	if p.IsRoot() {
		return Path("/" + name)
	}
	return Path(string(p) + "/" + name)
}

// HasPrefix reports whether p equals prefix or lives underneath it.
func (p Path) HasPrefix(prefix Path) bool {
	if prefix.IsRoot() {
		return !p.IsEmpty()
	}
	if p == prefix {
		return true
	}
	return strings.HasPrefix(string(p), string(prefix)+"/")
}

// Graph is a read-only attributed scene graph. Implementations must be
// safe for concurrent readers; the pipeline never writes through it.
type Graph interface {
	// Node resolves a path to its node. The second result is false when
	// no node exists at the path.
	Node(path Path) (Node, bool)
	// UpAxis returns the vertical axis token of the scene, "X", "Y" or "Z".
	UpAxis() Token
	// MetersPerUnit returns the scale of one scene length unit in meters.
	MetersPerUnit() float32
}

// Node is a single attributed node of the graph. The typed attribute
// getters return the value and whether the attribute is authored; unauthored
// attributes leave descriptor defaults untouched.
type Node interface {
	Path() Path
	TypeName() Token
	// Capabilities lists the applied capability tokens in application order.
	Capabilities() []Token
	HasCapability(capability Token) bool
	// Children returns the paths of direct children in declaration order.
	Children() []Path

	Bool(name Token) (bool, bool)
	Float(name Token) (float32, bool)
	Vec3(name Token) (vmath.Vec3, bool)
	Quat(name Token) (vmath.Quaternion, bool)
	TokenValue(name Token) (Token, bool)
	StringValue(name Token) (string, bool)
	FloatSlice(name Token) ([]float32, bool)
	Vec3Slice(name Token) ([]vmath.Vec3, bool)

	// Relationship returns the target paths of a named relationship, in
	// authored order. A missing relationship yields a nil slice.
	Relationship(name Token) []Path
	// Collection returns the membership of a named collection, already
	// expanded to descendants.
	Collection(name Token) []Path

	// WorldTransform returns the node-to-world matrix.
	WorldTransform() vmath.Mat4
}
