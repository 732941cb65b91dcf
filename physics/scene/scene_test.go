package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vmath "github.com/spaghettifunk/physika/physics/math"
)

func TestPathParentAndName(t *testing.T) {
	assert.Equal(t, Path("/a/b"), Path("/a/b/c").Parent())
	assert.Equal(t, RootPath, Path("/a").Parent())
	assert.Equal(t, EmptyPath, RootPath.Parent())
	assert.Equal(t, EmptyPath, EmptyPath.Parent())

	assert.Equal(t, "c", Path("/a/b/c").Name())
	assert.Equal(t, "", RootPath.Name())
	assert.Equal(t, Path("/a/b"), Path("/a").Child("b"))
	assert.Equal(t, Path("/a"), RootPath.Child("a"))
}

func TestPathHasPrefix(t *testing.T) {
	assert.True(t, Path("/a/b/c").HasPrefix(Path("/a/b")))
	assert.True(t, Path("/a/b").HasPrefix(Path("/a/b")))
	assert.False(t, Path("/a/bc").HasPrefix(Path("/a/b")))
	assert.True(t, Path("/a").HasPrefix(RootPath))
}

func TestWorldAutoCreatesAncestors(t *testing.T) {
	w := NewWorld("Z", 1.0)
	w.CreateNode("/a/b/c", "Cube")

	for _, p := range []Path{"/a", "/a/b"} {
		n, ok := w.Node(p)
		require.True(t, ok, "missing ancestor %s", p)
		assert.Equal(t, TokenXform, n.TypeName())
	}

	root, ok := w.Node(RootPath)
	require.True(t, ok)
	assert.Equal(t, []Path{"/a"}, root.Children())

	// re-creating an existing path updates the type without duplicating children
	w.CreateNode("/a/b", "Sphere")
	b, _ := w.Node("/a/b")
	assert.Equal(t, Token("Sphere"), b.TypeName())
	a, _ := w.Node("/a")
	assert.Equal(t, []Path{"/a/b"}, a.Children())
}

func TestWorldTransformChain(t *testing.T) {
	w := NewWorld("Z", 1.0)
	parent := w.CreateNode("/p", TokenXform)
	parent.SetLocalTransform(vmath.NewVec3(10, 0, 0), vmath.NewQuatIdentity(), vmath.NewVec3(2, 2, 2))
	child := w.CreateNode("/p/c", "Cube")
	child.SetLocalTransform(vmath.NewVec3(1, 0, 0), vmath.NewQuatIdentity(), vmath.NewVec3One())

	world := child.WorldTransform()
	assert.True(t, world.Translation().Compare(vmath.NewVec3(12, 0, 0), 1e-4))
}

func TestCollectionExpandsDescendants(t *testing.T) {
	w := NewWorld("Z", 1.0)
	w.CreateNode("/g/a", "Cube")
	w.CreateNode("/g/a/nested", "Sphere")
	w.CreateNode("/g/b", "Cube")
	holder := w.CreateNode("/group", "PhysicsCollisionGroup")
	holder.SetCollection("colliders", "/g/a", "/missing")

	members := holder.Collection("colliders")
	assert.Equal(t, []Path{"/g/a", "/g/a/nested"}, members)

	assert.Nil(t, holder.Collection("unknown"))
}

func TestCapabilitiesDeduplicated(t *testing.T) {
	w := NewWorld("Z", 1.0)
	n := w.CreateNode("/x", "Cube")
	n.AddCapability("PhysicsCollisionAPI")
	n.AddCapability("PhysicsCollisionAPI")
	n.AddCapability("PhysicsRigidBodyAPI")

	assert.Equal(t, []Token{"PhysicsCollisionAPI", "PhysicsRigidBodyAPI"}, n.Capabilities())
	assert.True(t, n.HasCapability("PhysicsRigidBodyAPI"))
	assert.False(t, n.HasCapability("PhysicsArticulationRootAPI"))
}

func TestLoadTOMLScene(t *testing.T) {
	data := []byte(`
up_axis = "Y"
meters_per_unit = 0.01

[[nodes]]
path = "/world/box"
type = "Cube"
capabilities = ["PhysicsCollisionAPI", "PhysicsRigidBodyAPI"]
position = [0.0, 2.0, 0.0]
scale = [1.0, 1.0, 1.0]

[nodes.bools]
"physics:collisionEnabled" = true

[nodes.floats]
"physics:size" = 2.0

[nodes.vec3s]
"physics:velocity" = [0.0, -1.0, 0.0]

[nodes.relationships]
"material:binding:physics" = ["/materials/rubber"]

[[nodes]]
path = "/materials/rubber"
type = "Material"
capabilities = ["PhysicsMaterialAPI"]

[nodes.floats]
"physics:dynamicFriction" = 0.6
`)
	w, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, Token("Y"), w.UpAxis())
	assert.InDelta(t, 0.01, w.MetersPerUnit(), 1e-6)

	box, ok := w.Node("/world/box")
	require.True(t, ok)
	assert.Equal(t, Token("Cube"), box.TypeName())
	assert.True(t, box.HasCapability("PhysicsRigidBodyAPI"))

	enabled, authored := box.Bool("physics:collisionEnabled")
	assert.True(t, authored)
	assert.True(t, enabled)

	vel, authored := box.Vec3("physics:velocity")
	assert.True(t, authored)
	assert.True(t, vel.Compare(vmath.NewVec3(0, -1, 0), 1e-6))

	assert.Equal(t, []Path{"/materials/rubber"}, box.Relationship("material:binding:physics"))
	assert.True(t, box.WorldTransform().Translation().Compare(vmath.NewVec3(0, 2, 0), 1e-4))

	_, ok = w.Node("/world")
	assert.True(t, ok, "intermediate node should be auto-created")
}

func TestLoadRejectsBadVectors(t *testing.T) {
	_, err := Load([]byte(`
[[nodes]]
path = "/x"
type = "Cube"
position = [1.0, 2.0]
`))
	assert.Error(t, err)
}
