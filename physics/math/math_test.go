package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-4

func TestVec3Ops(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	assert.True(t, a.Add(b).Compare(NewVec3(5, 7, 9), tolerance))
	assert.True(t, b.Sub(a).Compare(NewVec3(3, 3, 3), tolerance))
	assert.InDelta(t, 32.0, a.Dot(b), tolerance)
	assert.True(t, a.Cross(b).Compare(NewVec3(-3, 6, -3), tolerance))
	assert.InDelta(t, 1.0, a.Normalize().Length(), tolerance)
	assert.True(t, NewVec3(-1, 2, -3).Abs().Compare(NewVec3(1, 2, 3), tolerance))
	assert.InDelta(t, 3.0, a.MaxComponent(), tolerance)
}

func TestQuaternionMulIdentity(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3(0, 1, 0), K_PI/3)
	id := NewQuatIdentity()

	assert.True(t, q.Mul(id).Compare(q, tolerance))
	assert.True(t, q.Mul(q.Inverse()).Compare(id, tolerance))
}

func TestQuaternionMatrixRoundTrip(t *testing.T) {
	cases := []Quaternion{
		NewQuatIdentity(),
		NewQuatFromAxisAngle(NewVec3(1, 0, 0), K_PI/4),
		NewQuatFromAxisAngle(NewVec3(0, 1, 0), K_PI/2),
		NewQuatFromAxisAngle(NewVec3(0, 0, 1), 3),
		NewQuatFromAxisAngle(NewVec3(1, 1, 1), 2.5),
		NewQuatFromAxisAngle(NewVec3(-1, 2, 0.5), 3.1),
	}
	for _, q := range cases {
		got := NewQuatFromMat4(q.ToMat4())
		assert.True(t, got.Compare(q, tolerance), "round trip failed for %+v got %+v", q, got)
	}
}

func TestMat4TranslationAndTransform(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	p := NewVec3(10, 20, 30).Transform(m)
	assert.True(t, p.Compare(NewVec3(11, 22, 33), tolerance))
}

func TestMat4Inverse(t *testing.T) {
	m := NewMat4FromTRS(
		NewVec3(3, -2, 5),
		NewQuatFromAxisAngle(NewVec3(0, 1, 0), 1.2),
		NewVec3(2, 3, 0.5),
	)
	id := m.Mul(m.Inverse())
	expected := NewMat4Identity()
	for i := range id.Data {
		assert.InDelta(t, expected.Data[i], id.Data[i], tolerance)
	}
}

func TestMat4Decompose(t *testing.T) {
	pos := NewVec3(1, -4, 2)
	rot := NewQuatFromAxisAngle(NewVec3(0.3, 1, -0.2), 0.8)
	scale := NewVec3(2, 0.5, 3)

	m := NewMat4FromTRS(pos, rot, scale)
	gotPos, gotRot, gotScale := m.Decompose()

	assert.True(t, gotPos.Compare(pos, tolerance))
	assert.True(t, gotScale.Compare(scale, tolerance))
	assert.True(t, gotRot.Compare(rot, tolerance), "rotation mismatch: want %+v got %+v", rot, gotRot)
}

func TestRemoveScaleShear(t *testing.T) {
	m := NewMat4FromTRS(
		NewVec3(5, 6, 7),
		NewQuatFromAxisAngle(NewVec3(1, 0, 0), 0.4),
		NewVec3(4, 9, 0.25),
	)
	r := m.RemoveScaleShear()

	assert.True(t, r.ScaleVec().Compare(NewVec3One(), tolerance))
	assert.True(t, r.Translation().Compare(NewVec3(5, 6, 7), tolerance))
}

func TestTransformWorldChain(t *testing.T) {
	parent := TransformFromPositionRotationScale(NewVec3(10, 0, 0), NewQuatIdentity(), NewVec3One())
	child := TransformFromPositionRotationScale(NewVec3(0, 5, 0), NewQuatIdentity(), NewVec3One())
	child.Parent = &parent

	world := child.GetWorld()
	assert.True(t, world.Translation().Compare(NewVec3(10, 5, 0), tolerance))
}

func TestTransformScaleInheritance(t *testing.T) {
	parent := TransformFromPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3(2, 2, 2))
	child := TransformFromPositionRotationScale(NewVec3(1, 0, 0), NewQuatIdentity(), NewVec3One())
	child.Parent = &parent

	world := child.GetWorld()
	assert.True(t, world.Translation().Compare(NewVec3(2, 0, 0), tolerance))
}
