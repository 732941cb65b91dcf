package math

/**
 * @brief Creates and returns a new transform, using a zero
 * position, identity rotation and one scale, and a nil parent.
 */
func TransformCreate() Transform {
	return Transform{
		Position: NewVec3Zero(),
		Rotation: NewQuatIdentity(),
		Scale:    NewVec3One(),
	}
}

/**
 * @brief Creates a transform from the given position, rotation and scale.
 */
func TransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: rotation,
		Scale:    scale,
	}
}

/**
 * @brief Returns the local transformation matrix. Scale is applied first,
 * then rotation, then translation.
 */
func (t *Transform) GetLocal() Mat4 {
	return NewMat4FromTRS(t.Position, t.Rotation, t.Scale)
}

/**
 * @brief Obtains the world matrix of the given transform by walking the
 * parent chain.
 */
func (t *Transform) GetWorld() Mat4 {
	local := t.GetLocal()
	if t.Parent != nil {
		parent := t.Parent.GetWorld()
		return local.Mul(parent)
	}
	return local
}
