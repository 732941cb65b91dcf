package scene

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	vmath "github.com/spaghettifunk/physika/physics/math"
)

// sceneFile is the on-disk TOML schema of a scene description.
type sceneFile struct {
	UpAxis        string     `toml:"up_axis"`
	MetersPerUnit float32    `toml:"meters_per_unit"`
	Nodes         []nodeFile `toml:"nodes"`
}

type nodeFile struct {
	Path         string   `toml:"path"`
	Type         string   `toml:"type"`
	Capabilities []string `toml:"capabilities"`

	Position []float32 `toml:"position"`
	Rotation []float32 `toml:"rotation"` // x y z w
	Scale    []float32 `toml:"scale"`

	Bools       map[string]bool        `toml:"bools"`
	Floats      map[string]float32     `toml:"floats"`
	Vec3s       map[string][]float32   `toml:"vec3s"`
	Quats       map[string][]float32   `toml:"quats"`
	Tokens      map[string]string      `toml:"tokens"`
	Strings     map[string]string      `toml:"strings"`
	FloatSlices map[string][]float32   `toml:"float_slices"`
	Vec3Slices  map[string][][]float32 `toml:"vec3_slices"`

	Relationships map[string][]string `toml:"relationships"`
	Collections   map[string][]string `toml:"collections"`
}

// LoadFile reads a TOML scene description from disk and builds a World.
func LoadFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Load builds a World from TOML scene data. Nodes are created in file order,
// so parents should be declared before children when child ordering matters.
func Load(data []byte) (*World, error) {
	var sf sceneFile
	if err := toml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	world := NewWorld(Token(sf.UpAxis), sf.MetersPerUnit)
	for i, nf := range sf.Nodes {
		if nf.Path == "" {
			return nil, fmt.Errorf("node %d has no path", i)
		}
		node := world.CreateNode(Path(nf.Path), Token(nf.Type))

		for _, capability := range nf.Capabilities {
			node.AddCapability(Token(capability))
		}

		position := vmath.NewVec3Zero()
		rotation := vmath.NewQuatIdentity()
		scale := vmath.NewVec3One()
		if v, err := toVec3(nf.Position); err != nil {
			return nil, fmt.Errorf("node %s position: %w", nf.Path, err)
		} else if nf.Position != nil {
			position = v
		}
		if q, err := toQuat(nf.Rotation); err != nil {
			return nil, fmt.Errorf("node %s rotation: %w", nf.Path, err)
		} else if nf.Rotation != nil {
			rotation = q
		}
		if v, err := toVec3(nf.Scale); err != nil {
			return nil, fmt.Errorf("node %s scale: %w", nf.Path, err)
		} else if nf.Scale != nil {
			scale = v
		}
		node.SetLocalTransform(position, rotation, scale)

		for name, v := range nf.Bools {
			node.SetBool(Token(name), v)
		}
		for name, v := range nf.Floats {
			node.SetFloat(Token(name), v)
		}
		for name, v := range nf.Vec3s {
			vec, err := toVec3(v)
			if err != nil {
				return nil, fmt.Errorf("node %s attribute %s: %w", nf.Path, name, err)
			}
			node.SetVec3(Token(name), vec)
		}
		for name, v := range nf.Quats {
			q, err := toQuat(v)
			if err != nil {
				return nil, fmt.Errorf("node %s attribute %s: %w", nf.Path, name, err)
			}
			node.SetQuat(Token(name), q)
		}
		for name, v := range nf.Tokens {
			node.SetToken(Token(name), Token(v))
		}
		for name, v := range nf.Strings {
			node.SetString(Token(name), v)
		}
		for name, v := range nf.FloatSlices {
			node.SetFloatSlice(Token(name), v)
		}
		for name, vs := range nf.Vec3Slices {
			out := make([]vmath.Vec3, 0, len(vs))
			for _, v := range vs {
				vec, err := toVec3(v)
				if err != nil {
					return nil, fmt.Errorf("node %s attribute %s: %w", nf.Path, name, err)
				}
				out = append(out, vec)
			}
			node.SetVec3Slice(Token(name), out)
		}
		for name, targets := range nf.Relationships {
			node.SetRelationship(Token(name), toPaths(targets)...)
		}
		for name, targets := range nf.Collections {
			node.SetCollection(Token(name), toPaths(targets)...)
		}
	}

	return world, nil
}

func toVec3(v []float32) (vmath.Vec3, error) {
	if v == nil {
		return vmath.NewVec3Zero(), nil
	}
	if len(v) != 3 {
		return vmath.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return vmath.NewVec3(v[0], v[1], v[2]), nil
}

func toQuat(v []float32) (vmath.Quaternion, error) {
	if v == nil {
		return vmath.NewQuatIdentity(), nil
	}
	if len(v) != 4 {
		return vmath.Quaternion{}, fmt.Errorf("expected 4 components, got %d", len(v))
	}
	return vmath.Quaternion{X: v[0], Y: v[1], Z: v[2], W: v[3]}, nil
}

func toPaths(in []string) []Path {
	out := make([]Path, 0, len(in))
	for _, s := range in {
		out = append(out, Path(s))
	}
	return out
}
