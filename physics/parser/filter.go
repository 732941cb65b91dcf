package parser

import (
	"github.com/spaghettifunk/physika/physics/descriptor"
	"github.com/spaghettifunk/physika/physics/scene"
)

// filterBySimulationOwner removes objects not owned by the requested
// simulation owners. The restriction is off when no owner list was given;
// an empty list still restricts scene reporting. Materials and collision
// groups are never filtered, they carry no ownership.
func (e *extraction) filterBySimulationOwner() {
	if e.opts.SimulationOwners == nil {
		return
	}

	ownerSet := make(map[scene.Path]struct{}, len(e.opts.SimulationOwners))
	defaultOwner := false
	for _, owner := range e.opts.SimulationOwners {
		if owner.IsEmpty() {
			// the empty path stands for objects with no authored owner
			defaultOwner = true
		}
		ownerSet[owner] = struct{}{}
	}

	// scenes report only when they are a requested owner themselves
	e.removeWhere(descriptor.ObjectTypeScene, func(d descriptor.Object) bool {
		return !d.Desc().Valid || !containsPath(ownerSet, d.Desc().Path)
	})

	if len(e.opts.SimulationOwners) == 0 {
		return
	}

	ownedBy := func(owners []scene.Path) bool {
		if len(owners) == 0 {
			return defaultOwner
		}
		for _, owner := range owners {
			if containsPath(ownerSet, owner) {
				return true
			}
		}
		return false
	}

	// bodies establish which paths stay reportable
	reportedBodies := make(map[scene.Path]struct{})
	e.removeWhere(descriptor.ObjectTypeRigidBody, func(d descriptor.Object) bool {
		body := d.(*descriptor.RigidBody)
		if !body.Valid || !ownedBy(body.SimulationOwners) {
			return true
		}
		reportedBodies[body.Path] = struct{}{}
		return false
	})

	// shapes follow their body; static shapes carry their own owners
	for _, t := range shapeObjectTypes {
		e.removeWhere(t, func(d descriptor.Object) bool {
			s := d.(descriptor.ShapeObject).ShapeDesc()
			if !s.Valid {
				return true
			}
			if s.RigidBody.IsEmpty() {
				return !ownedBy(s.SimulationOwners)
			}
			_, kept := reportedBodies[s.RigidBody]
			return !kept
		})
	}

	// joints need every attached rigid body reported; the world side and
	// static collision anchors are free
	for _, t := range jointObjectTypes {
		e.removeWhere(t, func(d descriptor.Object) bool {
			j := d.(descriptor.JointObject).JointDesc()
			if !j.Valid {
				return true
			}
			for _, side := range []scene.Path{j.Body0, j.Body1} {
				if side.IsEmpty() {
					continue
				}
				if _, isBody := e.bodyMap[side]; !isBody {
					continue
				}
				if _, kept := reportedBodies[side]; !kept {
					return true
				}
			}
			return false
		})
	}

	// articulations need every member body reported
	e.removeWhere(descriptor.ObjectTypeArticulation, func(d descriptor.Object) bool {
		a := d.(*descriptor.Articulation)
		if !a.Valid {
			return true
		}
		for _, body := range a.ArticulatedBodies {
			if body.IsEmpty() {
				continue
			}
			if _, kept := reportedBodies[body]; !kept {
				return true
			}
		}
		return false
	})
}

func containsPath(set map[scene.Path]struct{}, p scene.Path) bool {
	_, ok := set[p]
	return ok
}

// removeWhere drops every descriptor the predicate rejects, keeping the
// path and descriptor slices index aligned. Iteration runs backwards with
// swap-and-truncate, order of survivors within the batch may change.
func (e *extraction) removeWhere(t descriptor.ObjectType, reject func(descriptor.Object) bool) {
	paths := e.paths[t]
	descs := e.descs[t]
	for i := len(descs) - 1; i >= 0; i-- {
		if !reject(descs[i]) {
			continue
		}
		last := len(descs) - 1
		descs[i] = descs[last]
		descs = descs[:last]
		paths[i] = paths[last]
		paths = paths[:last]
	}
	e.paths[t] = paths
	e.descs[t] = descs
}
