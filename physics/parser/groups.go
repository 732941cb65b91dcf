package parser

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/physika/physics/descriptor"
	"github.com/spaghettifunk/physika/physics/scene"
)

// resolveGroups merges collision groups that share a merge name and
// computes which group every collision path belongs to.
func (e *extraction) resolveGroups() {
	paths := e.paths[descriptor.ObjectTypeCollisionGroup]
	descs := e.descs[descriptor.ObjectTypeCollisionGroup]
	if len(descs) == 0 {
		return
	}

	// Merge pass, single threaded. The first group seen with a merge name
	// becomes the representative; later groups with the same name are
	// absorbed into it and their slots removed.
	representatives := make(map[string]*descriptor.CollisionGroup)
	i := 0
	for i < len(descs) {
		g := descs[i].(*descriptor.CollisionGroup)
		name := g.MergeGroupName
		if name == "" {
			i++
			continue
		}
		rep, merged := representatives[name]
		if !merged {
			representatives[name] = g
			g.MergedGroups = append(g.MergedGroups, g.Path)
			i++
			continue
		}
		rep.MergedGroups = append(rep.MergedGroups, g.Path)
		rep.FilteredGroups = append(rep.FilteredGroups, g.FilteredGroups...)
		last := len(descs) - 1
		descs[i] = descs[last]
		descs = descs[:last]
		paths[i] = paths[last]
		paths = paths[:last]
	}
	e.paths[descriptor.ObjectTypeCollisionGroup] = paths
	e.descs[descriptor.ObjectTypeCollisionGroup] = descs

	// Membership pass: each group expands its collider collections in
	// parallel, merged groups union the collections of every absorbed group.
	members := make([][]scene.Path, len(descs))
	e.jobs.ParallelFor(len(descs), batchGrainSize, func(begin, end int) {
		for k := begin; k < end; k++ {
			members[k] = e.groupMembers(descs[k].(*descriptor.CollisionGroup))
		}
	})

	// Tag collisions with their groups, iterating groups in sorted path
	// order so the per-collision group lists are deterministic.
	order := make([]int, len(descs))
	for k := range order {
		order[k] = k
	}
	slices.SortFunc(order, func(a, b int) int {
		if paths[a] < paths[b] {
			return -1
		}
		if paths[a] > paths[b] {
			return 1
		}
		return 0
	})

	e.groupMembership = make(map[scene.Path][]scene.Path)
	for _, k := range order {
		for _, member := range members[k] {
			e.groupMembership[member] = append(e.groupMembership[member], paths[k])
		}
	}
}

func (e *extraction) groupMembers(g *descriptor.CollisionGroup) []scene.Path {
	if !g.Valid {
		return nil
	}
	sources := g.MergedGroups
	if len(sources) == 0 {
		sources = []scene.Path{g.Path}
	}

	set := make(map[scene.Path]struct{})
	for _, source := range sources {
		node, ok := e.graph.Node(source)
		if !ok {
			continue
		}
		for _, member := range node.Collection(CollectionColliders) {
			set[member] = struct{}{}
		}
	}
	out := maps.Keys(set)
	slices.Sort(out)
	return out
}
