package parser

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/physika/physics/containers"
	"github.com/spaghettifunk/physika/physics/descriptor"
	"github.com/spaghettifunk/physika/physics/scene"
)

// Root selection weights. A fixed connection to the world dominates,
// excluded joints count less than simulated ones.
const (
	weightFixedToWorld    = 100000
	weightExcludedToWorld = 10000
	weightExcludedLink    = 1000
	weightLink            = 100
)

// articulationLink is one body in the joint connectivity graph of an
// articulation candidate.
type articulationLink struct {
	children      []scene.Path
	joints        []scene.Path
	rootJoint     scene.Path
	weight        uint32
	index         int
	hasFixedJoint bool
}

type articulationLinkMap map[scene.Path]*articulationLink

// resolveArticulations picks the root of every articulation candidate and
// collects its member bodies and joints. Candidates resolve independently
// and in parallel over a shared read-only body-joint index.
func (e *extraction) resolveArticulations() {
	descs := e.descs[descriptor.ObjectTypeArticulation]
	if len(descs) == 0 {
		return
	}

	bodyJoints := e.buildBodyJointIndex()
	e.jobs.ParallelFor(len(descs), 1, func(begin, end int) {
		for i := begin; i < end; i++ {
			a := descs[i].(*descriptor.Articulation)
			if a.Valid {
				e.resolveArticulation(a, bodyJoints)
			}
		}
	})
}

// buildBodyJointIndex maps every enabled, non-kinematic body to the enabled
// joints attached to it. Joints are visited in sorted path order so the
// per-body lists are deterministic.
func (e *extraction) buildBodyJointIndex() map[scene.Path][]*descriptor.Joint {
	index := make(map[scene.Path][]*descriptor.Joint, len(e.bodyMap))

	jointPaths := maps.Keys(e.jointMap)
	slices.Sort(jointPaths)
	for _, jp := range jointPaths {
		j := e.jointMap[jp]
		if !j.JointEnabled {
			continue
		}
		for _, side := range []scene.Path{j.Body0, j.Body1} {
			if side.IsEmpty() {
				continue
			}
			body, ok := e.bodyMap[side]
			if ok && body.RigidBodyEnabled && !body.Kinematic {
				index[side] = append(index[side], j)
			}
		}
	}
	return index
}

func (e *extraction) resolveArticulation(a *descriptor.Articulation, bodyJoints map[scene.Path][]*descriptor.Joint) {
	basePath := a.Path
	seeded := false

	// a candidate that is itself a body roots a floating articulation; a
	// candidate joint with one empty side roots a fixed one at that joint
	if _, isBody := e.bodyMap[a.Path]; isBody {
		a.RootPaths = append(a.RootPaths, a.Path)
		seeded = true
	} else if j, isJoint := e.jointMap[a.Path]; isJoint {
		if j.Body0.IsEmpty() || j.Body1.IsEmpty() {
			a.RootPaths = append(a.RootPaths, a.Path)
			if j.Body0.IsEmpty() {
				basePath = j.Body1
			} else {
				basePath = j.Body0
			}
			seeded = true
		}
	}

	if _, ok := e.graph.Node(basePath); !ok {
		return
	}

	// flood the joint connectivity graph from every body in the subtree,
	// one link map per connected component
	var linkMaps []articulationLinkMap
	var order []scene.Path
	e.scanForLinks(basePath, &linkMaps, bodyJoints, &order)

	jointSet := make(map[scene.Path]struct{})
	bodySet := make(map[scene.Path]struct{})

	for _, lm := range linkMaps {
		keys := maps.Keys(lm)
		slices.Sort(keys)

		var rootPath scene.Path
		var largestWeight uint32
		hasFixedJoint := false
		for _, k := range keys {
			link := lm[k]
			if link.hasFixedJoint {
				hasFixedJoint = true
			}
			if !seeded {
				candidate := k
				if !link.rootJoint.IsEmpty() {
					candidate = link.rootJoint
				}
				if link.weight > largestWeight {
					rootPath = candidate
					largestWeight = link.weight
				} else if link.weight == largestWeight {
					rootPath = earlierInOrder(order, rootPath, candidate)
				}
			}
			for _, jp := range link.joints {
				jointSet[jp] = struct{}{}
			}
			for _, child := range link.children {
				bodySet[child] = struct{}{}
			}
		}

		if !seeded {
			// no fixed connection to the world, take the center of the
			// connectivity graph to keep the simulation chain shallow
			if !hasFixedJoint {
				rootPath = centerOfGraph(lm, order)
			}
			if !rootPath.IsEmpty() {
				a.RootPaths = append(a.RootPaths, rootPath)
			}
		}
	}

	if len(a.RootPaths) == 0 {
		a.Valid = false
	}

	a.ArticulatedJoints = maps.Keys(jointSet)
	slices.Sort(a.ArticulatedJoints)
	a.ArticulatedBodies = maps.Keys(bodySet)
	slices.Sort(a.ArticulatedBodies)
}

// scanForLinks walks the subtree under basePath in pre-order, starting a new
// connectivity flood at every body not already claimed by a previous one.
// Claimed subtrees are pruned.
func (e *extraction) scanForLinks(basePath scene.Path, linkMaps *[]articulationLinkMap, bodyJoints map[scene.Path][]*descriptor.Joint, order *[]scene.Path) {
	for _, lm := range *linkMaps {
		if _, claimed := lm[basePath]; claimed {
			return
		}
	}

	node, ok := e.graph.Node(basePath)
	if !ok {
		return
	}

	if _, isBody := e.bodyMap[basePath]; isBody {
		lm := make(articulationLinkMap)
		index := 0
		e.floodLinks(basePath, lm, bodyJoints, &index, order)
		*linkMaps = append(*linkMaps, lm)
	}

	for _, child := range node.Children() {
		e.scanForLinks(child, linkMaps, bodyJoints, order)
	}
}

// floodLinks records the link for one body and recurses over its simulated
// joint edges. Edges to the world or to unjointed bodies add root weight
// instead of recursing.
func (e *extraction) floodLinks(linkPath scene.Path, lm articulationLinkMap, bodyJoints map[scene.Path][]*descriptor.Joint, index *int, order *[]scene.Path) {
	if _, done := lm[linkPath]; done {
		return
	}
	*order = append(*order, linkPath)

	joints, ok := bodyJoints[linkPath]
	if !ok {
		return
	}

	link := &articulationLink{index: *index}
	*index++
	lm[linkPath] = link

	for _, j := range joints {
		link.joints = append(link.joints, j.Path)

		_, body0Linked := bodyJoints[j.Body0]
		_, body1Linked := bodyJoints[j.Body1]
		if j.Body0.IsEmpty() || !body0Linked || j.Body1.IsEmpty() || !body1Linked {
			if j.ExcludeFromArticulation {
				link.weight += weightExcludedToWorld
			} else {
				link.weight += weightFixedToWorld
				link.rootJoint = j.Path
				link.hasFixedJoint = true
			}
			link.children = append(link.children, scene.EmptyPath)
			continue
		}

		other := j.Body1
		if j.Body0 != linkPath {
			other = j.Body0
		}
		link.children = append(link.children, other)
		if j.ExcludeFromArticulation {
			link.weight += weightExcludedLink
		} else {
			link.weight += weightLink
			e.floodLinks(other, lm, bodyJoints, index, order)
		}
	}
}

// earlierInOrder returns whichever of a and b was visited first. An empty
// path always loses.
func earlierInOrder(order []scene.Path, a, b scene.Path) scene.Path {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	for _, p := range order {
		if p == a {
			return a
		}
		if p == b {
			return b
		}
	}
	return a
}

// centerOfGraph picks the link with the smallest eccentricity in the
// connectivity graph. Ties go to the link with more children, then to the
// earliest visited.
func centerOfGraph(lm articulationLinkMap, order []scene.Path) scene.Path {
	n := len(lm)
	if n == 0 {
		return scene.EmptyPath
	}

	// flat n*n distance matrix, -1 marks unreachable
	dist := make([]int, n*n)
	for i := range dist {
		dist[i] = -1
	}

	keys := maps.Keys(lm)
	slices.Sort(keys)
	for _, k := range keys {
		markDistances(lm[k], lm, dist, n)
	}

	var best scene.Path
	bestEccentricity := -1
	bestChildren := -1
	for _, k := range keys {
		link := lm[k]
		eccentricity := 0
		for other := 0; other < n; other++ {
			if d := dist[link.index+other*n]; d > eccentricity {
				eccentricity = d
			}
		}

		switch {
		case bestEccentricity < 0 || eccentricity < bestEccentricity:
			best = k
			bestEccentricity = eccentricity
			bestChildren = len(link.children)
		case eccentricity == bestEccentricity && len(link.children) > bestChildren:
			best = k
			bestChildren = len(link.children)
		case eccentricity == bestEccentricity && len(link.children) == bestChildren:
			best = earlierInOrder(order, best, k)
		}
	}
	return best
}

// markDistances fills one row of the distance matrix with a breadth-first
// sweep from the given link.
func markDistances(start *articulationLink, lm articulationLinkMap, dist []int, n int) {
	frontier := containers.NewRingQueue[*articulationLink](n)

	dist[start.index+start.index*n] = 0
	_ = frontier.Enqueue(start)
	for !frontier.IsEmpty() {
		link, _ := frontier.Dequeue()
		d := dist[start.index+link.index*n]
		for _, childPath := range link.children {
			child, ok := lm[childPath]
			if !ok || dist[start.index+child.index*n] >= 0 {
				continue
			}
			dist[start.index+child.index*n] = d + 1
			_ = frontier.Enqueue(child)
		}
	}
}
