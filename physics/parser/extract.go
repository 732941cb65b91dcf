package parser

import (
	"runtime"

	"github.com/google/uuid"

	"github.com/spaghettifunk/physika/physics/core"
	"github.com/spaghettifunk/physika/physics/descriptor"
	"github.com/spaghettifunk/physika/physics/scene"
	"github.com/spaghettifunk/physika/physics/systems"
)

// ReportFn receives one category of parsed descriptors. paths and descs are
// index aligned and must not be retained past the call.
type ReportFn func(t descriptor.ObjectType, paths []scene.Path, descs []descriptor.Object, userData interface{})

// CustomTokens extends the recognized vocabulary with application-defined
// joint, shape and instancer tokens.
type CustomTokens struct {
	JointTokens     []scene.Token
	ShapeTokens     []scene.Token
	InstancerTokens []scene.Token
}

// Options tunes an extraction run.
type Options struct {
	// ExcludePaths prunes whole subtrees from traversal.
	ExcludePaths []scene.Path
	// CustomTokens extends the recognized token vocabulary.
	CustomTokens *CustomTokens
	// SimulationOwners restricts reporting to objects owned by the listed
	// simulation owners. nil disables the restriction entirely; an empty
	// path element stands for objects with no authored owner.
	SimulationOwners []scene.Path
}

// batchGrainSize is the number of nodes a single parallel task covers.
const batchGrainSize = 10

// extraction carries the state of one run through the pipeline stages.
type extraction struct {
	graph scene.Graph
	opts  Options
	jobs  *systems.JobSystem

	paths map[descriptor.ObjectType][]scene.Path
	descs map[descriptor.ObjectType][]descriptor.Object

	// bodyMap indexes parsed rigid bodies by path. It is built once after
	// parsing and treated as read-only by the parallel resolution passes.
	bodyMap map[scene.Path]*descriptor.RigidBody
	// jointMap indexes the shared joint state of every parsed joint.
	jointMap map[scene.Path]*descriptor.Joint
	// groupMembership maps a collision shape path to the collision groups
	// it belongs to, in sorted group path order.
	groupMembership map[scene.Path][]scene.Path
}

// Extract walks the scene graph from the include roots, parses every physics
// node into a descriptor, resolves cross-object references and reports the
// result one category batch at a time.
//
// It returns false only when the preconditions fail: a nil graph, a nil
// report callback or no include roots. Per-node parse failures are logged
// and surface as invalid descriptors instead.
func Extract(g scene.Graph, include []scene.Path, report ReportFn, userData interface{}, opts *Options) bool {
	if g == nil {
		core.LogError(core.ErrInvalidSceneGraph.Error())
		return false
	}
	if report == nil {
		core.LogError(core.ErrMissingReport.Error())
		return false
	}
	if len(include) == 0 {
		core.LogError(core.ErrNoIncludePaths.Error())
		return false
	}

	runID := uuid.NewString()
	core.LogDebug("extraction %s: starting with %d include roots", runID, len(include))

	jobs, err := systems.NewJobSystem(runtime.NumCPU(), 256)
	if err != nil {
		core.LogError("extraction %s: %v", runID, err)
		return false
	}
	defer jobs.Shutdown()

	e := &extraction{
		graph: g,
		jobs:  jobs,
		paths: make(map[descriptor.ObjectType][]scene.Path),
		descs: make(map[descriptor.ObjectType][]descriptor.Object),
	}
	if opts != nil {
		e.opts = *opts
	}

	clock := core.NewClock()
	stage := func(name string, fn func()) {
		clock.Start()
		fn()
		clock.Update()
		core.LogDebug("extraction %s: %s took %.3fms", runID, name, clock.ElapsedMilliseconds())
	}

	var b *buckets
	stage("classification", func() { b = e.classify(include) })
	stage("parsing", func() { e.parse(b) })
	stage("group resolution", func() { e.resolveGroups() })
	stage("body and shape resolution", func() { e.resolveShapes() })
	stage("joint resolution", func() { e.resolveJoints() })
	stage("articulation resolution", func() { e.resolveArticulations() })
	stage("ownership filtering", func() { e.filterBySimulationOwner() })
	stage("reporting", func() { e.report(report, userData) })

	return true
}

// report hands each non-empty category to the callback, in a fixed
// category order.
func (e *extraction) report(report ReportFn, userData interface{}) {
	for _, t := range descriptor.ReportOrder() {
		paths := e.paths[t]
		if len(paths) == 0 {
			continue
		}
		report(t, paths, e.descs[t], userData)
	}
}
