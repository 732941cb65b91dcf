/*
Command line front end for the physics description extractor. Loads a TOML
scene, runs the extraction pipeline and prints the reported batches. With
--watch the scene file is re-extracted whenever it changes on disk and
--options points at a TOML file tuning the extraction.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/physika/physics/core"
	"github.com/spaghettifunk/physika/physics/descriptor"
	"github.com/spaghettifunk/physika/physics/parser"
	"github.com/spaghettifunk/physika/physics/scene"
	"github.com/spaghettifunk/physika/testbed"
)

// optionsFile is the on-disk TOML schema of the extraction options.
type optionsFile struct {
	ExcludePaths     []string `toml:"exclude_paths"`
	SimulationOwners []string `toml:"simulation_owners"`
	JointTokens      []string `toml:"joint_tokens"`
	ShapeTokens      []string `toml:"shape_tokens"`
	InstancerTokens  []string `toml:"instancer_tokens"`
}

var extractOpts *parser.Options

func main() {
	watch := flag.Bool("watch", false, "re-extract whenever the scene file changes")
	optionsPath := flag.String("options", "", "TOML file with extraction options")
	flag.Parse()

	if *optionsPath != "" {
		opts, err := loadOptions(*optionsPath)
		if err != nil {
			core.LogFatal("failed to load options %s: %v", *optionsPath, err)
		}
		extractOpts = opts
	}

	scenePath := flag.Arg(0)
	if scenePath == "" {
		core.LogInfo("no scene file given, extracting the built-in testbed scene")
		if !extractWorld(testbed.BuildWorld()) {
			os.Exit(1)
		}
		return
	}

	if !extractFile(scenePath) && !*watch {
		os.Exit(1)
	}
	if !*watch {
		return
	}

	if err := watchScene(scenePath); err != nil {
		core.LogFatal(err.Error())
	}
}

// watchScene blocks, re-running the extraction every time the scene file is
// rewritten, until the process is signalled to stop.
func watchScene(scenePath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// watch the directory, editors replace files instead of writing them
	if err := watcher.Add(filepath.Dir(scenePath)); err != nil {
		return err
	}
	core.LogInfo("watching %s for changes", scenePath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	target, _ := filepath.Abs(scenePath)
	for {
		select {
		case event := <-watcher.Events:
			name, _ := filepath.Abs(event.Name)
			if name != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			core.LogInfo("%s changed, re-extracting", scenePath)
			extractFile(scenePath)
		case err := <-watcher.Errors:
			core.LogError("watcher error: %v", err)
		case <-sigCh:
			return nil
		}
	}
}

func loadOptions(path string) (*parser.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var of optionsFile
	if err := toml.Unmarshal(data, &of); err != nil {
		return nil, err
	}

	opts := &parser.Options{ExcludePaths: toPaths(of.ExcludePaths)}
	if of.SimulationOwners != nil {
		opts.SimulationOwners = toPaths(of.SimulationOwners)
	}
	if len(of.JointTokens)+len(of.ShapeTokens)+len(of.InstancerTokens) > 0 {
		opts.CustomTokens = &parser.CustomTokens{
			JointTokens:     toTokens(of.JointTokens),
			ShapeTokens:     toTokens(of.ShapeTokens),
			InstancerTokens: toTokens(of.InstancerTokens),
		}
	}
	return opts, nil
}

func toPaths(in []string) []scene.Path {
	out := make([]scene.Path, 0, len(in))
	for _, s := range in {
		out = append(out, scene.Path(s))
	}
	return out
}

func toTokens(in []string) []scene.Token {
	out := make([]scene.Token, 0, len(in))
	for _, s := range in {
		out = append(out, scene.Token(s))
	}
	return out
}

func extractFile(path string) bool {
	world, err := scene.LoadFile(path)
	if err != nil {
		core.LogError("failed to load scene %s: %v", path, err)
		return false
	}
	return extractWorld(world)
}

func extractWorld(w *scene.World) bool {
	return parser.Extract(w, []scene.Path{scene.RootPath}, printBatch, nil, extractOpts)
}

func printBatch(t descriptor.ObjectType, paths []scene.Path, descs []descriptor.Object, _ interface{}) {
	core.LogInfo("%s: %d object(s)", t, len(paths))
	for i, p := range paths {
		if !descs[i].Desc().Valid {
			core.LogWarn("  %s (invalid)", p)
			continue
		}
		core.LogInfo("  %s", p)
	}
}
