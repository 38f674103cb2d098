// Command enginedemo wires every package in this module into a runnable
// host: it loads a scene config, imports the configured models, builds a
// flat synthetic level with a navigation graph, and drives the simulation
// through the frame orchestrator. It exists as a smoke test for the wiring,
// not as a game — there is no content pipeline behind it.
package main

import (
	"flag"

	"github.com/oxyengine/charanim/config"
	"github.com/oxyengine/charanim/engine"
	"github.com/oxyengine/charanim/engine/asset"
	"github.com/oxyengine/charanim/engine/behavior"
	"github.com/oxyengine/charanim/engine/camera"
	"github.com/oxyengine/charanim/engine/collision"
	"github.com/oxyengine/charanim/engine/instance"
	"github.com/oxyengine/charanim/engine/light"
	"github.com/oxyengine/charanim/engine/nav"
	"github.com/oxyengine/charanim/engine/orchestrator"
	"github.com/oxyengine/charanim/engine/renderer"
	"github.com/oxyengine/charanim/engine/renderer/bind_group_provider"
	"github.com/oxyengine/charanim/engine/spatial"
	"github.com/oxyengine/charanim/engine/window"
	"github.com/oxyengine/charanim/enginelog"
)

var log = enginelog.New("enginedemo")

func main() {
	configPath := flag.String("config", "scene.yaml", "path to the scene config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config %s: %v", *configPath, err)
	}

	win := window.NewWindow(
		window.WithTitle("enginedemo"),
		window.WithWidth(1280),
		window.WithHeight(720),
	)

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)

	controller := camera.NewCameraController(
		camera.WithTarget(0, 0, 0),
		camera.WithRadius(12),
		camera.WithElevation(0.5),
	)
	cam := camera.NewCamera(
		camera.WithFov(60),
		camera.WithAspect(1280.0/720.0),
		camera.WithNear(0.1),
		camera.WithFar(1000),
		camera.WithController(controller),
	)

	instances := instance.NewRegistry()
	behaviors := behavior.NewRegistry()

	orcCfg := orchestrator.Config{
		Collision: collision.LevelConfig{
			MaxSlopeAngleDegrees: 45,
			MaxStairStepHeight:   0.3,
			GravityEnabled:       true,
			FootClearance:        0.02,
		},
		WorldBounds:        spatial.Box{Min: [3]float32{-100, -10, -100}, Max: [3]float32{100, 50, 100}},
		CollisionEnabled:   cfg.CollisionEnabled,
		InteractionEnabled: cfg.InteractionEnabled,
		IKEnabled:          cfg.IKEnabled,
		IKIterations:       cfg.IKIterations,
		NavigationEnabled:  cfg.NavigationEnabled,
		NarrowPhaseEnabled: true,
		OctreeThreshold:    8,
		OctreeMaxDepth:     6,
	}
	orc := orchestrator.New(instances, behaviors, cam, r, orcCfg)
	orc.SetLevel(buildFlatLevel(orcCfg.WorldBounds))

	sun := light.NewLight(light.LightTypeDirectional,
		light.WithDirection(-0.4, -1, -0.3),
		light.WithColor(1, 0.98, 0.92),
		light.WithIntensity(3),
		light.WithCastsShadows(true),
	)
	lightBuffer := bind_group_provider.NewBindGroupProvider("lights")
	orc.SetLights([]light.Light{sun}, [3]float32{0.05, 0.05, 0.07}, lightBuffer, 0)

	tileBuffer := bind_group_provider.NewBindGroupProvider("tileUniforms")
	orc.SetTileUniformsProvider(tileBuffer, 0)
	orc.SetSurfaceSize(1280, 720)

	loadedModels := make(map[string]asset.Model, len(cfg.Models))
	for _, mc := range cfg.Models {
		m, err := asset.Import(mc.Path)
		if err != nil {
			log.Printf("skipping model %s (%s): %v", mc.Name, mc.Path, err)
			continue
		}
		loadedModels[mc.Name] = m
	}

	for _, ic := range cfg.Instances {
		m, ok := loadedModels[ic.ModelName]
		if !ok {
			log.Printf("skipping instance referencing unknown model %s", ic.ModelName)
			continue
		}
		inst := instances.Add(m)
		inst.SetWorldPosition(ic.Position)
		inst.SetWorldRotation(ic.Rotation)
		inst.SetScale(ic.Scale)
		if ic.BehaviorName != "" {
			behaviors.AddInstance(inst.ID(), ic.BehaviorName)
		}
	}

	for _, bc := range cfg.Behaviors {
		g, err := behavior.LoadGraphFile(bc.Path)
		if err != nil {
			log.Printf("skipping behavior %s (%s): %v", bc.Name, bc.Path, err)
			continue
		}
		if err := behaviors.LoadGraph(g); err != nil {
			log.Printf("rejecting behavior %s: %v", bc.Name, err)
		}
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithTickRate(60),
	)
	win.SetResizeCallback(func(width, height int) {
		if r.CheckForResize(width, height) {
			cam.SetAspect(float32(width) / float32(height))
		}
		orc.SetSurfaceSize(width, height)
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		orc.RequestPick(x, y)
	})

	eng.SetTickCallback(func(deltaTime float32) {
		if err := orc.Update(deltaTime); err != nil {
			log.Printf("update: %v", err)
		}
		if id := orc.SelectedInstance(); id != 0 {
			pos := instances.GetByID(id).WorldPosition()
			controller.FollowTarget(pos[0], pos[1], pos[2], 5*deltaTime)
		}
	})
	eng.SetRenderCallback(func(deltaTime float32) {
		if err := orc.Render(nil, nil); err != nil {
			log.Printf("render: %v", err)
		}
	})

	eng.Run()
}

// buildFlatLevel synthesizes a single large two-triangle ground plane and
// its navigation graph, standing in for an imported level mesh so the
// orchestrator always has somewhere to query ground contact and a path
// graph to follow.
func buildFlatLevel(bounds spatial.Box) *orchestrator.Level {
	y := float32(0)
	corners := [4][3]float32{
		{bounds.Min[0], y, bounds.Min[2]},
		{bounds.Max[0], y, bounds.Min[2]},
		{bounds.Max[0], y, bounds.Max[2]},
		{bounds.Min[0], y, bounds.Max[2]},
	}
	up := [3]float32{0, 1, 0}
	walkable := []spatial.Triangle{
		spatial.NewTriangle(0, corners[0], corners[1], corners[2], up),
		spatial.NewTriangle(1, corners[0], corners[2], corners[3], up),
	}

	geometry := spatial.NewTriangleOctree(bounds, 8, 6, 0.01, walkable)

	return &orchestrator.Level{
		Name:     "flat",
		Bounds:   bounds,
		Geometry: geometry,
		Walkable: walkable,
		NavGraph: nav.BuildGraph(walkable),
	}
}
