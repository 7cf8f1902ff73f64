package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/leonelquinteros/gotext"

	"liminal/pkg/config"
	"liminal/pkg/game/devtools"
	"liminal/pkg/game/gameplay"
	"liminal/pkg/game/renderer"
	"liminal/pkg/game/renderer/ebiten"
	"liminal/pkg/game/renderer/tui"
	"liminal/pkg/game/stage"
	"liminal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "liminal.yaml", "path to the YAML configuration file")
	rendererName := flag.String("renderer", "", "renderer backend: tui or ebiten (overrides config)")
	seed := flag.Int64("seed", 0, "anomaly seed; 0 seeds from the clock (overrides config)")
	templates := flag.String("templates", "", "room template catalog (overrides config)")
	dumpOnly := flag.Bool("dump", false, "build the first room, write a graph dump and exit")
	flag.Parse()

	if err := run(*configPath, *rendererName, *seed, *templates, *dumpOnly); err != nil {
		fmt.Fprintf(os.Stderr, "liminal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, rendererName string, seed int64, templates string, dumpOnly bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if rendererName != "" {
		cfg.Renderer = rendererName
	}
	if seed != 0 {
		cfg.Graph.Seed = seed
	}
	if templates != "" {
		cfg.Templates = templates
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Initialize(cfg.Logging); err != nil {
		return err
	}
	logger.Always("liminal starting", "renderer", cfg.Renderer, "config", configPath)
	defer logger.Always("liminal stopped")

	if err := cfg.ApplyBindings(); err != nil {
		return err
	}
	gotext.Configure(cfg.Locale.Path, cfg.Locale.Language, cfg.Locale.Domain)

	catalog := stage.DefaultCatalog()
	if cfg.Templates != "" {
		if catalog, err = stage.LoadCatalog(cfg.Templates); err != nil {
			return err
		}
	}

	var r renderer.Renderer
	switch cfg.Renderer {
	case config.RendererEbiten:
		r = ebiten.New()
	default:
		r = tui.New()
	}
	renderer.SetRenderer(r)

	g, err := gameplay.BuildGame(cfg, catalog)
	if err != nil {
		return err
	}

	if dumpOnly {
		path, err := devtools.DumpGraphToFile(g)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	if err := r.Init(); err != nil {
		return err
	}
	defer r.Close()

	return r.Run(g, gameplay.Hooks(g))
}
