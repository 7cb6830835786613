// terrainview renders, inspects and edits destructible terrain scenes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/scene"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/internal/view"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	command := args[0]
	args = args[1:]

	// The interactive view owns the terminal, so it logs to the file only.
	if command == "view" {
		err = initFileLogger(cfg)
	} else {
		err = logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	}
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	switch command {
	case "render":
		err = cmdRender(cfg, args)
	case "bounds":
		err = cmdBounds(cfg, args)
	case "dig":
		err = cmdDig(cfg, args)
	case "view":
		err = cmdView(cfg, args)
	case "config":
		err = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}
}

func printUsage() {
	fmt.Println(`terrainview - destructible terrain scene tool

Usage:
  terrainview [flags] <command> [options]

Commands:
  render <scene.yaml>                 Print every body as ASCII cells
  bounds <scene.yaml>                 Show world bounds and cell counts
  dig [-x X] [-y Y] [-r R] <scene>    Dig a hole and print the result
  view <scene.yaml>                   Open the interactive terminal view
  config [-save] [-o path]            Print or save the effective config

Flags:
  -config <path>     Config file (default ./terrain.yaml)
  -debug             Enable debug logging
  -log-file <path>   Write logs to a rotating file
  -max-extent <n>    Maximum grid extent in cells (0 = unlimited)
  -metrics <addr>    Serve Prometheus metrics on addr

Examples:
  terrainview render cave.yaml
  terrainview dig -x 0 -y 0 -r 0.5 cave.yaml
  terrainview -metrics :9100 view cave.yaml
  terrainview -max-extent 2048 config -save`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func initFileLogger(cfg *config.Config) error {
	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	return logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, nil)
}

// loadActors reads a scene file and rasterizes every body in it.
func loadActors(cfg *config.Config, path string, metrics *terrain.Metrics) ([]*scene.Actor, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	material, err := cfg.Material()
	if err != nil {
		return nil, err
	}
	actors, err := s.Build(material,
		terrain.WithLogger(logger.Named("terrain")),
		terrain.WithMetrics(metrics),
		terrain.WithMaxExtent(cfg.Terrain.MaxExtent),
	)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("scene loaded", zap.String("path", path), zap.Int("bodies", len(actors)))
	return actors, nil
}

func sceneArg(fs *flag.FlagSet, usage string) (string, error) {
	if fs.NArg() < 1 {
		return "", errors.New("usage: terrainview " + usage)
	}
	return fs.Arg(0), nil
}

func cmdRender(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	fs.Parse(args)
	path, err := sceneArg(fs, "render <scene.yaml>")
	if err != nil {
		return err
	}

	actors, err := loadActors(cfg, path, nil)
	if err != nil {
		return err
	}
	for _, a := range actors {
		fmt.Printf("%s (%s)\n", a.Name, a.Material())
		fmt.Print(view.ASCII(a.Surface))
		fmt.Println()
	}
	return nil
}

func cmdBounds(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bounds", flag.ExitOnError)
	fs.Parse(args)
	path, err := sceneArg(fs, "bounds <scene.yaml>")
	if err != nil {
		return err
	}

	actors, err := loadActors(cfg, path, nil)
	if err != nil {
		return err
	}
	fmt.Printf("%-12s %-8s %8s %10s  %s\n", "BODY", "MATERIAL", "CELLS", "PERIMETER", "BOUNDS")
	for _, a := range actors {
		fmt.Printf("%-12s %-8s %8d %10d  %v\n",
			a.Name, a.Material(), a.SolidCount(), view.Perimeter(a.Surface), a.Bounds())
	}
	return nil
}

func cmdDig(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dig", flag.ExitOnError)
	x := fs.Float64("x", 0, "Hole centre X in world units")
	y := fs.Float64("y", 0, "Hole centre Y in world units")
	r := fs.Float64("r", float64(cfg.Viewer.DigRadius), "Hole radius in world units")
	fs.Parse(args)
	path, err := sceneArg(fs, "dig [-x X] [-y Y] [-r R] <scene.yaml>")
	if err != nil {
		return err
	}

	actors, err := loadActors(cfg, path, nil)
	if err != nil {
		return err
	}
	center := math.V2(float32(*x), float32(*y))
	for _, a := range actors {
		removed := a.Dig(center, float32(*r))
		total := 0
		for _, n := range removed {
			total += n
		}
		if total == 0 {
			continue
		}
		fmt.Printf("%s: removed %d cells\n", a.Name, total)
		for _, c := range []terrain.Cell{terrain.Dirt, terrain.Rock, terrain.Sand} {
			if removed[c] > 0 {
				fmt.Printf("  %-6s %d\n", c, removed[c])
			}
		}
		a.Compact()
		fmt.Print(view.ASCII(a.Surface))
		fmt.Println()
	}
	return nil
}

func cmdView(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Parse(args)
	path, err := sceneArg(fs, "view <scene.yaml>")
	if err != nil {
		return err
	}

	var metrics *terrain.Metrics
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		metrics = terrain.NewMetrics(reg)
		go serveMetrics(cfg.Metrics.Addr, reg)
	}

	actors, err := loadActors(cfg, path, metrics)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	v := view.New(screen, actors, view.Options{
		DigRadius:  cfg.Viewer.DigRadius,
		EmitRadius: cfg.Viewer.EmitRadius,
		Logger:     logger.Named("view"),
	})
	v.Run(cfg.Viewer.FPS)
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Save to the user config directory")
	out := fs.String("o", "", "Save to this path instead")
	fs.Parse(args)

	switch {
	case *out != "":
		if err := cfg.SaveTo(*out); err != nil {
			return err
		}
		fmt.Printf("Saved config to %s\n", *out)
	case *save:
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved config to %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	default:
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Log.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Log.Error("metrics server stopped", zap.Error(err))
	}
}
