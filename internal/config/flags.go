package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log-file", "", "Write logs to a rotating file")
	flagMaxExtent = flag.Int("max-extent", -1, "Maximum grid extent in cells (0 = unlimited)")
	flagMetrics   = flag.String("metrics", "", "Serve Prometheus metrics on this address")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagMaxExtent >= 0 {
		cfg.Terrain.MaxExtent = *flagMaxExtent
	}
	if *flagMetrics != "" {
		cfg.Metrics.Addr = *flagMetrics
	}
}
