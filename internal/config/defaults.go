package config

const (
	defaultLogDir          = "~/.local/share/sedgen/logs"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultWatchDir        = "~/.local/share/sedgen/incoming"
	defaultWatchDebounce   = 2
	defaultWatchAPIBind    = "127.0.0.1:7519"
	defaultWatchHistory    = 50
	defaultExtrapolateSEDs = true
)

func defaultWatchGlobs() []string {
	return []string{"*.cat", "*.txt"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Pipeline: Pipeline{
			Extrapolate: defaultExtrapolateSEDs,
		},
		Watch: Watch{
			Dir:             defaultWatchDir,
			Globs:           defaultWatchGlobs(),
			DebounceSeconds: defaultWatchDebounce,
			APIBind:         defaultWatchAPIBind,
			HistorySize:     defaultWatchHistory,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
