package logging

import (
	log "log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Level maps a level name to a slog level; unknown names fall back to info.
func Level(name string) log.Level {
	if lvl, ok := logLevelMap[strings.ToLower(name)]; ok {
		return lvl
	}
	return log.LevelInfo
}

// Setup installs a tint handler on stdout as the default logger.
func Setup(level string) {
	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: Level(level),
	})))
}
