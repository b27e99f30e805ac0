package logger

import (
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sets the global zerolog logger: human-readable console
// output plus a size-rotated file.
func Configure(level zerolog.Level) {
	zerolog.TimeFieldFormat = time.RFC3339

	file := &lumberjack.Logger{
		Filename:   "clubpool.log",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}

	multiWriter := zerolog.MultiLevelWriter(console, file)

	log.Logger = zerolog.New(multiWriter).
		With().
		Timestamp().
		Logger().
		Level(level)
}

// ParseLevel maps a config string to a zerolog level, defaulting to
// info on anything unrecognized.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
