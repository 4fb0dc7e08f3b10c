package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

// Setup points logrus at a rotating file mirrored to stdout and returns
// that writer so the HTTP access log can share it.
func Setup(file, level string) io.Writer {
	// 1) Lumberjack for file rotation
	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 7,  // keep up to 7 old files
		MaxAge:     7,  // days
		Compress:   true,
	}
	out := io.MultiWriter(os.Stdout, rotator)

	// 2) Configure Logrus to write to both
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logrus.WithField("level", level).Warn("unknown LOG_LEVEL, using info")
	}
	logrus.SetLevel(lvl)
	return out
}
