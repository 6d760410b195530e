package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"

	"github.com/KirkDiggler/trainer-api/internal/config"
)

// Init configures the standard logger: format, level, caller reporting
// and, when enabled, a daily rotated file next to stdout.
func Init(cfg config.LogConfig) error {
	return Configure(log.StandardLogger(), cfg)
}

// Configure applies cfg to l
func Configure(l *Logger, cfg config.LogConfig) error {
	switch cfg.Format {
	case "text":
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&log.JSONFormatter{})
	}

	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(log.InfoLevel)
		l.Warnf("invalid log level %q, fallback to info", cfg.Level)
	}

	l.SetReportCaller(cfg.ReportCaller)

	if !cfg.File.Enabled {
		return nil
	}

	writer, err := newRotatingWriter(cfg.File)
	if err != nil {
		return err
	}
	l.SetOutput(io.MultiWriter(os.Stdout, writer))

	return nil
}

func newRotatingWriter(cfg config.LogFileConfig) (io.Writer, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	filename := cfg.Filename
	if filename == "" {
		filename = "trainer-api"
	}

	maxAge := cfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 7
	}
	rotationDays := cfg.RotationDays
	if rotationDays <= 0 {
		rotationDays = 1
	}

	return rotatelogs.New(
		filepath.Join(dir, filename+".%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, filename+".log")),
		rotatelogs.WithMaxAge(time.Duration(maxAge)*24*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(rotationDays)*24*time.Hour),
	)
}
