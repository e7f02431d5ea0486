package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Pranav452/delivery/internal/config"
	"github.com/Pranav452/delivery/internal/logx"
)

// NewLogger builds the JSON logger selected by LOG_BACKEND.
func NewLogger(cfg *config.Config) logx.Logger {
	return newLogger(os.Stdout, cfg.Log)
}

func newLogger(w io.Writer, c config.Log) logx.Logger {
	level := strings.ToLower(strings.TrimSpace(c.Level))

	if c.Backend == "logrus" {
		l := logrus.New()
		l.SetOutput(w)
		l.SetFormatter(&logrus.JSONFormatter{})
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		l.SetLevel(lvl)
		return logx.NewLogrusAdapter(l)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	base := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	return logx.NewSlogAdapter(base)
}
