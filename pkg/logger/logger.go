package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string // development -> consola legible; production -> JSON
	Level string // trace, debug, info, warn, error
	// Components nivel por componente ("checkout" -> "debug"). Sin entrada hereda Level.
	Components map[string]string
	// Output destino; nil = stdout.
	Output io.Writer
}

// Logger raíz de la aplicación. Cada caso de uso recibe un sublogger vía Component.
type Logger struct {
	zl     zerolog.Logger
	levels map[string]zerolog.Level
}

// New crea el logger raíz. En development usa salida legible; en el resto JSON.
func New(cfg Config) *Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stdout
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl

	levels := make(map[string]zerolog.Level, len(cfg.Components))
	for name, lvl := range cfg.Components {
		levels[strings.ToLower(strings.TrimSpace(name))] = parseLevel(lvl)
	}
	return &Logger{zl: zl, levels: levels}
}

// ParseComponentLevels lee "checkout=debug,cache=warn". Entradas mal formadas se ignoran.
func ParseComponentLevels(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		name, lvl, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		out[name] = strings.TrimSpace(lvl)
	}
	return out
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Zerolog devuelve el logger raíz.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// Component devuelve el sublogger con el campo component fijo y, si LOG_LEVELS lo define,
// su propio nivel.
func (l *Logger) Component(name string) zerolog.Logger {
	zl := l.zl.With().Str("component", name).Logger()
	if lvl, ok := l.levels[strings.ToLower(name)]; ok {
		zl = zl.Level(lvl)
	}
	return zl
}
