package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const colorReset = "\033[0m"

// levelColors maps the slog.TextHandler level markers to ANSI colors.
var levelColors = []struct {
	marker string
	color  string
}{
	{"level=DEBUG", "\033[36m"},
	{"level=INFO", "\033[32m"},
	{"level=WARN", "\033[33m"},
	{"level=ERROR", "\033[31m"},
}

// colorWriter colorizes the level marker of each text log line. Colors are
// only applied when the destination is a terminal.
type colorWriter struct {
	w       io.Writer
	enabled bool
}

func (cw *colorWriter) Write(p []byte) (int, error) {
	if !cw.enabled {
		return cw.w.Write(p)
	}

	text := string(p)
	for _, lc := range levelColors {
		text = strings.ReplaceAll(text, lc.marker, lc.color+lc.marker+colorReset)
	}

	if _, err := cw.w.Write([]byte(text)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// isTerminal reports whether the writer is a character device.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// New builds the structured logger for the service. Development environments
// get colored text output; everything else gets JSON for log aggregation.
func New(appName, level, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "local", "dev", "development":
		handler = slog.NewTextHandler(&colorWriter{
			w:       os.Stdout,
			enabled: isTerminal(os.Stdout),
		}, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("app", appName)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
