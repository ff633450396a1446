// Package logger implementa el logging del portal: una línea por evento
// con pares clave-valor, en texto plano o JSON según entorno.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level es el umbral mínimo de severidad que se emite.
type Level int

const (
	Info Level = iota
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Logger es lo que el resto del portal recibe inyectado.
type Logger interface {
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type stdLogger struct {
	mu    sync.Mutex
	out   *log.Logger
	level Level
	json  bool
	app   string
}

// NewFromEnv arma el logger desde el entorno:
// - LOG_LEVEL=info|warn|error (default info)
// - LOG_FORMAT=text|json (default text)
// - APP_NAME (opcional; viaja como campo app en cada línea)
func NewFromEnv() Logger {
	return &stdLogger{
		out:   log.New(os.Stdout, "", 0),
		level: ParseLevel(os.Getenv("LOG_LEVEL")),
		json:  strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json"),
		app:   strings.TrimSpace(os.Getenv("APP_NAME")),
	}
}

func (l *stdLogger) Info(msg string, fields map[string]any)  { l.log(Info, msg, fields) }
func (l *stdLogger) Warn(msg string, fields map[string]any)  { l.log(Warn, msg, fields) }
func (l *stdLogger) Error(msg string, fields map[string]any) { l.log(Error, msg, fields) }

func (l *stdLogger) log(lvl Level, msg string, fields map[string]any) {
	if lvl < l.level {
		return
	}

	entry := map[string]any{
		"ts":    time.Now().Format(time.RFC3339Nano),
		"level": lvl.String(),
		"msg":   msg,
	}
	if l.app != "" {
		entry["app"] = l.app
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		entry[k] = v
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.json {
		b, _ := json.Marshal(entry)
		l.out.Println(string(b))
		return
	}
	l.out.Println(textLine(entry))
}

// textLine ordena las keys para salida estable (útil en tests y grep).
func textLine(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}
