package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
)

// Logger é o contrato de log estruturado do qual a aplicação depende.
// Handlers, serviços e repositórios só enxergam esta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// SlogLogger implementa Logger com um handler JSON do slog.
type SlogLogger struct {
	log  *slog.Logger
	exit func(int)
}

// NewLogger cria um Logger que escreve linhas JSON no stdout.
// Níveis desconhecidos caem em info.
func NewLogger(level string) Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter cria um Logger que escreve em w. Usado nos testes para capturar a saída.
func NewWithWriter(level string, w io.Writer) Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &SlogLogger{
		log:  slog.New(handler).With(slog.String("service", "employeehub")),
		exit: os.Exit,
	}
}

// Nop retorna um Logger que descarta tudo.
func Nop() Logger {
	return NewWithWriter("error", io.Discard)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs(fields)...)
}

func (l *SlogLogger) Info(msg string, fields map[string]interface{}) {
	l.log.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs(fields)...)
}

func (l *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs(fields)...)
}

func (l *SlogLogger) Error(msg string, err error) {
	l.log.LogAttrs(context.Background(), slog.LevelError, msg, errAttr(err)...)
}

// Fatal registra no nível error com fatal=true e encerra o processo.
func (l *SlogLogger) Fatal(msg string, err error) {
	l.log.LogAttrs(context.Background(), slog.LevelError, msg, append(errAttr(err), slog.Bool("fatal", true))...)
	l.exit(1)
}

// attrs ordena as chaves para que a saída seja estável.
func attrs(fields map[string]interface{}) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}

func errAttr(err error) []slog.Attr {
	if err == nil {
		return nil
	}
	return []slog.Attr{slog.String("error", err.Error())}
}
