package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var log *slog.Logger

// FileOutput описывает ротацию лог-файла.
type FileOutput struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init инициализирует глобальный логгер
// env: "development" или "production"
func Init(env string) {
	InitWithOutput(env, nil)
}

// InitWithOutput дополнительно пишет логи в файл с ротацией, если file != nil.
func InitWithOutput(env string, file *FileOutput) {
	var out io.Writer = os.Stdout
	if file != nil && file.Path != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   true,
		})
	}

	log = slog.New(newHandler(env, out))
	slog.SetDefault(log)
}

func newHandler(env string, out io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		return slog.NewTextHandler(out, opts)
	case "test":
		opts.Level = slog.LevelWarn
		opts.AddSource = false
		return slog.NewTextHandler(out, opts)
	default:
		// Production: JSON формат для парсинга
		return slog.NewJSONHandler(out, opts)
	}
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		// Fallback если Init не вызван
		Init("development")
	}
	return log
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With создает новый логгер с дополнительными полями
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// WithError создает логгер с полем error
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
