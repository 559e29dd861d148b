// Package log owns the process logger. InitLogger tees JSON lines into
// <log dir>/assetgen.log with a console view on stderr, so stdout stays
// free for command output.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"phonics-audio/internal/appdirs"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

const logFileName = "assetgen.log"

var appDirsResolver = appdirs.Resolve

type logEnv struct {
	Level string `env:"ASSETGEN_LOG_LEVEL" envDefault:"info"`
}

// InitLogger builds Logger. When the log file cannot be opened the
// logger runs console-only and reports why.
func InitLogger() {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	console := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), consoleLevel())

	file, err := openLogFile()
	if err != nil {
		Logger = zap.New(console, zap.AddCaller())
		Logger.Warn("Log file unavailable, logging to console only", zap.Error(err))
		return
	}
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zap.DebugLevel)
	Logger = zap.New(zapcore.NewTee(fileCore, console), zap.AddCaller())
}

// consoleLevel reads ASSETGEN_LOG_LEVEL; unknown values mean info.
func consoleLevel() zapcore.Level {
	var le logEnv
	if err := env.Parse(&le); err != nil {
		return zapcore.InfoLevel
	}
	level, err := zapcore.ParseLevel(strings.TrimSpace(le.Level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func openLogFile() (*os.File, error) {
	path, err := ResolveLogFilePath()
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// ResolveLogDir is the resolved log dir, or the working directory when
// none is configured.
func ResolveLogDir() (string, error) {
	dirs, err := appDirsResolver()
	if err != nil {
		return "", fmt.Errorf("resolve log dir: %w", err)
	}
	if dir := strings.TrimSpace(dirs.LogDir); dir != "" {
		return dir, nil
	}
	return ".", nil
}

func ResolveLogFilePath() (string, error) {
	dir, err := ResolveLogDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

// GetLogger returns Logger, or a no-op logger before InitLogger has run.
func GetLogger() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}
