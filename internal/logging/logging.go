// Package logging sets up the global zerolog logger with two sinks: a
// console writer on stderr and a rotating file under the log directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init initializes the global logger. It runs before config.Load, so the
// log directory is resolved here from LOGS_FOLDER or the binary location.
func Init(verbose bool) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	dir, err := resolveDir()
	if err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "orgtwin.log"),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter()), fileWriter)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
	return nil
}

func consoleWriter() zerolog.ConsoleWriter {
	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}
}

// resolveDir picks the log directory and proves it is writable before the
// logger starts dropping lines into it.
func resolveDir() (string, error) {
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	}

	dir := os.Getenv("LOGS_FOLDER")
	if dir == "" {
		if exeDir != "" {
			dir = filepath.Join(exeDir, "logs")
		} else {
			dir = "logs"
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		return "", fmt.Errorf("log directory %q is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return dir, nil
}
