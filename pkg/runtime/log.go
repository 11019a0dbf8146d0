package runtime

import (
	"fmt"
	"log/slog"
	"os"
)

// FileLogger opens path for appending and returns a text slog.Logger
// writing to it, plus a close function. Stderr belongs to the terminal
// while an app runs, so file logging is the usual way to debug a live
// UI:
//
//	logger, closeLog, err := runtime.FileLogger("tern.log", slog.LevelDebug)
//	if err != nil { ... }
//	defer closeLog()
//	app := runtime.New(be, root, runtime.WithLogger(logger))
func FileLogger(path string, level slog.Level) (*slog.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(h), f.Close, nil
}
