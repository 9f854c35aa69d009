// Package logger provides leveled logging for vapord.
//
// Output format and destination are configured once at startup from the
// logging section of the configuration; all packages log through the
// package-level functions.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

const (
	// FormatText emits "[timestamp] [LEVEL] message" lines.
	FormatText = "text"

	// FormatJSON emits one JSON object per line with ts/level/msg fields.
	FormatJSON = "json"
)

var (
	currentLevel  = LevelInfo
	currentFormat = FormatText
	logger        = stdlog.New(os.Stdout, "", 0)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SetLevel sets the minimum level that will be emitted. Unknown values are
// ignored, leaving the current level in place.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel = LevelDebug
	case "INFO":
		currentLevel = LevelInfo
	case "WARN":
		currentLevel = LevelWarn
	case "ERROR":
		currentLevel = LevelError
	}
}

// SetFormat selects the output format (FormatText or FormatJSON). Unknown
// values are ignored.
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON:
		currentFormat = strings.ToLower(format)
	}
}

// SetOutput redirects log output. Used by main (file output) and tests.
func SetOutput(w io.Writer) {
	logger = stdlog.New(w, "", 0)
}

// Configure applies a complete logging configuration in one call.
//
// Output accepts "stdout", "stderr" or a file path; files are opened in
// append mode and created with permissions 0644 if absent.
func Configure(level, format, output string) error {
	SetLevel(level)
	SetFormat(format)

	switch output {
	case "", "stdout":
		SetOutput(os.Stdout)
	case "stderr":
		SetOutput(os.Stderr)
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log output %q: %w", output, err)
		}
		SetOutput(f)
	}

	return nil
}

func log(level Level, format string, v ...any) {
	if level < currentLevel {
		return
	}

	now := time.Now()
	message := fmt.Sprintf(format, v...)

	if currentFormat == FormatJSON {
		line, err := json.Marshal(map[string]string{
			"ts":    now.Format(time.RFC3339),
			"level": level.String(),
			"msg":   message,
		})
		if err != nil {
			// Fall back to text rather than dropping the message.
			logger.Printf("[%s] [%s] %s", now.Format("2006-01-02 15:04:05"), level.String(), message)
			return
		}
		logger.Println(string(line))
		return
	}

	logger.Printf("[%s] [%s] %s", now.Format("2006-01-02 15:04:05"), level.String(), message)
}

func Debug(format string, v ...any) {
	log(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	log(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	log(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	log(LevelError, format, v...)
}
