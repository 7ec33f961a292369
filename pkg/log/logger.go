package log

import (
	"fmt"
	"log/slog"
	"os"
)

// SetupLogger configures the process-wide slog default with JSON output.
// Attribute keys are rewritten so the records are ingestible by common
// structured-log backends, and errors carrying cockroachdb stack traces get
// a stacktrace attribute attached.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

// ParseLogLevel converts a level name to a slog.Level. Unknown names are
// rejected so user-supplied values (CLI flags, config files) get a usage
// error instead of a crash.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", level)
	}
}

// ToLogLevel converts a level name to a slog.Level, panicking on unknown
// names. Only for hard-coded levels; parse user input with ParseLogLevel.
func ToLogLevel(level string) slog.Level {
	parsed, err := ParseLogLevel(level)
	if err != nil {
		panic(err.Error())
	}
	return parsed
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
