package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// LevelAudit records movements of funds, between INFO and WARN.
	LevelAudit    = slog.Level(2)
	LevelCritical = slog.Level(12)
	LevelPanic    = slog.Level(14)
	LevelFatal    = slog.Level(16)
)

var levelNames = []struct {
	name  string
	level slog.Level
}{
	// highest first, levelName picks the first one not above the level
	{"FATAL", LevelFatal},
	{"PANIC", LevelPanic},
	{"CRITICAL", LevelCritical},
	{"ERROR", slog.LevelError},
	{"WARN", slog.LevelWarn},
	{"AUDIT", LevelAudit},
	{"INFO", slog.LevelInfo},
	{"DEBUG", slog.LevelDebug},
}

func levelName(l slog.Level) string {
	for _, n := range levelNames {
		if l >= n.level {
			if l == n.level {
				return n.name
			}
			return fmt.Sprintf("%s%+d", n.name, l-n.level)
		}
	}
	return l.String()
}

// ParseLevel parses names such as "info", "AUDIT" or "ERROR+2". An empty string is [slog.LevelInfo].
func ParseLevel(s string) (slog.Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return slog.LevelInfo, nil
	}
	name, offset := s, 0
	if i := strings.IndexAny(s, "+-"); i > 0 {
		n, err := strconv.Atoi(s[i:])
		if err != nil {
			return 0, errors.Wrapf(err, "invalid level offset in %q", s)
		}
		name, offset = s[:i], n
	}
	for _, n := range levelNames {
		if n.name == name {
			return n.level + slog.Level(offset), nil
		}
	}
	return 0, errors.Newf("unknown log level %q", s)
}

func levelAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 && attr.Key == LevelKey {
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String(attr.Key, levelName(l))
		}
	}
	return attr
}
