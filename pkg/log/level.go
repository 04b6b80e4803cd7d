package log

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is the logging level type.
type Level uint32

// These are the different logging levels.
const (
	// ErrorLevel level. Used for errors that should definitely be noted.
	ErrorLevel Level = iota
	// WarnLevel level. Non-critical entries that deserve eyes.
	WarnLevel
	// InfoLevel level. General operational entries about what's going on inside the application.
	InfoLevel
	// DebugLevel level. Usually only enabled when debugging. Very verbose logging.
	DebugLevel
	// TraceLevel level. Designates finer-grained informational events than the Debug.
	TraceLevel
)

// AllLevels exposes all logging levels.
var AllLevels = []Level{
	ErrorLevel,
	WarnLevel,
	InfoLevel,
	DebugLevel,
	TraceLevel,
}

var levelNames = map[Level]string{
	ErrorLevel: "error",
	WarnLevel:  "warn",
	InfoLevel:  "info",
	DebugLevel: "debug",
	TraceLevel: "trace",
}

var logrusLevels = map[Level]logrus.Level{
	ErrorLevel: logrus.ErrorLevel,
	WarnLevel:  logrus.WarnLevel,
	InfoLevel:  logrus.InfoLevel,
	DebugLevel: logrus.DebugLevel,
	TraceLevel: logrus.TraceLevel,
}

// String implements fmt.Stringer.
func (level Level) String() string {
	return levelNames[level]
}

// ToLogrusLevel converts the level to the logrus level.
func (level Level) ToLogrusLevel() logrus.Level {
	return logrusLevels[level]
}

// ParseLevel takes a string and returns the Level constant with that name.
func ParseLevel(str string) (Level, error) {
	for level, name := range levelNames {
		if strings.EqualFold(name, str) {
			return level, nil
		}
	}

	return InfoLevel, fmt.Errorf("invalid log level %q, supported levels: %s", str, strings.Join(levelNamesList(), ", "))
}

func levelNamesList() []string {
	names := make([]string, 0, len(AllLevels))
	for _, level := range AllLevels {
		names = append(names, level.String())
	}

	return names
}
