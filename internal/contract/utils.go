package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/churnviz/schema"
)

// Color variables for console output.
var (
	PositiveColor = color.New(color.FgRed, color.Bold) // PositiveColor marks the churned cohort.
	NegativeColor = color.New(color.FgCyan)            // NegativeColor marks the retained cohort.
	HoldoutColor  = color.New(color.FgYellow)          // HoldoutColor marks held-out scores.
)

// GetColorLabel returns a colored series label for console output (table).
// Cohort labels get the cohort color, holdout rows get the holdout color.
func GetColorLabel(label string) string {
	switch {
	case label == schema.PositiveCohortLabel:
		return PositiveColor.Sprint(label)
	case label == schema.NegativeCohortLabel:
		return NegativeColor.Sprint(label)
	case strings.HasSuffix(label, " holdout"):
		return HoldoutColor.Sprint(label)
	default:
		return label
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ChartFileName returns the chart path to use when none is configured,
// such as "churnviz_bar_Geography.html".
func ChartFileName(kind schema.ChartKind, target string) string {
	name := "churnviz_" + string(kind)
	if target != "" {
		name += "_" + sanitizeFileToken(target)
	}
	return name + ".html"
}

func sanitizeFileToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for score storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".churnviz_scores.db"
	}
	return filepath.Join(homeDir, ".churnviz_scores.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
