package scribe

import (
	"fmt"
	"os"
	"strings"
)

// EnvVar is one KEY=value pair from an env file. Order is preserved so
// the emitted ENV instructions can reference earlier variables.
type EnvVar struct {
	Key   string
	Value string
}

// stripComment removes comments from an env file line. For KEY=value
// lines, only comments before '=' are stripped, so '#' in values (URLs,
// color codes) survives.
func stripComment(line string) string {
	if idx := strings.Index(line, "="); idx >= 0 {
		key := line[:idx]
		value := line[idx+1:]
		if cidx := strings.Index(key, "#"); cidx >= 0 {
			key = key[:cidx]
		}
		return strings.TrimSpace(key) + "=" + value
	}

	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// ParseEnvFile parses a file of KEY=value pairs into an ordered list.
// Blank lines and comment lines are skipped; values are taken as-is
// without variable expansion.
func ParseEnvFile(path string) ([]EnvVar, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}

	var vars []EnvVar
	for i, line := range strings.Split(string(bs), "\n") {
		lineNum := i + 1

		line = stripComment(line)
		if line == "" {
			continue
		}

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected KEY=value", lineNum)
		}

		key := strings.TrimSpace(k)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNum)
		}

		vars = append(vars, EnvVar{Key: key, Value: strings.TrimSpace(v)})
	}

	return vars, nil
}
