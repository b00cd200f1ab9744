package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePriority parses "name=rank,name=rank" into a rank per dependency type name.
func ParsePriority(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, rank, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("dependency priority %q: want name=rank", pair)
		}

		n, err := strconv.Atoi(strings.TrimSpace(rank))
		if err != nil {
			return nil, fmt.Errorf("dependency priority %q: %w", pair, err)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("dependency priority %q: %s ranked twice", pair, name)
		}
		out[name] = n
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("dependency priority is empty")
	}
	return out, nil
}
