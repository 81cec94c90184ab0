// Package strings cleans list-valued settings read from the environment.
package strings

import (
	"strings"
)

// DedupeHosts trims each host:port entry, lowercases it and drops blanks and
// repeats. Order of first appearance is kept, so the first broker listed is
// still the first one dialed.
//
//	DedupeHosts([]string{" Kafka-1:9092", "kafka-1:9092", "", "kafka-2:9092 "})
//	// []string{"kafka-1:9092", "kafka-2:9092"}
func DedupeHosts(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		host := strings.ToLower(strings.TrimSpace(v))
		if host == "" {
			continue
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}
		out = append(out, host)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
