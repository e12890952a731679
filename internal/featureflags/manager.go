// Package featureflags evaluates operator-controlled toggles read from FEATURE_FLAGS.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	// DemoSeed loads the demo users and posts on startup when the database is empty.
	DemoSeed = "demo_seed"
	// MetricsDashboard mounts the fiber monitor page at /monitor.
	MetricsDashboard = "metrics_dashboard"
)

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

type rule struct {
	kind ruleKind
	pct  int
	raw  string
}

// Manager holds parsed flag rules.
// Example: "demo_seed=on,metrics_dashboard=off,new_feed=25%"
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated key=value list. Malformed entries are skipped.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		r, ok := parseRule(value)
		if !ok {
			continue
		}
		rules[key] = r
	}
	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{kind: ruleOn, raw: value}, true
	case "off", "false", "0":
		return rule{kind: ruleOff, raw: value}, true
	}
	pctRaw, ok := strings.CutSuffix(value, "%")
	if !ok {
		return rule{}, false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil {
		return rule{}, false
	}
	return rule{kind: rulePercent, pct: pct, raw: value}, true
}

// Enabled reports whether name is on for userID. Percentage rollouts hash
// the flag name and user so a user stays in the same bucket; userID 0 is
// only admitted at 100%.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}

	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		switch {
		case r.pct <= 0:
			return false
		case r.pct >= 100:
			return true
		case userID == 0:
			return false
		}
		return rolloutBucket(name, userID) < r.pct
	default:
		return false
	}
}

// Raw returns a copy of the configured values keyed by flag name.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

// Names returns the configured flag names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.rules))
	for name := range m.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
