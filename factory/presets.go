package factory

import (
	"fmt"
	"sort"
)

// StandardRulesJSON is the canonical rule set: half-rate premium, $2000
// approval threshold, overtime and doubletime both deducted, full formula.
func StandardRulesJSON() string {
	return `{
  "name": "standard",
  "holiday_multiplier": 0.5,
  "approval_threshold": 2000,
  "deduction": "overtime_and_doubletime",
  "formula": "full"
}`
}

// LegacyRulesJSON reproduces the earlier calculation: only overtime is
// deducted from an overnight overlap and total pay leaves out doubletime
// and stipend.
func LegacyRulesJSON() string {
	return `{
  "name": "legacy",
  "holiday_multiplier": 0.5,
  "approval_threshold": 2000,
  "deduction": "overtime_only",
  "formula": "simple"
}`
}

var presets = map[string]func() string{
	"standard": StandardRulesJSON,
	"legacy":   LegacyRulesJSON,
}

// PresetJSON returns a named preset document.
func PresetJSON(name string) (string, error) {
	p, ok := presets[name]
	if !ok {
		return "", fmt.Errorf("unknown rules preset %q (have %v)", name, PresetNames())
	}
	return p(), nil
}

// PresetNames lists the presets in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
