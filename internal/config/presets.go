package config

import "sort"

// Preset is a built-in scenario: a named list of command lines.
type Preset struct {
	Description string
	Commands    []string
}

var Presets = map[string]Preset{
	"demo": {
		Description: "status check, refused collection, then a collection facing east",
		Commands:    []string{"status", "collect", "activate", "collect", "rotate East", "status"},
	},
	"survey": {
		Description: "collect on each cardinal heading, then power down",
		Commands: []string{
			"activate",
			"collect",
			"rotate East", "collect",
			"rotate South", "collect",
			"rotate West", "collect",
			"deactivate",
			"collect",
			"status",
		},
	},
	"idle": {
		Description: "panels never come on; every collection is refused",
		Commands:    []string{"collect", "rotate Down", "collect", "status"},
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
