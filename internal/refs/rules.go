package refs

import (
	"regexp"
	"strings"
)

// entityIDPattern matches the entity-ID shape inside free-form
// strings, word-bounded on both sides.
var entityIDPattern = regexp.MustCompile(`\b[a-z_]+\.[a-z0-9_]+\b`)

// skipKeys are map keys whose values are never scanned or rewritten.
// "path" carries blueprint file paths ("Blackshome/sensor-light.yaml"),
// "action" and "service" carry service-call identifiers. Blueprint
// input sections are scanned; they do contain entity IDs.
var skipKeys = map[string]bool{
	"path":    true,
	"action":  true,
	"service": true,
}

// knownServices are suffixes that name service calls rather than
// entities. "light.turn_on" is a call; "light.kitchen_lamp" is a
// reference.
var knownServices = map[string]bool{
	"toggle":             true,
	"turn_on":            true,
	"turn_off":           true,
	"reload":             true,
	"set_value":          true,
	"set_datetime":       true,
	"set_options":        true,
	"increment":          true,
	"decrement":          true,
	"set_cover_position": true,
	"open_cover":         true,
	"close_cover":        true,
	"stop_cover":         true,
	"set_hvac_mode":      true,
	"set_temperature":    true,
	"set_fan_mode":       true,
	"set_preset_mode":    true,
	"set_humidity":       true,
	"play_media":         true,
	"media_play":         true,
	"media_pause":        true,
	"media_stop":         true,
	"media_next_track":   true,
	"media_previous_track": true,
	"volume_up":          true,
	"volume_down":        true,
	"volume_set":         true,
	"volume_mute":        true,
	"select_source":      true,
	"select_option":      true,
	"press":              true,
	"start":              true,
	"cancel":             true,
	"pause":              true,
	"finish":             true,
	"trigger":            true,
	"lock":               true,
	"unlock":             true,
	"open":               true,
	"close":              true,
}

// validDomains is the fixed allow-list of domains treated as entity
// references. Tokens with any other prefix are ignored.
var validDomains = map[string]bool{
	"automation":     true,
	"binary_sensor":  true,
	"button":         true,
	"calendar":       true,
	"camera":         true,
	"climate":        true,
	"cover":          true,
	"device_tracker": true,
	"fan":            true,
	"group":          true,
	"humidifier":     true,
	"input_boolean":  true,
	"input_button":   true,
	"input_datetime": true,
	"input_number":   true,
	"input_select":   true,
	"input_text":     true,
	"light":          true,
	"lock":           true,
	"media_player":   true,
	"notify":         true,
	"number":         true,
	"person":         true,
	"remote":         true,
	"scene":          true,
	"schedule":       true,
	"script":         true,
	"select":         true,
	"sensor":         true,
	"siren":          true,
	"sun":            true,
	"switch":         true,
	"timer":          true,
	"update":         true,
	"vacuum":         true,
	"water_heater":   true,
	"weather":        true,
	"zone":           true,
}

// IsEntityReference reports whether s has the shape of an entity
// reference: a dot-separated token whose domain is in the allow-list
// and whose suffix is not a known service-call name.
func IsEntityReference(s string) bool {
	domain, object, ok := strings.Cut(s, ".")
	if !ok || object == "" {
		return false
	}
	if !validDomains[domain] {
		return false
	}
	return !knownServices[object]
}

// isPathLike reports whether a string is a filesystem path rather
// than free text. Blueprint path fields contain dot-separated tokens
// that must not be misread as entity references.
func isPathLike(s string) bool {
	return strings.Contains(s, "/") ||
		strings.HasSuffix(s, ".yaml") ||
		strings.HasSuffix(s, ".yml")
}
