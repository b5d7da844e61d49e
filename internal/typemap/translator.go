package typemap

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Translator resolves type keys to human-readable labels through the
// four-tier priority chain described in the package documentation.
//
// User mappings are loaded once at construction and written through to
// the repository on every change, so a new mapping is visible to
// subsequent lookups without a reload.
//
// All methods are safe for concurrent use.
type Translator struct {
	repo Repository

	mu   sync.RWMutex
	user map[string]string // lowercased type key -> label
}

// TypeInfo describes one known type key for UI enumeration.
type TypeInfo struct {
	Key           string  `json:"key"`
	SystemDefault *string `json:"system_default"`
	UserMapping   *string `json:"user_mapping"`
	Source        string  `json:"source"`
}

// NewTranslator creates a Translator backed by the given repository
// and loads the persisted user mappings.
func NewTranslator(ctx context.Context, repo Repository) (*Translator, error) {
	user, err := repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading user type mappings: %w", err)
	}
	return &Translator{
		repo: repo,
		user: user,
	}, nil
}

// Translate resolves a type key to a label in the requested language.
// integration and domain may be empty. An empty type key yields an
// empty label; a non-empty key always yields a non-empty label.
func (t *Translator) Translate(typeKey, language, integration, domain string) string {
	if typeKey == "" {
		return ""
	}

	key := strings.ToLower(typeKey)

	// 1. User mapping - language-agnostic, user's choice wins.
	t.mu.RLock()
	label, ok := t.user[key]
	t.mu.RUnlock()
	if ok {
		return label
	}

	// 2. Integration-specific default.
	if integration != "" {
		if m, ok := integrationDefaults[integration][key]; ok {
			return m.resolve(language, typeKey)
		}
	}

	// 3. System device-class default.
	if m, ok := deviceClassDefaults[key]; ok {
		return m.resolve(language, typeKey)
	}

	// 4. Domain default.
	if domain != "" {
		if m, ok := deviceClassDefaults[strings.ToLower(domain)]; ok {
			return m.resolve(language, domain)
		}
	}

	// 5. Fallback: expand underscores and title-case the key.
	return TitleCase(typeKey)
}

// SetUserMapping stores the user's preferred label for a type key.
// The mapping is persisted immediately and visible to subsequent
// Translate calls.
func (t *Translator) SetUserMapping(ctx context.Context, typeKey, label string) error {
	key := strings.ToLower(typeKey)
	if err := t.repo.Set(ctx, key, label); err != nil {
		return fmt.Errorf("persisting user mapping %q: %w", key, err)
	}

	t.mu.Lock()
	t.user[key] = label
	t.mu.Unlock()
	return nil
}

// RemoveUserMapping deletes a user mapping. It reports whether a
// mapping existed.
func (t *Translator) RemoveUserMapping(ctx context.Context, typeKey string) (bool, error) {
	key := strings.ToLower(typeKey)

	t.mu.RLock()
	_, exists := t.user[key]
	t.mu.RUnlock()
	if !exists {
		return false, nil
	}

	if err := t.repo.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("removing user mapping %q: %w", key, err)
	}

	t.mu.Lock()
	delete(t.user, key)
	t.mu.Unlock()
	return true, nil
}

// UserMapping returns the user's label for a type key, if one is set.
func (t *Translator) UserMapping(typeKey string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	label, ok := t.user[strings.ToLower(typeKey)]
	return label, ok
}

// SystemDefault returns only the built-in translation for a type key,
// ignoring user mappings. The second return is false when the key is
// unknown to the built-in tables.
func (t *Translator) SystemDefault(typeKey, language string) (string, bool) {
	key := strings.ToLower(typeKey)

	if m, ok := deviceClassDefaults[key]; ok {
		return m.resolve(language, typeKey), true
	}
	for _, mappings := range integrationDefaults {
		if m, ok := mappings[key]; ok {
			return m.resolve(language, typeKey), true
		}
	}
	return "", false
}

// AllKnownTypes enumerates every type key known to the built-in tables
// or to the user's mappings, sorted by key.
func (t *Translator) AllKnownTypes(language string) []TypeInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]bool)
	var types []TypeInfo

	add := func(key, source string, m langMap) {
		if seen[key] {
			return
		}
		seen[key] = true
		info := TypeInfo{Key: key, Source: source}
		if m != nil {
			label := m.resolve(language, key)
			info.SystemDefault = &label
		}
		if user, ok := t.user[key]; ok {
			u := user
			info.UserMapping = &u
		}
		types = append(types, info)
	}

	for key, m := range deviceClassDefaults {
		add(key, "device_class", m)
	}
	for integration, mappings := range integrationDefaults {
		for key, m := range mappings {
			add(key, "integration:"+integration, m)
		}
	}
	for key := range t.user {
		add(key, "user_custom", nil)
	}

	sort.Slice(types, func(i, j int) bool { return types[i].Key < types[j].Key })
	return types
}

// DetectIntegration guesses the owning integration from an entity ID.
// Returns an empty string when nothing matches.
func DetectIntegration(entityID string) string {
	id := strings.ToLower(entityID)

	switch {
	case strings.Contains(id, "zigbee2mqtt") || strings.Contains(id, "0x"):
		return "zigbee2mqtt"
	case strings.Contains(id, "hue"):
		return "hue"
	case strings.Contains(id, "esphome"):
		return "esphome"
	case strings.Contains(id, "tasmota"):
		return "tasmota"
	default:
		return ""
	}
}

// TitleCase expands underscores to spaces and capitalises the first
// letter of every word ("signal_strength" -> "Signal Strength").
func TitleCase(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
