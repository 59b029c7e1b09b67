package config

import (
	"fmt"

	domainerrors "staticlint/internal/core/errors"
)

type NotificationLevel int

const (
	LevelWarning NotificationLevel = iota
	LevelError
)

func (l NotificationLevel) String() string {
	if l == LevelError {
		return "error"
	}
	return "warning"
}

// Notification reports a rule configuration problem. Unlike validation
// errors it never stops analysis; the affected option keeps its default.
type Notification struct {
	Key     string
	Message string
	Level   NotificationLevel
	Code    domainerrors.ErrorCode
}

func (n Notification) String() string {
	return fmt.Sprintf("%s: %s (%s)", n.Level, n.Message, n.Key)
}

// Err converts n into a DomainError carrying its key.
func (n Notification) Err() error {
	err := &domainerrors.DomainError{Code: n.Code, Message: n.Message}
	return err.WithContext(domainerrors.CtxKey, n.Key)
}

const msgActiveNotBoolean = "'active' property must be of type boolean."

// Notifications inspects rule options whose values had the wrong type and
// keys that no rule understands.
func Notifications(cfg *Config) []Notification {
	var out []Notification

	toggles := []struct {
		key    string
		toggle Toggle
	}{
		{"resolution.enabled", cfg.Resolution.Enabled},
		{"import.active", cfg.Import.Active},
		{"import.EnforceStaticImport.active", cfg.Import.EnforceStaticImport.Active},
		{"micronaut.active", cfg.Micronaut.Active},
		{"micronaut.RequireSecuredAnnotation.active", cfg.Micronaut.RequireSecuredAnnotation.Active},
	}
	for _, entry := range toggles {
		if _, bad := entry.toggle.Invalid(); !bad {
			continue
		}
		msg := msgActiveNotBoolean
		if entry.key == "resolution.enabled" {
			msg = "'enabled' property must be of type boolean."
		}
		out = append(out, Notification{Key: entry.key, Message: msg, Level: LevelError, Code: domainerrors.CodeInvalidConfigType})
	}

	if detail, bad := cfg.Import.EnforceStaticImport.Methods.Invalid(); bad {
		out = append(out, Notification{
			Key:     "import.EnforceStaticImport.methods",
			Message: fmt.Sprintf("'methods' property must be a string or a list of strings (%s).", detail),
			Level:   LevelError,
			Code:    domainerrors.CodeInvalidConfigType,
		})
	}

	for _, key := range cfg.undecoded {
		out = append(out, Notification{
			Key:     key,
			Message: fmt.Sprintf("Property '%s' is misspelled or does not exist.", key),
			Level:   LevelWarning,
			Code:    domainerrors.CodeValidationError,
		})
	}
	return out
}

// HasErrors reports whether any notification is at error level.
func HasErrors(notifications []Notification) bool {
	for _, n := range notifications {
		if n.Level == LevelError {
			return true
		}
	}
	return false
}
