// Package logging builds the slog loggers used across the tool and provides
// typed attribute helpers plus the standardized field keys that keep log
// output greppable (component, event_type, decision_type).
package logging
