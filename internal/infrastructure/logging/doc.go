// Package logging provides structured logging for PlantPulse Core.
//
// It wraps the standard library log/slog with configuration-driven level,
// format, and output selection, plus default service attributes.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("snapshot refreshed", "readings", n)
//
// Component loggers carry a default attribute:
//
//	apiLog := log.With("component", "api")
package logging
