// Package metrics defines the recording interface used by the configuration
// store. Concrete exporters live in infra/metrics.
package metrics
