// Package config holds the dellve configuration store.
//
// A Store is seeded with defaults for the four recognised keys (app-dir,
// http-port, benchmarks and pid-file) and can be overlaid with a JSON or
// YAML document, environment variables or explicit writes. Recognised keys
// are kept in typed fields; any other key is stored as-is in an extension
// map so that newer configuration files keep working.
//
// Callers always go through Get and Set (or the typed accessors) rather than
// the Default* constants, since defaults may be superseded by a loaded file.
package config
