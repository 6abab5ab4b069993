// Package config loads, defaults, and validates the TOML configuration that
// drives the delivery pipeline: package staging locations, the sender's DDEX
// identity, validation tolerances, and logging output.
package config
