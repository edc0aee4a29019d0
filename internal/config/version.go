// Package config carries build metadata stamped at link time via
// -ldflags "-X github.com/edirooss/sdbsession/internal/config.Version=...".
package config

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)
