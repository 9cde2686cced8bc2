// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Bubble Tea control centre, TOML config, atomic catalog rewrites
// 0.2.0 - Mission add/remove, navigation calculator, celestial body overrides
// 0.1.0 - Initial release: journal alerts, mission and telemetry reports
