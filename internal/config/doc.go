// Package config provides configuration management for musicdl.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values and XDG default locations
//   - Catalog API credentials from the environment or a .env file
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	// Missing file: defaults. ".yaml"/".yml": YAML. Anything else: JSON.
//
// # Saving Settings
//
//	settings.DownloadsPath = "/srv/music"
//	err := settings.Save("/etc/musicdl/settings.yaml")
//
// # Credentials
//
//	creds, err := config.LoadCredentials()
//	if !creds.Complete() {
//	    // only direct video links can be resolved
//	}
package config
