// Package config provides configuration management for hydr0-downloader.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Conversion to the option structs of other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Downloads
//	// 5 download workers, no retries
//	// ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	// A missing file yields the defaults.
//
// # Saving Settings
//
//	settings.Workers = 8
//	err := settings.Save("/path/to/config.toml")
package config
