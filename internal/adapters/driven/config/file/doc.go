// Package file provides the TOML file implementation of driven.ConfigStore.
//
// Settings live in ~/.docchat/config.toml. Keys are exposed in dot
// notation ("api.base_url") and written back as nested tables:
//
//	[api]
//	base_url = "https://docs.example.com"
//	timeout_seconds = 60
package file
