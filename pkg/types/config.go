// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StoreConfig holds settings for the persistence store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database and the
	// deviceId file (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// ListenAddr is the address the server binds to (default ":8080").
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`

	// LogLevel selects the log verbosity: debug, info, warn, or error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Pretty switches the logger to human-readable console output.
	Pretty bool `json:"pretty" yaml:"pretty"`
}

// AppConfig groups all configuration sections.
type AppConfig struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Server ServerConfig `json:"server" yaml:"server"`
}
