// Package config loads the foxnuts client configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/foxnuts/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. FOXNUTS_API_URL, when set, wins over api_url
//
// # Default Values
//
//   - API URL: http://localhost:5000/api
//   - Data directory: ~/.local/share/foxnuts
//   - Durable records: <data_dir>/storage
//   - Log file: <data_dir>/foxnuts.log
//   - Log level: info
//   - Request timeout: 10s
//   - Metrics listener: disabled
//
// # TOML Format
//
//	api_url = "http://localhost:5000/api"
//	data_dir = "~/.local/share/foxnuts"
//	log_level = "info"
//	request_timeout = "10s"
//	metrics_addr = "127.0.0.1:9464"
//
// All fields are optional. Tilde expansion is applied to data_dir.
// request_timeout uses Go duration syntax and must be positive.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and an invalid request_timeout
//
// A missing config file is not an error, so the client runs out of the box
// against a local development API.
package config
