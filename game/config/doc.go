// Package config provides configuration loading for the Set server.
//
// The config package handles:
//   - Loading .env files into the process environment
//   - Parsing SET_* variables into a typed Config
//   - Validation of the listener and dealing rules
//   - Building the process logger
//
// Variables:
//
//	SET_HOST          listen host (default localhost)
//	SET_PORT          listen port (default 8000)
//	SET_DEBUG         development logging
//	SET_BCRYPT_COST   password hashing cost (default 10)
//	SET_FIELD_SIZE    cards kept on the field (default 12)
//	SET_DRAW_SIZE     cards dealt by a manual draw (default 3)
//	SET_NGROK_ENABLED / NGROK_ENABLED      start an ngrok tunnel
//	SET_NGROK_AUTHTOKEN / NGROK_AUTHTOKEN  ngrok credentials
//	SET_NGROK_DOMAIN / NGROK_DOMAIN        reserved ngrok domain
//
// Usage:
//
//	if _, err := config.LoadDotEnv(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Command-line flags in the server binary override the parsed values.
package config
