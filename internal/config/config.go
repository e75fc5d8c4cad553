// Package config provides functionality for managing configuration
// options for both binaries using command-line flags, environment
// variables, and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the server.
	DatabaseDSN string

	// Config is the path to the config file.
	Config string

	// BaseURL is the remote service the client syncs against.
	BaseURL string

	// Token is the opaque bearer credential for the remote service.
	Token string

	// Login is the account identity the client syncs for.
	Login string

	// StoragePath is where the client keeps its on-device document.
	StoragePath string

	// StorageDriver selects the local backend: "file" or "sqlite".
	StorageDriver string

	// LocalFlushSeconds is the on-device flush cadence.
	LocalFlushSeconds int

	// RemoteFlushSeconds is the remote flush cadence.
	RemoteFlushSeconds int
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	flag.StringVar(&options.BaseURL, "url", "http://localhost:8080", "remote service base URL")
	flag.StringVar(&options.Token, "token", "", "bearer token for the remote service")
	flag.StringVar(&options.Login, "login", "", "account login")
	flag.StringVar(&options.StoragePath, "file", "settlements.json", "path to the local document store")
	flag.StringVar(&options.StorageDriver, "driver", "file", "local storage driver: file | sqlite")
	flag.IntVar(&options.LocalFlushSeconds, "local-interval", 5, "local flush interval in seconds")
	flag.IntVar(&options.RemoteFlushSeconds, "remote-interval", 30, "remote flush interval in seconds")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct
// containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if token := os.Getenv("SETTLEMENT_TOKEN"); token != "" {
		options.Token = token
	}
	if login := os.Getenv("SETTLEMENT_LOGIN"); login != "" {
		options.Login = login
	}

	return options
}

// LocalFlushInterval returns the configured local cadence.
func (o *Options) LocalFlushInterval() time.Duration {
	return time.Duration(o.LocalFlushSeconds) * time.Second
}

// RemoteFlushInterval returns the configured remote cadence.
func (o *Options) RemoteFlushInterval() time.Duration {
	return time.Duration(o.RemoteFlushSeconds) * time.Second
}
