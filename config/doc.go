// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Values from the environment (optionally read from a .env file) override the
// service endpoints so deployments can keep them out of the file.
package config
