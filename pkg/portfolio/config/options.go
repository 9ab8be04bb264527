package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv reads the process environment into the configuration. Variables
// that are unset leave earlier values alone.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
}

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithStorageURL sets the storage location, see parseStorageURL
func WithStorageURL(storageURL string) Option {
	return func(c *ServerConfig) error {
		c.StorageURL = storageURL
		return nil
	}
}

// WithDataDir stores the document and resume in dir on the local filesystem
func WithDataDir(dir string) Option {
	return func(c *ServerConfig) error {
		if dir == "" {
			return fmt.Errorf("data directory cannot be empty")
		}
		c.StorageURL = "file://" + dir
		return nil
	}
}

// WithDocumentKey sets the object key of the markdown document
func WithDocumentKey(key string) Option {
	return func(c *ServerConfig) error {
		if key == "" {
			return fmt.Errorf("document key cannot be empty")
		}
		c.DocumentKey = key
		return nil
	}
}

// WithDefaultContactEmail sets the contactEmail fallback
func WithDefaultContactEmail(addr string) Option {
	return func(c *ServerConfig) error {
		c.DefaultContactEmail = addr
		return nil
	}
}

// WithAdminJWTSecret enables bearer-token auth on write routes
func WithAdminJWTSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.AdminJWTSecret = secret
		return nil
	}
}

// WithDocumentWatch enables or disables watching the document file
func WithDocumentWatch(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.WatchDocument = enabled
		return nil
	}
}
