package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Catalog.DefaultPageSize <= 0 {
		return fmt.Errorf("catalog.default_page_size must be > 0 (got %d)", c.Catalog.DefaultPageSize)
	}
	if c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("catalog.max_page_size must be >= default_page_size (got %d < %d)",
			c.Catalog.MaxPageSize, c.Catalog.DefaultPageSize)
	}

	return nil
}
