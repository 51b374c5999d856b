// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Blob store) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Restora API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL + PostGIS)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for identity verification
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage (S3-compatible: MinIO / R2 / Supabase Storage)
	StorageEndpoint  string `env:"STORAGE_ENDPOINT,required"`
	StorageRegion    string `env:"STORAGE_REGION"    envDefault:"auto"`
	StorageAccessKey string `env:"STORAGE_ACCESS_KEY,required"`
	StorageSecretKey string `env:"STORAGE_SECRET_KEY,required"`
	StorageBucket    string `env:"STORAGE_BUCKET"    envDefault:"restora-media"`
	StorageUseSSL    bool   `env:"STORAGE_USE_SSL"   envDefault:"true"`

	// PublicStorageOrigin is the origin serving public objects. The full
	// public prefix is derived as:
	//   <origin>/storage/v1/object/public/<bucket>
	PublicStorageOrigin string `env:"PUBLIC_STORAGE_ORIGIN,required"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// PublicStoragePrefix returns the public-object URL prefix for the managed
// bucket, without a trailing slash.
//
// Every public asset URL the platform hands out begins with this prefix;
// destructive asset operations refuse URLs that do not.
func (c *Config) PublicStoragePrefix() string {
	origin := strings.TrimSuffix(c.PublicStorageOrigin, "/")
	return origin + "/storage/v1/object/public/" + c.StorageBucket
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
