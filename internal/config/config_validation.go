// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Defaults applied by [StructuredConfig.applyDefaults] to fields left empty
// by every configuration source.
const (
	DefaultTokenIssuer    = "agricheck"
	DefaultTokenDuration  = 60 * time.Minute
	DefaultDSN            = "agricheck.db"
	DefaultUploadDir      = "uploads"
	DefaultHTTPAddress    = "0.0.0.0:8000"
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxUploadSize  = 20 << 20
)

// applyDefaults fills zero-valued fields with the application defaults.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = DefaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = DefaultTokenDuration
	}
	if len(cfg.App.CORSOrigins) == 0 {
		cfg.App.CORSOrigins = []string{"*"}
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = DefaultDSN
	}
	if cfg.Storage.Files.UploadDir == "" {
		cfg.Storage.Files.UploadDir = DefaultUploadDir
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.MaxUploadSize == 0 {
		cfg.Server.MaxUploadSize = DefaultMaxUploadSize
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or one of the ErrInvalid*
// sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration < 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.S3.Bucket != "" && cfg.Storage.S3.Region == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.MaxUploadSize < 0 || cfg.Server.RequestTimeout < 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.JanitorInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
