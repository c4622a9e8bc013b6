// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// agricheck server. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token parameters, the
	// classifier artifact location and allowed CORS origins.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for all persistence backends: the
	// relational database and the uploaded image store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address, upload and timeout settings for the
	// HTTP and gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control token
// lifecycle, the disease classifier and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens
	// (both access and password-reset tokens). Required.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token and
	// validated on every verification.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an access token remains valid after
	// issuance (e.g. "1h", "30m").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// ModelPath is an explicit path to the classifier artifact. When empty
	// the well-known candidate locations are probed in order.
	// Env: APP_MODEL_PATH
	ModelPath string `env:"MODEL_PATH"`

	// ONNXRuntimeLib is the path to the onnxruntime shared library used by
	// the ONNX model variant. Empty means the platform default.
	// Env: APP_ONNXRUNTIME_LIB
	ONNXRuntimeLib string `env:"ONNXRUNTIME_LIB"`

	// CORSOrigins lists the origins allowed to call the API.
	// Env: APP_CORS_ORIGINS (comma separated)
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Version is the semantic version string of the running application.
	// Exposed via the /health endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the local directory used for uploaded scan images.
	Files Files `envPrefix:"FILES_"`

	// S3 holds object storage settings. When Bucket is set, uploaded
	// images go to S3 instead of the local directory.
	S3 S3 `envPrefix:"S3_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN selects the backend: "postgres://" or "postgresql://" URLs open
	// PostgreSQL through pgx, anything else is treated as a SQLite file path
	// (e.g. "agricheck.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds file-system settings for the local image store.
type Files struct {
	// UploadDir is the directory where uploaded scan images are written.
	// Env: STORAGE_FILES_UPLOAD_DIR
	UploadDir string `env:"UPLOAD_DIR"`
}

// S3 holds settings for the S3-compatible image store.
type S3 struct {
	// Bucket is the target bucket name.
	// Env: STORAGE_S3_BUCKET
	Bucket string `env:"BUCKET"`

	// Region is the AWS region of the bucket.
	// Env: STORAGE_S3_REGION
	Region string `env:"REGION"`

	// Endpoint overrides the service endpoint, for MinIO and other
	// S3-compatible servers.
	// Env: STORAGE_S3_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// AccessKey and SecretKey are static credentials. When both are empty
	// the default AWS credential chain is used.
	// Env: STORAGE_S3_ACCESS_KEY, STORAGE_S3_SECRET_KEY
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`

	// UsePathStyle forces path-style addressing (required by MinIO).
	// Env: STORAGE_S3_USE_PATH_STYLE
	UsePathStyle bool `env:"USE_PATH_STYLE"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8000").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server. The gRPC
	// server is not started when empty.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// MaxUploadSize caps the multipart body of a scan upload, in bytes.
	// Env: SERVER_MAX_UPLOAD_SIZE
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// JanitorInterval is how often expired password-reset tokens are
	// cleared. Zero disables the janitor.
	// Env: WORKERS_JANITOR_INTERVAL
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Defaults are applied to fields that remain empty after merging.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
