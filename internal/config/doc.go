// Package config assembles the AgriCheck server settings.
//
// Environment variables take precedence over command-line flags, which take
// precedence over the JSON file named by CONFIG or -c. Fields still empty
// after merging fall back to a local SQLite database and upload directory.
// A missing token sign key is a startup error.
package config
