// Package server runs the AgriCheck REST API and the gRPC health endpoint.
//
// Each transport is started only when its address is configured. Both stop
// on SIGTERM, SIGINT or SIGQUIT.
package server
