// Package timeouts defines shared timeout constants used by the tracker
// server.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Idle limits how long a keep-alive connection may sit unused.
const Idle = 60 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// HealthCheck caps the storage ping behind the health endpoint.
const HealthCheck = 2 * time.Second
