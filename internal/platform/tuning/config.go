// Package tuning provides concurrency sizing for the server runtime.
package tuning

import (
	"runtime"
)

// Config holds tuned parameters for different deployment profiles.
type Config struct {
	// Channel buffer sizes
	CommandChannelBuffer   int
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Connection pools
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Rate limiting
	MaxMessagesPerSecond int
	MaxClientsPerSession int
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		// Channel buffers - larger = more memory, less blocking
		CommandChannelBuffer:   1024, // Handle delivery bursts
		BroadcastChannelBuffer: 256,
		ClientSendBuffer:       64, // Per WebSocket

		// Database connections
		DBMaxOpenConns: numCPU * 4,
		DBMaxIdleConns: numCPU * 2,

		// Rate limits
		MaxMessagesPerSecond: 100, // Per client
		MaxClientsPerSession: 200,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		CommandChannelBuffer:   64,
		BroadcastChannelBuffer: 16,
		ClientSendBuffer:       8,

		DBMaxOpenConns: 5,
		DBMaxIdleConns: 2,

		MaxMessagesPerSecond: 10,
		MaxClientsPerSession: 20,
	}
}
