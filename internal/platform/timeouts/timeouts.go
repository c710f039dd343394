// Package timeouts defines shared timeout constants used across the API.
// Centralizing these values prevents drift between surfaces and makes the
// durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// PayFastValidate caps the server-to-server confirmation round-trip to the
// payment provider. A timeout is a verification failure, never a retry.
const PayFastValidate = 10 * time.Second

// ShippingQuote caps a shipping-rate lookup before falling back to the
// static rate table.
const ShippingQuote = 5 * time.Second
