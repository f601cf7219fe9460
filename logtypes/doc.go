// Package logtypes holds the shared vocabulary of the logging ecosystem.
//
// It declares the contracts that loggers, context managers and transport
// adapters implement elsewhere, together with the value shapes they exchange:
// log entries, context snapshots, Redis values and retention rules, HTTP
// request/response pairs, broker messages and serialization metadata.
//
// The only behavior shipped here is NormalizeError, which turns anything a
// program may recover or receive as an error into a JSON-safe value:
//
//	logger.ErrorFields(logtypes.Metadata{"error": logtypes.NormalizeError(err)}, "payment failed")
//
// Shapes that accept arbitrary extra keys keep their known keys in typed fields
// and everything else in an Extra map, which is merged back on encoding.
package logtypes
