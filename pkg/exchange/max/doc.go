// Package max implements the MaiCoin MAX v2 exchange protocol.
// It provides signed REST calls and a websocket stream for public and
// private feeds.
//
// The package includes:
//   - BuildRequest: REST request building with nonce, payload and signature headers
//   - Unwrap: decoding of success bodies and API error envelopes
//   - Client: typed REST endpoints over a rate limited HTTP client
//   - Classify: conversion of raw push frames into typed events
//   - Stream: websocket session with authentication and subscription restore
//
// Example usage:
//
//	client, err := max.NewClient(core.DefaultConfig(), creds)
//	markets, err := client.Markets(ctx)
//
// MAX API Documentation: https://max.maicoin.com/documents/api_list/v2
package max
