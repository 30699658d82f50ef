// Package api defines the wire messages of the splitledger.v1.LedgerService
// Connect service. Messages are plain structs carried by JSONCodec.
package api
