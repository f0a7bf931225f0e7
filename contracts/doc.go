// Package contracts provides the core message and result types exchanged
// with the Vistar Media ad servers.
//
// This package defines:
//   - AdRequest, AdResponse, Advertisement, DisplayArea, ProofOfPlay: the
//     domain messages, carried as protobuf-encoded bytes on the wire
//   - Result: the tagged union holding either a decoded response or an
//     error code/message pair
//   - ApiError: the typed error raised by the synchronous call surface
//
// Message encoding follows standard proto3 wire semantics: zero-valued
// fields are omitted on encode and unknown fields are skipped on decode,
// keeping the types compatible with the server's schema as it evolves.
package contracts
