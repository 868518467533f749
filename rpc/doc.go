// Package rpc provides the communication layer of the dictionary service.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Request/Response records, configuration structures, and logging.
//
//   - transport: The framing of the protocol (handshake byte, length prefixed frames)
//     and the TCP socket setup.
//
//   - serializer: Conversion between Request/Response records and the JSON payload
//     of a frame.
//
//   - client: The protocol client, waiting for admission and sending the five
//     dictionary commands.
//
//   - server: The connection acceptor, the per-connection sessions running on the
//     worker pool, and the admin api.
package rpc
