// Package transport implements the byte-level framing of the dictionary protocol.
//
// A connection carries:
//
//   - handshake bytes (server -> client): single unsigned bytes with the number of idle
//     workers. Zero means "all workers busy, you are queued", a non-zero byte admits
//     the client. The server sends exactly one non-zero byte per connection.
//
//   - frames (both directions): a 2-byte big endian length followed by that many bytes
//     of UTF-8 payload. A payload can therefore be at most 65535 bytes long.
//
// The tcp subpackage contains the socket setup shared by server and client.
package transport
