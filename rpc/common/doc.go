// Package common provides the data structures and utilities shared by the wordkv
// server, client and command line tools.
//
// The package focuses on:
//   - Wire records of the dictionary protocol (Request, Response) and the command names
//   - Configuration structures for the server and the client
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - Request: The JSON object sent by a client. The "command" field selects one of the
//     five dictionary operations; the other fields carry the operation arguments.
//     Factory functions exist for every command.
//
//   - Response: The JSON object sent back by the server. It has a single "output" field
//     holding the human-readable result.
//
//   - ServerConfig / ClientConfig: Configuration with validation and a readable String()
//     representation that is logged on startup.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's logger factory
//     so that every package logs with the same "LEVEL | name | message" format.
package common
