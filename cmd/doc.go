// Package cmd implements the command-line interface of wordkv.
//
// The package is organized into several subpackages:
//
//   - serve: starts the dictionary server (wordkv serve <port> <pool-size> <dictionary-file>)
//   - client: one-shot commands and an interactive prompt (wordkv client <host> <port>)
//   - inspect: prints the content of a dictionary file
//   - util: shared utilities for command-line processing and configuration (internal use)
//
// See wordkv -help for a list of all commands.
package cmd
