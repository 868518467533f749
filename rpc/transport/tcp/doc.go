// Package tcp contains the TCP socket setup used by the dictionary server and client:
// creating the listener, dialing and applying the configured socket options to
// every connection.
package tcp
