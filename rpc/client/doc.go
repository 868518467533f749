// Package client implements a client for the dictionary server.
//
// Connect dials the server and blocks until a worker is assigned to the connection:
// the server first sends the number of free workers as a single byte, and a queued
// client keeps reading bytes until a non-zero one arrives. While it waits, the status
// sink is told once that the server is busy.
//
// After admission, the five dictionary commands can be sent one at a time. Every
// response is passed to the output sink together with a severity derived from its
// prefix ("ERROR" or "SUCCESS"). A transport error closes the connection and reports
// the status "Disconnected".
//
// Usage Example:
//
//	c, err := client.Connect(ctx, config, serializer.NewJSONSerializer(), sink, sink)
//	if err != nil {
//	  return err
//	}
//	defer c.Close()
//
//	out, err := c.GetMeaning("kiwi")
package client
