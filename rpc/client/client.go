package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/ValentinKolb/wordkv/rpc/common"
	"github.com/ValentinKolb/wordkv/rpc/serializer"
	"github.com/ValentinKolb/wordkv/rpc/transport"
	"github.com/ValentinKolb/wordkv/rpc/transport/tcp"
)

var Logger = logger.GetLogger("client")

// ErrDisconnected is returned by all calls after the connection was lost or closed
var ErrDisconnected = errors.New("disconnected from server")

const (
	StatusWaiting      = "Server is busy. Waiting for a free worker..."
	StatusConnected    = "Connected"
	StatusDisconnected = "Disconnected"
)

// Client is a connection to a dictionary server.
// Calls are serialized: only one request is in flight at a time.
type Client struct {
	config     common.ClientConfig
	serializer serializer.IRPCSerializer
	output     OutputSink
	status     StatusSink

	mu     sync.Mutex
	conn   net.Conn
	buf    []byte
	closed bool
}

// Connect dials the server described by config and waits until the server assigned
// a worker to the connection. Cancelling ctx aborts the wait.
// output and status may be nil.
func Connect(
	ctx context.Context,
	config common.ClientConfig,
	serializer serializer.IRPCSerializer,
	output OutputSink,
	status StatusSink,
) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	if output == nil {
		output = discardSink{}
	}
	if status == nil {
		status = discardSink{}
	}

	conn, err := tcp.Dial(config.Address(), time.Duration(config.DialTimeoutSecond)*time.Second, config.TCP)
	if err != nil {
		return nil, fmt.Errorf("no server listening on %s: %w", config.Address(), err)
	}
	Logger.Debugf("connection established with %s", config.Address())

	c := &Client{
		config:     config,
		serializer: serializer,
		output:     output,
		status:     status,
		conn:       conn,
		buf:        make([]byte, 4096),
	}

	if err := c.awaitAdmission(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	status.Status(StatusConnected, SeveritySuccess)
	return c, nil
}

// awaitAdmission reads handshake bytes until the server reports a free worker
func (c *Client) awaitAdmission(ctx context.Context) error {
	// unblock the read if ctx is cancelled
	stop := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			_ = c.conn.SetReadDeadline(time.Now())
		case <-stop:
		}
	}()

	err := c.readAdmission(ctx)

	// the watcher must be gone before the deadline is cleared
	close(stop)
	<-exited
	if err != nil {
		return err
	}
	return c.conn.SetReadDeadline(time.Time{})
}

func (c *Client) readAdmission(ctx context.Context) error {
	waiting := false
	for {
		available, err := transport.ReadHandshake(c.conn)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read handshake: %w", err)
		}
		if available > 0 {
			Logger.Debugf("admitted (%d workers available)", available)
			return nil
		}
		if !waiting {
			waiting = true
			c.status.Status(StatusWaiting, SeverityInfo)
		}
	}
}

// --------------------------------------------------------------------------
// Commands
// --------------------------------------------------------------------------

// GetMeaning returns the numbered meanings of word
func (c *Client) GetMeaning(word string) (string, error) {
	return c.Call(common.NewGetMeaningRequest(word))
}

// AddNewWord adds word with a comma separated list of meanings
func (c *Client) AddNewWord(word, meanings string) (string, error) {
	return c.Call(common.NewAddNewWordRequest(word, meanings))
}

// RemoveWord removes word and all its meanings
func (c *Client) RemoveWord(word string) (string, error) {
	return c.Call(common.NewRemoveWordRequest(word))
}

// AddNewMeaning appends a meaning to word
func (c *Client) AddNewMeaning(word, newMeaning string) (string, error) {
	return c.Call(common.NewAddNewMeaningRequest(word, newMeaning))
}

// UpdateMeaning replaces existingMeaning of word with newMeaning
func (c *Client) UpdateMeaning(word, existingMeaning, newMeaning string) (string, error) {
	return c.Call(common.NewUpdateMeaningRequest(word, existingMeaning, newMeaning))
}

// Call sends req and returns the output of the server. The output is also passed to
// the output sink. Domain errors ("ERROR: ...") are returned as output, not as error.
func (c *Client) Call(req *common.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrDisconnected
	}

	data, err := c.serializer.SerializeRequest(*req)
	if err != nil {
		return "", err
	}
	if err := transport.WriteFrame(c.conn, data); err != nil {
		if errors.Is(err, transport.ErrFrameTooLarge) {
			return "", err
		}
		return "", c.disconnect(err)
	}

	respData, err := transport.ReadFrame(c.conn, c.buf)
	if err != nil {
		return "", c.disconnect(err)
	}

	var resp common.Response
	if err := c.serializer.DeserializeResponse(respData, &resp); err != nil {
		return "", c.disconnect(fmt.Errorf("malformed response: %w", err))
	}

	c.output.Output(resp.Output, SeverityOf(resp.Output))
	return resp.Output, nil
}

// Close closes the connection. Calling Close more than once has no effect.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// disconnect closes the connection after a transport error and reports it.
// Must be called with c.mu held.
func (c *Client) disconnect(cause error) error {
	c.closed = true
	_ = c.conn.Close()
	Logger.Warningf("lost connection to %s: %v", c.config.Address(), cause)

	c.status.Status(StatusDisconnected, SeverityError)
	return fmt.Errorf("%w: %v", ErrDisconnected, cause)
}
