package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/ValentinKolb/wordkv/rpc/common"
	"github.com/ValentinKolb/wordkv/rpc/transport"
)

var sessionLogger = logger.GetLogger("session")

// Session serves one client connection. It implements pool.Task: a worker runs it
// until the client disconnects.
type Session struct {
	id     uint64
	conn   net.Conn
	server *Server

	// admitted is set once the client received its non-zero handshake byte
	admitted atomic.Bool

	// wmu serializes writes to conn (admission byte from another worker, responses)
	wmu sync.Mutex

	connectedAt time.Time
}

func newSession(id uint64, conn net.Conn, server *Server) *Session {
	return &Session{
		id:          id,
		conn:        conn,
		server:      server,
		connectedAt: time.Now(),
	}
}

// ID returns the accept sequence number of the session
func (s *Session) ID() uint64 {
	return s.id
}

// RemoteAddr returns the address of the client
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// Run handles requests until the client disconnects or a protocol error occurs
func (s *Session) Run() {
	defer s.server.endSession(s)

	buf := make([]byte, 4096)
	for {
		err := s.handleRequest(buf)

		// Case EOF: Connection closed by client
		if errors.Is(err, io.EOF) {
			sessionLogger.Debugf("client %d closed the connection", s.id)
			return
		}

		// Case closed: the server is shutting down
		if errors.Is(err, net.ErrClosed) {
			sessionLogger.Debugf("connection of client %d closed by server", s.id)
			return
		}

		// Case error: log and close connection
		if err != nil {
			sessionLogger.Errorf("client %d: %v", s.id, err)
			return
		}
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleRequest reads, executes and answers one request, then persists the dictionary
func (s *Session) handleRequest(buf []byte) error {
	data, err := transport.ReadFrame(s.conn, buf)
	if err != nil {
		return err
	}

	var req common.Request
	if err := s.server.serializer.DeserializeRequest(data, &req); err != nil {
		return fmt.Errorf("malformed request: %w", err)
	}

	start := time.Now()
	result := s.server.adapter.Handle(&req, s.server.dict)
	s.server.metrics.commandHandled(req.Command, result, start)
	sessionLogger.Debugf("client %d: %s %q -> %q", s.id, req.Command, req.Word, result.Output)

	resp, err := s.server.serializer.SerializeResponse(*common.NewResponse(result.Output))
	if err != nil {
		return fmt.Errorf("failed to serialize response: %w", err)
	}
	if err := s.writeFrame(resp); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	s.server.persist(s, result)
	return nil
}

// admit marks the session as admitted. It returns true only for the first call.
func (s *Session) admit() bool {
	return s.admitted.CompareAndSwap(false, true)
}

func (s *Session) writeHandshake(available int) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return transport.WriteHandshake(s.conn, available)
}

func (s *Session) writeFrame(data []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return transport.WriteFrame(s.conn, data)
}
