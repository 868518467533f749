package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ValentinKolb/wordkv/lib/dictionary"
	"github.com/ValentinKolb/wordkv/lib/pool"
	"github.com/ValentinKolb/wordkv/rpc/common"
	"github.com/ValentinKolb/wordkv/rpc/serializer"
	"github.com/ValentinKolb/wordkv/rpc/transport/tcp"
)

var Logger = logger.GetLogger("server")

// Server accepts client connections and hands each of them to the worker pool.
//
// Usage:
//
//	dict, err := dictionary.Open("dictionary.json")
//	if err != nil {
//		return err
//	}
//	s, err := server.NewServer(config, dict, serializer.NewJSONSerializer(), server.LoggerSink{})
//	if err != nil {
//		return err
//	}
//	return s.ListenAndServe()
type Server struct {
	config     common.ServerConfig
	dict       dictionary.IDictionary
	serializer serializer.IRPCSerializer
	adapter    IRPCServerAdapter
	events     EventSink
	eventLog   *EventLog

	pool     *pool.Pool
	sessions *xsync.MapOf[uint64, *Session]
	metrics  *serverMetrics
	admin    *adminServer

	nextID atomic.Uint64

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// NewServer creates a server for dict. Every event is sent to events (may be nil)
// and to the event log served by the admin api.
func NewServer(
	config common.ServerConfig,
	dict dictionary.IDictionary,
	serializer serializer.IRPCSerializer,
	events EventSink,
) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if dict == nil {
		return nil, errors.New("dictionary must not be nil")
	}

	s := &Server{
		config:     config,
		dict:       dict,
		serializer: serializer,
		adapter:    NewDictionaryServerAdapter(),
		eventLog:   NewEventLog(256),
		sessions:   xsync.NewMapOf[uint64, *Session](),
	}
	s.events = MultiSink{events, s.eventLog}

	p, err := pool.New(config.PoolSize, &poolObserver{server: s})
	if err != nil {
		return nil, err
	}
	s.pool = p
	s.metrics = newServerMetrics(p)

	Logger.Infof("Created dictionary server")
	Logger.Infof("%s", config.String())
	return s, nil
}

// Listen binds the TCP port, starts the workers, the admin api and the stats log.
// It does not accept connections, see Serve.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("server is closed")
	}
	if s.listener != nil {
		return errors.New("server is already listening")
	}

	listener, err := tcp.Listen(s.config.Endpoint)
	if err != nil {
		return err
	}

	if s.config.AdminEndpoint != "" {
		admin, err := startAdmin(s, s.config.AdminEndpoint)
		if err != nil {
			_ = listener.Close()
			return err
		}
		s.admin = admin
	}

	s.listener = listener
	s.pool.Start()
	s.metrics.startStatsLog(time.Duration(s.config.StatsIntervalSecond) * time.Second)

	s.events.Event(fmt.Sprintf("Server started on %s with %d workers", listener.Addr(), s.pool.Size()))
	return nil
}

// Serve accepts connections until Close is called. Listen must be called first.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			Logger.Errorf("Accept error: %v", err)
			continue
		}
		s.accept(conn)
	}
}

// ListenAndServe is Listen followed by Serve
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Addr returns the address the server listens on (nil before Listen)
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// AdminAddr returns the address of the admin api (nil if disabled)
func (s *Server) AdminAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admin == nil {
		return nil
	}
	return s.admin.addr()
}

// Events returns the most recent server events, oldest first
func (s *Server) Events() []EventEntry {
	return s.eventLog.Entries()
}

// Close stops accepting connections, disconnects every client and waits for the workers.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listener := s.listener
	admin := s.admin
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}

	// the queue is closed first, so a worker freed below never admits a waiting client
	for _, task := range s.pool.Close() {
		s.endSession(task.(*Session))
	}

	// closing the connections makes the running sessions return
	s.sessions.Range(func(_ uint64, sess *Session) bool {
		_ = sess.conn.Close()
		return true
	})
	s.pool.Wait()

	if admin != nil {
		if adminErr := admin.shutdown(); adminErr != nil && err == nil {
			err = adminErr
		}
	}
	s.metrics.close()

	Logger.Infof("server stopped")
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// accept registers a new connection, sends the handshake byte and queues the session.
// It runs on the accept loop, which is the only goroutine submitting to the pool:
// the value returned by Available can therefore only grow before Submit.
func (s *Server) accept(conn net.Conn) {
	if err := tcp.UpgradeConnection(conn, s.config.TCP); err != nil {
		Logger.Warningf("failed to apply tcp options to %s: %v", conn.RemoteAddr(), err)
	}

	sess := newSession(s.nextID.Add(1), conn, s)
	s.sessions.Store(sess.id, sess)
	s.metrics.sessionAccepted()
	s.events.Event(fmt.Sprintf("Client %d connected from %s", sess.id, sess.RemoteAddr()))

	available := s.pool.Available()
	if available > 0 {
		sess.admitted.Store(true)
	}
	if err := sess.writeHandshake(available); err != nil {
		Logger.Errorf("client %d: failed to write handshake: %v", sess.id, err)
		s.endSession(sess)
		return
	}
	if available == 0 {
		s.events.Event(fmt.Sprintf("Client %d is waiting for available workers", sess.id))
	}

	if !s.pool.Submit(sess) {
		s.endSession(sess)
	}
}

// endSession closes the connection and forgets the session
func (s *Server) endSession(sess *Session) {
	if _, ok := s.sessions.LoadAndDelete(sess.id); !ok {
		return
	}
	_ = sess.conn.Close()
	s.events.Event(fmt.Sprintf("Client %d disconnected after %s", sess.id, time.Since(sess.connectedAt).Round(time.Millisecond)))
}

// persist saves the dictionary according to the persist mode.
// A failed save is reported but does not end the session.
func (s *Server) persist(sess *Session, result dictionary.Result) {
	if s.config.PersistMode != common.PersistAlways && !result.Changed {
		return
	}
	if err := s.dict.Save(); err != nil {
		s.metrics.persistFailed()
		s.events.Event(fmt.Sprintf("Failed to save dictionary after command of client %d: %v", sess.id, err))
	}
}

// admit sends the admission byte to sess unless it was already admitted
func (s *Server) admit(sess *Session, available int) {
	if s.isClosed() || !sess.admit() {
		return
	}
	if err := sess.writeHandshake(available); err != nil {
		// the session notices the broken connection on its next read
		Logger.Warningf("client %d: failed to write admission byte: %v", sess.id, err)
		_ = sess.conn.Close()
	}
}

// --------------------------------------------------------------------------
// Pool Observer
// --------------------------------------------------------------------------

// poolObserver admits waiting sessions when workers become available
type poolObserver struct {
	server *Server
}

func (o *poolObserver) TaskStarted(task pool.Task, available int) {
	sess := task.(*Session)
	o.server.events.Event(fmt.Sprintf("Worker allocated for client %d", sess.id))
	o.server.admit(sess, available)
}

func (o *poolObserver) TaskFinished(_ pool.Task, idle int, next pool.Task) {
	if next == nil || idle == 0 {
		return
	}
	o.server.admit(next.(*Session), idle)
}
