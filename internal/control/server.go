package control

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
)

// StatusFunc reports the desktop's current state. It must be safe to call
// from any goroutine.
type StatusFunc func() StatusData

// Server accepts control connections and publishes their events.
type Server struct {
	socketPath string
	bus        *bus.Bus
	status     StatusFunc
	logger     *log.Logger
	startTime  time.Time

	listener     net.Listener
	shutdownMu   sync.Mutex
	shuttingDown bool
	wg           sync.WaitGroup
}

// NewServer creates a server for socketPath publishing onto b.
func NewServer(socketPath string, b *bus.Bus, status StatusFunc) *Server {
	return &Server{
		socketPath: socketPath,
		bus:        b,
		status:     status,
		logger:     logging.For("control"),
		startTime:  time.Now(),
	}
}

// Start listens on the socket and serves connections in the background.
// A stale socket file left by a previous run is removed first.
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create control socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.listener = listener
	s.logger.Info("control socket listening", "path", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket file.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	if s.shuttingDown || s.listener == nil {
		s.shutdownMu.Unlock()
		return nil
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	err := s.listener.Close()
	s.wg.Wait()
	_ = os.Remove(s.socketPath)
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept error", "err", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("read error", "err", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		s.logger.Warn("bad control request", "err", err)
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return
	}
	if _, err := conn.Write(append(out, '\n')); err != nil {
		s.logger.Warn("failed to send response", "err", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPublish:
		return s.handlePublish(req.Payload)
	case CommandStatus:
		return s.handleStatus()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handlePublish(payload json.RawMessage) *Response {
	var env bus.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid envelope: %v", err))
	}
	ev, err := bus.Decode(env.Event, env.Payload)
	if err != nil {
		s.logger.Warn("rejected control event", "event", env.Event, "err", err)
		return NewErrorResponse(err.Error())
	}

	delivered := s.bus.Publish(ev)
	s.logger.Debug("published control event", "event", env.Event, "delivered", delivered)
	resp, err := NewOKResponse(PublishData{Delivered: delivered})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleStatus() *Response {
	var data StatusData
	if s.status != nil {
		data = s.status()
	}
	data.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
