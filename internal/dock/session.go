package dock

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/bcomc/bcom/internal/errors"
	"github.com/bcomc/bcom/internal/logger"
)

// TerminalPath is appended to the WebSocket base.
const TerminalPath = "/api/terminal/ws"

const writeWait = 10 * time.Second

// Banners written into the emulator.
const (
	bannerConnected = "\x1b[32mConnected to %s\x1b[0m\r\n"
	BannerClosed    = "\r\n\x1b[31m[connection closed]\x1b[0m\r\n"
	BannerError     = "\r\n\x1b[31m[connection error — check API base URL in Settings]\x1b[0m\r\n"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WSBase rewrites an http(s) base URL to ws(s). Other schemes pass through.
func WSBase(apiBase string) string {
	switch {
	case strings.HasPrefix(apiBase, "https://"):
		return "wss://" + strings.TrimPrefix(apiBase, "https://")
	case strings.HasPrefix(apiBase, "http://"):
		return "ws://" + strings.TrimPrefix(apiBase, "http://")
	default:
		return apiBase
	}
}

// TerminalURL returns the PTY endpoint for apiBase.
func TerminalURL(apiBase string) string {
	return WSBase(strings.TrimRight(apiBase, "/")) + TerminalPath
}

// SessionState is the transport lifecycle.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionConnecting
	SessionOpen
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionConnecting:
		return "connecting"
	case SessionOpen:
		return "open"
	case SessionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// SessionOptions configures a Session.
type SessionOptions struct {
	URL    string
	Label  string    // shown in the connected banner
	Output io.Writer // the emulator
	// Size reports the grid sent on open.
	Size   func() (cols, rows int)
	Dialer *websocket.Dialer
	Logger logger.Logger
	// OnUpdate is called after output is written or the state changes.
	OnUpdate func()
}

// resizeMessage is the PTY resize control frame.
type resizeMessage struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

// Session is one WebSocket PTY transport. It does not reconnect on its own;
// calling Connect after it closed dials again.
type Session struct {
	opts SessionOptions
	log  logger.Logger

	mu    sync.Mutex
	state SessionState
	conn  *websocket.Conn

	writeMu sync.Mutex // gorilla allows one concurrent writer
}

// NewSession returns an idle session.
func NewSession(opts SessionOptions) *Session {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	return &Session{opts: opts, log: log}
}

// Connect dials the PTY unless a transport is already connecting or open.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state == SessionConnecting || s.state == SessionOpen {
		s.mu.Unlock()
		return nil
	}
	s.state = SessionConnecting
	s.mu.Unlock()
	s.notify()

	s.log.Debug("dialing %s", s.opts.URL)
	conn, _, err := s.opts.Dialer.DialContext(ctx, s.opts.URL, nil)
	if err != nil {
		s.setState(SessionClosed)
		s.log.Warn("terminal connect failed: %v", err)
		s.banner(BannerError)
		s.banner(BannerClosed)
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"couldn't connect to the terminal at "+s.opts.URL,
			"Check the API base URL in settings")
	}

	s.mu.Lock()
	if s.state != SessionConnecting {
		// Closed while dialing.
		s.mu.Unlock()
		_ = conn.Close()
		s.log.Debug("terminal closed while dialing %s", s.opts.URL)
		return nil
	}
	s.conn = conn
	s.state = SessionOpen
	s.mu.Unlock()

	s.log.Info("terminal connected to %s", s.opts.URL)
	s.banner(fmt.Sprintf(bannerConnected, s.opts.Label))
	if s.opts.Size != nil {
		cols, rows := s.opts.Size()
		if err := s.SendResize(cols, rows); err != nil {
			s.log.Warn("initial resize: %v", err)
		}
	}

	go s.readLoop(conn)
	return nil
}

func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			s.finish(conn, err)
			return
		}
		if mt == websocket.BinaryMessage || mt == websocket.TextMessage {
			_, _ = s.opts.Output.Write(data)
			s.notify()
		}
	}
}

func (s *Session) finish(conn *websocket.Conn, err error) {
	s.mu.Lock()
	// Close already detached this connection, or a newer one replaced it.
	stale := s.conn != conn
	if !stale {
		s.conn = nil
		s.state = SessionClosed
	}
	s.mu.Unlock()
	_ = conn.Close()

	if stale {
		s.notify()
		return
	}

	var closeErr *websocket.CloseError
	if !stderrors.As(err, &closeErr) && !stderrors.Is(err, io.EOF) {
		s.log.Warn("terminal transport error: %v", err)
		s.banner(BannerError)
	}
	s.log.Info("terminal connection closed")
	s.banner(BannerClosed)
}

// SendInput sends p as one binary frame. Input while not open is dropped.
func (s *Session) SendInput(p []byte) error {
	return s.write(websocket.BinaryMessage, p)
}

// SendResize sends the resize control frame when open.
func (s *Session) SendResize(cols, rows int) error {
	data, err := json.Marshal(resizeMessage{Type: "resize", Cols: cols, Rows: rows})
	if err != nil {
		return err
	}
	return s.write(websocket.TextMessage, data)
}

func (s *Session) write(messageType int, data []byte) error {
	s.mu.Lock()
	conn := s.conn
	open := s.state == SessionOpen
	s.mu.Unlock()
	if !open || conn == nil {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(messageType, data); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal, "terminal write failed", "")
	}
	return nil
}

// Close shuts the transport down without writing banners.
func (s *Session) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	if s.state != SessionIdle {
		s.state = SessionClosed
	}
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	s.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	s.writeMu.Unlock()
	return conn.Close()
}

// State returns the transport state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// URL returns the endpoint this session dials.
func (s *Session) URL() string {
	return s.opts.URL
}

func (s *Session) setState(st SessionState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.notify()
}

func (s *Session) banner(text string) {
	_, _ = io.WriteString(s.opts.Output, text)
	s.notify()
}

func (s *Session) notify() {
	if s.opts.OnUpdate != nil {
		s.opts.OnUpdate()
	}
}
