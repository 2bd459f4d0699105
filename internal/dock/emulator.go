package dock

import (
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/muesli/termenv"
)

// DefaultScrollback is the number of finished lines a Screen keeps.
const DefaultScrollback = 5000

// Emulator renders PTY output and turns local input into PTY bytes.
type Emulator interface {
	io.Writer
	Resize(cols, rows int)
	Cols() int
	Rows() int
	// OnData sets the sink for Input.
	OnData(fn func([]byte))
	Input(p []byte)
	View() string
}

// Theme colors are hex strings. Palette maps ANSI color indexes (0-15) to
// replacement colors; unmapped indexes pass through.
type Theme struct {
	Background string
	Foreground string
	Cursor     string
	Palette    map[int]string
}

// DefaultTheme is the dock's dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background: "#080808",
		Foreground: "#e0e0e0",
		Cursor:     "#e87d2b",
		Palette: map[int]string{
			0: "#1a1a1a",
			1: "#e74c3c",
			2: "#2ecc71",
			3: "#f39c12",
			4: "#3498db",
			5: "#9b59b6",
			6: "#7fb3cc",
			7: "#e0e0e0",
			8: "#555555",
		},
	}
}

// ScreenOptions configures a Screen.
type ScreenOptions struct {
	Theme       Theme
	Profile     termenv.Profile
	Scrollback  int
	CursorBlink bool
	Cols        int
	Rows        int
}

type cell struct {
	sgr string // SGR sequences emitted before r
	r   rune
}

type parseState int

const (
	stGround parseState = iota
	stEsc
	stEscInter
	stCSI
	stOSC
	stOSCEsc
)

// Screen is a line-oriented emulator. It keeps SGR styling (with the basic
// colors remapped to the theme), applies carriage return, backspace, tab,
// erase-in-line and horizontal cursor moves, and drops every other control
// sequence.
type Screen struct {
	mu   sync.Mutex
	opts ScreenOptions

	lines   []string
	cur     []cell
	col     int
	pending string // SGR waiting for the next printed rune
	carry   string // SGR active since the last reset, replayed on new lines

	state   parseState
	seq     []byte
	partial []byte

	cols, rows int
	cursorOn   bool
	onData     func([]byte)
}

// NewScreen returns an empty screen.
func NewScreen(opts ScreenOptions) *Screen {
	if opts.Scrollback <= 0 {
		opts.Scrollback = DefaultScrollback
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	return &Screen{
		opts:     opts,
		cols:     opts.Cols,
		rows:     opts.Rows,
		cursorOn: true,
	}
}

// Write feeds PTY output. It never fails.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range p {
		s.feed(b)
	}
	return len(p), nil
}

// WriteString is Write for text frames and banners.
func (s *Screen) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

func (s *Screen) feed(b byte) {
	switch s.state {
	case stGround:
		switch {
		case b == 0x1b:
			s.partial = s.partial[:0]
			s.state = stEsc
		case b < 0x20 || b == 0x7f:
			s.control(b)
		default:
			s.partial = append(s.partial, b)
			for len(s.partial) > 0 && utf8.FullRune(s.partial) {
				r, n := utf8.DecodeRune(s.partial)
				s.partial = s.partial[n:]
				s.print(r)
			}
		}

	case stEsc:
		switch {
		case b == '[':
			s.seq = s.seq[:0]
			s.state = stCSI
		case b == ']':
			s.state = stOSC
		case b >= 0x20 && b <= 0x2f:
			s.state = stEscInter
		default:
			s.state = stGround
		}

	case stEscInter:
		if b >= 0x30 && b <= 0x7e {
			s.state = stGround
		}

	case stCSI:
		if b >= 0x40 && b <= 0x7e {
			s.csi(string(s.seq), b)
			s.state = stGround
			return
		}
		s.seq = append(s.seq, b)

	case stOSC:
		switch b {
		case 0x07:
			s.state = stGround
		case 0x1b:
			s.state = stOSCEsc
		}

	case stOSCEsc:
		if b == '\\' {
			s.state = stGround
		} else {
			s.state = stOSC
		}
	}
}

func (s *Screen) control(b byte) {
	switch b {
	case '\r':
		s.col = 0
	case '\n':
		s.newline()
	case '\b':
		if s.col > 0 {
			s.col--
		}
	case '\t':
		next := (s.col/8 + 1) * 8
		for s.col < next {
			s.print(' ')
		}
	}
}

func (s *Screen) print(r rune) {
	for len(s.cur) < s.col {
		s.cur = append(s.cur, cell{r: ' '})
	}
	c := cell{sgr: s.pending, r: r}
	s.pending = ""
	if s.col < len(s.cur) {
		s.cur[s.col] = c
	} else {
		s.cur = append(s.cur, c)
	}
	s.col++
}

func (s *Screen) newline() {
	s.lines = append(s.lines, renderCells(s.cur, s.pending))
	if over := len(s.lines) - s.opts.Scrollback; over > 0 {
		s.lines = append(s.lines[:0], s.lines[over:]...)
	}
	s.cur = s.cur[:0]
	s.col = 0
	s.pending = s.carry
}

func (s *Screen) csi(params string, final byte) {
	if params != "" && strings.ContainsAny(params[:1], "?<=>") {
		return
	}
	switch final {
	case 'm':
		seq := translateSGR(params, s.opts.Theme, s.opts.Profile)
		if seq == "" {
			return
		}
		s.pending += seq
		if isReset(params) {
			s.carry = ""
		} else {
			s.carry += seq
		}
	case 'K':
		switch params {
		case "", "0":
			if s.col < len(s.cur) {
				s.cur = s.cur[:s.col]
			}
		case "2":
			s.cur = s.cur[:0]
		}
	case 'C':
		s.col += count(params)
	case 'D':
		s.col -= count(params)
		if s.col < 0 {
			s.col = 0
		}
	}
}

func count(params string) int {
	n, err := strconv.Atoi(params)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func isReset(params string) bool {
	return params == "" || params == "0"
}

// translateSGR rewrites the basic and bright color parameters of one SGR
// sequence to the theme palette in the given profile. It returns "" when
// nothing of the sequence survives.
func translateSGR(params string, theme Theme, profile termenv.Profile) string {
	if params == "" {
		return "\x1b[m"
	}

	in := strings.Split(params, ";")
	out := make([]string, 0, len(in))
	for i := 0; i < len(in); i++ {
		p := in[i]
		n, err := strconv.Atoi(p)
		if err != nil {
			out = append(out, p)
			continue
		}

		idx, bg := -1, false
		switch {
		case n >= 30 && n <= 37:
			idx = n - 30
		case n >= 40 && n <= 47:
			idx, bg = n-40, true
		case n >= 90 && n <= 97:
			idx = n - 90 + 8
		case n >= 100 && n <= 107:
			idx, bg = n-100+8, true
		case n == 38 || n == 48:
			// Extended colors carry their own operands.
			end := i + 1
			if i+1 < len(in) {
				switch in[i+1] {
				case "5":
					end = i + 3
				case "2":
					end = i + 5
				}
			}
			if end > len(in) {
				end = len(in)
			}
			if profile != termenv.Ascii {
				out = append(out, in[i:end]...)
			}
			i = end - 1
			continue
		}

		if idx < 0 {
			out = append(out, p)
			continue
		}
		if profile == termenv.Ascii {
			continue
		}
		hex, ok := theme.Palette[idx]
		if !ok {
			out = append(out, p)
			continue
		}
		c := profile.Color(hex)
		if c == nil {
			out = append(out, p)
			continue
		}
		if seq := c.Sequence(bg); seq != "" {
			out = append(out, seq)
		}
	}

	if len(out) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(out, ";") + "m"
}

func renderCells(cells []cell, trailing string) string {
	var b strings.Builder
	styled := trailing != ""
	for _, c := range cells {
		if c.sgr != "" {
			styled = true
			b.WriteString(c.sgr)
		}
		b.WriteRune(c.r)
	}
	b.WriteString(trailing)
	if styled {
		b.WriteString("\x1b[0m")
	}
	return b.String()
}

// Resize sets the grid size. Non-positive values are ignored.
func (s *Screen) Resize(cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cols > 0 {
		s.cols = cols
	}
	if rows > 0 {
		s.rows = rows
	}
}

func (s *Screen) Cols() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols
}

func (s *Screen) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

func (s *Screen) OnData(fn func([]byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onData = fn
}

// Input forwards locally typed bytes to the OnData sink.
func (s *Screen) Input(p []byte) {
	s.mu.Lock()
	fn := s.onData
	s.mu.Unlock()
	if fn != nil && len(p) > 0 {
		fn(p)
	}
}

// Blink toggles the cursor when blinking is enabled.
func (s *Screen) Blink() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.CursorBlink {
		s.cursorOn = !s.cursorOn
	}
}

// Lines returns every kept line including the unfinished one, without the
// cursor.
func (s *Screen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.lines)+1)
	out = append(out, s.lines...)
	return append(out, renderCells(s.cur, s.pending))
}

// View returns the last Rows lines with the cursor drawn on the current one.
func (s *Screen) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.renderCursorLine()
	start := len(s.lines) - (s.rows - 1)
	if start < 0 {
		start = 0
	}
	visible := make([]string, 0, s.rows)
	visible = append(visible, s.lines[start:]...)
	visible = append(visible, current)
	return strings.Join(visible, "\n")
}

func (s *Screen) renderCursorLine() string {
	if !s.cursorOn {
		return renderCells(s.cur, s.pending)
	}

	under := " "
	if s.col < len(s.cur) {
		under = string(s.cur[s.col].r)
	}
	cursor := s.opts.Profile.String(under).
		Background(s.opts.Profile.Color(s.opts.Theme.Cursor)).
		Foreground(s.opts.Profile.Color(s.opts.Theme.Background))

	head := s.cur
	var tail []cell
	if s.col < len(s.cur) {
		head, tail = s.cur[:s.col], s.cur[s.col+1:]
	}
	line := renderCells(head, "")
	for i := len(head); i < s.col; i++ {
		line += " "
	}
	return line + cursor.String() + renderCells(tail, s.pending)
}
