// Package term owns pseudo-terminal sessions: spawning a child on a
// pty, pumping its output through the terminal emulator on a dedicated
// reader goroutine, and encoding desktop input events back into the
// byte sequences terminal applications expect.
package term

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/creack/pty"

	"github.com/stylith/termdesk/internal/emu"
	"github.com/stylith/termdesk/internal/screen"
)

// SpawnError reports a failed launch. Fallback is nil when the
// shell-wrapped retry was not attempted.
type SpawnError struct {
	Program  string
	Direct   error
	Fallback error
}

func (e *SpawnError) Error() string {
	if e.Fallback != nil {
		return fmt.Sprintf("spawn %s: %v (shell fallback: %v)", e.Program, e.Direct, e.Fallback)
	}
	return fmt.Sprintf("spawn %s: %v", e.Program, e.Direct)
}

// Session is one child process attached to a pty, with its output
// mirrored into an emulator grid. The reader goroutine is the only
// writer to the emulator; the UI goroutine reads snapshots through it.
type Session struct {
	mu     sync.Mutex
	ptmx   *os.File
	cmd    *exec.Cmd
	em     *emu.Emulator
	cols   int
	rows   int
	closed bool

	exited atomic.Bool
}

// Spawn starts program on a freshly allocated pty sized cols×rows and
// kicks off the reader goroutine. env entries are appended to the
// inherited environment; TERM is always forced.
func Spawn(program string, args []string, cols, rows int, env []string) (*Session, error) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cmd := exec.Command(program, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, &SpawnError{Program: program, Direct: err}
	}

	s := &Session{
		ptmx: ptmx,
		cmd:  cmd,
		em:   emu.New(cols, rows, ptmx),
		cols: cols,
		rows: rows,
	}

	go s.readLoop()
	go func() {
		cmd.Wait()
		s.exited.Store(true)
	}()

	return s, nil
}

// SpawnWithFallback tries a direct spawn, then retries bare program
// names through the user's login shell in command mode before giving
// up. Only when both attempts fail is the combined error returned.
func SpawnWithFallback(program string, args []string, cols, rows int, env []string) (*Session, error) {
	s, err := Spawn(program, args, cols, rows, env)
	if err == nil {
		return s, nil
	}
	if strings.Contains(program, "/") {
		return nil, err
	}

	shell, line := fallbackCommand(program, args)
	s, err2 := Spawn(shell, []string{"-ic", line}, cols, rows, env)
	if err2 == nil {
		return s, nil
	}
	direct := err.(*SpawnError).Direct
	return nil, &SpawnError{Program: program, Direct: direct, Fallback: err2.(*SpawnError).Direct}
}

// fallbackCommand builds the login-shell retry: $SHELL -ic '<line>'.
func fallbackCommand(program string, args []string) (shell, line string) {
	shell = os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(program))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return shell, strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!*?[](){};&|<>~#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (s *Session) readLoop() {
	buf := make([]byte, 32*1024)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.em.Process(buf[:n])
		}
		if err != nil {
			s.exited.Store(true)
			return
		}
	}
}

// Write forwards input bytes to the child. Best-effort: a dead child
// simply stops consuming.
func (s *Session) Write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(p) == 0 {
		return
	}
	s.ptmx.Write(p)
}

// Resize updates the pty window size and the emulator grid together.
// Unchanged dimensions are a no-op, so it is safe to call every frame.
func (s *Session) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || (cols == s.cols && rows == s.rows) {
		return
	}
	pty.Setsize(s.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	s.em.Resize(cols, rows)
	s.cols, s.rows = cols, rows
}

func (s *Session) Size() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

// IsAlive is a non-blocking liveness poll.
func (s *Session) IsAlive() bool {
	return !s.exited.Load()
}

// Emulator exposes the grid for mode queries by the input router.
func (s *Session) Emulator() *emu.Emulator {
	return s.em
}

// Render copies the emulator grid into area on the surface, blanking
// cells past the grid edge. Each Cell read takes and releases the
// engine lock, so the reader goroutine is never blocked for more than
// one cell access.
func (s *Session) Render(surf *screen.Surface, area screen.Rect) {
	for r := 0; r < area.H; r++ {
		for c := 0; c < area.W; c++ {
			cell, _ := s.em.Cell(r, c)
			surf.Set(area.X+c, area.Y+r, cell)
		}
	}
}

// CursorScreenPos translates the emulator cursor into surface
// coordinates within area. ok is false when the cursor is hidden or
// outside the visible area.
func (s *Session) CursorScreenPos(area screen.Rect) (x, y int, ok bool) {
	if !s.em.CursorVisible() {
		return 0, 0, false
	}
	row, col := s.em.CursorPos()
	if row < 0 || row >= area.H || col < 0 || col >= area.W {
		return 0, 0, false
	}
	return area.X + col, area.Y + row, true
}

// Terminate kills the child best-effort and closes the pty so the
// reader goroutine sees EOF and exits on its own. Idempotent; never
// blocks on the child.
func (s *Session) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Signal(syscall.SIGTERM)
	}
	s.ptmx.Close()
}
