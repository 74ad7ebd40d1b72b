// Package desktop is the top-level bubbletea model: it routes input
// through the session-switch chord, window-manager chrome, and the
// focused window's content, drives the 16 ms frame tick, and
// composites everything into the output frame.
package desktop

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stylith/termdesk/internal/config"
	"github.com/stylith/termdesk/internal/screen"
	"github.com/stylith/termdesk/internal/session"
	"github.com/stylith/termdesk/internal/term"
	"github.com/stylith/termdesk/internal/wm"
)

const framePeriod = 16 * time.Millisecond

type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(framePeriod, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Model is the desktop state. Everything here is touched only by the
// UI goroutine; the pty reader goroutines stay behind each session's
// emulator.
type Model struct {
	cfg    *config.Config
	styles styles

	width  int
	height int

	wm    *wm.Manager
	reg   *session.Registry
	chord *session.Chord
	menu  *wm.StartMenu

	flash      string
	flashUntil time.Time

	lastClickWin uint64
	lastClickAt  time.Time

	// sessionWinID is the one window bound to the session slots; only
	// it feeds the switch chord and only its session is ever parked.
	// Menu-launched terminals stay outside the registry.
	sessionWinID uint64

	spawnedInitial bool
	now            time.Time
	quitting       bool
}

func New(cfg *config.Config) *Model {
	m := &Model{
		cfg:    cfg,
		styles: newStyles(cfg.Theme),
		wm:     wm.New(screen.Rect{}),
		reg:    session.NewRegistry(),
		chord:  session.NewChord(cfg.Timing.ChordWindow()),
		menu:   wm.NewStartMenu(menuItems(cfg), cfg.Timing.HoverDelay()),
		now:    time.Now(),
	}
	return m
}

// menuItems builds the start-menu tree from config plus the builtin
// leaves.
func menuItems(cfg *config.Config) []wm.MenuItem {
	items := make([]wm.MenuItem, 0, len(cfg.Menu)+3)
	for _, e := range cfg.Menu {
		items = append(items, menuItem(e))
	}
	items = append(items,
		wm.MenuItem{Label: "Files", Launch: &wm.LaunchSpec{Builtin: "files"}},
		wm.MenuItem{Label: "Settings", Launch: &wm.LaunchSpec{Builtin: "settings"}},
		wm.MenuItem{Label: "Exit", Launch: &wm.LaunchSpec{Builtin: "exit"}},
	)
	return items
}

func menuItem(e config.MenuEntry) wm.MenuItem {
	it := wm.MenuItem{Label: e.Label}
	if len(e.Items) > 0 {
		for _, c := range e.Items {
			it.Children = append(it.Children, menuItem(c))
		}
		return it
	}
	it.Launch = &wm.LaunchSpec{
		Program: e.Program,
		Args:    e.Args,
		Caption: e.Label,
		Profile: e.Profile,
	}
	return it
}

func (m *Model) Init() tea.Cmd {
	return frameTick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.wm.SetDesktop(m.desktopArea())
		if !m.spawnedInitial && m.width > 0 && m.height > 2 {
			m.spawnedInitial = true
			m.openSessionWindow(0, nil)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.routeKey(msg)

	case tea.MouseMsg:
		return m, m.routeMouse(msg)

	case frameMsg:
		m.now = time.Time(msg)
		m.onFrame()
		if m.quitting {
			return m, tea.Quit
		}
		return m, frameTick()
	}
	return m, nil
}

// desktopArea is the region between the top status bar and the
// taskbar row.
func (m *Model) desktopArea() screen.Rect {
	h := m.height - 2
	if h < 0 {
		h = 0
	}
	return screen.Rect{X: 0, Y: 1, W: m.width, H: h}
}

// ── Frame tick ────────────────────────────────────────────────────

func (m *Model) onFrame() {
	m.reapDeadSessions()
	m.syncPtySizes()

	if out := m.chord.Expire(m.now); len(out) > 0 {
		if _, pk := m.slotPty(); pk != nil {
			pk.Session.Write(out)
		}
	}

	m.menu.AdvanceHover(m.now)

	if i, ok := m.reg.TakeSwitchRequest(); ok {
		m.executeSwitch(i)
	}

	if m.flash != "" && m.now.After(m.flashUntil) {
		m.flash = ""
	}
}

// reapDeadSessions removes windows whose child exited on its own.
func (m *Model) reapDeadSessions() {
	for _, w := range append([]*wm.Window(nil), m.wm.Windows()...) {
		pk, ok := w.Kind.(*PtyKind)
		if !ok || pk.Session.IsAlive() {
			continue
		}
		m.closeWindow(w)
		m.setFlash(w.Title + " exited")
	}
}

// syncPtySizes keeps each pty's grid matching its window interior.
// Resize is a no-op on unchanged dimensions, so per-frame is cheap.
func (m *Model) syncPtySizes() {
	for _, w := range m.wm.Windows() {
		if w.Minimized {
			continue
		}
		if pk, ok := w.Kind.(*PtyKind); ok {
			c := w.ContentRect()
			pk.Session.Resize(c.W, c.H)
		}
	}
}

func (m *Model) setFlash(s string) {
	m.flash = s
	m.flashUntil = m.now.Add(3 * time.Second)
}

// ── Key routing ───────────────────────────────────────────────────

func (m *Model) routeKey(msg tea.KeyMsg) tea.Cmd {
	if m.menu.Open {
		return m.menuKey(msg)
	}

	// Session-switch chord, only when the slot-bound terminal has
	// focus. Other terminals get tildes verbatim.
	if w, pk := m.slotPty(); pk != nil && m.wm.Focused() == w && !w.Minimized {
		res := m.chord.Feed(msg, time.Now(), m.reg.ValidTarget)
		if len(res.Flush) > 0 {
			pk.Session.Write(res.Flush)
		}
		if res.HasSwitch {
			m.reg.RequestSwitch(res.Switch)
			return nil
		}
		if res.Consumed {
			return nil
		}
	}

	// Window-manager shortcuts apply only while no terminal owns the
	// keyboard; a focused pty gets its F-keys encoded instead.
	if m.focusedPty() == nil {
		switch msg.Type {
		case tea.KeyF10:
			m.menu.OpenMenu()
			return nil
		case tea.KeyF6:
			m.cycleFocus()
			return nil
		}
	}

	if w := m.wm.Focused(); w != nil && !w.Minimized && w.Kind != nil {
		w.Kind.HandleKey(msg)
		return nil
	}

	// Empty desktop: allow a plain quit.
	if msg.Type == tea.KeyCtrlC {
		m.shutdown()
		return tea.Quit
	}
	return nil
}

func (m *Model) menuKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEscape || msg.Type == tea.KeyF10 {
		m.menu.Close()
		return nil
	}
	spec, _ := m.menu.Key(msg)
	if spec != nil {
		m.menu.Close()
		return m.launch(spec)
	}
	return nil
}

func (m *Model) cycleFocus() {
	ws := m.wm.Windows()
	if len(ws) < 2 {
		return
	}
	// The bottom window comes to the top.
	m.wm.Focus(ws[0].ID)
}

// ── Mouse routing ─────────────────────────────────────────────────

func (m *Model) routeMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := msg.X, msg.Y

	if m.wm.Dragging() {
		switch msg.Action {
		case tea.MouseActionMotion:
			m.wm.DragTo(x, y)
			return nil
		case tea.MouseActionRelease:
			m.wm.DragTo(x, y)
			m.wm.EndDrag()
			return nil
		}
	}

	if m.menu.Open {
		return m.menuMouse(msg)
	}

	if y == m.height-1 {
		return m.taskbarMouse(msg)
	}
	if y == 0 {
		return nil
	}
	return m.windowMouse(msg)
}

func (m *Model) menuMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := msg.X, msg.Y
	desktop := m.desktopArea()

	for level := m.menu.OpenLevels() - 1; level >= 0; level-- {
		r := m.menu.PaneRect(desktop, level)
		if !r.Contains(x, y) {
			continue
		}
		row := y - r.Y - 1
		switch msg.Action {
		case tea.MouseActionMotion:
			m.menu.Hover(level, row, m.now)
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				if spec := m.menu.Click(level, row); spec != nil {
					m.menu.Close()
					return m.launch(spec)
				}
			}
		}
		return nil
	}

	// The start button keeps toggling while the menu is open.
	if msg.Action == tea.MouseActionPress {
		if y == m.height-1 && x < 8 {
			m.menu.Close()
			return nil
		}
		m.menu.Close()
	} else if msg.Action == tea.MouseActionMotion {
		m.menu.CancelHover()
	}
	return nil
}

func (m *Model) taskbarMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if msg.X < 8 {
		m.menu.OpenMenu()
		return nil
	}
	id, delta, ok := m.wm.TaskbarHit(m.width, msg.X)
	if !ok {
		return nil
	}
	if delta != 0 {
		m.wm.TaskbarPageStep(delta)
		return nil
	}
	w := m.wm.ByID(id)
	if w == nil {
		return nil
	}
	if w.Minimized {
		m.wm.Restore(w)
	} else if m.wm.Focused() == w {
		m.wm.Minimize(w)
	} else {
		m.wm.Focus(w.ID)
	}
	return nil
}

func (m *Model) windowMouse(msg tea.MouseMsg) tea.Cmd {
	x, y := msg.X, msg.Y
	w := m.wm.TopAt(x, y)
	if w == nil {
		return nil
	}

	// Wheel and bare motion go straight to content.
	if msg.Action == tea.MouseActionMotion || isWheel(msg.Button) {
		m.forwardContentMouse(w, msg)
		return nil
	}
	if msg.Action != tea.MouseActionPress {
		m.forwardContentMouse(w, msg)
		return nil
	}

	// Any press raises the window before its effect applies.
	m.wm.Focus(w.ID)

	if msg.Button != tea.MouseButtonLeft {
		m.forwardContentMouse(w, msg)
		return nil
	}

	switch w.Hit(x, y) {
	case wm.HitClose:
		m.closeWindow(w)
	case wm.HitMaximize:
		m.wm.ToggleMaximize(w)
	case wm.HitMinimize:
		m.wm.Minimize(w)
	case wm.HitCornerTL:
		m.wm.StartResize(w, wm.CornerTL)
	case wm.HitCornerTR:
		m.wm.StartResize(w, wm.CornerTR)
	case wm.HitCornerBL:
		m.wm.StartResize(w, wm.CornerBL)
	case wm.HitCornerBR:
		m.wm.StartResize(w, wm.CornerBR)
	case wm.HitTitle:
		if m.isDoubleClick(w.ID) {
			m.wm.ToggleMaximize(w)
		} else {
			m.wm.StartMove(w, x, y)
		}
	case wm.HitContent:
		m.forwardContentMouse(w, msg)
	}
	return nil
}

func (m *Model) isDoubleClick(winID uint64) bool {
	now := time.Now()
	hit := winID == m.lastClickWin && now.Sub(m.lastClickAt) <= m.cfg.Timing.DoubleClick()
	m.lastClickWin = winID
	m.lastClickAt = now
	if hit {
		m.lastClickWin = 0
	}
	return hit
}

func (m *Model) forwardContentMouse(w *wm.Window, msg tea.MouseMsg) {
	if w.Kind == nil || w.Minimized {
		return
	}
	c := w.ContentRect()
	if !c.Contains(msg.X, msg.Y) {
		return
	}
	w.Kind.HandleMouse(msg, msg.X-c.X, msg.Y-c.Y)
}

func isWheel(b tea.MouseButton) bool {
	switch b {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown,
		tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		return true
	}
	return false
}

// ── Window / session plumbing ─────────────────────────────────────

func (m *Model) focusedPty() *PtyKind {
	w := m.wm.Focused()
	if w == nil || w.Minimized {
		return nil
	}
	pk, _ := w.Kind.(*PtyKind)
	return pk
}

// slotPty returns the slot-bound terminal window, nil when it was
// closed.
func (m *Model) slotPty() (*wm.Window, *PtyKind) {
	w := m.wm.ByID(m.sessionWinID)
	if w == nil {
		return nil, nil
	}
	pk, _ := w.Kind.(*PtyKind)
	return w, pk
}

// closeWindow always terminates an owned session; closing and
// switching are distinct paths. After a terminal closes, the config is
// re-read in case an embedded shell edited it.
func (m *Model) closeWindow(w *wm.Window) {
	m.wm.Remove(w.ID)
	if w.ID == m.sessionWinID {
		m.sessionWinID = 0
	}
	pk, ok := w.Kind.(*PtyKind)
	if !ok {
		return
	}
	pk.Session.Terminate()
	if cfg, err := config.Load(); err == nil {
		m.applyConfig(cfg)
	}
}

func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.styles = newStyles(cfg.Theme)
	m.chord.Window = cfg.Timing.ChordWindow()
	m.menu.HoverDelay = cfg.Timing.HoverDelay()
	m.menu.Items = menuItems(cfg)
}

// executeSwitch parks the slot window's session and attaches the
// target slot's session (resumed, or freshly spawned) to the same
// window. Nothing is terminated on this path, and windows outside the
// slot binding are never touched.
func (m *Model) executeSwitch(i int) {
	w, pk := m.slotPty()
	if pk == nil {
		sess, _ := m.reg.Resume(i)
		m.openSessionWindow(i, sess)
		return
	}

	target, ok := m.reg.Resume(i)
	if !ok {
		c := w.ContentRect()
		var err error
		target, err = m.spawnShell(c.W, c.H)
		if err != nil {
			m.setFlash(err.Error())
			return
		}
	}

	m.reg.Park(m.reg.Active(), pk.Session)
	pk.Session = target
	m.reg.SetActive(i)
	w.Title = sessionTitle(i)
}

// openSessionWindow creates a terminal window bound to slot i, using
// sess when a parked session is being rehoused.
func (m *Model) openSessionWindow(i int, sess *term.Session) {
	if !m.reg.ValidTarget(i) {
		m.setFlash(session.ErrTooManySessions.Error())
		return
	}
	rect := m.cascadeRect()
	inner := rect.Inset(1)
	if sess == nil {
		var err error
		sess, err = m.spawnShell(inner.W, inner.H)
		if err != nil {
			m.setFlash(err.Error())
			return
		}
	}
	prof := m.cfg.Profile("default")
	w := m.wm.Add(sessionTitle(i), rect, prof.MinCols+2, prof.MinRows+2, &PtyKind{Session: sess})
	m.sessionWinID = w.ID
	m.reg.SetActive(i)
}

func (m *Model) spawnShell(cols, rows int) (*term.Session, error) {
	return term.SpawnWithFallback(m.cfg.DefaultShell(), nil, cols, rows, nil)
}

func sessionTitle(i int) string {
	return fmt.Sprintf("Session %d", i+1)
}

// shutdown terminates every owned session: window-held and parked.
func (m *Model) shutdown() {
	for _, w := range m.wm.Windows() {
		if pk, ok := w.Kind.(*PtyKind); ok {
			pk.Session.Terminate()
		}
	}
	m.reg.TerminateAll()
}
