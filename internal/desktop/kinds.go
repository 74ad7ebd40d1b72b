package desktop

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stylith/termdesk/internal/config"
	"github.com/stylith/termdesk/internal/emu"
	"github.com/stylith/termdesk/internal/screen"
	"github.com/stylith/termdesk/internal/term"
)

// ── PTY window ────────────────────────────────────────────────────

// PtyKind hosts one terminal session inside a window. The window owns
// the session: closing the window terminates it, switching away parks
// it instead.
type PtyKind struct {
	Session     *term.Session
	Passthrough bool
}

func (k *PtyKind) Render(s *screen.Surface, area screen.Rect) {
	k.Session.Render(s, area)
}

func (k *PtyKind) HandleKey(msg tea.KeyMsg) bool {
	b := term.KeyToBytes(msg, k.Session.Emulator().ApplicationCursorKeys())
	if b == nil {
		return false
	}
	k.Session.Write(b)
	return true
}

// HandleMouse forwards the event in the child's advertised reporting
// protocol. Without passthrough, or when the child never asked for
// mouse input, content clicks go nowhere.
func (k *PtyKind) HandleMouse(msg tea.MouseMsg, localX, localY int) bool {
	if !k.Passthrough {
		return false
	}
	em := k.Session.Emulator()
	mode := em.Mouse()
	if mode == emu.MouseOff {
		return false
	}
	if msg.Action == tea.MouseActionMotion {
		held := msg.Button != tea.MouseButtonNone
		if mode == emu.MouseClicks {
			return false
		}
		if mode == emu.MouseCellMotion && !held {
			return false
		}
	}
	b := term.MouseToBytes(msg, localX, localY, em.SGRMouse())
	if b == nil {
		return false
	}
	k.Session.Write(b)
	return true
}

// ── File manager ──────────────────────────────────────────────────

type fileEntry struct {
	name  string
	isDir bool
}

// FileManagerKind is a minimal directory browser: Up/Down/Enter or
// double-click to descend, Backspace to ascend.
type FileManagerKind struct {
	dir     string
	entries []fileEntry
	sel     int
	scroll  int

	doubleClick time.Duration
	lastRow     int
	lastAt      time.Time
}

func NewFileManager(dir string, doubleClick time.Duration) *FileManagerKind {
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}
	k := &FileManagerKind{dir: dir, doubleClick: doubleClick, lastRow: -1}
	k.reload()
	return k
}

func (k *FileManagerKind) Dir() string { return k.dir }

func (k *FileManagerKind) reload() {
	k.entries = k.entries[:0]
	k.sel, k.scroll = 0, 0
	ents, err := os.ReadDir(k.dir)
	if err != nil {
		return
	}
	for _, e := range ents {
		k.entries = append(k.entries, fileEntry{name: e.Name(), isDir: e.IsDir()})
	}
	sort.Slice(k.entries, func(i, j int) bool {
		if k.entries[i].isDir != k.entries[j].isDir {
			return k.entries[i].isDir
		}
		return k.entries[i].name < k.entries[j].name
	})
}

func (k *FileManagerKind) Render(s *screen.Surface, area screen.Rect) {
	if area.W <= 0 || area.H <= 0 {
		return
	}
	dim := screen.Style{Fg: screen.RGB(0x2a, 0x8f, 0x46)}
	s.Fill(area, screen.Blank())
	s.SetString(area.X, area.Y, clipString(k.dir, area.W), dim)

	rows := area.H - 1
	if k.sel < k.scroll {
		k.scroll = k.sel
	}
	if rows > 0 && k.sel >= k.scroll+rows {
		k.scroll = k.sel - rows + 1
	}
	for i := 0; i < rows; i++ {
		idx := k.scroll + i
		if idx >= len(k.entries) {
			break
		}
		e := k.entries[idx]
		label := e.name
		if e.isDir {
			label += "/"
		}
		st := screen.Style{}
		if idx == k.sel {
			st.Reverse = true
		}
		s.SetString(area.X, area.Y+1+i, clipString(label, area.W), st)
	}
}

func (k *FileManagerKind) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if k.sel > 0 {
			k.sel--
		}
	case tea.KeyDown:
		if k.sel < len(k.entries)-1 {
			k.sel++
		}
	case tea.KeyPgUp:
		k.sel -= 10
		if k.sel < 0 {
			k.sel = 0
		}
	case tea.KeyPgDown:
		k.sel += 10
		if k.sel >= len(k.entries) {
			k.sel = len(k.entries) - 1
		}
	case tea.KeyEnter:
		k.activate(k.sel)
	case tea.KeyBackspace:
		k.ascend()
	default:
		return false
	}
	return true
}

// HandleMouse selects on click and descends on a double click within
// the configured window.
func (k *FileManagerKind) HandleMouse(msg tea.MouseMsg, localX, localY int) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	row := k.scroll + localY - 1
	if localY < 1 || row < 0 || row >= len(k.entries) {
		return false
	}
	k.sel = row
	now := time.Now()
	if row == k.lastRow && now.Sub(k.lastAt) <= k.doubleClick {
		k.lastRow = -1
		k.activate(row)
		return true
	}
	k.lastRow = row
	k.lastAt = now
	return true
}

func (k *FileManagerKind) activate(idx int) {
	if idx < 0 || idx >= len(k.entries) {
		return
	}
	e := k.entries[idx]
	if !e.isDir {
		return // plain files have no open action here
	}
	k.dir = filepath.Join(k.dir, e.name)
	k.reload()
}

func (k *FileManagerKind) ascend() {
	parent := filepath.Dir(k.dir)
	if parent == k.dir {
		return
	}
	k.dir = parent
	k.reload()
}

// ── Settings panel ────────────────────────────────────────────────

// SettingsKind edits the interaction timing constants in place and
// persists them on change.
type SettingsKind struct {
	cfg  *config.Config
	sel  int
	save func(*config.Config)
}

func NewSettings(cfg *config.Config, save func(*config.Config)) *SettingsKind {
	if save == nil {
		save = func(c *config.Config) { config.Save(c) }
	}
	return &SettingsKind{cfg: cfg, save: save}
}

type settingsField struct {
	label string
	get   func(*config.Config) int
	set   func(*config.Config, int)
	step  int
	lo    int
	hi    int
}

var settingsFields = []settingsField{
	{
		label: "Chord window (ms)",
		get:   func(c *config.Config) int { return c.Timing.ChordWindowMS },
		set:   func(c *config.Config, v int) { c.Timing.ChordWindowMS = v },
		step:  100, lo: 200, hi: 5000,
	},
	{
		label: "Hover delay (ms)",
		get:   func(c *config.Config) int { return c.Timing.HoverDelayMS },
		set:   func(c *config.Config, v int) { c.Timing.HoverDelayMS = v },
		step:  10, lo: 0, hi: 1000,
	},
	{
		label: "Double click (ms)",
		get:   func(c *config.Config) int { return c.Timing.DoubleClickMS },
		set:   func(c *config.Config, v int) { c.Timing.DoubleClickMS = v },
		step:  50, lo: 150, hi: 1500,
	},
}

func (k *SettingsKind) Render(s *screen.Surface, area screen.Rect) {
	s.Fill(area, screen.Blank())
	s.SetString(area.X, area.Y, "Settings", screen.Style{Bold: true})
	for i, f := range settingsFields {
		st := screen.Style{}
		if i == k.sel {
			st.Reverse = true
		}
		line := clipString(f.label, area.W-8)
		s.SetString(area.X, area.Y+2+i, line, st)
		val := strconv.Itoa(f.get(k.cfg))
		s.SetString(area.Right()-len(val)-1, area.Y+2+i, val, st)
	}
	s.SetString(area.X, area.Bottom()-1, "←/→ adjust", screen.Style{Fg: screen.RGB(0x2a, 0x8f, 0x46)})
}

func (k *SettingsKind) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if k.sel > 0 {
			k.sel--
		}
	case tea.KeyDown:
		if k.sel < len(settingsFields)-1 {
			k.sel++
		}
	case tea.KeyLeft:
		k.adjust(-1)
	case tea.KeyRight:
		k.adjust(1)
	default:
		return false
	}
	return true
}

func (k *SettingsKind) HandleMouse(msg tea.MouseMsg, localX, localY int) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	row := localY - 2
	if row >= 0 && row < len(settingsFields) {
		k.sel = row
		return true
	}
	return false
}

func (k *SettingsKind) adjust(dir int) {
	f := settingsFields[k.sel]
	v := f.get(k.cfg) + dir*f.step
	if v < f.lo {
		v = f.lo
	}
	if v > f.hi {
		v = f.hi
	}
	f.set(k.cfg, v)
	k.save(k.cfg)
}

// ── Helpers ───────────────────────────────────────────────────────

func clipString(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w])
}
