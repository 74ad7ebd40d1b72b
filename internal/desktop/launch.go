package desktop

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stylith/termdesk/internal/config"
	"github.com/stylith/termdesk/internal/screen"
	"github.com/stylith/termdesk/internal/term"
	"github.com/stylith/termdesk/internal/wm"
)

// launch executes an activated start-menu leaf: a builtin window or a
// program spawned on a fresh pty. Spawn failures surface as a status
// flash, never as a dead window.
func (m *Model) launch(spec *wm.LaunchSpec) tea.Cmd {
	switch spec.Builtin {
	case "exit":
		m.shutdown()
		m.quitting = true
		return tea.Quit
	case "files":
		m.wm.Add("Files", m.cascadeRect(), 30, 10,
			NewFileManager("", m.cfg.Timing.DoubleClick()))
		return nil
	case "settings":
		m.wm.Add("Settings", m.cascadeRect(), 30, 10,
			NewSettings(m.cfg, func(c *config.Config) {
				config.Save(c)
				m.applyConfig(c)
			}))
		return nil
	}

	program := spec.Program
	if program == "" {
		program = m.cfg.DefaultShell()
	}
	caption := spec.Caption
	if caption == "" {
		caption = program
	}

	prof := m.cfg.Profile(spec.Profile)
	rect := m.cascadeRect()
	inner := rect.Inset(1)
	sess, err := term.SpawnWithFallback(program, spec.Args, inner.W, inner.H, profileEnv(prof))
	if err != nil {
		m.setFlash(err.Error())
		return nil
	}
	m.wm.Add(caption, rect, prof.MinCols+2, prof.MinRows+2,
		&PtyKind{Session: sess, Passthrough: prof.MousePassthrough})
	return nil
}

func profileEnv(p *config.PtyProfile) []string {
	if p == nil || len(p.Env) == 0 {
		return nil
	}
	env := make([]string, 0, len(p.Env))
	for k, v := range p.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// cascadeRect picks the next window's rect: roughly centered on an
// empty desktop, then stepped down-right a cell pair per open window so
// stacked launches stay distinguishable. The manager clamps the result.
func (m *Model) cascadeRect() screen.Rect {
	d := m.wm.Desktop()

	w := clampDim(d.W*2/3, 44, 120)
	h := clampDim(d.H*2/3, 12, 36)

	step := (m.wm.Len() % 6) * 2
	x := d.X + (d.W-w)/4 + step
	y := d.Y + (d.H-h)/4 + step
	return screen.Rect{X: x, Y: y, W: w, H: h}
}

func clampDim(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
