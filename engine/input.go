package engine

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Mouse drag sensitivity, radians per cell
const (
	dragAzimuth = 0.03
	dragPolar   = 0.06
)

// HandleEvent applies one input event, returns false to quit
func (r *Runtime) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return r.handleKey(ev)
	case *tcell.EventMouse:
		r.handleMouse(ev)
	case *tcell.EventResize:
		r.screen.Sync()
		r.resize()
	}
	return true
}

func (r *Runtime) handleKey(ev *tcell.EventKey) bool {
	step := r.cfg.Camera.RotateStep
	zoom := r.cfg.Camera.ZoomStep

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		r.controls.Rotate(-step, 0)
	case tcell.KeyRight:
		r.controls.Rotate(step, 0)
	case tcell.KeyUp:
		r.controls.Rotate(0, -step)
	case tcell.KeyDown:
		r.controls.Rotate(0, step)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case ' ':
			paused := r.clock.Toggle()
			r.syncDrone()
			if paused {
				r.notify("paused")
			} else {
				r.notify("resumed")
			}
		case 'm', 'M':
			r.toggleMute()
		case 'p', 'P':
			r.snapshot()
		case 'r', 'R':
			r.controls.Reset()
			r.notify("camera reset")
		case 'a', 'A':
			r.controls.Rotate(-step, 0)
		case 'd', 'D':
			r.controls.Rotate(step, 0)
		case 'w', 'W':
			r.controls.Rotate(0, -step)
		case 's', 'S':
			r.controls.Rotate(0, step)
		case '+', '=':
			r.controls.Zoom(1 / zoom)
		case '-', '_':
			r.controls.Zoom(zoom)
		}
	}
	return true
}

func (r *Runtime) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	if buttons&tcell.WheelUp != 0 {
		r.controls.Zoom(1 / r.cfg.Camera.ZoomStep)
	}
	if buttons&tcell.WheelDown != 0 {
		r.controls.Zoom(r.cfg.Camera.ZoomStep)
	}

	if buttons&tcell.Button1 == 0 {
		r.drag.active = false
		return
	}
	if r.drag.active {
		dx, dy := x-r.drag.x, y-r.drag.y
		r.controls.Rotate(-float64(dx)*dragAzimuth, -float64(dy)*dragPolar)
	}
	r.drag.active = true
	r.drag.x, r.drag.y = x, y
}

func (r *Runtime) toggleMute() {
	if r.sound == nil {
		r.notify("audio unavailable")
		return
	}
	if r.sound.ToggleMute() {
		r.notify("muted")
	} else {
		r.notify("unmuted")
	}
}

func (r *Runtime) snapshot() {
	path, err := r.Snapshot()
	if err != nil {
		r.logger.Error("snapshot failed", "error", err)
		r.notify("snapshot failed")
		return
	}
	r.logger.Info("snapshot saved", "path", path)
	r.notify("saved " + path)
}

// notify shows msg on the HUD for a few seconds
func (r *Runtime) notify(msg string) {
	r.status = msg
	r.statusUntil = r.time.Now().Add(statusDuration)
	r.logger.Debug("status", "msg", msg)
}

// hud formats the bottom status line
func (r *Runtime) hud(elapsed float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, " t=%6.1fs  bodies %d/%d  tris %d", elapsed, r.animator.Len(), len(r.bodies), r.last.Triangles)
	if r.pending > 0 {
		fmt.Fprintf(&b, "  loading %d", r.pending)
	}
	if r.clock.IsPaused() {
		b.WriteString("  PAUSED")
	}
	if r.sound != nil && r.sound.Muted() {
		b.WriteString("  MUTED")
	}
	if r.status != "" && r.time.Now().Before(r.statusUntil) {
		b.WriteString("  | ")
		b.WriteString(r.status)
	}
	b.WriteString("  | q quit  space pause  m mute  p snap  r reset")
	return b.String()
}
