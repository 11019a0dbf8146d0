package showcase

import (
	"fmt"
	"time"

	"github.com/go-tern/tern/pkg/backend"
	"github.com/go-tern/tern/pkg/hooks"
	"github.com/go-tern/tern/pkg/runtime"
	"github.com/go-tern/tern/pkg/vdom"
)

// StopwatchProps configures the Stopwatch demo.
type StopwatchProps struct {
	// Tick is the timer resolution. Zero means 100ms.
	Tick time.Duration
}

// Stopwatch counts elapsed ticks while running. Space starts and stops,
// "l" records a lap, "u" and "r" undo and redo lap edits.
var Stopwatch = runtime.Component("Stopwatch", func(ctx *runtime.Ctx, props StopwatchProps) vdom.Node {
	tick := props.Tick
	if tick == 0 {
		tick = 100 * time.Millisecond
	}

	elapsed, setElapsed := runtime.UseStateUpdater(ctx, 0)
	running, setRunning := runtime.UseState(ctx, false)
	laps := hooks.UseHistory(ctx, []int{}, 50)

	// A zero duration disarms the interval, so pausing is a deps change
	// rather than a conditional hook call.
	ivl := time.Duration(0)
	if running {
		ivl = tick
	}
	hooks.UseInterval(ctx, func() {
		setElapsed(func(n int) int { return n + 1 })
	}, ivl, []any{ivl})

	hooks.UseKeyboard(ctx, func(ev backend.KeyEvent) {
		switch {
		case ev.Rune == ' ':
			setRunning(!running)
		case ev.Rune == 'l':
			laps.Push(append(append([]int{}, laps.Current()...), elapsed))
		case ev.Rune == 'u':
			laps.Undo()
		case ev.Rune == 'r':
			laps.Redo()
		}
	})

	children := []vdom.Node{
		vdom.Text(fmt.Sprintf("elapsed: %s", time.Duration(elapsed)*tick)),
	}
	for i, lap := range laps.Current() {
		children = append(children,
			vdom.Text(fmt.Sprintf("lap %d: %s", i+1, time.Duration(lap)*tick)).WithKey(i))
	}

	return vdom.Element("paragraph", vdom.Props{"title": "stopwatch"}, children...)
})
