// Package showcase holds small demo components exercising the runtime:
// state, keyed lists, timers, history and async work. They double as
// end-to-end fixtures for the test harness.
package showcase

import (
	"fmt"

	"github.com/go-tern/tern/pkg/backend"
	"github.com/go-tern/tern/pkg/hooks"
	"github.com/go-tern/tern/pkg/runtime"
	"github.com/go-tern/tern/pkg/vdom"
)

// CounterProps configures the Counter demo.
type CounterProps struct {
	Step int
}

// Counter increments on the up arrow and decrements on down.
var Counter = runtime.Component("Counter", func(ctx *runtime.Ctx, props CounterProps) vdom.Node {
	step := props.Step
	if step == 0 {
		step = 1
	}
	count, update := runtime.UseStateUpdater(ctx, 0)

	hooks.UseKeyboard(ctx, func(ev backend.KeyEvent) {
		switch ev.Name {
		case "up":
			update(func(n int) int { return n + step })
		case "down":
			update(func(n int) int { return n - step })
		}
	})

	return vdom.Element("paragraph", vdom.Props{"border": true},
		vdom.Text(fmt.Sprintf("count: %d", count)),
	)
})
