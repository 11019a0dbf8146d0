package showcase

import (
	"context"

	"github.com/go-tern/tern/pkg/hooks"
	"github.com/go-tern/tern/pkg/runtime"
	"github.com/go-tern/tern/pkg/vdom"
)

// FetcherProps configures the Fetcher demo. Fetch runs off the loop
// goroutine; URL is the dep that restarts it.
type FetcherProps struct {
	URL   string
	Fetch func(ctx context.Context, url string) (string, error)
}

// Fetcher loads a document asynchronously and renders loading, failure
// and success states. Switching URL cancels the in-flight fetch.
var Fetcher = runtime.Component("Fetcher", func(ctx *runtime.Ctx, props FetcherProps) vdom.Node {
	state := hooks.UseAsync(ctx, func(tctx context.Context) (string, error) {
		return props.Fetch(tctx, props.URL)
	}, []any{props.URL})

	var body vdom.Node
	switch state.Status {
	case hooks.StatusLoading:
		body = vdom.Text("loading " + props.URL + " ...")
	case hooks.StatusFailed:
		body = vdom.Element("alert", vdom.Props{"level": "error"},
			vdom.Text("fetch failed: "+state.Err.Error()))
	default:
		body = vdom.Text(state.Value)
	}

	return vdom.Element("paragraph", vdom.Props{"title": props.URL}, body)
})
