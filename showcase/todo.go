package showcase

import (
	"sort"

	"github.com/go-tern/tern/pkg/runtime"
	"github.com/go-tern/tern/pkg/vdom"
)

// TodoItem is one list entry. ID doubles as the reconciliation key so
// reordering the slice moves committed nodes instead of rebuilding them.
type TodoItem struct {
	ID    int
	Title string
	Done  bool
}

// TodoListProps configures the TodoList demo.
type TodoListProps struct {
	Items      []TodoItem
	DoneFirst  bool
	OnToggle   func(id int)
	ShowLegend bool
}

// TodoList renders a keyed list of items, optionally sorted with done
// items first.
var TodoList = runtime.Component("TodoList", func(ctx *runtime.Ctx, props TodoListProps) vdom.Node {
	items := runtime.UseMemo(ctx, func() []TodoItem {
		out := make([]TodoItem, len(props.Items))
		copy(out, props.Items)
		if props.DoneFirst {
			sort.SliceStable(out, func(i, j int) bool {
				return out[i].Done && !out[j].Done
			})
		}
		return out
	}, []any{props.Items, props.DoneFirst})

	children := make([]vdom.Node, 0, len(items)+1)
	if props.ShowLegend {
		children = append(children, vdom.Text("[x] done  [ ] pending"))
	}
	for _, item := range items {
		children = append(children, todoRow(todoRowProps{
			Item:     item,
			OnToggle: props.OnToggle,
		}).WithKey(item.ID))
	}

	return vdom.Element("list", vdom.Props{"title": "todo"}, children...)
})

type todoRowProps struct {
	Item     TodoItem
	OnToggle func(id int)
}

var todoRow = runtime.Component("todoRow", func(ctx *runtime.Ctx, props todoRowProps) vdom.Node {
	mark := "[ ]"
	if props.Item.Done {
		mark = "[x]"
	}
	return vdom.Element("list-item", vdom.Props{
		"done":     props.Item.Done,
		"onSelect": props.OnToggle,
	}, vdom.Text(mark+" "+props.Item.Title))
})
