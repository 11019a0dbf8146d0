package hooks_test

import (
	"strings"
	"testing"

	terntest "github.com/go-tern/tern/pkg/testing"
	"github.com/go-tern/tern/pkg/vdom"
)

// assertFrameText fails unless some text node in the last frame contains
// want.
func assertFrameText(t *testing.T, rt *terntest.RuntimeTester, want string) {
	t.Helper()
	var texts []string
	var walk func(vdom.Node)
	walk = func(n vdom.Node) {
		if n.Kind == vdom.KindText {
			texts = append(texts, n.Text)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(rt.LastFrame())
	for _, s := range texts {
		if strings.Contains(s, want) {
			return
		}
	}
	t.Errorf("expected frame to contain %q, got %v", want, texts)
}
