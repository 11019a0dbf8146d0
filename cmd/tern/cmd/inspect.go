package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/go-tern/tern/cmd/tern/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "inspect",
		Short: "Dump the committed tree of a running app",
		Long: `Connect to a running app's inspector server and print its
committed tree. The app must be started with the runtime.WithInspection
option and an inspector.Server.

The port defaults to inspector.port from tern.yaml when run inside a
project, falling back to 7458.

Examples:
  tern inspect
  tern inspect --port 9000
  tern inspect --json`,
		Usage: "tern inspect [--port N] [--json]",
		Run:   runInspect,
	})
}

func runInspect(args []string) error {
	port := 0
	asJSON := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--json":
			asJSON = true
		case arg == "--port":
			if i+1 >= len(args) {
				return fmt.Errorf("--port requires a number")
			}
			p, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("invalid port %q", args[i+1])
			}
			port = p
			i++
		case strings.HasPrefix(arg, "--port="):
			p, err := strconv.Atoi(strings.TrimPrefix(arg, "--port="))
			if err != nil {
				return fmt.Errorf("invalid port %q", arg)
			}
			port = p
		default:
			return fmt.Errorf("unknown flag %q", arg)
		}
	}

	if port == 0 {
		port = config.DefaultInspectorPort
		if root, err := config.FindProjectRoot(); err == nil {
			if resolved, err := config.Resolve(root); err == nil {
				port = resolved.InspectorPort
			}
		}
	}

	path := "/dump"
	if asJSON {
		path = "/tree"
	}

	client := &http.Client{Timeout: 3 * time.Second}
	url := fmt.Sprintf("http://127.0.0.1:%d%s", port, path)
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("cannot reach inspector at %s (is the app running with inspection enabled?): %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading inspector response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inspector returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	out := string(body)
	if !asJSON && isatty.IsTerminal(os.Stdout.Fd()) {
		out = colorize(out)
	}
	fmt.Print(out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Println()
	}
	return nil
}

// colorize dims the box-drawing characters so node labels stand out.
func colorize(dump string) string {
	const dim = "\x1b[2m"
	const reset = "\x1b[0m"
	var b strings.Builder
	inBox := false
	for _, r := range dump {
		box := r >= 0x2500 && r <= 0x257f
		if box && !inBox {
			b.WriteString(dim)
			inBox = true
		} else if !box && inBox {
			b.WriteString(reset)
			inBox = false
		}
		b.WriteRune(r)
	}
	if inBox {
		b.WriteString(reset)
	}
	return b.String()
}
