package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Create a new tern project",
		Long: `Create a new tern project in a new directory.

This command creates:
  - A new directory at the specified path
  - go.mod with the specified module path
  - main.go with a starter application
  - tern.yaml with a generated app id

The project name is derived from the directory basename.
The module path defaults to the project name if not specified.

Examples:
  tern init myapp
  tern init myapp github.com/username/myapp`,
		Usage: "tern init <directory> [module-path]",
		Run:   runInit,
	})
}

func runInit(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("directory is required\n\nUsage: tern init <directory> [module-path]")
	}

	raw := args[0]
	if strings.HasPrefix(raw, "~") {
		return fmt.Errorf("tilde (~) is not expanded by tern; use an absolute path or $HOME instead")
	}

	dir := filepath.Clean(raw)
	if err := validateDirectory(dir); err != nil {
		return err
	}

	projectName := filepath.Base(dir)
	modulePath := projectName
	if len(args) > 1 {
		modulePath = args[1]
	}
	if modulePath == "" {
		return fmt.Errorf("module path cannot be empty")
	}

	if err := validateProjectName(projectName); err != nil {
		return fmt.Errorf("invalid project name %q (derived from directory basename): %w", projectName, err)
	}

	if err := scaffoldProject(dir, projectName, modulePath); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Project created successfully!\n\n")
	fmt.Printf("Next steps:\n")
	fmt.Printf("  cd %s\n", dir)
	fmt.Printf("  go mod tidy\n")
	fmt.Printf("  go run .\n")

	return nil
}

// scaffoldProject creates the project directory and writes the starter
// files. Filesystem only, so it is safe to call from tests.
func scaffoldProject(dir, projectName, modulePath string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	fmt.Printf("Creating new tern project: %s\n", projectName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	files := []struct {
		name    string
		content string
	}{
		{"go.mod", goModStub(modulePath)},
		{"main.go", mainStub()},
		{"tern.yaml", ternYAMLStub(projectName)},
	}

	for _, f := range files {
		dest := filepath.Join(dir, f.name)
		if err := os.WriteFile(dest, []byte(f.content), 0o644); err != nil {
			safeRemoveAll(dir)
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		fmt.Printf("  Created %s\n", f.name)
	}

	return nil
}

func goModStub(modulePath string) string {
	return fmt.Sprintf("module %s\n\ngo 1.24\n\nrequire github.com/go-tern/tern v0.1.0\n", modulePath)
}

func mainStub() string {
	return `package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-tern/tern/pkg/backend"
	"github.com/go-tern/tern/pkg/hooks"
	"github.com/go-tern/tern/pkg/runtime"
	"github.com/go-tern/tern/pkg/vdom"
)

var counter = runtime.Component("Counter", func(ctx *runtime.Ctx, _ struct{}) vdom.Node {
	count, setCount := runtime.UseState(ctx, 0)
	exit := hooks.UseAppExit(ctx)

	hooks.UseKeyboard(ctx, func(ev backend.KeyEvent) {
		switch ev.Name {
		case "up":
			setCount(count + 1)
		case "q":
			exit()
		}
	})

	return vdom.Element("paragraph", nil,
		vdom.Text(fmt.Sprintf("count: %d (up to increment, q to quit)", count)),
	)
})

func main() {
	be := backend.NewMemory(80, 24)
	app := runtime.New(be, counter(struct{}{}))
	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
`
}

func ternYAMLStub(projectName string) string {
	return fmt.Sprintf(`app:
  name: %s
  id: %s
inspector:
  enabled: false
  port: 7458
`, projectName, uuid.NewString())
}

// validateDirectory rejects directory paths that would be dangerous to
// create or clean up: filesystem roots, the current/parent directory,
// and root-level absolute paths.
func validateDirectory(dir string) error {
	switch dir {
	case "", "/", ".", "..":
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if isVolumeRoot(dir) {
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if filepath.IsAbs(dir) && isVolumeRoot(filepath.Dir(dir)) {
		return fmt.Errorf("refusing to create project at root-level path %q", dir)
	}
	return nil
}

// isVolumeRoot reports whether dir is a filesystem root. On Unix this is
// "/", on Windows it covers drive roots like "C:\".
func isVolumeRoot(dir string) bool {
	return dir == filepath.VolumeName(dir)+string(filepath.Separator)
}

// safeRemoveAll removes a directory only if the path passes
// validateDirectory. It no-ops for dangerous paths rather than erroring,
// since it runs on cleanup paths where the original error should not be
// masked.
func safeRemoveAll(dir string) {
	if validateDirectory(dir) != nil {
		return
	}
	os.RemoveAll(dir)
}

var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("project name cannot start with a hyphen")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("project name must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}
