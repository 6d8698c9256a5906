package render

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// InitRenderer renders init command results
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render renders the init project result
func (r *InitRenderer) Render(result *usecase.InitProjectResult) error {
	for _, step := range result.Steps {
		path := r.relative(result, step.Path)
		switch {
		case !step.Success:
			color.New(color.FgRed).Fprintf(r.out, "❌ %s\n", step.Name)
			if step.Error != nil {
				fmt.Fprintf(r.out, "   %s\n", step.Error.Error())
			}
		case step.Skipped:
			faintStyle.Fprintf(r.out, "•  %s: %s (%s)\n", step.Name, path, step.Message)
		default:
			color.New(color.FgGreen).Fprintf(r.out, "✅ %s: %s\n", step.Name, path)
		}
	}

	for _, step := range result.Steps {
		if !step.Success {
			return nil
		}
	}
	r.printNextSteps(result)
	return nil
}

func (r *InitRenderer) relative(result *usecase.InitProjectResult, path string) string {
	if rel, err := filepath.Rel(result.ProjectRoot, path); err == nil {
		return rel
	}
	return path
}

func (r *InitRenderer) printNextSteps(result *usecase.InitProjectResult) {
	fmt.Fprintln(r.out)
	if result.AlreadyInitialized {
		color.New(color.FgYellow).Fprintln(r.out, "⚠️  Project structure already exists")
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintln(r.out, "Project structure created successfully! 🚀")

	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📋 Next steps:")
	fmt.Fprintln(r.out, "1. Copy .env.example to .env and set DEPLOYER_PRIVATE_KEY and DEPLOYER_ADDRESS")
	fmt.Fprintln(r.out, "2. Review networks and paths in starknet-deploy.toml")
	fmt.Fprintf(r.out, "3. Add your deployment scripts in %s\n", r.relative(result, filepath.Join(result.ScriptsDir, "deployments")))
	fmt.Fprintf(r.out, "4. Add your tasks in %s\n", r.relative(result, filepath.Join(result.ScriptsDir, "tasks")))
	faintStyle.Fprintln(r.out, "   starknet-deploy deploy <contract> --build")
}

var _ Renderer[*usecase.InitProjectResult] = (*InitRenderer)(nil)
