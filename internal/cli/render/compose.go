package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// ComposeRenderer handles rendering of compose runs
type ComposeRenderer struct {
	out io.Writer
}

// NewComposeRenderer creates a new compose renderer
func NewComposeRenderer(out io.Writer) *ComposeRenderer {
	return &ComposeRenderer{out: out}
}

// GetWriter returns the io.Writer used by this renderer
func (r *ComposeRenderer) GetWriter() io.Writer {
	return r.out
}

// RenderComposeResult renders the summary. Plan and steps are rendered as progress events arrive.
func (r *ComposeRenderer) RenderComposeResult(result *usecase.ComposeResult) error {
	r.renderSummary(result)
	return nil
}

// RenderExecutionPlan displays the execution plan
func (r *ComposeRenderer) RenderExecutionPlan(plan *usecase.ExecutionPlan) {
	if plan.Group != "" {
		fmt.Fprintf(r.out, "\n🎯 Composing %s\n", plan.Group)
	}
	color.New(color.Bold).Fprintf(r.out, "📋 Execution Plan: %d deployments\n", len(plan.Steps))
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 50))

	for i, step := range plan.Steps {
		fmt.Fprintf(r.out, "%d. ", i+1)
		color.New(color.FgCyan).Fprintf(r.out, "%s", step.Name)
		if step.Contract != step.Name {
			fmt.Fprintf(r.out, " → ")
			color.New(color.FgGreen).Fprintf(r.out, "%s", step.Contract)
		}
		if len(step.Dependencies) > 0 {
			color.New(color.FgHiBlack).Fprintf(r.out, " (depends on: %s)", strings.Join(step.Dependencies, ", "))
		}
		if len(step.Args) > 0 {
			color.New(color.FgYellow).Fprintf(r.out, "\n   Args: %v", step.Args)
		}
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out)
}

// RenderStepStarting renders the header of a step
func (r *ComposeRenderer) RenderStepStarting(current, total int, name string) {
	color.New(color.Bold).Fprintf(r.out, "\n[%d/%d] Deploying %s\n", current, total, name)
}

// RenderStepResult renders a single step result
func (r *ComposeRenderer) RenderStepResult(stepResult *usecase.StepResult) {
	switch {
	case stepResult.Error != nil:
		color.New(color.FgRed).Fprintf(r.out, "❌ Failed: %v\n", stepResult.Error)
	case stepResult.Skipped:
		color.New(color.FgYellow).Fprintf(r.out, "↷ Already deployed at %s\n", models.NormalizeAddress(stepResult.Deployment.Address))
	case stepResult.Deployment != nil:
		color.New(color.FgGreen).Fprintf(r.out, "✓ %s at %s\n", stepResult.Deployment.ContractName, models.NormalizeAddress(stepResult.Deployment.Address))
	}
}

// renderSummary displays the final summary
func (r *ComposeRenderer) renderSummary(result *usecase.ComposeResult) {
	fmt.Fprintf(r.out, "\n%s\n", strings.Repeat("═", 70))

	total := len(result.Plan.Steps)
	if result.Success {
		label := result.Plan.Group
		if label == "" {
			label = "compose"
		}
		color.New(color.FgGreen, color.Bold).Fprintf(r.out, "🎉 Successfully deployed %s\n", label)
		fmt.Fprintf(r.out, "\n📊 Summary:\n")
		fmt.Fprintf(r.out, "  • Steps executed: %d/%d\n", len(result.ExecutedSteps), total)
		for _, step := range result.Plan.Steps {
			if address, ok := result.Addresses[step.Name]; ok {
				fmt.Fprintf(r.out, "  • %s: %s\n", step.Name, address)
			}
		}
		return
	}

	color.New(color.FgRed, color.Bold).Fprintln(r.out, "❌ Compose failed")
	if result.FailedStep != nil {
		fmt.Fprintf(r.out, "\n📊 Summary:\n")
		fmt.Fprintf(r.out, "  • Failed at step: %s\n", result.FailedStep.Step.Name)
		fmt.Fprintf(r.out, "  • Steps completed: %d/%d\n", len(result.ExecutedSteps)-1, total)
		fmt.Fprintf(r.out, "\nRe-run with --resume to continue from the failed step\n")
	}
}
