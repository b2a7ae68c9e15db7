package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Cyclone1070/aicontext/internal/scaffold"
	"github.com/Cyclone1070/aicontext/internal/workspace/boundary"
	"github.com/Cyclone1070/aicontext/internal/workspace/root"
	"github.com/Cyclone1070/aicontext/internal/workspace/structure"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func resolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [path]",
		Short: "Print the resolved workspace root as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := startPath(args)
			if err != nil {
				return err
			}
			res := a.resolve(start, false)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [path]",
		Short: "Show where the workspace root is and whether it is usable",
		Long:  "Resolve the workspace root and check its standard directories. Exits non-zero when the root is not usable.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := startPath(args)
			if err != nil {
				return err
			}
			res := a.resolve(start, true)

			renderStatus(cmd.OutOrStdout(), res)
			if !res.IsValid {
				return ErrCheckFailed
			}
			return nil
		},
	}
}

func renderStatus(out io.Writer, res root.Result) {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
	}

	lines := []string{
		TitleStyle.Render("Workspace"),
		row("root", res.RootPath),
		row("project", res.ProjectRoot),
		row("found by", string(res.FoundBy)),
		row("exists", mark(res.Exists)),
	}

	if v := res.Validation; v != nil {
		present := map[string]bool{
			structure.DocsDir:     v.HasDocs,
			structure.AgentsDir:   v.HasAgents,
			structure.WorkflowDir: v.HasWorkflow,
			structure.PlansDir:    v.HasPlans,
			structure.RulesDir:    v.HasRules,
		}
		lines = append(lines, "", TitleStyle.Render("Structure"))
		for _, name := range structure.StandardDirectories {
			lines = append(lines, row(name, mark(present[name])))
		}
	}

	lines = append(lines, "")
	if res.IsValid {
		lines = append(lines, OKStyle.Render("usable"))
	} else {
		lines = append(lines, ErrorStyle.Render("not usable"))
	}
	if res.Warning != "" {
		lines = append(lines, WarnStyle.Render(res.Warning))
	}

	fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func checkPathCmd(a *app) *cobra.Command {
	var rootFlag string

	cmd := &cobra.Command{
		Use:   "check-path <candidate>",
		Short: "Check whether a path stays inside the workspace root",
		Long:  "Print the absolute path when the candidate is inside the workspace root; otherwise print the rejection reason and exit non-zero.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootPath := rootFlag
			if rootPath == "" {
				start, err := startPath(nil)
				if err != nil {
					return err
				}
				rootPath = a.resolve(start, false).RootPath
			}
			if canonical, err := boundary.CanonicaliseRoot(rootPath); err == nil {
				rootPath = canonical
			}

			b, err := boundary.New(rootPath)
			if err != nil {
				return err
			}

			res := b.Check(args[0])
			if !res.OK() {
				a.logger.Debug().
					Str("attempted_path", res.Violation.AttemptedPath).
					Str("reason", string(res.Violation.Reason)).
					Msg("path rejected")
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
					ErrorStyle.Render("rejected:"), res.Violation.Reason)
				return ErrCheckFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&rootFlag, "root", "", "workspace root to check against (default: resolved from the working directory)")
	return cmd
}

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create the workspace root and its standard directories",
		Long:  "Create the workspace root, its standard directories and a README in each. Existing files are kept. Exits non-zero when any file could not be written.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := startPath(args)
			if err != nil {
				return err
			}
			res := a.resolve(start, false)

			w, err := scaffold.NewOSWriter(res.RootPath, a.logger)
			if err != nil {
				return err
			}
			dirs, err := w.Init()
			if err != nil {
				return fmt.Errorf("failed to initialise workspace: %w", err)
			}
			report := w.WriteAll(scaffold.StandardFiles())

			renderInit(cmd.OutOrStdout(), w, dirs, report)
			if !report.OK() {
				return ErrCheckFailed
			}
			return nil
		},
	}
}

func renderInit(out io.Writer, w *scaffold.Writer, dirs []string, report scaffold.Report) {
	rel := func(path string) string {
		if r, err := w.Rel(path); err == nil {
			return r
		}
		return path
	}

	fmt.Fprintf(out, "Initialized workspace in %s\n", w.Root())
	for _, dir := range dirs {
		fmt.Fprintf(out, "  %s %s/\n", mark(true), rel(dir))
	}

	for _, path := range report.Written {
		fmt.Fprintf(out, "  %s %s %s\n", mark(true), rel(path), OKStyle.Render("written"))
	}
	for _, path := range report.Kept {
		fmt.Fprintf(out, "  %s %s %s\n", DimStyle.Render("-"), rel(path), DimStyle.Render("kept"))
	}
	for _, secErr := range report.Skipped {
		fmt.Fprintf(out, "  %s %s %s\n", mark(false), secErr.AttemptedPath, WarnStyle.Render("skipped ("+string(secErr.Reason)+")"))
	}
	for _, f := range report.Failed {
		fmt.Fprintf(out, "  %s %s %s\n", mark(false), f.Path, ErrorStyle.Render("failed: "+f.Err.Error()))
	}
}
