package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/renamer/internal/cli/config"
	"github.com/leapstack-labs/renamer/internal/cli/output"
	"github.com/leapstack-labs/renamer/internal/rename"
)

// runView draws run progress. It implements rename.Observer; the renamer
// serializes calls so no locking is needed here.
type runView struct {
	r          *output.Renderer
	text       bool
	phase      string
	progress   *output.Progress
	dirActions int
}

func newRunView(r *output.Renderer) *runView {
	return &runView{r: r, text: r.EffectiveMode() == output.ModeText}
}

func (v *runView) intro(opts rename.Options) {
	switch v.r.EffectiveMode() {
	case output.ModeJSON:
		return
	case output.ModeMarkdown:
		title := "Project Renamer"
		if opts.DryRun {
			title += " (dry run)"
		}
		v.r.Header(1, title)
		v.r.Println(output.FormatKeyValue("Directory", output.FormatCode(opts.Root)))
		v.r.Println(output.FormatKeyValue("Placeholder", output.FormatCode(opts.Placeholder)))
		v.r.Println(output.FormatKeyValue("Replacement", output.FormatCode(opts.Replacement)))
		v.r.Println("")
	default:
		s := v.r.Styles()
		title := "Project Renamer"
		if opts.DryRun {
			title += " " + s.Warning.Render("(DRY RUN)")
		}
		body := fmt.Sprintf("Processing directory: %s\nReplacing all instances of %s with %s",
			s.Path.Render(opts.Root),
			s.Warning.Render("'"+opts.Placeholder+"'"),
			s.Success.Render("'"+opts.Replacement+"'"))
		v.r.Panel(title, body)
	}
}

func (v *runView) Phase(name string, total int) {
	v.endPhase()
	v.phase = name
	if !v.text {
		return
	}
	switch name {
	case rename.PhaseScan:
		v.r.Muted("Scanning files and directories...")
	case rename.PhaseDirectories:
		v.r.Header(2, "Renaming Directories")
		v.progress = v.r.NewProgress("directories", total)
	case rename.PhaseFiles:
		v.r.Header(2, "Updating File Contents and Renaming Files")
		v.progress = v.r.NewProgress("files", total)
	}
}

func (v *runView) Advance(n int) {
	if v.progress != nil {
		v.progress.Add(n)
	}
}

func (v *runView) Action(a rename.Action) {
	if a.Kind == rename.KindRenameDir {
		v.dirActions++
	}
	if !v.text {
		return
	}
	if v.progress != nil {
		v.progress.Clear()
	}
	v.r.StatusLine(a.Message(), statusName(a.Status), "")
	if v.progress != nil {
		v.progress.Redraw()
	}
}

func (v *runView) endPhase() {
	if v.progress != nil {
		v.progress.Done()
		v.progress = nil
	}
	if v.text && v.phase == rename.PhaseDirectories && v.dirActions == 0 {
		v.r.Muted("No directories needed renaming or matched the placeholder.")
	}
}

func (v *runView) finish() {
	v.endPhase()
	v.phase = ""
}

func statusName(s rename.Status) string {
	if s == rename.StatusDone {
		return "success"
	}
	return string(s)
}

// renderReport writes the run summary in the renderer's mode.
func renderReport(r *output.Renderer, report *rename.Report) error {
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return r.JSON(report)
	}

	if report.NoOp {
		r.Warning(fmt.Sprintf("New project name ('%s') is the same as the placeholder ('%s').",
			report.Replacement, report.Placeholder))
		r.Warning("No changes will be made.")
		return nil
	}

	if mode == output.ModeMarkdown {
		r.Header(2, "Actions")
		if len(report.Actions) == 0 {
			r.Println("No paths matched the placeholder.")
		}
		for _, a := range report.Actions {
			r.Printf("- [%s] %s\n", a.Status, a.Message())
		}
		r.Println("")
	}

	r.Header(2, "Summary")
	r.Table([]string{"Result", "Count"}, summaryRows(report))

	switch {
	case report.Stats.Errors > 0:
		r.Error(fmt.Sprintf("Finished with %d error(s).", report.Stats.Errors))
	case report.DryRun:
		r.Warning("Dry run: no changes were made.")
	default:
		r.Success(fmt.Sprintf("Done in %s.", report.Duration().Round(time.Millisecond)))
	}
	return nil
}

func summaryRows(report *rename.Report) [][]string {
	s := report.Stats
	labels := []string{
		"Directories renamed",
		"Files with updated content",
		"Files renamed",
	}
	if report.DryRun {
		labels = []string{
			"Directories that would be renamed",
			"Files that would have updated content",
			"Files that would be renamed",
		}
	}
	return [][]string{
		{labels[0], strconv.Itoa(s.DirsRenamed)},
		{labels[1], strconv.Itoa(s.FilesUpdated)},
		{labels[2], strconv.Itoa(s.FilesRenamed)},
		{"Files skipped", strconv.Itoa(s.FilesSkipped)},
		{"Files unchanged", strconv.Itoa(s.FilesUnchanged)},
		{"Errors", strconv.Itoa(s.Errors)},
	}
}

// writeReport saves the report as JSON or YAML depending on the extension.
func writeReport(path string, report *rename.Report) error {
	format, err := config.ReportFormat(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "yaml":
		data, err = yaml.Marshal(report)
	default:
		data, err = json.MarshalIndent(report, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
