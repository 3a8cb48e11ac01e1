package build

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/tobimods/modkit/internal/merge"
)

// StageFailure attributes one recorded failure to its pipeline stage, the
// definition that caused it (when one did), and the target file.
type StageFailure struct {
	Stage string
	// Definition is empty for failures not caused by any definition, such
	// as a file that could not be staged or converted.
	Definition string
	File       string
	Err        error
}

func (f StageFailure) String() string {
	if f.Definition != "" {
		return fmt.Sprintf("[%s] %s: %s: %v", f.Stage, f.Definition, f.File, f.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", f.Stage, f.File, f.Err)
}

// Report is the full record of one build.
type Report struct {
	BuildID  uuid.UUID
	Mod      string
	Started  time.Time
	Duration time.Duration
	DryRun   bool

	Applied  []merge.AppliedChange
	Failures []StageFailure
	// Patches maps each target file to the JSON merge patch the build applied
	// to it.
	Patches map[string]string

	// ArchivePath is the final zip, empty on dry runs and failed builds.
	ArchivePath string
}

func (r *Report) fail(stage, file string, err error) {
	r.Failures = append(r.Failures, StageFailure{Stage: stage, File: file, Err: err})
}

// OK reports whether the build recorded no failures.
func (r *Report) OK() bool { return len(r.Failures) == 0 }

// Render writes the human-readable build summary.
func (r *Report) Render(w io.Writer) {
	header := color.New(color.Bold)
	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	dim := color.New(color.Faint)

	suffix := ""
	if r.DryRun {
		suffix = " (dry run)"
	}
	header.Fprintf(w, "Build %s %s%s\n", shortID(r.BuildID), r.Mod, suffix)
	dim.Fprintf(w, "  %d changes applied, %d failures, %s\n",
		len(r.Applied), len(r.Failures), r.Duration.Round(time.Millisecond))

	for _, ap := range r.Applied {
		line := fmt.Sprintf("  %s: %s %s: %v -> %v", ap.Definition, ap.Object, ap.Property, ap.Old, ap.New)
		if ap.Overrode != "" {
			line += fmt.Sprintf(" (overrides %s)", ap.Overrode)
		}
		good.Fprintln(w, line)
	}

	if len(r.Failures) > 0 {
		bad.Fprintln(w, "Failures:")
		for _, f := range r.Failures {
			bad.Fprintf(w, "  %s\n", f)
		}
	}

	if r.ArchivePath != "" {
		header.Fprintf(w, "Archive: %s\n", r.ArchivePath)
	}
}

// WriteLog writes the plain-text build log, including the per-file merge
// patches, so a build can be audited after the scratch JSON is gone.
func (r *Report) WriteLog(path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "build %s\n", r.BuildID)
	fmt.Fprintf(&b, "mod %s\n", r.Mod)
	fmt.Fprintf(&b, "started %s\n", r.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "duration %s\n", r.Duration.Round(time.Millisecond))
	if r.DryRun {
		fmt.Fprintln(&b, "dry run")
	}
	fmt.Fprintln(&b)

	for _, ap := range r.Applied {
		fmt.Fprintf(&b, "applied %s %s %s %s: %v -> %v", ap.Definition, ap.File, ap.Object, ap.Property, ap.Old, ap.New)
		if ap.Overrode != "" {
			fmt.Fprintf(&b, " (overrides %s)", ap.Overrode)
		}
		fmt.Fprintln(&b)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "failed %s\n", f)
	}

	files := make([]string, 0, len(r.Patches))
	for file := range r.Patches {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		fmt.Fprintf(&b, "\npatch %s\n%s\n", file, r.Patches[file])
	}

	if r.ArchivePath != "" {
		fmt.Fprintf(&b, "\narchive %s\n", r.ArchivePath)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
