package report

import (
	"fmt"
	"strings"
	"time"

	"aceintel/domain/record"
	"aceintel/domain/run"
)

var kindTitles = map[record.SourceKind]string{
	record.SourceBusSpeed:    "Bus Speeds",
	record.SourceEnforcement: "Camera Enforcement",
}

// Markdown renders a run result as a markdown report. The UI converts
// this to HTML; the CLI prints the summary in its own plain format.
func Markdown(res *run.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reconciliation Run %s\n\n", res.RunID)
	fmt.Fprintf(&b, "- **Status:** %s\n", res.Summary.Status)
	fmt.Fprintf(&b, "- **Started:** %s\n", res.StartedAt.Time().Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Duration:** %s\n", res.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "- **Fingerprint:** `%s`\n\n", res.Fingerprint)

	for _, kind := range record.Kinds() {
		ds, ok := res.Summary.Datasets[kind]
		if !ok {
			continue
		}
		writeDataset(&b, ds)
	}

	writeMerge(&b, res.Summary.Merge)
	return b.String()
}

func writeDataset(b *strings.Builder, ds run.DatasetSummary) {
	fmt.Fprintf(b, "## %s\n\n", kindTitles[ds.Kind])
	fmt.Fprintf(b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Records | %d |\n", ds.Records)
	fmt.Fprintf(b, "| Files loaded | %d / %d |\n", ds.FilesLoaded, ds.FilesDiscovered)
	if ds.FilesFailed > 0 {
		fmt.Fprintf(b, "| Files failed | %d |\n", ds.FilesFailed)
	}
	if ds.MinDate != nil && ds.MaxDate != nil {
		fmt.Fprintf(b, "| Date range | %s to %s |\n",
			ds.MinDate.Format("2006-01-02"), ds.MaxDate.Format("2006-01-02"))
	}
	if ds.SpeedMean != nil {
		fmt.Fprintf(b, "| Mean speed | %.2f |\n", *ds.SpeedMean)
	}
	if ds.SpeedStdDev != nil {
		fmt.Fprintf(b, "| Speed std dev | %.2f |\n", *ds.SpeedStdDev)
	}
	b.WriteString("\n")

	if len(ds.Columns) > 0 {
		fmt.Fprintf(b, "Columns: %s\n\n", strings.Join(ds.Columns, ", "))
	}
	if len(ds.UnmappedAttrs) > 0 {
		fmt.Fprintf(b, "Unmapped attributes: %s\n\n", strings.Join(ds.UnmappedAttrs, ", "))
	}
}

func writeMerge(b *strings.Builder, ms run.MergeSummary) {
	b.WriteString("## Merge\n\n")
	fmt.Fprintf(b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Groups | %d |\n", ms.Groups)
	fmt.Fprintf(b, "| Matched groups | %d |\n", ms.MatchedGroups)
	fmt.Fprintf(b, "| Bus-speed only | %d |\n", ms.BusSpeedOnly)
	fmt.Fprintf(b, "| Enforcement only | %d |\n", ms.EnforcementOnly)
	fmt.Fprintf(b, "| Unresolved records | %d |\n", ms.UnresolvedRecords)
	b.WriteString("\n")
}
