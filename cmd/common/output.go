// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/ledger-sync/internal/batch"
	"fjacquet/ledger-sync/internal/categorizer"
	"fjacquet/ledger-sync/internal/dateutils"

	"github.com/fatih/color"
)

var heading = color.New(color.Bold)

// PrintSummary writes a human-readable report of a sync run.
func PrintSummary(w io.Writer, s batch.Summary) {
	heading.Fprintf(w, "Sync %s\n", s.RunID)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if s.FetchSkipped {
		fmt.Fprintf(tw, "Window:\t%s (already up to date)\n", s.Window)
	} else {
		fmt.Fprintf(tw, "Window:\t%s\n", s.Window)
	}
	fmt.Fprintf(tw, "Fetched:\t%d of %d available\n", s.Fetched, s.Available)
	fmt.Fprintf(tw, "Ledger rows:\t%d\n", s.Merge.Existing)
	fmt.Fprintf(tw, "Appended:\t%d\n", s.Merge.Appended)
	fmt.Fprintf(tw, "Duplicates:\t%d\n", s.Merge.Duplicates)
	fmt.Fprintf(tw, "Excluded:\t%d\n", s.Merge.Excluded)
	if s.Merge.PotentialDuplicate > 0 {
		fmt.Fprintf(tw, "Possible duplicates:\t%d\n", s.Merge.PotentialDuplicate)
	}
	fmt.Fprintf(tw, "Categories inferred:\t%d of %d\n", s.Inference.Inferred, s.Inference.Examined)
	if s.Inference.Unresolved > 0 {
		fmt.Fprintf(tw, "Uncategorized:\t%d\n", s.Inference.Unresolved)
	}
	if s.Merge.Appended > 0 {
		fmt.Fprintf(tw, "New rows span:\t%s .. %s\n",
			dateutils.ToISODate(s.NewRows.Start), dateutils.ToISODate(s.NewRows.End))
	}
	if len(s.UnmappedMasks) > 0 {
		fmt.Fprintf(tw, "Unmapped masks:\t%s\n", strings.Join(s.UnmappedMasks, ", "))
	}
	fmt.Fprintf(tw, "Total rows:\t%d\n", s.Total)
	if s.DryRun {
		fmt.Fprintf(tw, "Output:\t(dry run, nothing written)\n")
	} else {
		fmt.Fprintf(tw, "Output:\t%s\n", s.OutputPath)
	}
	_ = tw.Flush()
}

// PrintRanking writes the category ranking for description, best first.
func PrintRanking(w io.Writer, description string, ranking []categorizer.CategoryCount) {
	if len(ranking) == 0 {
		fmt.Fprintf(w, "No category history for %q\n", description)
		return
	}
	heading.Fprintf(w, "Categories for %q\n", description)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, cc := range ranking {
		marker := ""
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", marker, cc.Category, cc.Count)
	}
	_ = tw.Flush()
}

// PrintAccounts writes one line per linked account.
func PrintAccounts(w io.Writer, statuses []batch.AccountStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"MASK", "NAME", "TYPE", "MAPPED", "EXCLUDED"}, "\t"))
	for _, st := range statuses {
		name := st.Name
		if name == "" {
			name = "-"
		}
		kind := st.Type
		if st.Subtype != "" {
			kind += "/" + st.Subtype
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", st.Mask, name, kind, yesNo(st.Mapped), yesNo(st.Excluded))
	}
	_ = tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
