package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fracturelabs/antifragile/go-engine/internal/fracturelog"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the fracture journal")
	last := flag.Int("last", 20, "show N most recent fractures")
	events := flag.String("events", "", "list engine events instead (policy_update|mining_pass|all)")
	summary := flag.Bool("summary", false, "print aggregate journal stats")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/journal.db [--last N] [--events kind] [--summary] [--json]")
		os.Exit(2)
	}

	store, err := fracturelog.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *summary:
		err = runSummaryMode(store, *jsonOut)
	case *events != "":
		err = runEventMode(store, *events, *last, *jsonOut)
	default:
		err = runFractureMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region fracture-mode

func runFractureMode(store *fracturelog.Store, last int, jsonOut bool) error {
	rows, err := store.ListFractures(last)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-38s| %-22s| %-8s| %-22s| %s\n", "Event", "At", "Severity", "Context", "Interventions")
	for _, r := range rows {
		fmt.Printf("%-38s| %-22s| %-8.2f| %-22s| %d\n",
			r.ID, r.At.Format("2006-01-02 15:04:05"), r.Severity, r.Context, len(r.Interventions))
	}
	fmt.Printf("\n%d fractures shown\n", len(rows))
	return nil
}

// #endregion fracture-mode

// #region event-mode

func runEventMode(store *fracturelog.Store, kind string, last int, jsonOut bool) error {
	filter := fracturelog.EventKind(kind)
	if kind == "all" {
		filter = ""
	}
	rows, err := store.ListEvents(filter, last)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(rows)
	}

	for _, r := range rows {
		fmt.Printf("%-6d| %-22s| %-14s| %s\n",
			r.ID, r.At.Format("2006-01-02 15:04:05"), r.Kind, r.Detail)
	}
	fmt.Printf("\n%d events shown\n", len(rows))
	return nil
}

// #endregion event-mode

// #region summary-mode

func runSummaryMode(store *fracturelog.Store, jsonOut bool) error {
	sum, err := store.Summarize()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(sum)
	}

	fmt.Printf("Total fractures: %d\n", sum.TotalFractures)
	fmt.Printf("Mean severity:   %.3f\n", sum.MeanSeverity)
	fmt.Printf("Max severity:    %.3f\n", sum.MaxSeverity)
	if len(sum.TopContexts) > 0 {
		fmt.Println("Top contexts:")
		for _, cc := range sum.TopContexts {
			fmt.Printf("  %-30s %d\n", cc.Context, cc.Count)
		}
	}
	return nil
}

// #endregion summary-mode

// #region helpers

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// #endregion helpers
