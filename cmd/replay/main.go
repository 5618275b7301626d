package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fracturelabs/antifragile/go-engine/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	jsonOut := flag.Bool("json", false, "print the run summary as JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--json]")
		os.Exit(2)
	}
	os.Exit(run(*fixturePath, *jsonOut))
}

// #endregion main

// #region fixture-mode

func run(path string, jsonOut bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	e, results, sum, err := replay.RunFixture(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	if jsonOut {
		out, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal summary: %v\n", err)
			return 2
		}
		fmt.Println(string(out))
	} else {
		printRun(f, results, sum)
	}

	mismatches := replay.Check(f, e, sum)
	for _, m := range mismatches {
		fmt.Fprintf(os.Stderr, "MISMATCH: %s\n", m)
	}
	if len(mismatches) > 0 {
		return 1
	}
	return 0
}

// #endregion fixture-mode

// #region output

func printRun(f *replay.Fixture, results []replay.Result, sum replay.Summary) {
	if f.Description != "" {
		fmt.Println(f.Description)
	}
	fmt.Printf("%-8s| %-6s| %-24s| %s\n", "Frame", "FI", "Action", "Events")
	fmt.Printf("%-8s+%-7s+%-25s+%s\n", "--------", "-------", "-------------------------", "--------")

	for _, r := range results {
		events := ""
		if r.Tick.Fractured {
			events += "FRACTURE "
		}
		if r.Tick.Policy != nil {
			events += "policy "
		}
		if r.Tick.Structural != nil {
			events += fmt.Sprintf("mining(%d proposals) ", len(r.Tick.Structural.Proposals))
		}
		fmt.Printf("%-8d| %-6.2f| %-24s| %s\n", r.FrameIndex, r.Tick.Frame.FI, r.Tick.Action, events)
	}

	fmt.Printf("\nSummary: %d frames, %d fractures, %d policy updates, %d mining passes\n",
		sum.Frames, sum.Fractures, sum.PolicyUpdates, sum.MiningPasses)
	fmt.Printf("Final: %d states learned, exploration %.3f, effectiveness %.3f\n",
		sum.FinalStatus.QTableSize, sum.FinalStatus.ExplorationRate, sum.FinalStatus.LearningEffectiveness)
}

// #endregion output
