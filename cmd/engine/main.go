package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fracturelabs/antifragile/go-engine/internal/engine"
	"github.com/fracturelabs/antifragile/go-engine/internal/fracturelog"
	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to engine YAML config (defaults used when empty)")
	inputPath := flag.String("input", "", "JSONL frame stream (stdin when empty)")
	dbPath := flag.String("db", envOr("FRACTURE_DB", ""), "SQLite journal path (journaling off when empty)")
	verbose := flag.Bool("verbose", false, "print a line per frame instead of per event")
	flag.Parse()

	config := engine.DefaultConfig()
	if *configPath != "" {
		var err error
		config, err = engine.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	e, err := engine.New(config)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	var journal *fracturelog.Store
	if *dbPath != "" {
		journal, err = fracturelog.NewStore(*dbPath)
		if err != nil {
			log.Fatalf("journal: %v", err)
		}
		defer journal.Close()
	}

	in := os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			log.Fatalf("input: %v", err)
		}
		defer f.Close()
		in = f
	}

	if err := run(e, journal, in, *verbose); err != nil {
		log.Fatalf("run: %v", err)
	}

	status, err := json.MarshalIndent(e.Status(), "", "  ")
	if err != nil {
		log.Fatalf("status: %v", err)
	}
	fmt.Println(string(status))
}

// #endregion main

// #region stream-loop

// run consumes one JSON frame record per line until EOF. Blank lines
// are skipped; a malformed line aborts the run.
func run(e *engine.Engine, journal *fracturelog.Store, in io.Reader, verbose bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec frame.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		res := e.ProcessFrame(rec)
		if journal != nil {
			if err := journal.RecordTick(res); err != nil {
				return fmt.Errorf("line %d: journal: %w", lineNo, err)
			}
		}
		report(res, lineNo, verbose)
	}
	return scanner.Err()
}

// report prints human-readable event lines to stdout.
func report(res engine.TickResult, lineNo int, verbose bool) {
	if verbose {
		fmt.Printf("frame %d fi=%.2f action=%s\n", lineNo, res.Frame.FI, res.Action)
	}
	if res.Fracture != nil {
		fmt.Printf("frame %d FRACTURE %s severity=%.2f context=%s experiences=%d\n",
			lineNo, res.Fracture.Event.ID, res.Fracture.Event.Severity,
			res.Fracture.Event.Context, res.Fracture.Experiences)
	}
	if res.Policy != nil {
		fmt.Printf("frame %d policy updated: %d states learned\n", lineNo, res.Policy.StatesLearned)
	}
	if res.Structural != nil {
		for _, p := range res.Structural.Proposals {
			fmt.Printf("frame %d proposal %s confidence=%.2f: %s\n", lineNo, p.Type, p.Confidence, p.Reason)
		}
	}
}

// #endregion stream-loop

// #region helpers

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// #endregion helpers
