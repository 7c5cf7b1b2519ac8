package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alfredlabs/butler/pkg/butler"
	"github.com/alfredlabs/butler/pkg/butler/config"
	"github.com/alfredlabs/butler/pkg/butler/dispatch"
	"github.com/alfredlabs/butler/pkg/butler/extract"
	"github.com/alfredlabs/butler/pkg/butler/store"
	"github.com/alfredlabs/butler/pkg/butler/store/memstore"
	"github.com/alfredlabs/butler/pkg/butler/store/sqlite"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Config file (optional)")
		lexiconPath = flag.String("lexicon", "", "Lexicon file (optional, defaults to built-in)")
		dbPath      = flag.String("db", "", "SQLite activity log (optional, in-memory without it)")
		text        = flag.String("text", "", "One-shot message (non-interactive mode)")
		explain     = flag.Bool("explain", false, "Print score breakdown per message")
	)
	flag.Parse()

	ctx := context.Background()

	loader := &config.Loader{ConfigPath: *configPath, LexiconPath: *lexiconPath}
	comp, err := loader.Load()
	if err != nil {
		log.Fatal(err)
	}

	var st store.Store
	switch {
	case *dbPath != "":
		st, err = sqlite.Open(ctx, *dbPath)
	case comp.Config.Store.Driver == "sqlite":
		st, err = sqlite.Open(ctx, comp.Config.Store.Path)
	default:
		st = memstore.New()
	}
	if err != nil {
		log.Fatal(err)
	}

	b := butler.New(butler.Options{
		Normalizer: comp.Normalizer,
		Lexicon:    comp.Lexicon,
		Scorer:     comp.Scorer,
		Composer:   comp.Composer,
		Store:      st,
	})
	defer b.Close()

	// One-shot mode
	if *text != "" {
		if err := handle(ctx, b, *text, *explain); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Println("  Butler CLI")
	fmt.Println("  Message understanding and activity log")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Type a message (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := handle(ctx, b, line, *explain); err != nil {
			fmt.Println("Error:", err)
		}
	}

	fmt.Println("\nGoodbye!")
}

func handle(ctx context.Context, b *butler.Butler, text string, explain bool) error {
	resp, err := b.Handle(ctx, butler.Request{Text: text, ReferenceTime: time.Now()})
	if err != nil {
		return err
	}

	r := resp.Result
	if !r.Matched {
		fmt.Println("No intent recognized.")
		fmt.Println()
		return nil
	}

	fmt.Printf("\nIntent:     %s (confidence %.2f)\n", r.Intent, r.Confidence)
	fmt.Printf("Actionable: %v\n", r.AutoActionable)
	if len(r.MissingRequired) > 0 {
		fmt.Printf("Missing:    %s\n", strings.Join(r.MissingRequired, ", "))
	}

	for _, e := range r.Entities {
		switch {
		case e.Quantity != nil:
			fmt.Printf("  quantity: %.1f %s\n", e.Quantity.Amount, e.Quantity.Unit)
		case e.Temporal != nil && e.Temporal.HasAt:
			fmt.Printf("  time:     %s\n", e.Temporal.At.Format("Mon Jan 2 15:04"))
		case e.Temporal != nil && e.Temporal.HasDuration:
			fmt.Printf("  duration: %s\n", e.Temporal.Duration)
		case e.Person != nil:
			fmt.Printf("  person:   %s\n", e.Person.Name)
		case e.Food != nil:
			fmt.Printf("  food:     %s x%.2g (%.0f kcal)\n", e.Food.Canonical, e.Food.Multiplier, e.Food.Calories*e.Food.Multiplier)
		case e.Exercise != nil:
			fmt.Printf("  exercise: %s\n", exerciseDetail(e.Exercise))
		case e.Free != nil:
			fmt.Printf("  body:     %s\n", e.Free.Body)
		}
	}

	if resp.Outcome.Action != "" && resp.Outcome.Action != dispatch.ActionNone {
		fmt.Printf("Action:     %s (%s)\n", resp.Outcome.Action, resp.Outcome.Detail)
		for _, ev := range resp.Outcome.Events {
			fmt.Printf("  - %s at %s", ev.Title, ev.StartsAt.Format("15:04"))
			if ev.With != "" {
				fmt.Printf(" with %s", ev.With)
			}
			if ev.Location != "" {
				fmt.Printf(" (%s)", ev.Location)
			}
			fmt.Println()
		}
	}

	if explain {
		fmt.Println("\nScore breakdown:")
		for word, weight := range r.Explain.Breakdown.TriggerWeights {
			fmt.Printf("  %-12s +%.1f\n", word, weight)
		}
		if r.Explain.Breakdown.RequiredBonus > 0 {
			fmt.Printf("  %-12s +%.1f\n", "bonus", r.Explain.Breakdown.RequiredBonus)
		}
		if r.Explain.Breakdown.SpecificityPenalty > 0 {
			fmt.Printf("  %-12s -%.1f\n", "penalty", r.Explain.Breakdown.SpecificityPenalty)
		}
		fmt.Printf("  %-12s %.1f\n", "total", r.Explain.Breakdown.Total)
		for _, c := range r.Explain.Candidates {
			fmt.Printf("  candidate %s: %.1f\n", c.Intent, c.Total)
		}
	}

	fmt.Println()
	return nil
}

func exerciseDetail(x *extract.ExerciseValue) string {
	s := x.MuscleGroup
	if x.Exercise != "" && x.Exercise != x.MuscleGroup {
		s = fmt.Sprintf("%s (%s)", x.Exercise, x.MuscleGroup)
	}
	if x.Weight > 0 {
		s += fmt.Sprintf(" %dx%d", x.Weight, x.Reps)
	}
	return s
}
