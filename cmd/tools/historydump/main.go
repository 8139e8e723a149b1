package main

import (
	"flag"
	"log"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/matteo/boostwatch/internal/history"
	"github.com/matteo/boostwatch/internal/offer"
)

func main() {
	file := flag.String("file", os.Getenv("SUPERQUOTE_HISTORY_FILE"), "history file to inspect")
	activeOnly := flag.Bool("active", false, "show only offers still on the page")
	flag.Parse()

	if *file == "" {
		log.Fatal("Please provide a history file using -file (or SUPERQUOTE_HISTORY_FILE)")
	}

	hist := history.NewStore(*file).Load()

	ids := make([]offer.ID, 0, len(hist))
	for id := range hist {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := hist[ids[i]], hist[ids[j]]
		if !a.ObservedAt.Equal(b.ObservedAt.Time) {
			return a.ObservedAt.Before(b.ObservedAt.Time)
		}
		return ids[i] < ids[j]
	})

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Sport", "Match", "Market", "Base", "Boosted", "Last Seen", "Active"})

	shown := 0
	for _, id := range ids {
		o := hist[id]
		if *activeOnly && !o.Active {
			continue
		}
		t.AppendRow(table.Row{id.Short(), o.Sport.String(), o.Match.String(), o.Market.String(), o.BaseOdds.String(), o.BoostedOdds.String(), o.ObservedAt.String(), o.Active})
		shown++
	}
	t.Render()

	log.Printf("%d shown, %d tracked, %d active", shown, len(hist), hist.ActiveCount())
}
