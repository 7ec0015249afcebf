// sk-dblp-load loads papers written by sk-dblp into a SQLite database, with
// one row per distinct dblp author.
//
// $ sk-dblp-load -i articles.json -db dblp.db
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/miku/dblpslice"
	"github.com/miku/dblpslice/config"
	"github.com/miku/dblpslice/sink"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Default()
	if err := cfg.LoadEnv(); err != nil {
		log.Fatal(err)
	}
	var (
		inputFile     = flag.String("i", cfg.ArticlesFile, "papers JSON file")
		dbFile        = flag.String("db", cfg.DatabaseFile, "SQLite database file")
		progressEvery = flag.Int("n", 1000, "log progress every n papers, with -v")
		verbose       = flag.Bool("v", cfg.Verbose, "verbose output")
		showVersion   = flag.Bool("version", false, "show version")
	)
	flag.Parse()
	if *showVersion {
		fmt.Printf("%s %s\n", dblpslice.AppName, dblpslice.Version)
		os.Exit(0)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	records, err := sink.ReadJSON(*inputFile)
	if err != nil {
		log.Fatal(err)
	}
	db, err := sink.OpenDB(*dbFile)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	started := time.Now()
	stats, err := db.Load(ctx, records, sink.LoadOptions{
		Verbose:       *verbose,
		ProgressEvery: *progressEvery,
	})
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"articles":    stats.Articles,
		"authors":     stats.Authors,
		"authorships": stats.Authorships,
		"elapsed":     time.Since(started),
	}).Info("load done")
}
