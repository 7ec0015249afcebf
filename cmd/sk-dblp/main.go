// sk-dblp extracts papers and proceedings of selected venues from a dblp XML
// dump, resolves crossrefs and writes two JSON files.
//
// $ sk-dblp -download -v
// $ sk-dblp -i dblp.xml.gz -venues venues.yaml -o articles.json -p proceedings.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/miku/dblpslice"
	"github.com/miku/dblpslice/config"
	"github.com/miku/dblpslice/extract"
	"github.com/miku/dblpslice/feeds"
	"github.com/miku/dblpslice/sink"
	"github.com/miku/dblpslice/xmlstream"
	log "github.com/sirupsen/logrus"
)

var help = `sk-dblp slices a dblp dump by venue

Records are kept if their key starts with one of the allowed venue prefixes,
like "conf/crypto" or "journals/joc". Papers referring to a proceedings
volume via crossref inherit missing fields, like booktitle or publisher.

Examples:

    $ sk-dblp -download
    $ sk-dblp -i dblp.xml.gz -dtd dblp.dtd -schema venue
    $ DBLPSLICE_VENUES=venues.yaml sk-dblp -referenced

Usage:

`

func main() {
	cfg := config.Default()
	if err := cfg.LoadEnv(); err != nil {
		log.Fatal(err)
	}
	var (
		dataDir        = flag.String("d", cfg.DataDir, "data directory")
		download       = flag.Bool("download", false, "download dump and DTD into data directory, if missing")
		inputFile      = flag.String("i", cfg.DumpFile, "dblp XML dump, may be .gz or .zst compressed")
		dtdFile        = flag.String("dtd", cfg.DTDFile, "DTD to read entity definitions from, ignored if missing")
		venuesFile     = flag.String("venues", cfg.VenuesFile, "YAML file with venue prefixes, default: built-in list")
		schemaName     = flag.String("schema", cfg.Schema, "record schema: default or venue")
		articlesFile   = flag.String("o", cfg.ArticlesFile, "output file for papers")
		procsFile      = flag.String("p", cfg.ProceedingsFile, "output file for proceedings")
		referencedOnly = flag.Bool("referenced", cfg.ReferencedOnly, "only write proceedings referenced by a paper")
		workers        = flag.Int("w", cfg.Workers, "number of crossref resolution workers")
		progressEvery  = flag.Int("n", cfg.ProgressEvery, "log progress every n publications, with -v")
		verbose        = flag.Bool("v", cfg.Verbose, "verbose output")
		listReleases   = flag.Bool("releases", false, "list dated dumps available for download")
		cpuprofile     = flag.String("cpuprofile", "", "file to write cpu pprof to")
		showVersion    = flag.Bool("version", false, "show version")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Printf("%s %s\n", dblpslice.AppName, dblpslice.Version)
		os.Exit(0)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cfg.VenuesFile = *venuesFile
	cfg.Schema = *schemaName
	allow, err := cfg.AllowList()
	if err != nil {
		log.Fatal(err)
	}
	schema, err := cfg.RecordSchema()
	if err != nil {
		log.Fatal(err)
	}
	if *download || *listReleases {
		fetcher, err := feeds.NewDBLPFetcher(cfg.MaxRetries, cfg.Timeout)
		if err != nil {
			log.Fatal(err)
		}
		if *listReleases {
			releases, err := fetcher.Releases(ctx)
			if err != nil {
				log.Fatal(err)
			}
			for _, r := range releases {
				fmt.Printf("%s\t%s\n", r.Date.Format("2006-01-02"), r.URL)
			}
			os.Exit(0)
		}
		if err := os.MkdirAll(*dataDir, 0755); err != nil {
			log.Fatal(err)
		}
		dump, dtd, err := fetcher.FetchDump(ctx, *dataDir)
		if err != nil {
			log.Fatal(err)
		}
		*inputFile, *dtdFile = dump, dtd
	}
	if _, err := os.Stat(*dtdFile); err != nil {
		log.WithField("dtd", *dtdFile).Debug("no DTD, using built-in entities only")
		*dtdFile = ""
	}
	log.WithFields(log.Fields{
		"input":  *inputFile,
		"venues": len(allow),
		"schema": schema.Name,
	}).Info("starting extraction")
	started := time.Now()
	result, err := extract.File(ctx, *inputFile, extract.Options{
		Allow:         allow,
		Schema:        schema,
		DTD:           *dtdFile,
		Verbose:       *verbose,
		ProgressEvery: *progressEvery,
		Workers:       *workers,
	})
	if err != nil {
		var pe *xmlstream.ParseError
		if errors.As(err, &pe) {
			log.Fatalf("malformed input at byte offset %d: %v", pe.Offset, err)
		}
		log.Fatal(err)
	}
	if err := sink.WriteJSON(*articlesFile, result.Papers); err != nil {
		log.Fatal(err)
	}
	procs := result.Proceedings(*referencedOnly)
	if err := sink.WriteJSON(*procsFile, procs); err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"papers":      len(result.Papers),
		"proceedings": len(procs),
		"articles":    *articlesFile,
		"output":      *procsFile,
		"elapsed":     time.Since(started),
	}).Info("done")
}
