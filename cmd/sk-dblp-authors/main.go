// sk-dblp-authors lists the distinct authors of extracted papers as TSV: raw
// dblp token, display name, surname, folded name key and ORCID.
//
// $ sk-dblp-authors -i articles.json | sort -t $'\t' -k4
// $ sk-dblp-authors -i articles.json -homonyms
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/miku/dblpslice/author"
	"github.com/miku/dblpslice/normal"
	"github.com/miku/dblpslice/sink"
	log "github.com/sirupsen/logrus"
)

var (
	inputFile = flag.String("i", "articles.json", "papers JSON file")
	homonyms  = flag.Bool("homonyms", false, "only list authors whose name key is shared with another author")
)

func main() {
	flag.Parse()
	records, err := sink.ReadJSON(*inputFile)
	if err != nil {
		log.Fatal(err)
	}
	var (
		seen    = make(map[string]bool)
		byName  = make(map[string]int)
		authors []author.Identity
	)
	for _, r := range records {
		for _, a := range r.Authors {
			if seen[a.Raw] {
				continue
			}
			seen[a.Raw] = true
			id := author.Normalize(a.Raw, a.ORCID)
			byName[normal.Name(id.Name)]++
			authors = append(authors, id)
		}
	}
	bw := bufio.NewWriter(os.Stdout)
	defer bw.Flush()
	for _, id := range authors {
		key := normal.Name(id.Name)
		if *homonyms && byName[key] < 2 {
			continue
		}
		var orcid string
		if id.ORCID != nil {
			orcid = *id.ORCID
		}
		fmt.Fprintln(bw, strings.Join([]string{id.Key, id.Name, id.Surname, key, orcid}, "\t"))
	}
	log.WithFields(log.Fields{
		"records": len(records),
		"authors": len(authors),
	}).Debug("done")
}
