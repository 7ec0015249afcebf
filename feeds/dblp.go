// Package feeds fetches the dblp dump and its DTD.
package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/adrg/xdg"
	"github.com/miku/dblpslice"
	"github.com/miku/dblpslice/atomicfile"
	"github.com/miku/dblpslice/dateutil"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://dblp.org/xml/"
	DumpFile       = "dblp.xml.gz"
	DTDFile        = "dblp.dtd"
)

var releasePattern = regexp.MustCompile(`^dblp-\d{4}-\d{2}-\d{2}\.xml\.gz$`)

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// FetchError is returned when a file could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Release is a dated dump in the release directory.
type Release struct {
	Filename string
	URL      string
	Date     time.Time
}

// DBLPFetcher downloads dump files.
type DBLPFetcher struct {
	Client    Doer
	BaseURL   string
	CacheDir  string
	UserAgent string
}

// NewDBLPFetcher creates a fetcher with a retrying client and a cache
// directory under the XDG cache home.
func NewDBLPFetcher(maxRetries int, timeout time.Duration) (*DBLPFetcher, error) {
	cacheDir, err := xdg.CacheFile(filepath.Join(dblpslice.AppName, "dblp"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = maxRetries
	client.RetryOnHTTP429 = true
	client.Timeout = timeout
	return &DBLPFetcher{
		Client:    client,
		BaseURL:   DefaultBaseURL,
		CacheDir:  cacheDir,
		UserAgent: fmt.Sprintf("%s/%s", dblpslice.AppName, dblpslice.Version),
	}, nil
}

func (f *DBLPFetcher) link(name string) string {
	return strings.TrimSuffix(f.BaseURL, "/") + "/" + strings.TrimPrefix(name, "/")
}

func (f *DBLPFetcher) get(ctx context.Context, link string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &FetchError{URL: link, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	return resp, nil
}

// Download fetches name relative to the base URL into dst. An existing
// non-empty dst is kept. The file only appears once completely written.
func (f *DBLPFetcher) Download(ctx context.Context, name, dst string) error {
	if fi, err := os.Stat(dst); err == nil && fi.Size() > 0 {
		log.WithField("file", dst).Debug("already downloaded")
		return nil
	}
	link := f.link(name)
	resp, err := f.get(ctx, link)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	w, err := atomicfile.New(dst)
	if err != nil {
		return err
	}
	started := time.Now()
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		_ = w.Abort()
		return &FetchError{URL: link, Err: err}
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"url":     link,
		"bytes":   n,
		"elapsed": time.Since(started),
	}).Info("downloaded")
	return nil
}

// FetchDump downloads the current dump and its DTD into dir and returns
// their paths.
func (f *DBLPFetcher) FetchDump(ctx context.Context, dir string) (dump, dtd string, err error) {
	if dir == "" {
		dir = f.CacheDir
	}
	dtd = filepath.Join(dir, DTDFile)
	if err := f.Download(ctx, DTDFile, dtd); err != nil {
		return "", "", err
	}
	dump = filepath.Join(dir, DumpFile)
	if err := f.Download(ctx, DumpFile, dump); err != nil {
		return "", "", err
	}
	return dump, dtd, nil
}

// Releases lists the dated dumps found in the release directory, oldest
// first.
func (f *DBLPFetcher) Releases(ctx context.Context) ([]Release, error) {
	base := f.link("release/")
	resp, err := f.get(ctx, base)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: base, Err: err}
	}
	var (
		releases []Release
		seen     = make(map[string]bool)
	)
	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = filepath.Base(href)
		if !releasePattern.MatchString(href) || seen[href] {
			return
		}
		date, ok := dateutil.FromFilename(href)
		if !ok {
			return
		}
		seen[href] = true
		releases = append(releases, Release{
			Filename: href,
			URL:      base + href,
			Date:     date,
		})
	})
	sort.Slice(releases, func(i, j int) bool {
		return releases[i].Date.Before(releases[j].Date)
	})
	return releases, nil
}

// Latest returns the most recent release.
func Latest(releases []Release) (Release, bool) {
	if len(releases) == 0 {
		return Release{}, false
	}
	latest := releases[0]
	for _, r := range releases[1:] {
		if r.Date.After(latest.Date) {
			latest = r
		}
	}
	return latest, true
}
