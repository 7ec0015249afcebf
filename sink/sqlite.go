package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/miku/dblpslice/author"
	"github.com/miku/dblpslice/dateutil"
	"github.com/miku/dblpslice/normal"
	"github.com/miku/dblpslice/schema/dblp"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DB is a SQLite store for papers and their authors.
type DB struct {
	db *sql.DB
}

// LoadOptions control a load.
type LoadOptions struct {
	Verbose       bool
	ProgressEvery int
}

// LoadStats counts what a load inserted.
type LoadStats struct {
	Articles    int
	Authors     int // newly created
	Authorships int
}

const schema = `
	CREATE TABLE IF NOT EXISTS article (
		pubkey INTEGER PRIMARY KEY AUTOINCREMENT,
		mdate TEXT,
		dblpkey TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		title TEXT,
		year TEXT,
		pages TEXT,
		volume TEXT,
		number TEXT,
		publisher TEXT,
		isbn TEXT,
		series TEXT,
		booktitle TEXT,
		journal TEXT,
		doi TEXT
	);

	CREATE TABLE IF NOT EXISTS author (
		authorkey INTEGER PRIMARY KEY AUTOINCREMENT,
		dblpkey TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		lastname TEXT NOT NULL,
		namekey TEXT NOT NULL,
		orcid TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_author_namekey ON author(namekey);

	CREATE TABLE IF NOT EXISTS authorship (
		pubkey INTEGER NOT NULL REFERENCES article(pubkey),
		authorkey INTEGER NOT NULL REFERENCES author(authorkey),
		authornumber INTEGER NOT NULL,
		publishedasname TEXT NOT NULL,
		PRIMARY KEY (pubkey, authornumber)
	);
`

// OpenDB opens or creates a database at path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Load inserts records, each publication with its authorships in a single
// transaction. Authors are looked up by their raw dblp token and created on
// first sight; an author keeps the first ORCID seen.
func (d *DB) Load(ctx context.Context, records []*dblp.Record, opts LoadOptions) (LoadStats, error) {
	var stats LoadStats
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		created, err := d.insert(ctx, r)
		if err != nil {
			return stats, fmt.Errorf("load %s: %w", r.Key, err)
		}
		stats.Articles++
		stats.Authors += created
		stats.Authorships += len(r.Authors)
		if opts.Verbose && opts.ProgressEvery > 0 && (i+1)%opts.ProgressEvery == 0 {
			log.WithFields(log.Fields{
				"articles": stats.Articles,
				"authors":  stats.Authors,
			}).Info("load progress")
		}
	}
	return stats, nil
}

// insert adds one publication and returns the number of authors created.
func (d *DB) insert(ctx context.Context, r *dblp.Record) (created int, err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	var mdate any
	if r.MDate != nil {
		if v, err := dateutil.Normalize(*r.MDate); err == nil {
			mdate = v
		} else {
			log.WithFields(log.Fields{"key": r.Key, "mdate": *r.MDate}).Debug("keeping unparsed mdate")
			mdate = *r.MDate
		}
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO article (mdate, dblpkey, type, title, year, pages,
		volume, number, publisher, isbn, series, booktitle, journal, doi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mdate, r.Key, r.Type.String(), nullable(r.Title), nullable(r.Year), nullable(r.Pages),
		nullable(r.Volume), nullable(r.Number), nullable(r.Publisher), nullable(r.ISBN),
		nullable(r.Series), nullable(r.Booktitle), nullable(r.Journal), nullable(r.DOI))
	if err != nil {
		return 0, err
	}
	pubkey, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for i, a := range r.Authors {
		id := author.Normalize(a.Raw, a.ORCID)
		authorkey, isNew, err := lookupOrCreate(ctx, tx, id)
		if err != nil {
			return 0, err
		}
		if isNew {
			created++
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO authorship (pubkey, authorkey, authornumber,
			publishedasname) VALUES (?, ?, ?, ?)`, pubkey, authorkey, i+1, id.Name); err != nil {
			return 0, err
		}
	}
	return created, tx.Commit()
}

func lookupOrCreate(ctx context.Context, tx *sql.Tx, id author.Identity) (int64, bool, error) {
	var authorkey int64
	err := tx.QueryRowContext(ctx, "SELECT authorkey FROM author WHERE dblpkey = ?", id.Key).Scan(&authorkey)
	switch {
	case err == nil:
		return authorkey, false, nil
	case err != sql.ErrNoRows:
		return 0, false, err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO author (dblpkey, name, lastname, namekey, orcid)
		VALUES (?, ?, ?, ?, ?)`, id.Key, id.Name, id.Surname, normal.Name(id.Name), nullable(id.ORCID))
	if err != nil {
		return 0, false, err
	}
	authorkey, err = res.LastInsertId()
	return authorkey, true, err
}

// Authorship is a row of the authorship table, joined with the author.
type Authorship struct {
	Number          int
	Name            string
	PublishedAsName string
	ORCID           *string
}

// Authorships returns the authors of a publication by dblp key, in order.
func (d *DB) Authorships(ctx context.Context, key string) ([]Authorship, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT s.authornumber, a.name, s.publishedasname, a.orcid
		FROM authorship s
		JOIN article p ON p.pubkey = s.pubkey
		JOIN author a ON a.authorkey = s.authorkey
		WHERE p.dblpkey = ?
		ORDER BY s.authornumber`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Authorship
	for rows.Next() {
		var (
			a     Authorship
			orcid sql.NullString
		)
		if err := rows.Scan(&a.Number, &a.Name, &a.PublishedAsName, &orcid); err != nil {
			return nil, err
		}
		if orcid.Valid {
			a.ORCID = &orcid.String
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// CountAuthors returns the number of distinct authors, i.e. distinct dblp
// author tokens.
func (d *DB) CountAuthors(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM author").Scan(&n)
	return n, err
}

// AuthorsByName finds author tokens whose folded display name matches name.
// Homonyms come back as separate entries.
func (d *DB) AuthorsByName(ctx context.Context, name string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT dblpkey FROM author WHERE namekey = ? ORDER BY dblpkey", normal.Name(name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
