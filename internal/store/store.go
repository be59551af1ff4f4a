// Package store persists mined opportunities in a local sqlite database and
// answers the filtered, sorted, paginated queries the listing endpoint needs.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
)

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS opportunities (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			summary      TEXT NOT NULL DEFAULT '',
			score        REAL NOT NULL DEFAULT 0,
			viable       INTEGER NOT NULL DEFAULT 0,
			source_group TEXT NOT NULL DEFAULT '',
			category     TEXT NOT NULL DEFAULT '',
			platform     TEXT NOT NULL DEFAULT '',
			audience     TEXT NOT NULL DEFAULT '',
			vertical     TEXT NOT NULL DEFAULT '',
			niche        TEXT NOT NULL DEFAULT '',
			source_items TEXT NOT NULL DEFAULT '[]',
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_opportunities_score ON opportunities(score DESC);
		CREATE INDEX IF NOT EXISTS idx_opportunities_created ON opportunities(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_opportunities_group ON opportunities(source_group);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Upsert writes opportunities, keeping the original created_at on conflict so
// re-scans do not shuffle date-ordered listings.
func (s *Store) Upsert(opps []listing.Opportunity) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO opportunities
			(id, title, summary, score, viable, source_group, category, platform,
			 audience, vertical, niche, source_items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			score = excluded.score,
			viable = excluded.viable,
			source_items = excluded.source_items,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, o := range opps {
		items, err := json.Marshal(o.SourceItems)
		if err != nil {
			return fmt.Errorf("encoding source items for %s: %w", o.ID, err)
		}
		created := o.CreatedAt
		if created.IsZero() {
			created = now
		}
		_, err = stmt.Exec(o.ID, o.Title, o.Summary, o.Score, boolToInt(o.Viable),
			o.SourceGroup, o.Category, o.Platform, o.Audience, o.Vertical, o.Niche,
			string(items), created, now)
		if err != nil {
			return fmt.Errorf("upserting opportunity %s: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

// Query answers one page of the listing for a filter state. The page argument
// overrides st.Page for load-more requests.
func (s *Store) Query(st filter.State, page int) (*listing.Page, error) {
	st = filter.Normalize(st)
	if page < 1 {
		page = st.Page
	}

	where, args := buildWhere(st)

	countQuery := "SELECT COUNT(*) FROM opportunities" + where
	var total int
	if err := s.readDB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting opportunities: %w", err)
	}

	query := `SELECT id, title, summary, score, viable, source_group, category,
		platform, audience, vertical, niche, source_items, created_at
		FROM opportunities` + where + orderClause(st) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", st.PageSize, (page-1)*st.PageSize)

	rows, err := s.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying opportunities: %w", err)
	}
	defer rows.Close()

	opps := []listing.Opportunity{}
	for rows.Next() {
		var (
			o      listing.Opportunity
			viable int
			items  string
		)
		if err := rows.Scan(&o.ID, &o.Title, &o.Summary, &o.Score, &viable,
			&o.SourceGroup, &o.Category, &o.Platform, &o.Audience, &o.Vertical,
			&o.Niche, &items, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning opportunity: %w", err)
		}
		o.Viable = viable != 0
		if err := json.Unmarshal([]byte(items), &o.SourceItems); err != nil {
			return nil, fmt.Errorf("decoding source items for %s: %w", o.ID, err)
		}
		opps = append(opps, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(st.PageSize)))
	}

	return &listing.Page{
		Opportunities: opps,
		Pagination: listing.Pagination{
			Page:       page,
			Limit:      st.PageSize,
			TotalCount: total,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
	}, nil
}

func buildWhere(st filter.State) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)

	if st.Search != "" {
		where = append(where, "(title LIKE ? OR summary LIKE ? OR niche LIKE ?)")
		term := "%" + st.Search + "%"
		args = append(args, term, term, term)
	}
	for _, facet := range []struct {
		col string
		val string
	}{
		{"source_group", st.SourceGroup},
		{"category", st.Category},
		{"platform", st.Platform},
		{"audience", st.Audience},
		{"vertical", st.Vertical},
		{"niche", st.Niche},
	} {
		if facet.val != "" {
			where = append(where, facet.col+" = ?")
			args = append(args, facet.val)
		}
	}
	if st.MinScore > 0 {
		where = append(where, "score >= ?")
		args = append(args, st.MinScore)
	}
	switch st.Viable {
	case filter.TriYes:
		where = append(where, "viable = 1")
	case filter.TriNo:
		where = append(where, "viable = 0")
	}

	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func orderClause(st filter.State) string {
	dir := "DESC"
	if st.SortOrder == filter.OrderAsc {
		dir = "ASC"
	}
	switch st.SortKey {
	case filter.SortDate:
		return " ORDER BY created_at " + dir + ", id"
	case filter.SortTitle:
		return " ORDER BY title COLLATE NOCASE " + dir + ", id"
	default:
		return " ORDER BY score " + dir + ", id"
	}
}

// Facets returns the option list for every facet dimension, keyed by the
// query parameter name the codec uses.
func (s *Store) Facets() (map[string][]listing.FacetOption, error) {
	dims := map[string]string{
		"group":    "source_group",
		"category": "category",
		"platform": "platform",
		"audience": "audience",
		"vertical": "vertical",
		"niche":    "niche",
	}

	out := make(map[string][]listing.FacetOption, len(dims))
	for key, col := range dims {
		rows, err := s.readDB.Query(
			"SELECT " + col + ", COUNT(*) FROM opportunities WHERE " + col + " != '' GROUP BY " + col + " ORDER BY COUNT(*) DESC, " + col)
		if err != nil {
			return nil, fmt.Errorf("querying %s facet: %w", key, err)
		}
		var opts []listing.FacetOption
		for rows.Next() {
			var opt listing.FacetOption
			if err := rows.Scan(&opt.Value, &opt.Count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s facet: %w", key, err)
			}
			opts = append(opts, opt)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		out[key] = opts
	}
	return out, nil
}

// Stats returns collection-wide aggregates.
func (s *Store) Stats() (*listing.Stats, error) {
	var st listing.Stats
	err := s.readDB.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(viable), 0),
		       COALESCE(AVG(score), 0)
		FROM opportunities
	`).Scan(&st.TotalCount, &st.ViableCount, &st.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}
	return &st, nil
}

// Get returns one opportunity by id, or sql.ErrNoRows.
func (s *Store) Get(id string) (*listing.Opportunity, error) {
	row := s.readDB.QueryRow(`SELECT id, title, summary, score, viable, source_group,
		category, platform, audience, vertical, niche, source_items, created_at
		FROM opportunities WHERE id = ?`, id)

	var (
		o      listing.Opportunity
		viable int
		items  string
	)
	if err := row.Scan(&o.ID, &o.Title, &o.Summary, &o.Score, &viable,
		&o.SourceGroup, &o.Category, &o.Platform, &o.Audience, &o.Vertical,
		&o.Niche, &items, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Viable = viable != 0
	if err := json.Unmarshal([]byte(items), &o.SourceItems); err != nil {
		return nil, fmt.Errorf("decoding source items for %s: %w", o.ID, err)
	}
	return &o, nil
}

// Prune deletes opportunities not updated within the retention period and
// returns how many were removed.
func (s *Store) Prune(retention time.Duration) (int64, error) {
	res, err := s.writeDB.Exec(
		"DELETE FROM opportunities WHERE updated_at < ?", time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DBStats reports row count and on-disk size for the stats command.
func (s *Store) DBStats(dbPath string) (int, int64, error) {
	var count int
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM opportunities").Scan(&count); err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, info.Size(), nil
}

// LastScan returns the recorded completion time of the most recent scan.
func (s *Store) LastScan() (time.Time, bool) {
	var value string
	if err := s.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_scan'").Scan(&value); err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *Store) SetLastScan() error {
	_, err := s.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES ('last_scan', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, time.Now().Format(time.RFC3339))
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
