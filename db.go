package ledframe

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bodgit/ledframe/frame"
	"github.com/bodgit/ledframe/stats"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// FrameDB stores converted frames so results can be looked up again by ID,
// by the input they were produced from, or as the most recent result.
type FrameDB struct {
	db *sql.DB
}

// NewFrameDB opens or creates the database in file.
func NewFrameDB(file string) (*FrameDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (id TEXT PRIMARY KEY NOT NULL, sha1 TEXT, source TEXT NOT NULL, format TEXT NOT NULL, original_size INTEGER NOT NULL, frame BLOB NOT NULL, created INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS frame_sha1 ON frame (sha1)"); err != nil {
		db.Close()
		return nil, err
	}

	return &FrameDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *FrameDB) Close() error {
	return db.db.Close()
}

// Add stores r under a new ID, which is written back to r. The key may be
// empty if the input cannot be looked up again.
func (db *FrameDB) Add(key string, r *Result) error {
	m, err := r.Frame()
	if err != nil {
		return err
	}

	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}

	var sha1 sql.NullString
	if key != "" {
		sha1.String = key
		sha1.Valid = true
	}

	id := uuid.New().String()
	if _, err := db.db.Exec("INSERT INTO frame (id, sha1, source, format, original_size, frame, created) VALUES (?, ?, ?, ?, ?, ?, ?)", id, sha1, string(r.Source), r.Format, r.OriginalSize, b, time.Now().UnixNano()); err != nil {
		return err
	}
	r.ID = id

	return nil
}

func scanResult(row *sql.Row) (*Result, error) {
	var (
		r      Result
		source string
		b      []byte
	)
	switch err := row.Scan(&r.ID, &source, &r.Format, &r.OriginalSize, &b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		var m frame.RGB
		if err := m.UnmarshalBinary(b); err != nil {
			return nil, err
		}

		s, err := stats.Collect(m.Pix)
		if err != nil {
			return nil, err
		}

		r.Source = Source(source)
		r.Pixels = m.Pix
		r.Width, r.Height = m.Rect.Dx(), m.Rect.Dy()
		r.Stats = s

		return &r, nil
	default:
		return nil, err
	}
}

const selectFrame = "SELECT id, source, format, original_size, frame FROM frame"

// Find returns the frame with the given ID, or nil if there isn't one.
func (db *FrameDB) Find(id string) (*Result, error) {
	return scanResult(db.db.QueryRow(selectFrame+" WHERE id = ?", id))
}

// FindBySHA1 returns the most recent frame stored under key, or nil.
func (db *FrameDB) FindBySHA1(key string) (*Result, error) {
	return scanResult(db.db.QueryRow(selectFrame+" WHERE sha1 = ? ORDER BY created DESC, rowid DESC LIMIT 1", key))
}

// Latest returns the most recently stored frame, or nil if the database
// is empty.
func (db *FrameDB) Latest() (*Result, error) {
	return scanResult(db.db.QueryRow(selectFrame + " ORDER BY created DESC, rowid DESC LIMIT 1"))
}
