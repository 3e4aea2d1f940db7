package store

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps NBT encoded grids of edited chunks, keyed by chunk
// coordinate.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("empty store path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening store")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS chunks (
			cx INTEGER NOT NULL,
			cy INTEGER NOT NULL,
			cz INTEGER NOT NULL,
			grid BLOB NOT NULL,
			PRIMARY KEY (cx, cy, cz)
		);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "init store: %s", stmt)
		}
	}
	util.LogIOInfo(fmt.Sprintf("[Store] opened %s", path))
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadGrid(pos voxel.Int3) (voxel.Grid, bool, error) {
	var blob []byte
	err := s.db.QueryRow("SELECT grid FROM chunks WHERE cx = ? AND cy = ? AND cz = ?", pos.X, pos.Y, pos.Z).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return voxel.Grid{}, false, nil
	}
	if err != nil {
		return voxel.Grid{}, false, errors.Wrapf(err, "loading chunk %s", pos)
	}
	grid, err := DecodeGrid(bytes.NewReader(blob))
	if err != nil {
		return voxel.Grid{}, false, errors.Wrapf(err, "chunk %s", pos)
	}
	return grid, true, nil
}

func (s *SQLiteStore) SaveGrid(pos voxel.Int3, grid *voxel.Grid) error {
	var buf bytes.Buffer
	if err := EncodeGrid(&buf, grid); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO chunks (cx, cy, cz, grid) VALUES (?, ?, ?, ?)
		ON CONFLICT(cx, cy, cz) DO UPDATE SET grid = excluded.grid`, pos.X, pos.Y, pos.Z, buf.Bytes())
	if err != nil {
		return errors.Wrapf(err, "saving chunk %s", pos)
	}
	util.LogIOInfo(fmt.Sprintf("[Store] saved chunk %s (%d bytes)", pos, buf.Len()))
	return nil
}

func (s *SQLiteStore) Delete(pos voxel.Int3) error {
	_, err := s.db.Exec("DELETE FROM chunks WHERE cx = ? AND cy = ? AND cz = ?", pos.X, pos.Y, pos.Z)
	return errors.Wrapf(err, "deleting chunk %s", pos)
}

func (s *SQLiteStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "counting chunks")
	}
	return n, nil
}

// Coords lists the stored chunk coordinates in x, y, z order.
func (s *SQLiteStore) Coords() ([]voxel.Int3, error) {
	rows, err := s.db.Query("SELECT cx, cy, cz FROM chunks ORDER BY cx, cy, cz")
	if err != nil {
		return nil, errors.Wrap(err, "listing chunks")
	}
	defer rows.Close()
	var coords []voxel.Int3
	for rows.Next() {
		var pos voxel.Int3
		if err := rows.Scan(&pos.X, &pos.Y, &pos.Z); err != nil {
			return nil, errors.Wrap(err, "listing chunks")
		}
		coords = append(coords, pos)
	}
	return coords, errors.Wrap(rows.Err(), "listing chunks")
}
