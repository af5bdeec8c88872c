package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily board.
type Result struct {
	UserID     string `json:"userId"`
	Date       string `json:"date"`
	SetID      int    `json:"setId"`
	Placements int    `json:"placements"`
	ElapsedMs  int    `json:"elapsedMs"`
}

// LBRow is one leaderboard line.
type LBRow struct {
	UserID     string `json:"userId"`
	Placements int    `json:"placements"`
	ElapsedMs  int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a finished board. A second result for the same
// user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, set_id, placements, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.UserID, r.Date, r.SetID, r.Placements, r.ElapsedMs,
	)
	return err
}

// Leaderboard returns the fastest boards for date; ties go to fewer placements,
// then to whoever finished first.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, placements, elapsed_ms
		 FROM daily_results
		 WHERE date=?
		 ORDER BY elapsed_ms ASC, placements ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Placements, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
