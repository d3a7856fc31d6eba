// Package logs records finished games in a sqlite database and exports
// per-move engine decisions as parquet for offline analysis.
package logs

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3" // repository assumes sqlite
)

type Repository struct {
	db *sqlx.DB

	insert *sqlx.NamedStmt
}

type Game struct {
	ID        int64     `db:"id"`
	Timestamp time.Time `db:"time"`
	Rows      int       `db:"rows"`
	Cols      int       `db:"cols"`
	PlayerA   string    `db:"player_a"`
	PlayerB   string    `db:"player_b"`
	// Winner is "A", "B", or empty for an unfinished game.
	Winner string `db:"winner"`
	Moves  int    `db:"moves"`
	// Record is the space-separated cell list, first move first.
	Record string `db:"record"`
}

// PlayerRecord summarizes one player's results across all games.
type PlayerRecord struct {
	Player string `db:"player"`
	Games  int    `db:"games"`
	Wins   int    `db:"wins"`
}

func Open(path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(createGameTable)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create game table: %w", err)
	}
	_, err = db.Exec(createPlayerTable)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create player_games view: %w", err)
	}

	repo := &Repository{db: db}
	repo.insert, err = db.PrepareNamed(insertStmt)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return repo, nil
}

// InsertGame stores g and fills in its ID.
func (r *Repository) InsertGame(g *Game) error {
	return r.insertGame(r.insert, g)
}

func (r *Repository) insertGame(stmt *sqlx.NamedStmt, g *Game) error {
	res, err := stmt.Exec(g)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

func (r *Repository) InsertGames(gs []*Game) error {
	txn, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer txn.Rollback()
	stmt := txn.NamedStmt(r.insert)
	for _, g := range gs {
		if e := r.insertGame(stmt, g); e != nil {
			return e
		}
	}
	return txn.Commit()
}

func (r *Repository) Games() ([]Game, error) {
	rows, err := r.db.Queryx(selectGames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Game
	for rows.Next() {
		var g Game
		if err := rows.StructScan(&g); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) Game(id int64) (*Game, error) {
	var g Game
	if err := r.db.Get(&g, selectGame, id); err != nil {
		return nil, fmt.Errorf("game %d: %w", id, err)
	}
	return &g, nil
}

func (r *Repository) Records() ([]PlayerRecord, error) {
	var out []PlayerRecord
	if err := r.db.Select(&out, selectRecord); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Close() {
	if r.insert != nil {
		r.insert.Close()
	}
	r.db.Close()
}
