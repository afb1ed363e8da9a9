package storage

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pable/go-gameplan/internal/model"
)

// playsPerInsert bounds the rows in one INSERT; nine columns each keeps
// SQLite well under its bind variable limit.
const playsPerInsert = 100

var gameColumns = []string{
	"hash", "game_number", "game_date", "opponent", "source_file", "play_count", "import_id", "imported_at",
}

// GameExists returns true if a game with the given hash is already stored.
func (db *DB) GameExists(hash string) (bool, error) {
	var count int
	err := db.sb.Select("COUNT(1)").From("games").Where(sq.Eq{"hash": hash}).
		RunWith(db.conn).QueryRow().Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextGameNumber returns the sequence number for the next imported game.
func (db *DB) NextGameNumber() (int, error) {
	var n int
	err := db.sb.Select("COALESCE(MAX(game_number), 0) + 1").From("games").
		RunWith(db.conn).QueryRow().Scan(&n)
	return n, err
}

// InsertGame inserts a game record, replacing any row with the same hash.
func (db *DB) InsertGame(g model.Game) error {
	_, err := db.sb.Insert("games").Columns(gameColumns...).
		Values(g.Hash, g.GameNumber, g.Date, g.Opponent, g.SourceFile, g.PlayCount, g.ImportID, g.ImportedAt).
		Suffix(`ON CONFLICT (hash) DO UPDATE SET
			game_number = excluded.game_number, game_date = excluded.game_date,
			opponent = excluded.opponent, source_file = excluded.source_file,
			play_count = excluded.play_count, import_id = excluded.import_id,
			imported_at = excluded.imported_at`).
		RunWith(db.conn).Exec()
	return err
}

// InsertPlays bulk-inserts plays in a transaction. Plays already stored for
// the same game and index are left untouched.
func (db *DB) InsertPlays(plays []model.Play) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for start := 0; start < len(plays); start += playsPerInsert {
		end := min(start+playsPerInsert, len(plays))
		ins := db.sb.Insert("plays").Columns(
			"game_hash", "play_index", "down", "distance",
			"formation", "backfield", "play_call", "play_type", "routes",
		)
		for _, p := range plays[start:end] {
			ins = ins.Values(
				p.GameHash, p.PlayIndex, p.Down, p.Distance,
				p.Formation, p.Backfield, p.PlayCall, p.PlayType.String(), p.Routes,
			)
		}
		if _, err := ins.Suffix("ON CONFLICT DO NOTHING").RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("insert plays %d-%d: %w", start, end-1, err)
		}
	}
	return tx.Commit()
}

func scanGame(row sq.RowScanner) (model.Game, error) {
	var g model.Game
	err := row.Scan(&g.Hash, &g.GameNumber, &g.Date, &g.Opponent, &g.SourceFile,
		&g.PlayCount, &g.ImportID, &g.ImportedAt)
	return g, err
}

// ListGames returns all stored games ordered by game number.
func (db *DB) ListGames() ([]model.Game, error) {
	rows, err := db.sb.Select(gameColumns...).From("games").OrderBy("game_number").
		RunWith(db.conn).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGameByPrefix returns the first game whose hash starts with prefix, or nil.
func (db *DB) GetGameByPrefix(prefix string) (*model.Game, error) {
	row := db.sb.Select(gameColumns...).From("games").
		Where(sq.Like{"hash": prefix + "%"}).OrderBy("game_number").Limit(1).
		RunWith(db.conn).QueryRow()
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteGame removes a game and its plays. It reports whether a game was found.
func (db *DB) DeleteGame(hash string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := db.sb.Delete("plays").Where(sq.Eq{"game_hash": hash}).RunWith(tx).Exec(); err != nil {
		return false, fmt.Errorf("delete plays: %w", err)
	}
	res, err := db.sb.Delete("games").Where(sq.Eq{"hash": hash}).RunWith(tx).Exec()
	if err != nil {
		return false, fmt.Errorf("delete game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// PlayFilter narrows the plays returned by Plays. Zero values match everything.
type PlayFilter struct {
	Opponent     string
	GamePrefixes []string
	FromGame     int // minimum game number
	LastN        int // only the N most recent matching games
	Downs        []int
}

func (f PlayFilter) gameConds() sq.And {
	conds := sq.And{}
	if f.Opponent != "" {
		conds = append(conds, sq.Eq{"g.opponent": f.Opponent})
	}
	if len(f.GamePrefixes) > 0 {
		or := sq.Or{}
		for _, p := range f.GamePrefixes {
			or = append(or, sq.Like{"g.hash": p + "%"})
		}
		conds = append(conds, or)
	}
	if f.FromGame > 0 {
		conds = append(conds, sq.GtOrEq{"g.game_number": f.FromGame})
	}
	return conds
}

// Plays returns the stored plays matching f, in game then snap order, with
// game metadata filled in.
func (db *DB) Plays(f PlayFilter) ([]model.Play, error) {
	games := f.gameConds()
	q := db.sb.Select(
		"p.game_hash", "p.play_index", "p.down", "p.distance",
		"p.formation", "p.backfield", "p.play_call", "p.play_type", "p.routes",
		"g.game_number", "g.game_date", "g.opponent",
	).From("plays p").Join("games g ON g.hash = p.game_hash").
		Where(games).
		OrderBy("g.game_number", "p.play_index")

	if f.LastN > 0 {
		// Built with ? placeholders; the outer builder rewrites them.
		sub, args, err := sq.Select("g.hash").From("games g").Where(games).
			OrderBy("g.game_number DESC").Limit(uint64(f.LastN)).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build last-n subquery: %w", err)
		}
		q = q.Where(sq.Expr("p.game_hash IN ("+sub+")", args...))
	}
	if len(f.Downs) > 0 {
		q = q.Where(sq.Eq{"p.down": f.Downs})
	}

	rows, err := q.RunWith(db.conn).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Play
	for rows.Next() {
		var p model.Play
		var playType string
		if err := rows.Scan(&p.GameHash, &p.PlayIndex, &p.Down, &p.Distance,
			&p.Formation, &p.Backfield, &p.PlayCall, &playType, &p.Routes,
			&p.GameNumber, &p.Date, &p.Opponent); err != nil {
			return nil, err
		}
		p.PlayType = model.PlayType(playType)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Overview returns high-level statistics for the summary command.
func (db *DB) Overview() (model.Overview, error) {
	var ov model.Overview
	err := db.sb.Select(
		"COUNT(1)",
		"COUNT(DISTINCT opponent)",
		"COALESCE((SELECT game_date FROM games ORDER BY game_number ASC LIMIT 1), '')",
		"COALESCE((SELECT game_date FROM games ORDER BY game_number DESC LIMIT 1), '')",
	).From("games").RunWith(db.conn).QueryRow().
		Scan(&ov.TotalGames, &ov.UniqueOpponent, &ov.EarliestGame, &ov.LatestGame)
	if err != nil {
		return ov, fmt.Errorf("games overview: %w", err)
	}
	err = db.sb.Select("COUNT(1)", "COUNT(routes)").From("plays").
		RunWith(db.conn).QueryRow().Scan(&ov.TotalPlays, &ov.RoutePlays)
	if err != nil {
		return ov, fmt.Errorf("plays overview: %w", err)
	}
	return ov, nil
}

// OpponentCounts returns games and plays per opponent, most games first.
func (db *DB) OpponentCounts() ([]model.OpponentCount, error) {
	rows, err := db.sb.Select("g.opponent", "COUNT(DISTINCT g.hash)", "COUNT(p.play_index)").
		From("games g").LeftJoin("plays p ON p.game_hash = g.hash").
		GroupBy("g.opponent").OrderBy("COUNT(DISTINCT g.hash) DESC", "g.opponent").
		RunWith(db.conn).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OpponentCount
	for rows.Next() {
		var c model.OpponentCount
		if err := rows.Scan(&c.Opponent, &c.Games, &c.Plays); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns the column names and every
// value rendered as text. NULLs render as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
