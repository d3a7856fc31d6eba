package logs

const createGameTable = `
CREATE TABLE IF NOT EXISTS games (
  id integer primary key autoincrement,
  time datetime,
  rows int,
  cols int,
  player_a varchar,
  player_b varchar,
  winner string,
  moves int,
  record string
)`

const createPlayerTable = `
CREATE VIEW IF NOT EXISTS player_games (
  id, player, opponent, side, win, rows, cols, moves
) AS
SELECT id, player_a, player_b, 'A',
       CASE winner WHEN 'A' THEN 'win' WHEN 'B' THEN 'lose' ELSE 'none' END,
       rows, cols, moves
 FROM games
UNION
SELECT id, player_b, player_a, 'B',
       CASE winner WHEN 'B' THEN 'win' WHEN 'A' THEN 'lose' ELSE 'none' END,
       rows, cols, moves
 FROM games
`

const insertStmt = `
INSERT INTO games (time, rows, cols, player_a, player_b, winner, moves, record)
VALUES (:time, :rows, :cols, :player_a, :player_b, :winner, :moves, :record)
`

const selectGames = `
SELECT id, time, rows, cols, player_a, player_b, winner, moves, record
FROM games ORDER BY id
`

const selectRecord = `
SELECT player, COUNT(*) AS games,
       SUM(CASE win WHEN 'win' THEN 1 ELSE 0 END) AS wins
FROM player_games GROUP BY player ORDER BY player
`

const selectGame = `
SELECT id, time, rows, cols, player_a, player_b, winner, moves, record
FROM games WHERE id = ?
`
