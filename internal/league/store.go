package league

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

// UpsertPlayers inserts or updates players in a single transaction. The
// archive-independent profile fields come from the ingestion side; ratings are
// maintained externally and simply stored as given.
func (s *store) UpsertPlayers(players []smash.Player) error {
	if len(players) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, display_name, rating, inactive, country, picture)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			display_name = excluded.display_name,
			rating = excluded.rating,
			inactive = excluded.inactive,
			country = excluded.country,
			picture = excluded.picture;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		rating := p.Rating
		if rating == 0 {
			rating = smash.DefaultRating
		}
		if _, err := stmt.Exec(p.ID, p.Name, p.DisplayName, rating, p.Inactive, p.Country, p.Picture); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *store) GetAllPlayers() ([]smash.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, display_name, rating, inactive, country, picture
		FROM players ORDER BY name
	`)
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []smash.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (s *store) GetPlayer(playerID string) (*smash.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, display_name, rating, inactive, country, picture
		FROM players WHERE id = ?
	`, playerID)
	p, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// GetPlayerByName retrieves a single player by name. It performs a
// case-insensitive, fuzzy search (e.g. "chai" will match "Chaitanya").
func (s *store) GetPlayerByName(name string) (*smash.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + name + "%"
	row := s.db.QueryRow(`
		SELECT id, name, display_name, rating, inactive, country, picture
		FROM players
		WHERE name LIKE ? COLLATE NOCASE OR display_name LIKE ? COLLATE NOCASE
		ORDER BY name LIMIT 1
	`, pattern, pattern)
	p, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("No player found matching pattern", "pattern", pattern)
			return nil, fmt.Errorf("player matching '%s' not found", name)
		}
		log.Error("Failed to query player by name", "error", err, "pattern", pattern)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return p, nil
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// AddMatch inserts a match and its participant rows in one transaction.
// Participants must reference existing players (CPU rows carry no player id);
// the unique (match, player) constraint rejects duplicate rows.
func (s *store) AddMatch(match *smash.Match, participants []smash.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	status := match.ProcessingStatus
	if status == "" {
		status = smash.StatusNew
	}
	if _, err := tx.Exec(`
		INSERT INTO matches (id, created_at, archived, processing_status)
		VALUES (?, ?, ?, ?)
	`, match.ID, match.CreatedAt, match.Archived, status); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert match %s: %w", match.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO match_participants (match_id, player_id, smash_character, is_cpu, total_kos, total_falls, total_sds, has_won)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, part := range participants {
		var playerID any
		if part.PlayerID != "" {
			playerID = part.PlayerID
		}
		if _, err := stmt.Exec(match.ID, playerID, part.Character, part.IsCPU, part.KOs, part.Falls, part.SelfDestructs, part.HasWon); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert participant for match %s: %w", match.ID, err)
		}
	}
	return tx.Commit()
}

// SetMatchArchived flips the archive flag, the only mutable match field.
func (s *store) SetMatchArchived(matchID string, archived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET archived = ? WHERE id = ?", archived, matchID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("match %s not found", matchID)
	}
	return nil
}

// ListMatches returns matches newest-first with their participants for the
// match history view.
func (s *store) ListMatches(limit, offset int) ([]MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, created_at, archived, processing_status
		FROM matches
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	var records []MatchRecord
	index := make(map[string]int)
	var ids []string
	for rows.Next() {
		var m smash.Match
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.Archived, &m.ProcessingStatus); err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		index[m.ID] = len(records)
		ids = append(ids, m.ID)
		records = append(records, MatchRecord{Match: m})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return records, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	partRows, err := s.db.Query(`
		SELECT id, match_id, player_id, smash_character, is_cpu, total_kos, total_falls, total_sds, has_won
		FROM match_participants
		WHERE match_id IN (`+placeholders+`)
		ORDER BY id
	`, toAnySlice(ids)...)
	if err != nil {
		log.Error("Failed to query participants", "error", err)
		return nil, err
	}
	defer partRows.Close()

	for partRows.Next() {
		part, err := scanParticipant(partRows)
		if err != nil {
			log.Error("Failed to scan participant row", "error", err)
			continue
		}
		if i, ok := index[part.MatchID]; ok {
			records[i].Participants = append(records[i].Participants, *part)
		}
	}
	return records, partRows.Err()
}

// GetMatch retrieves a single match together with its participants.
func (s *store) GetMatch(matchID string) (*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := &MatchRecord{}
	err := s.db.QueryRow(`
		SELECT id, created_at, archived, processing_status
		FROM matches WHERE id = ?
	`, matchID).Scan(&rec.Match.ID, &rec.Match.CreatedAt, &rec.Match.Archived, &rec.Match.ProcessingStatus)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s not found", matchID)
	}
	if err != nil {
		return nil, err
	}

	partRows, err := s.db.Query(`
		SELECT id, match_id, player_id, smash_character, is_cpu, total_kos, total_falls, total_sds, has_won
		FROM match_participants
		WHERE match_id = ?
		ORDER BY id
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer partRows.Close()

	for partRows.Next() {
		part, err := scanParticipant(partRows)
		if err != nil {
			log.Error("Failed to scan participant row", "error", err)
			continue
		}
		rec.Participants = append(rec.Participants, *part)
	}
	return rec, partRows.Err()
}

// Snapshot reads all players, matches, and participants in one pass for the
// standings and insights computations.
func (s *store) Snapshot() (*smash.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &smash.Snapshot{}

	playerRows, err := s.db.Query(`
		SELECT id, name, display_name, rating, inactive, country, picture
		FROM players ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for snapshot: %w", err)
	}
	defer playerRows.Close()
	for playerRows.Next() {
		p, err := scanPlayer(playerRows)
		if err != nil {
			return nil, err
		}
		snap.Players = append(snap.Players, *p)
	}
	if err := playerRows.Err(); err != nil {
		return nil, err
	}

	matchRows, err := s.db.Query(`
		SELECT id, created_at, archived, processing_status FROM matches ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for snapshot: %w", err)
	}
	defer matchRows.Close()
	for matchRows.Next() {
		var m smash.Match
		if err := matchRows.Scan(&m.ID, &m.CreatedAt, &m.Archived, &m.ProcessingStatus); err != nil {
			return nil, err
		}
		snap.Matches = append(snap.Matches, m)
	}
	if err := matchRows.Err(); err != nil {
		return nil, err
	}

	partRows, err := s.db.Query(`
		SELECT id, match_id, player_id, smash_character, is_cpu, total_kos, total_falls, total_sds, has_won
		FROM match_participants ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for snapshot: %w", err)
	}
	defer partRows.Close()
	for partRows.Next() {
		part, err := scanParticipant(partRows)
		if err != nil {
			return nil, err
		}
		snap.Participants = append(snap.Participants, *part)
	}
	return snap, partRows.Err()
}

// GetMatchesForProcessing retrieves all matches that are not yet in a completed state.
func (s *store) GetMatchesForProcessing() ([]smash.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, created_at, archived, processing_status
		FROM matches
		WHERE processing_status != ?
		ORDER BY created_at, id
	`, smash.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []smash.Match
	for rows.Next() {
		var m smash.Match
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.Archived, &m.ProcessingStatus); err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// UpdateProcessingStatus transitions a match to a new state.
func (s *store) UpdateProcessingStatus(matchID string, status smash.ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET processing_status = ? WHERE id = ?", status, matchID)
	return err
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"match_participants", "matches", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		log.Error("Failed to clear match", "error", err, "matchID", matchID)
	}
}

// scanPlayer is a helper to scan a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (*smash.Player, error) {
	var p smash.Player
	var displayName, country, picture sql.NullString
	if err := scanner.Scan(&p.ID, &p.Name, &displayName, &p.Rating, &p.Inactive, &country, &picture); err != nil {
		return nil, err
	}
	p.DisplayName = displayName.String
	p.Country = country.String
	p.Picture = picture.String
	return &p, nil
}

// scanParticipant is a helper to scan a single participant row.
func scanParticipant(scanner interface{ Scan(...any) error }) (*smash.Participant, error) {
	var part smash.Participant
	var playerID sql.NullString
	if err := scanner.Scan(&part.ID, &part.MatchID, &playerID, &part.Character, &part.IsCPU,
		&part.KOs, &part.Falls, &part.SelfDestructs, &part.HasWon); err != nil {
		return nil, err
	}
	part.PlayerID = playerID.String
	return &part, nil
}

func toAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
