package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

var characters = []string{
	"Mario", "Link", "Kirby", "Fox", "Marth", "Pikachu", "Samus", "Yoshi",
	"Donkey Kong", "Captain Falcon", "Zelda", "Bowser",
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create dummy players to use in matches
	type seedPlayer struct {
		ID   string
		Name string
	}
	dummyPlayers := make([]seedPlayer, 0, 12)
	for i := 1; i <= 12; i++ {
		dummyPlayers = append(dummyPlayers, seedPlayer{
			ID:   fmt.Sprintf("player-%d", i),
			Name: fmt.Sprintf("Seeder Player %d", i),
		})
	}

	for _, p := range dummyPlayers {
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, rating) VALUES (?, ?, ?)", p.ID, p.Name, 1200)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	matchValues := make([]string, 0, batchSize)
	matchArgs := make([]interface{}, 0, batchSize*4)
	partValues := make([]string, 0, batchSize*2)
	partArgs := make([]interface{}, 0, batchSize*2*8)

	flush := func() {
		matchStmt := fmt.Sprintf(`
			INSERT INTO matches (id, created_at, archived, processing_status)
			VALUES %s;`, strings.Join(matchValues, ","))
		if _, err := tx.Exec(matchStmt, matchArgs...); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to execute match batch insert: %s", err)
		}

		partStmt := fmt.Sprintf(`
			INSERT INTO match_participants (match_id, player_id, smash_character, is_cpu, total_kos, total_falls, total_sds, has_won)
			VALUES %s;`, strings.Join(partValues, ","))
		if _, err := tx.Exec(partStmt, partArgs...); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to execute participant batch insert: %s", err)
		}

		matchValues = matchValues[:0]
		matchArgs = matchArgs[:0]
		partValues = partValues[:0]
		partArgs = partArgs[:0]
	}

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		matchID := uuid.NewString()

		matchValues = append(matchValues, "(?, ?, ?, ?)")
		matchArgs = append(matchArgs, matchID, matchTime.Unix(), 0, "COMPLETED")

		p1 := dummyPlayers[rand.Intn(len(dummyPlayers))]
		p2 := dummyPlayers[rand.Intn(len(dummyPlayers))]
		for p2.ID == p1.ID {
			p2 = dummyPlayers[rand.Intn(len(dummyPlayers))]
		}
		winnerKOs := 3
		loserKOs := rand.Intn(3)

		partValues = append(partValues, "(?, ?, ?, ?, ?, ?, ?, ?)", "(?, ?, ?, ?, ?, ?, ?, ?)")
		partArgs = append(partArgs,
			matchID, p1.ID, characters[rand.Intn(len(characters))], 0, winnerKOs, loserKOs, 0, 1,
			matchID, p2.ID, characters[rand.Intn(len(characters))], 0, loserKOs, winnerKOs, rand.Intn(2), 0,
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			flush()
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
