package database

import (
	"fmt"
	"log"
)

// defaultSkills is the built-in skill taxonomy seeded on first startup.
// Organisations can define their own skills on top of these.
var defaultSkills = []struct {
	Name        string
	Description string
}{
	{"reading-comprehension", "Understanding and interpreting written material"},
	{"recall", "Remembering facts, terms and definitions"},
	{"application", "Applying learned concepts to new situations"},
	{"analysis", "Breaking material into parts and finding relationships"},
	{"synthesis", "Combining ideas into a coherent whole"},
	{"evaluation", "Judging the value of material against criteria"},
	{"vocabulary", "Domain terminology and word knowledge"},
	{"summarisation", "Condensing material to its essential points"},
}

// SeedDefaultSkills inserts the built-in skill taxonomy if no global skills exist yet
func (db *DB) SeedDefaultSkills() error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM skills WHERE organisation_id IS NULL").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check skill count: %w", err)
	}

	if count > 0 {
		log.Printf("Skill taxonomy already seeded with %d skills", count)
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, skill := range defaultSkills {
		_, err := tx.Exec(
			"INSERT INTO skills (organisation_id, name, description) VALUES (NULL, ?, ?)",
			skill.Name, skill.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to seed skill %s: %w", skill.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit skill seed: %w", err)
	}

	log.Printf("Seeded %d default skills", len(defaultSkills))
	return nil
}
