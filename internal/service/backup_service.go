package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"studyhall/internal/database"
)

// BackupData is the complete portable export of a StudyHall database.
// Children are nested under their parents so imports can run in one pass.
type BackupData struct {
	Version       string               `json:"version"`
	ExportedAt    time.Time            `json:"exported_at"`
	Users         []UserBackup         `json:"users"`
	Organisations []OrganisationBackup `json:"organisations"`
	Skills        []SkillBackup        `json:"skills"`
	Notifications []NotificationBackup `json:"notifications"`
}

// UserBackup is one user record
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrganisationBackup is one organisation with its members, courses and repositories
type OrganisationBackup struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	CreatedBy    int64              `json:"created_by"`
	CreatedAt    time.Time          `json:"created_at"`
	Members      []MemberBackup     `json:"members"`
	Courses      []CourseBackup     `json:"courses"`
	Repositories []RepositoryBackup `json:"repositories"`
}

// MemberBackup is one organisation membership
type MemberBackup struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// SkillBackup is one skill record
type SkillBackup struct {
	ID             int64  `json:"id"`
	OrganisationID *int64 `json:"organisation_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

// CourseBackup is one course with its linked skill IDs
type CourseBackup struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedBy   int64   `json:"created_by"`
	SkillIDs    []int64 `json:"skill_ids"`
}

// RepositoryBackup is one repository with its documents and tasks
type RepositoryBackup struct {
	ID          int64            `json:"id"`
	CourseID    *int64           `json:"course_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedBy   int64            `json:"created_by"`
	Documents   []DocumentBackup `json:"documents"`
	Tasks       []TaskBackup     `json:"tasks"`
	Records     []RecordBackup   `json:"study_records"`
	Shares      []ShareBackup    `json:"shares"`
}

// DocumentBackup is one document with its chunks
type DocumentBackup struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	SizeBytes  int64         `json:"size_bytes"`
	UploadedBy int64         `json:"uploaded_by"`
	Chunks     []ChunkBackup `json:"chunks"`
}

// ChunkBackup is one extracted text chunk
type ChunkBackup struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// TaskBackup is one quiz task with its options
type TaskBackup struct {
	ID         int64          `json:"id"`
	DocumentID *int64         `json:"document_id"`
	ChunkID    *int64         `json:"chunk_id"`
	Kind       string         `json:"kind"`
	Question   string         `json:"question"`
	Options    []OptionBackup `json:"options"`
}

// OptionBackup is one multiple-choice answer option
type OptionBackup struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Position  int    `json:"position"`
}

// RecordBackup is one study record with its attempts
type RecordBackup struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	TotalTasks   int             `json:"total_tasks"`
	CorrectTasks int             `json:"correct_tasks"`
	Attempts     []AttemptBackup `json:"attempts"`
}

// AttemptBackup is one answered task within a study record
type AttemptBackup struct {
	TaskID     int64  `json:"task_id"`
	AnswerText string `json:"answer_text"`
	Outcome    string `json:"outcome"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback"`
}

// ShareBackup is one repository share
type ShareBackup struct {
	InviteCode string     `json:"invite_code"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	CreatedBy  int64      `json:"created_by"`
	AcceptedBy *int64     `json:"accepted_by"`
	AcceptedAt *time.Time `json:"accepted_at"`
}

// NotificationBackup is one user notification
type NotificationBackup struct {
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService exports and imports the full database as portable JSON
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a full backup to the given file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}
	log.Printf("Database exported to %s", outputPath)
	return nil
}

// ExportToWriter writes a full backup as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportSkills(backup); err != nil {
		return fmt.Errorf("failed to export skills: %w", err)
	}
	if err := s.exportOrganisations(backup); err != nil {
		return fmt.Errorf("failed to export organisations: %w", err)
	}
	if err := s.exportNotifications(backup); err != nil {
		return fmt.Errorf("failed to export notifications: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d users, %d organisations, %d skills, %d notifications",
		len(backup.Users), len(backup.Organisations), len(backup.Skills), len(backup.Notifications))
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, email, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), is_admin, created_at FROM users ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.IsAdmin, &u.CreatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportSkills(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, organisation_id, name, description FROM skills ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sk SkillBackup
		if err := rows.Scan(&sk.ID, &sk.OrganisationID, &sk.Name, &sk.Description); err != nil {
			return err
		}
		backup.Skills = append(backup.Skills, sk)
	}
	return rows.Err()
}

func (s *BackupService) exportOrganisations(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, description, created_by, created_at FROM organisations ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	var orgs []OrganisationBackup
	for rows.Next() {
		var o OrganisationBackup
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.CreatedBy, &o.CreatedAt); err != nil {
			return err
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range orgs {
		if err := s.exportOrgChildren(&orgs[i]); err != nil {
			return err
		}
	}
	backup.Organisations = orgs
	return nil
}

func (s *BackupService) exportOrgChildren(org *OrganisationBackup) error {
	memberRows, err := s.db.Query("SELECT user_id, role FROM organisation_members WHERE organisation_id = ? ORDER BY user_id", org.ID)
	if err != nil {
		return err
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var m MemberBackup
		if err := memberRows.Scan(&m.UserID, &m.Role); err != nil {
			return err
		}
		org.Members = append(org.Members, m)
	}
	if err := memberRows.Err(); err != nil {
		return err
	}

	if err := s.exportCourses(org); err != nil {
		return err
	}
	return s.exportRepositories(org)
}

func (s *BackupService) exportCourses(org *OrganisationBackup) error {
	rows, err := s.db.Query("SELECT id, name, description, created_by FROM courses WHERE organisation_id = ? ORDER BY id", org.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var courses []CourseBackup
	for rows.Next() {
		var c CourseBackup
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy); err != nil {
			return err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range courses {
		skillRows, err := s.db.Query("SELECT skill_id FROM course_skills WHERE course_id = ? ORDER BY skill_id", courses[i].ID)
		if err != nil {
			return err
		}
		for skillRows.Next() {
			var id int64
			if err := skillRows.Scan(&id); err != nil {
				skillRows.Close()
				return err
			}
			courses[i].SkillIDs = append(courses[i].SkillIDs, id)
		}
		if err := skillRows.Err(); err != nil {
			skillRows.Close()
			return err
		}
		skillRows.Close()
	}
	org.Courses = courses
	return nil
}

func (s *BackupService) exportRepositories(org *OrganisationBackup) error {
	rows, err := s.db.Query("SELECT id, course_id, name, description, created_by FROM repositories WHERE organisation_id = ? ORDER BY id", org.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var repos []RepositoryBackup
	for rows.Next() {
		var r RepositoryBackup
		if err := rows.Scan(&r.ID, &r.CourseID, &r.Name, &r.Description, &r.CreatedBy); err != nil {
			return err
		}
		repos = append(repos, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range repos {
		if err := s.exportRepoChildren(&repos[i]); err != nil {
			return err
		}
	}
	org.Repositories = repos
	return nil
}

func (s *BackupService) exportRepoChildren(repo *RepositoryBackup) error {
	if err := s.exportDocuments(repo); err != nil {
		return err
	}
	if err := s.exportTasks(repo); err != nil {
		return err
	}
	if err := s.exportRecords(repo); err != nil {
		return err
	}
	return s.exportShares(repo)
}

func (s *BackupService) exportDocuments(repo *RepositoryBackup) error {
	rows, err := s.db.Query("SELECT id, name, size_bytes, uploaded_by FROM documents WHERE repository_id = ? ORDER BY id", repo.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var docs []DocumentBackup
	for rows.Next() {
		var d DocumentBackup
		if err := rows.Scan(&d.ID, &d.Name, &d.SizeBytes, &d.UploadedBy); err != nil {
			return err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range docs {
		chunkRows, err := s.db.Query("SELECT id, position, chunk_text FROM chunks WHERE document_id = ? ORDER BY position", docs[i].ID)
		if err != nil {
			return err
		}
		for chunkRows.Next() {
			var c ChunkBackup
			if err := chunkRows.Scan(&c.ID, &c.Position, &c.Text); err != nil {
				chunkRows.Close()
				return err
			}
			docs[i].Chunks = append(docs[i].Chunks, c)
		}
		if err := chunkRows.Err(); err != nil {
			chunkRows.Close()
			return err
		}
		chunkRows.Close()
	}
	repo.Documents = docs
	return nil
}

func (s *BackupService) exportTasks(repo *RepositoryBackup) error {
	rows, err := s.db.Query("SELECT id, document_id, chunk_id, kind, question FROM tasks WHERE repository_id = ? ORDER BY id", repo.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var tasks []TaskBackup
	for rows.Next() {
		var t TaskBackup
		if err := rows.Scan(&t.ID, &t.DocumentID, &t.ChunkID, &t.Kind, &t.Question); err != nil {
			return err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range tasks {
		optRows, err := s.db.Query("SELECT option_text, is_correct, position FROM answer_options WHERE task_id = ? ORDER BY position", tasks[i].ID)
		if err != nil {
			return err
		}
		for optRows.Next() {
			var o OptionBackup
			if err := optRows.Scan(&o.Text, &o.IsCorrect, &o.Position); err != nil {
				optRows.Close()
				return err
			}
			tasks[i].Options = append(tasks[i].Options, o)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return err
		}
		optRows.Close()
	}
	repo.Tasks = tasks
	return nil
}

func (s *BackupService) exportRecords(repo *RepositoryBackup) error {
	rows, err := s.db.Query("SELECT id, user_id, started_at, completed_at, total_tasks, correct_tasks FROM study_records WHERE repository_id = ? ORDER BY id", repo.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var records []RecordBackup
	for rows.Next() {
		var r RecordBackup
		if err := rows.Scan(&r.ID, &r.UserID, &r.StartedAt, &r.CompletedAt, &r.TotalTasks, &r.CorrectTasks); err != nil {
			return err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range records {
		attemptRows, err := s.db.Query("SELECT task_id, answer_text, outcome, score, feedback FROM task_attempts WHERE study_record_id = ? ORDER BY id", records[i].ID)
		if err != nil {
			return err
		}
		for attemptRows.Next() {
			var a AttemptBackup
			if err := attemptRows.Scan(&a.TaskID, &a.AnswerText, &a.Outcome, &a.Score, &a.Feedback); err != nil {
				attemptRows.Close()
				return err
			}
			records[i].Attempts = append(records[i].Attempts, a)
		}
		if err := attemptRows.Err(); err != nil {
			attemptRows.Close()
			return err
		}
		attemptRows.Close()
	}
	repo.Records = records
	return nil
}

func (s *BackupService) exportShares(repo *RepositoryBackup) error {
	rows, err := s.db.Query("SELECT invite_code, email, role, created_by, accepted_by, accepted_at FROM shares WHERE repository_id = ? ORDER BY id", repo.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sh ShareBackup
		if err := rows.Scan(&sh.InviteCode, &sh.Email, &sh.Role, &sh.CreatedBy, &sh.AcceptedBy, &sh.AcceptedAt); err != nil {
			return err
		}
		repo.Shares = append(repo.Shares, sh)
	}
	return rows.Err()
}

func (s *BackupService) exportNotifications(backup *BackupData) error {
	rows, err := s.db.Query("SELECT user_id, kind, message, is_read, created_at FROM notifications ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var n NotificationBackup
		if err := rows.Scan(&n.UserID, &n.Kind, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return err
		}
		backup.Notifications = append(backup.Notifications, n)
	}
	return rows.Err()
}

// Import restores a database from a backup file. IDs are remapped; the
// target database should be empty.
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a JSON backup stream
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	log.Printf("Importing backup version %s exported at %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	im := &importer{
		tx:       tx,
		userIDs:  make(map[int64]int64),
		skillIDs: make(map[int64]int64),
	}
	if err := im.run(&backup); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	log.Printf("Import complete: %d users, %d organisations", len(backup.Users), len(backup.Organisations))
	return nil
}

// importer remaps old IDs to freshly inserted ones while walking the backup tree
type importer struct {
	tx       *database.Tx
	userIDs  map[int64]int64
	skillIDs map[int64]int64
}

func (im *importer) run(backup *BackupData) error {
	for _, u := range backup.Users {
		newID, err := im.tx.ExecReturningID(
			"INSERT INTO users (email, password_hash, name, oauth_provider, oauth_subject, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			u.Email, u.PasswordHash, u.Name, u.OAuthProvider, u.OAuthSubject, u.IsAdmin, u.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.Email, err)
		}
		im.userIDs[u.ID] = newID
	}

	// Global skills first; organisation skills remapped during org import
	for _, sk := range backup.Skills {
		if sk.OrganisationID != nil {
			continue
		}
		newID, err := im.tx.ExecReturningID(
			"INSERT INTO skills (organisation_id, name, description) VALUES (NULL, ?, ?)",
			sk.Name, sk.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to import skill %s: %w", sk.Name, err)
		}
		im.skillIDs[sk.ID] = newID
	}

	for _, org := range backup.Organisations {
		if err := im.importOrganisation(&org, backup.Skills); err != nil {
			return err
		}
	}

	for _, n := range backup.Notifications {
		if _, err := im.tx.Exec(
			"INSERT INTO notifications (user_id, kind, message, is_read, created_at) VALUES (?, ?, ?, ?, ?)",
			im.userIDs[n.UserID], n.Kind, n.Message, n.IsRead, n.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to import notification: %w", err)
		}
	}
	return nil
}

func (im *importer) importOrganisation(org *OrganisationBackup, skills []SkillBackup) error {
	orgID, err := im.tx.ExecReturningID(
		"INSERT INTO organisations (name, description, created_by, created_at) VALUES (?, ?, ?, ?)",
		org.Name, org.Description, im.userIDs[org.CreatedBy], org.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to import organisation %s: %w", org.Name, err)
	}

	for _, m := range org.Members {
		if _, err := im.tx.Exec(
			"INSERT INTO organisation_members (organisation_id, user_id, role) VALUES (?, ?, ?)",
			orgID, im.userIDs[m.UserID], m.Role,
		); err != nil {
			return fmt.Errorf("failed to import member: %w", err)
		}
	}

	for _, sk := range skills {
		if sk.OrganisationID == nil || *sk.OrganisationID != org.ID {
			continue
		}
		newID, err := im.tx.ExecReturningID(
			"INSERT INTO skills (organisation_id, name, description) VALUES (?, ?, ?)",
			orgID, sk.Name, sk.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to import skill %s: %w", sk.Name, err)
		}
		im.skillIDs[sk.ID] = newID
	}

	courseIDs := make(map[int64]int64)
	for _, c := range org.Courses {
		newID, err := im.tx.ExecReturningID(
			"INSERT INTO courses (organisation_id, name, description, created_by) VALUES (?, ?, ?, ?)",
			orgID, c.Name, c.Description, im.userIDs[c.CreatedBy],
		)
		if err != nil {
			return fmt.Errorf("failed to import course %s: %w", c.Name, err)
		}
		courseIDs[c.ID] = newID
		for _, skillID := range c.SkillIDs {
			if _, err := im.tx.Exec(
				"INSERT INTO course_skills (course_id, skill_id) VALUES (?, ?)",
				newID, im.skillIDs[skillID],
			); err != nil {
				return fmt.Errorf("failed to import course skill link: %w", err)
			}
		}
	}

	for _, repo := range org.Repositories {
		if err := im.importRepository(orgID, &repo, courseIDs); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) importRepository(orgID int64, repo *RepositoryBackup, courseIDs map[int64]int64) error {
	var courseID interface{}
	if repo.CourseID != nil {
		courseID = courseIDs[*repo.CourseID]
	}
	repoID, err := im.tx.ExecReturningID(
		"INSERT INTO repositories (organisation_id, course_id, name, description, created_by) VALUES (?, ?, ?, ?, ?)",
		orgID, courseID, repo.Name, repo.Description, im.userIDs[repo.CreatedBy],
	)
	if err != nil {
		return fmt.Errorf("failed to import repository %s: %w", repo.Name, err)
	}

	docIDs := make(map[int64]int64)
	chunkIDs := make(map[int64]int64)
	for _, d := range repo.Documents {
		newDocID, err := im.tx.ExecReturningID(
			"INSERT INTO documents (repository_id, name, size_bytes, uploaded_by) VALUES (?, ?, ?, ?)",
			repoID, d.Name, d.SizeBytes, im.userIDs[d.UploadedBy],
		)
		if err != nil {
			return fmt.Errorf("failed to import document %s: %w", d.Name, err)
		}
		docIDs[d.ID] = newDocID
		for _, c := range d.Chunks {
			newChunkID, err := im.tx.ExecReturningID(
				"INSERT INTO chunks (document_id, position, chunk_text) VALUES (?, ?, ?)",
				newDocID, c.Position, c.Text,
			)
			if err != nil {
				return fmt.Errorf("failed to import chunk: %w", err)
			}
			chunkIDs[c.ID] = newChunkID
		}
	}

	taskIDs := make(map[int64]int64)
	for _, t := range repo.Tasks {
		var docID, chunkID interface{}
		if t.DocumentID != nil {
			docID = docIDs[*t.DocumentID]
		}
		if t.ChunkID != nil {
			chunkID = chunkIDs[*t.ChunkID]
		}
		newTaskID, err := im.tx.ExecReturningID(
			"INSERT INTO tasks (repository_id, document_id, chunk_id, kind, question) VALUES (?, ?, ?, ?, ?)",
			repoID, docID, chunkID, t.Kind, t.Question,
		)
		if err != nil {
			return fmt.Errorf("failed to import task: %w", err)
		}
		taskIDs[t.ID] = newTaskID
		for _, o := range t.Options {
			if _, err := im.tx.Exec(
				"INSERT INTO answer_options (task_id, option_text, is_correct, position) VALUES (?, ?, ?, ?)",
				newTaskID, o.Text, o.IsCorrect, o.Position,
			); err != nil {
				return fmt.Errorf("failed to import answer option: %w", err)
			}
		}
	}

	for _, r := range repo.Records {
		newRecordID, err := im.tx.ExecReturningID(
			"INSERT INTO study_records (user_id, repository_id, started_at, completed_at, total_tasks, correct_tasks) VALUES (?, ?, ?, ?, ?, ?)",
			im.userIDs[r.UserID], repoID, r.StartedAt, r.CompletedAt, r.TotalTasks, r.CorrectTasks,
		)
		if err != nil {
			return fmt.Errorf("failed to import study record: %w", err)
		}
		for _, a := range r.Attempts {
			if _, err := im.tx.Exec(
				"INSERT INTO task_attempts (study_record_id, task_id, answer_text, outcome, score, feedback) VALUES (?, ?, ?, ?, ?, ?)",
				newRecordID, taskIDs[a.TaskID], a.AnswerText, a.Outcome, a.Score, a.Feedback,
			); err != nil {
				return fmt.Errorf("failed to import task attempt: %w", err)
			}
		}
	}

	for _, sh := range repo.Shares {
		var acceptedBy interface{}
		if sh.AcceptedBy != nil {
			acceptedBy = im.userIDs[*sh.AcceptedBy]
		}
		if _, err := im.tx.Exec(
			"INSERT INTO shares (repository_id, invite_code, email, role, created_by, accepted_by, accepted_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			repoID, sh.InviteCode, sh.Email, sh.Role, im.userIDs[sh.CreatedBy], acceptedBy, sh.AcceptedAt,
		); err != nil {
			return fmt.Errorf("failed to import share: %w", err)
		}
	}
	return nil
}
