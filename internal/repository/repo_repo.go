package repository

import (
	"database/sql"
	"errors"
	"time"

	"studyhall/internal/database"
	"studyhall/internal/models"
)

// LibraryRepository handles database operations for repositories, documents and chunks
type LibraryRepository struct {
	db database.DBTX
}

// NewLibraryRepository creates a new library repository
func NewLibraryRepository(db database.DBTX) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// CreateRepository inserts a new document repository
func (r *LibraryRepository) CreateRepository(orgID int64, courseID *int64, name, description string, createdBy int64) (*models.Repository, error) {
	query := "INSERT INTO repositories (organisation_id, course_id, name, description, created_by) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, orgID, courseID, name, description, createdBy)
	if err != nil {
		return nil, err
	}
	return r.GetRepository(id)
}

// GetRepository retrieves a repository by ID, or nil if not found
func (r *LibraryRepository) GetRepository(id int64) (*models.Repository, error) {
	repo := &models.Repository{}
	var courseID sql.NullInt64
	err := r.db.QueryRow(
		"SELECT id, organisation_id, course_id, name, description, created_by, created_at, updated_at FROM repositories WHERE id = ?", id,
	).Scan(&repo.ID, &repo.OrganisationID, &courseID, &repo.Name, &repo.Description, &repo.CreatedBy, &repo.CreatedAt, &repo.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if courseID.Valid {
		repo.CourseID = &courseID.Int64
	}
	return repo, nil
}

// ListRepositories returns repository summaries for an organisation
func (r *LibraryRepository) ListRepositories(orgID int64) ([]models.RepositorySummary, error) {
	query := `
		SELECT r.id, r.organisation_id, r.course_id, r.name, r.description, r.created_by, r.created_at, r.updated_at,
			(SELECT COUNT(*) FROM documents d WHERE d.repository_id = r.id),
			(SELECT COUNT(*) FROM tasks t WHERE t.repository_id = r.id)
		FROM repositories r
		WHERE r.organisation_id = ?
		ORDER BY r.name
	`
	rows, err := r.db.Query(query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []models.RepositorySummary
	for rows.Next() {
		var s models.RepositorySummary
		var courseID sql.NullInt64
		if err := rows.Scan(
			&s.ID, &s.OrganisationID, &courseID, &s.Name, &s.Description,
			&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.DocumentCount, &s.TaskCount,
		); err != nil {
			return nil, err
		}
		if courseID.Valid {
			s.CourseID = &courseID.Int64
		}
		repos = append(repos, s)
	}
	return repos, rows.Err()
}

// UpdateRepository changes a repository's metadata
func (r *LibraryRepository) UpdateRepository(id int64, courseID *int64, name, description string) error {
	query := "UPDATE repositories SET course_id = ?, name = ?, description = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, courseID, name, description, time.Now(), id)
	return err
}

// DeleteRepository removes a repository and its documents, chunks and tasks
func (r *LibraryRepository) DeleteRepository(id int64) error {
	_, err := r.db.Exec("DELETE FROM repositories WHERE id = ?", id)
	return err
}

// CreateDocument inserts a document record
func (r *LibraryRepository) CreateDocument(repoID int64, name string, sizeBytes, uploadedBy int64) (*models.Document, error) {
	query := "INSERT INTO documents (repository_id, name, size_bytes, uploaded_by) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, repoID, name, sizeBytes, uploadedBy)
	if err != nil {
		return nil, err
	}
	return r.GetDocument(id)
}

// GetDocument retrieves a document by ID, or nil if not found
func (r *LibraryRepository) GetDocument(id int64) (*models.Document, error) {
	doc := &models.Document{}
	err := r.db.QueryRow(
		"SELECT id, repository_id, name, size_bytes, uploaded_by, created_at FROM documents WHERE id = ?", id,
	).Scan(&doc.ID, &doc.RepositoryID, &doc.Name, &doc.SizeBytes, &doc.UploadedBy, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all documents in a repository
func (r *LibraryRepository) ListDocuments(repoID int64) ([]models.Document, error) {
	query := `
		SELECT id, repository_id, name, size_bytes, uploaded_by, created_at
		FROM documents
		WHERE repository_id = ?
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, repoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.RepositoryID, &doc.Name, &doc.SizeBytes, &doc.UploadedBy, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and its chunks
func (r *LibraryRepository) DeleteDocument(id int64) error {
	_, err := r.db.Exec("DELETE FROM documents WHERE id = ?", id)
	return err
}

// CreateChunk inserts an extracted text chunk
func (r *LibraryRepository) CreateChunk(documentID int64, position int, text string) (int64, error) {
	query := "INSERT INTO chunks (document_id, position, chunk_text) VALUES (?, ?, ?)"
	return r.db.ExecReturningID(query, documentID, position, text)
}

// ListChunks returns a document's chunks in position order
func (r *LibraryRepository) ListChunks(documentID int64) ([]models.Chunk, error) {
	query := `
		SELECT id, document_id, position, chunk_text, created_at
		FROM chunks
		WHERE document_id = ?
		ORDER BY position
	`
	rows, err := r.db.Query(query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var c models.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Position, &c.ChunkText, &c.CreatedAt); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// GetChunk retrieves a chunk by ID, or nil if not found
func (r *LibraryRepository) GetChunk(id int64) (*models.Chunk, error) {
	c := &models.Chunk{}
	err := r.db.QueryRow(
		"SELECT id, document_id, position, chunk_text, created_at FROM chunks WHERE id = ?", id,
	).Scan(&c.ID, &c.DocumentID, &c.Position, &c.ChunkText, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
