package models

import "time"

// Repository is a named collection of documents used as a study scope.
// Domain term, distinct from source control.
type Repository struct {
	ID             int64
	OrganisationID int64
	CourseID       *int64
	Name           string
	Description    string
	CreatedBy      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RepositorySummary extends Repository with content counts
type RepositorySummary struct {
	Repository
	DocumentCount int
	TaskCount     int
}

// Document represents an uploaded document within a repository
type Document struct {
	ID           int64
	RepositoryID int64
	Name         string
	SizeBytes    int64
	UploadedBy   int64
	CreatedAt    time.Time
}

// Chunk is an extracted text segment of a document, referenced by tasks as their source
type Chunk struct {
	ID         int64
	DocumentID int64
	Position   int
	ChunkText  string
	CreatedAt  time.Time
}
