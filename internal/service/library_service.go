package service

import (
	"errors"
	"fmt"
	"strings"

	"studyhall/internal/models"
	"studyhall/internal/repository"
	"studyhall/internal/validation"
)

// maxChunkSize bounds extracted chunk length so prompts stay within the
// remote model's context window.
const maxChunkSize = 2000

var ErrDocumentTooLarge = errors.New("document exceeds the upload size limit")

// LibraryService handles repositories, documents and chunk extraction
type LibraryService struct {
	libraryRepo   *repository.LibraryRepository
	orgRepo       *repository.OrgRepository
	shareRepo     *repository.ShareRepository
	uploadMaxSize int64
}

// NewLibraryService creates a new library service
func NewLibraryService(libraryRepo *repository.LibraryRepository, orgRepo *repository.OrgRepository, shareRepo *repository.ShareRepository, uploadMaxSize int64) *LibraryService {
	return &LibraryService{
		libraryRepo:   libraryRepo,
		orgRepo:       orgRepo,
		shareRepo:     shareRepo,
		uploadMaxSize: uploadMaxSize,
	}
}

// CreateRepository adds a document repository to an organisation. Requires admin.
func (s *LibraryService) CreateRepository(userID, orgID int64, courseID *int64, name, description string) (*models.Repository, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	role, err := s.orgRepo.GetMemberRole(orgID, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, ErrNotMember
	}
	if !roleAtLeast(role, models.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.libraryRepo.CreateRepository(orgID, courseID, name, description, userID)
}

// GetRepository returns a repository the user can view
func (s *LibraryService) GetRepository(userID, repoID int64) (*models.Repository, error) {
	repo, _, err := s.Access(userID, repoID)
	return repo, err
}

// ListRepositories returns repository summaries for an organisation
func (s *LibraryService) ListRepositories(userID, orgID int64) ([]models.RepositorySummary, error) {
	role, err := s.orgRepo.GetMemberRole(orgID, userID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, ErrNotMember
	}
	return s.libraryRepo.ListRepositories(orgID)
}

// UpdateRepository changes a repository's metadata. Requires edit access.
func (s *LibraryService) UpdateRepository(userID, repoID int64, courseID *int64, name, description string) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	if err := s.requireEdit(userID, repoID); err != nil {
		return err
	}
	return s.libraryRepo.UpdateRepository(repoID, courseID, name, description)
}

// DeleteRepository removes a repository. Requires edit access.
func (s *LibraryService) DeleteRepository(userID, repoID int64) error {
	if err := s.requireEdit(userID, repoID); err != nil {
		return err
	}
	return s.libraryRepo.DeleteRepository(repoID)
}

// UploadDocument stores a document's text as extracted chunks. Requires edit access.
func (s *LibraryService) UploadDocument(userID, repoID int64, name, text string) (*models.Document, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, validation.ValidationError{Field: "text", Message: "document text is required"}
	}
	if int64(len(text)) > s.uploadMaxSize {
		return nil, ErrDocumentTooLarge
	}
	if err := s.requireEdit(userID, repoID); err != nil {
		return nil, err
	}

	doc, err := s.libraryRepo.CreateDocument(repoID, name, int64(len(text)), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	for i, chunk := range ExtractChunks(text) {
		if _, err := s.libraryRepo.CreateChunk(doc.ID, i, chunk); err != nil {
			return nil, fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
	}

	return doc, nil
}

// ListDocuments returns a repository's documents
func (s *LibraryService) ListDocuments(userID, repoID int64) ([]models.Document, error) {
	if _, _, err := s.Access(userID, repoID); err != nil {
		return nil, err
	}
	return s.libraryRepo.ListDocuments(repoID)
}

// DeleteDocument removes a document, its chunks and its generated tasks
func (s *LibraryService) DeleteDocument(userID, documentID int64) error {
	doc, err := s.libraryRepo.GetDocument(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}
	if err := s.requireEdit(userID, doc.RepositoryID); err != nil {
		return err
	}
	return s.libraryRepo.DeleteDocument(documentID)
}

// ListChunks returns a document's chunks in order
func (s *LibraryService) ListChunks(userID, documentID int64) ([]models.Chunk, error) {
	doc, err := s.libraryRepo.GetDocument(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if _, _, err := s.Access(userID, doc.RepositoryID); err != nil {
		return nil, err
	}
	return s.libraryRepo.ListChunks(documentID)
}

// GetChunk returns one chunk's source text.
// The caller must be able to view the owning repository.
func (s *LibraryService) GetChunk(userID, chunkID int64) (*models.Chunk, error) {
	chunk, err := s.libraryRepo.GetChunk(chunkID)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, ErrNotFound
	}
	doc, err := s.libraryRepo.GetDocument(chunk.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if _, _, err := s.Access(userID, doc.RepositoryID); err != nil {
		return nil, err
	}
	return chunk, nil
}

// Access checks that the user can view the repository, either through
// organisation membership or an accepted share. It returns the repository
// and whether the user may also edit it.
func (s *LibraryService) Access(userID, repoID int64) (*models.Repository, bool, error) {
	repo, err := s.libraryRepo.GetRepository(repoID)
	if err != nil {
		return nil, false, err
	}
	if repo == nil {
		return nil, false, ErrNotFound
	}

	role, err := s.orgRepo.GetMemberRole(repo.OrganisationID, userID)
	if err != nil {
		return nil, false, err
	}
	if role != "" {
		return repo, roleAtLeast(role, models.RoleAdmin), nil
	}

	shareRole, err := s.shareRepo.GetShareRole(repoID, userID)
	if err != nil {
		return nil, false, err
	}
	if shareRole != "" {
		return repo, shareRole == models.ShareRoleEditor, nil
	}

	return nil, false, ErrForbidden
}

func (s *LibraryService) requireEdit(userID, repoID int64) error {
	_, canEdit, err := s.Access(userID, repoID)
	if err != nil {
		return err
	}
	if !canEdit {
		return ErrForbidden
	}
	return nil
}

// ExtractChunks splits document text into study chunks. Paragraphs separated
// by blank lines are the unit; paragraphs longer than maxChunkSize are
// re-split on sentence boundaries.
func ExtractChunks(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var chunks []string
	for _, para := range strings.Split(normalized, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= maxChunkSize {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, splitLongParagraph(para)...)
	}
	return chunks
}

func splitLongParagraph(para string) []string {
	var chunks []string
	var current strings.Builder

	for _, sentence := range splitSentences(para) {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > maxChunkSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// splitSentences breaks text after sentence-ending punctuation followed by a space
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 2
		}
	}
	if start < len(text) {
		sentences = append(sentences, strings.TrimSpace(text[start:]))
	}
	return sentences
}
