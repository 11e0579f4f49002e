package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// resumeNamespace seeds the id hash appended to resume file names.
var resumeNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("talent-matcher/resume"))

// StoredResume is a resume written to a staging file. Path is where it lives
// once promoted.
type StoredResume struct {
	Filename   string
	Path       string
	StagedPath string
}

type StorageService interface {
	SaveResume(file *multipart.FileHeader, candidateID string) (*StoredResume, error)
	ImportResume(srcPath string, candidateID string) (*StoredResume, error)
	Promote(stagedPath, filename string) error
	Discard(stagedPath string) error
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveResume stages an uploaded PDF. The previous resume of the candidate stays
// in place until Promote.
func (s *storageService) SaveResume(file *multipart.FileHeader, candidateID string) (*StoredResume, error) {
	filename, err := resumeFilename(file.Filename, candidateID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.stage(src, filename)
}

// ImportResume stages a copy of a PDF from the local filesystem.
func (s *storageService) ImportResume(srcPath string, candidateID string) (*StoredResume, error) {
	filename, err := resumeFilename(srcPath, candidateID)
	if err != nil {
		return nil, err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume: %w", err)
	}
	defer src.Close()

	return s.stage(src, filename)
}

func (s *storageService) stage(src io.Reader, filename string) (*StoredResume, error) {
	dst, err := os.CreateTemp(s.uploadPath, ".upload-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredResume{
		Filename:   filename,
		Path:       s.GetFilePath(filename),
		StagedPath: dst.Name(),
	}, nil
}

// Promote moves a staged resume to its final name, replacing any previous file.
func (s *storageService) Promote(stagedPath, filename string) error {
	if err := os.Rename(s.GetFilePath(stagedPath), s.GetFilePath(filename)); err != nil {
		return fmt.Errorf("failed to store resume: %w", err)
	}
	return nil
}

// Discard removes a staged resume. Already promoted or missing files are ignored.
func (s *storageService) Discard(stagedPath string) error {
	if stagedPath == "" {
		return nil
	}
	return s.DeleteFile(stagedPath)
}

// resumeFilename keeps the sanitised id readable and appends a hash of the raw
// id, so ids differing only in unsafe characters get distinct files.
func resumeFilename(original, candidateID string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if ext != ".pdf" {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	safeID := unsafeFilenameChars.ReplaceAllString(candidateID, "_")
	if strings.Trim(safeID, "_") == "" {
		return "", fmt.Errorf("invalid candidate id: %q", candidateID)
	}

	sum := uuid.NewSHA1(resumeNamespace, []byte(candidateID)).String()
	return fmt.Sprintf("resume_%s_%s%s", safeID, sum[:8]+sum[9:13], ext), nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
