/*
Package resume extracts structured fields from resume files.

Supported formats are plain text, Markdown, HTML, PDF and DOCX. The extracted
data is a flat map keyed by the Field constants, ready to be encoded as JSON.

Usage:

	extractor := resume.NewExtractor(resume.WithMaxFileSize(10 << 20))
	data, err := extractor.Extract("cv.pdf")
*/
package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoText is returned when a document has no extractable text
	ErrNoText = errors.New("no text content found")
	// ErrFileTooLarge is returned when a file exceeds the configured size limit
	ErrFileTooLarge = errors.New("file exceeds maximum size")
)

// ExtractionError reports why a file could not be turned into resume data
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Parser extracts resume data from the file at path
type Parser interface {
	Extract(path string) (map[string]any, error)
}

// Extractor is the Parser for local resume files
type Extractor struct {
	skills      *Vocabulary
	now         func() time.Time
	maxFileSize int64
	logger      *logrus.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithSkills replaces the skills vocabulary
func WithSkills(v *Vocabulary) Option {
	return func(e *Extractor) { e.skills = v }
}

// WithClock sets the clock open-ended date ranges are measured against
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithMaxFileSize rejects files larger than n bytes. Zero disables the check.
func WithMaxFileSize(n int64) Option {
	return func(e *Extractor) { e.maxFileSize = n }
}

// WithLogger sets the logger for extraction diagnostics
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// NewExtractor creates an extractor with the built-in vocabulary and the wall clock
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		skills: NewVocabulary(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logrus.StandardLogger()
	}
	return e
}

// Extract reads the file at path and returns its resume fields.
// Every failure is an *ExtractionError.
func (e *Extractor) Extract(path string) (map[string]any, error) {
	log := e.logger.WithField("file", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("stat resume: %w", err)}
	}
	if e.maxFileSize > 0 && info.Size() > e.maxFileSize {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("%w of %d bytes", ErrFileTooLarge, e.maxFileSize)}
	}

	start := time.Now()
	doc, err := ReadDocument(path)
	if err != nil {
		log.WithError(err).Debug("Failed to read resume")
		return nil, &ExtractionError{Path: path, Err: err}
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("%w in %s", ErrNoText, filepath.Base(path))}
	}

	data := extractFields(doc, e.skills, e.now())

	log.WithFields(logrus.Fields{
		"chars":       len(doc.Text),
		"pages":       doc.Pages,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Resume extracted")

	return data, nil
}
