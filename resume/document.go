package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned for file extensions without a reader
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrInvalidText is returned when a text file is not UTF-8
	ErrInvalidText = errors.New("file is not valid UTF-8 text")
)

// Document is the plain text of a resume file.
// Pages is zero for formats without pages.
type Document struct {
	Text  string
	Pages int
}

// ReadDocument reads the file at path with the reader chosen by its extension
func ReadDocument(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		doc *Document
		err error
	)
	switch ext {
	case "", ".txt", ".text", ".md":
		doc, err = readPlainText(path)
	case ".html", ".htm":
		doc, err = readHTML(path)
	case ".pdf":
		doc, err = readPDF(path)
	case ".docx":
		doc, err = readDOCX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	doc.Text = normalizeText(doc.Text)
	return doc, nil
}

func readPlainText(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidText
	}
	return &Document{Text: string(content)}, nil
}

// htmlBlockSelector lists elements whose boundaries become line breaks
const htmlBlockSelector = "p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer, ul, ol, table, address, blockquote, pre"

func readHTML(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(htmlBlockSelector).Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n")
		s.AppendHtml("\n")
	})

	return &Document{Text: doc.Find("body").Text()}, nil
}

func readPDF(path string) (doc *Document, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("read pdf: malformed document: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	return &Document{Text: buf.String(), Pages: r.NumPage()}, nil
}

func readDOCX(path string) (*Document, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open docx body: %w", err)
		}
		defer rc.Close()

		text, err := wordprocessingText(rc)
		if err != nil {
			return nil, fmt.Errorf("read docx body: %w", err)
		}
		return &Document{Text: text}, nil
	}

	return nil, errors.New("open docx: word/document.xml not found")
}

// wordprocessingText collects w:t runs, turning w:tab, w:br, w:cr and
// paragraph ends into whitespace
func wordprocessingText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)
	blankLinesRe      = regexp.MustCompile(`\n{3,}`)
)

// normalizeText unifies line endings, collapses horizontal whitespace and
// trims every line
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpaceRe.ReplaceAllString(line, " "))
	}

	text = blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
