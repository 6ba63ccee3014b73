package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	einopdf "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/resume-checker/internal/logger"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat accepts a filename, an extension or a bare format tag.
func ParseFormat(name string) (Format, error) {
	tag := strings.ToLower(strings.TrimSpace(name))
	if ext := filepath.Ext(tag); ext != "" {
		tag = ext
	}
	tag = strings.TrimPrefix(tag, ".")

	switch Format(tag) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	default:
		return "", &UnsupportedFormatError{Format: name}
	}
}

// SniffFormat looks at magic bytes. A DOCX is a zip archive.
func SniffFormat(data []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return FormatPDF, true
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return FormatDOCX, true
	default:
		return "", false
	}
}

type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported resume format %q: only pdf and docx are accepted", e.Format)
}

type ExtractionError struct {
	Format Format
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte, format Format) (string, error)
}

// pdfStrategy turns PDF bytes into text. An empty string with a nil error
// means the document was read but carries no text layer.
type pdfStrategy func(ctx context.Context, data []byte) (string, error)

type documentExtractor struct {
	primary  pdfStrategy
	fallback pdfStrategy
}

// NewDocumentExtractor prepares both PDF strategies up front. The eino parser
// is only consulted when the primary reader fails or finds no text.
func NewDocumentExtractor(ctx context.Context) (DocumentExtractor, error) {
	p, err := einopdf.NewPDFParser(ctx, &einopdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback pdf parser: %w", err)
	}

	return newDocumentExtractor(
		recoverPanics("pdf reader", readPDFPages),
		recoverPanics("fallback pdf parser", einoStrategy(p)),
	), nil
}

func newDocumentExtractor(primary, fallback pdfStrategy) *documentExtractor {
	return &documentExtractor{primary: primary, fallback: fallback}
}

// Extract implements DocumentExtractor. A readable document without text
// yields an empty string, not an error.
func (d *documentExtractor) Extract(ctx context.Context, data []byte, format Format) (string, error) {
	switch format {
	case FormatPDF:
		return d.extractPDF(ctx, data)
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return "", &UnsupportedFormatError{Format: string(format)}
	}
}

func (d *documentExtractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	log := logger.Ctx(ctx)

	text, primaryErr := d.primary(ctx, data)
	if primaryErr == nil && text != "" {
		return text, nil
	}
	if primaryErr != nil {
		log.Warn().Err(primaryErr).Msg("primary pdf reader failed, trying fallback parser")
	} else {
		log.Debug().Msg("primary pdf reader found no text, trying fallback parser")
	}

	text, fallbackErr := d.fallback(ctx, data)
	switch {
	case fallbackErr == nil:
		return text, nil
	case primaryErr == nil:
		log.Warn().Err(fallbackErr).Msg("fallback pdf parser failed, pdf has no text layer")
		return "", nil
	default:
		return "", &ExtractionError{Format: FormatPDF, Cause: errors.Join(primaryErr, fallbackErr)}
	}
}

// recoverPanics turns a reader panic into an error. Both PDF readers can panic
// on malformed cross-reference tables.
func recoverPanics(name string, next pdfStrategy) pdfStrategy {
	return func(ctx context.Context, data []byte) (text string, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", name, r)
			}
		}()

		return next(ctx, data)
	}
}

// readPDFPages concatenates the plain text of every page.
func readPDFPages(_ context.Context, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return CleanText(textBuilder.String()), nil
}

func einoStrategy(p *einopdf.PDFParser) pdfStrategy {
	return func(ctx context.Context, data []byte) (string, error) {
		docs, err := p.Parse(ctx, bytes.NewReader(data), einoParser.WithURI("resume.pdf"))
		if err != nil {
			return "", fmt.Errorf("fallback pdf parser failed: %w", err)
		}

		var parts []string
		for _, doc := range docs {
			parts = append(parts, doc.Content)
		}

		return CleanText(strings.Join(parts, "\n")), nil
	}
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	tabElement   = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Cause: err}
	}
	defer r.Close()

	return DocxXMLToText(r.Editable().GetContent()), nil
}

// DocxXMLToText turns WordprocessingML into plain lines, one per paragraph.
func DocxXMLToText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabElement.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return CleanText(html.UnescapeString(content))
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleanedLines := lines[:0]

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
