package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageBreakSeparator joins per-page text so downstream parsing can tell
// page boundaries apart from ordinary blank lines.
const pageBreakSeparator = "\n\n--- Page Break ---\n\n"

// Reader pulls raw text out of PDF report files
type Reader struct {
	maxTextSize int
	validator   *Validator
}

// NewReader creates a new report reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		validator:   NewValidator(maxFileSize),
	}
}

// ReadFile extracts the text content of a report file
func (r *Reader) ReadFile(req ReadFileRequest) (*ReadFileResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	// Check if file exists and get basic info
	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validator.ValidateFileInfo(req.Path, fileInfo); err != nil {
		return nil, err
	}

	// Open and parse the PDF
	f, pdfReader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	content, err := r.extractTextContent(pdfReader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	contentType := r.analyzeContentType(content, pdfReader)
	hasImages, imageCount := r.detectImages(pdfReader)

	result := &ReadFileResult{
		Content:     content,
		Path:        req.Path,
		Pages:       pdfReader.NumPage(),
		Size:        fileInfo.Size(),
		ContentType: contentType,
		HasImages:   hasImages,
		ImageCount:  imageCount,
	}

	return result, nil
}

// extractTextContent walks the pages and accumulates their plain text
func (r *Reader) extractTextContent(pdfReader *pdf.Reader) (string, error) {
	var builder strings.Builder
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}

		// Check if adding this content would exceed the limit
		if totalLength+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - totalLength
			if remaining > 0 {
				builder.WriteString(content[:remaining])
			}
			break
		}

		builder.WriteString(content)
		totalLength += len(content)

		if pageNum < pdfReader.NumPage() {
			builder.WriteString(pageBreakSeparator)
		}
	}

	text := builder.String()
	if text == "" {
		return "", fmt.Errorf("no text content could be extracted from PDF")
	}

	return text, nil
}

// analyzeContentType determines what kind of content the report carries.
// Attendance extraction only works on "text" and "mixed" documents; a
// scanned report needs OCR before this server can use it.
func (r *Reader) analyzeContentType(textContent string, pdfReader *pdf.Reader) string {
	// Minimum text length to consider content meaningful
	const minMeaningfulTextLength = 50

	cleanText := strings.TrimSpace(textContent)
	textWithoutBreaks := strings.ReplaceAll(cleanText, "--- Page Break ---", "")
	textWithoutBreaks = strings.TrimSpace(textWithoutBreaks)

	hasImages, _ := r.detectImages(pdfReader)

	if textWithoutBreaks == "" {
		if hasImages {
			return "scanned_images"
		}
		return "no_content"
	}

	if len(textWithoutBreaks) < minMeaningfulTextLength {
		if hasImages {
			return "scanned_images"
		}
		return "no_content"
	}

	if hasImages {
		return "mixed"
	}

	return "text"
}

// detectImages scans the document for image objects
func (r *Reader) detectImages(pdfReader *pdf.Reader) (bool, int) {
	imageCount := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		imageCount += r.countImagesOnPage(pdfReader, pageNum)
	}

	return imageCount > 0, imageCount
}

// countImagesOnPage counts image XObjects on a specific page
func (r *Reader) countImagesOnPage(pdfReader *pdf.Reader, pageNum int) int {
	defer func() {
		// Recover from any panics during image detection
		if recover() != nil {
			// Image detection failed for this page
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return 0
	}

	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return 0
	}

	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0
	}

	imageCount := 0
	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}

		subtype := obj.Key("Subtype")
		if subtype.IsNull() || subtype.Name() != "Image" {
			continue
		}

		imageCount++
	}

	return imageCount
}
