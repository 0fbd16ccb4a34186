package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator checks report files before they are handed to the reader
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new report validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile performs comprehensive validation on a report file. A failed
// validation is reported through the result message, not as an error.
func (v *Validator) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	err := v.validateReportFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	v.validateStructure(req.Path, result)
	return result, nil
}

// validateReportFile performs the cheap checks on a report file
func (v *Validator) validateReportFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// Check if file exists and get basic info
	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return err
	}

	// Try to open the PDF to confirm the reader can parse it
	f, _, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return nil
}

// validateStructure runs pdfcpu's relaxed structural validation and records
// page count, header version and encryption state in the result.
func (v *Validator) validateStructure(filePath string, result *ValidateFileResult) {
	f, err := os.Open(filePath)
	if err != nil {
		result.Message = fmt.Sprintf("cannot open file: %v", err)
		return
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		result.Message = fmt.Sprintf("failed to read PDF structure: %v", err)
		return
	}

	if err := ctx.EnsurePageCount(); err != nil {
		result.Message = fmt.Sprintf("failed to determine page count: %v", err)
		return
	}

	result.Pages = ctx.PageCount
	result.Version = ctx.HeaderVersion.String()
	result.Encrypted = ctx.Encrypt != nil

	if result.Encrypted {
		result.Message = "report is encrypted and cannot be read"
		return
	}

	if err := api.ValidateContext(ctx); err != nil {
		result.Message = fmt.Sprintf("structural validation failed: %v", err)
		return
	}

	result.Valid = true
}

// IsValidReport performs a quick check to see if a file is a readable report
func (v *Validator) IsValidReport(filePath string) bool {
	return v.validateReportFile(filePath) == nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}
