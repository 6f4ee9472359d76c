package validation

import (
	"net/url"
	"strings"
)

// Upload limits.
const (
	MaxUploadBytes   = 5 * 1024 * 1024
	LargeUploadBytes = 3 * 1024 * 1024
)

// Accepted upload MIME types.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Prompt length bounds that trigger warnings.
const (
	MinPromptLength = 20
	MaxPromptLength = 5000
)

// ValidateFileUpload checks an upload's declared size and MIME type. It runs
// before any attempt to read the file contents.
func ValidateFileUpload(size int64, mimeType string) Result {
	var errs, warnings []string

	if size == 0 {
		errs = append(errs, "File is empty")
	} else if size > MaxUploadBytes {
		errs = append(errs, "File size exceeds 5MB limit")
	}

	if !IsAllowedUploadType(mimeType) {
		errs = append(errs, "File type must be PDF or DOCX")
	}

	if size > LargeUploadBytes {
		warnings = append(warnings, "Large file may take longer to process")
	}

	return newResult(errs, warnings)
}

// IsAllowedUploadType reports whether mimeType is PDF or DOCX. Parameters
// such as "; charset=binary" are ignored.
func IsAllowedUploadType(mimeType string) bool {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case MIMETypePDF, MIMETypeDOCX:
		return true
	}
	return false
}

// ValidateLinkedInURL checks that raw points at a LinkedIn profile.
func ValidateLinkedInURL(raw string) Result {
	var errs []string

	if blank(raw) {
		return newResult([]string{"LinkedIn URL is required"}, nil)
	}

	if !strings.Contains(raw, "linkedin.com/in/") {
		errs = append(errs, "Please enter a valid LinkedIn profile URL (e.g., linkedin.com/in/username)")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "Invalid URL format")
	} else if !isLinkedInHost(u.Hostname()) {
		errs = append(errs, "URL must be from linkedin.com")
	}

	return newResult(errs, nil)
}

// isLinkedInHost accepts linkedin.com and its subdomains only.
func isLinkedInHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}

// ValidatePrompt checks a free-text career description.
func ValidatePrompt(prompt string) Result {
	var errs, warnings []string

	if blank(prompt) {
		errs = append(errs, "Prompt cannot be empty")
	}

	n := runeLen(prompt)
	if n < MinPromptLength {
		warnings = append(warnings, "Prompt is very short. Consider adding more details for better results.")
	}
	if n > MaxPromptLength {
		warnings = append(warnings, "Very long prompt may be truncated")
	}

	return newResult(errs, warnings)
}

// FirstError returns the first error message of r, or "" when r is valid.
func (r Result) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}
