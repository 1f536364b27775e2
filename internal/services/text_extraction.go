package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/P3chys/studyshare-api/internal/config"
)

// TextExtractionService pulls plain text out of uploaded files through an
// Apache Tika server so uploads become full-text searchable.
type TextExtractionService struct {
	tikaURL string
	client  *http.Client
}

func NewTextExtractionService(cfg *config.Config) *TextExtractionService {
	return &TextExtractionService{
		tikaURL: strings.TrimRight(cfg.TikaURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *TextExtractionService) ExtractText(ctx context.Context, file io.ReadSeeker) (string, error) {
	// The storage upload may already have consumed the reader.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.tikaURL+"/tika", file)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tika returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(body)), nil
}

// IsTextExtractable reports whether Tika is worth calling for mimeType.
func IsTextExtractable(mimeType string) bool {
	return mimeType == "application/pdf" ||
		mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		mimeType == "application/vnd.openxmlformats-officedocument.presentationml.presentation" ||
		strings.HasPrefix(mimeType, "text/")
}
