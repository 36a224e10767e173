package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	llmSvc "blogsmith/internal/domain/services/llm"
)

const (
	// DefaultPollinationsURL is the Pollinations prompt endpoint
	DefaultPollinationsURL = "https://image.pollinations.ai/prompt/"
	// DefaultTimeout bounds a single image download
	DefaultTimeout = 90 * time.Second
	// PublicPrefix is the URL path the image directory is served under
	PublicPrefix = "/static/images/"

	imageSize = 1024
)

// PollinationsGenerator generates images with Pollinations and stores them on disk.
type PollinationsGenerator struct {
	baseURL    string
	outputDir  string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ llmSvc.ImageGenerator = (*PollinationsGenerator)(nil)

// NewPollinationsGenerator creates a generator that writes into outputDir.
// The directory is created if missing.
func NewPollinationsGenerator(outputDir string, logger *slog.Logger) (*PollinationsGenerator, error) {
	return NewPollinationsGeneratorWithConfig(DefaultPollinationsURL, outputDir, &http.Client{Timeout: DefaultTimeout}, logger)
}

// NewPollinationsGeneratorWithConfig creates a generator with a custom endpoint and HTTP client.
func NewPollinationsGeneratorWithConfig(baseURL, outputDir string, client *http.Client, logger *slog.Logger) (*PollinationsGenerator, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &PollinationsGenerator{
		baseURL:    baseURL,
		outputDir:  outputDir,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Generate downloads an image for prompt and returns its public path
// (/static/images/image_<hex>.png). Any failure is logged and yields "".
func (g *PollinationsGenerator) Generate(ctx context.Context, prompt string) string {
	publicPath, err := g.generate(ctx, prompt)
	if err != nil {
		g.logger.Warn("image generation failed", "prompt", prompt, "error", err)
		return ""
	}
	g.logger.Info("image generated", "path", publicPath)
	return publicPath
}

func (g *PollinationsGenerator) generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.requestURL(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image provider returned status %d", resp.StatusCode)
	}

	filename := NewFilename()
	if err := g.save(filename, resp.Body); err != nil {
		return "", err
	}

	return path.Join(PublicPrefix, filename), nil
}

// requestURL builds the prompt URL with the fixed size and no-logo/enhance flags
func (g *PollinationsGenerator) requestURL(prompt string) string {
	q := url.Values{}
	q.Set("width", fmt.Sprint(imageSize))
	q.Set("height", fmt.Sprint(imageSize))
	q.Set("nologo", "true")
	q.Set("enhance", "true")
	return g.baseURL + url.PathEscape(prompt) + "?" + q.Encode()
}

// save writes body to a new file. O_EXCL guarantees an existing file is never overwritten;
// a partial file is removed on failure.
func (g *PollinationsGenerator) save(filename string, body io.Reader) error {
	fullPath := filepath.Join(g.outputDir, filename)

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(fullPath)
		return fmt.Errorf("write image: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("close image file: %w", err)
	}
	return nil
}

// NewFilename returns image_<32 hex chars>.png from a random UUID
func NewFilename() string {
	return "image_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".png"
}
