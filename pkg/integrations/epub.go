// Package integrations writes chapters out to formats other readers can open.
package integrations

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/labels"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ImageOpener issues the GET for a page image. The caller closes the body.
type ImageOpener interface {
	Open(ctx context.Context, rawURL string) (*http.Response, error)
}

// ExportOptions tunes page processing.
type ExportOptions struct {
	// MaxWidth downsizes wider pages; zero keeps the original size.
	MaxWidth    int
	Quality     int
	Concurrency int
}

// EPubBuilder packs the pages of one chapter into an EPUB file.
type EPubBuilder struct {
	opener    ImageOpener
	outputDir string
	opts      ExportOptions
}

func NewEPubBuilder(opener ImageOpener, outputDir string, opts ExportOptions) *EPubBuilder {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 85
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &EPubBuilder{opener: opener, outputDir: outputDir, opts: opts}
}

// Export downloads pageURLs in order and writes them as a single-section
// EPUB. title may be nil; it only contributes metadata.
func (b *EPubBuilder) Export(ctx context.Context, title *data.Title, chapter *data.Chapter, pageURLs []string) (string, error) {
	if chapter == nil {
		return "", fmt.Errorf("chapter cannot be nil")
	}
	if len(pageURLs) == 0 {
		return "", fmt.Errorf("no pages to export")
	}
	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	workDir, err := os.MkdirTemp("", "mangas-reader-epub-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(workDir)

	pages, err := b.fetchPages(ctx, workDir, pageURLs)
	if err != nil {
		return "", err
	}

	bookTitle, chapterTitle := b.titles(title, chapter)
	e, err := epub.NewEpub(bookTitle)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetLang("th")
	if title != nil {
		if title.Author != "" {
			e.SetAuthor(title.Author)
		}
		if desc := labels.PlainText(title.Description); desc != "" {
			e.SetDescription(desc)
		}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<h1>%s</h1>\n", html.EscapeString(chapterTitle))
	for i, page := range pages {
		internalPath, err := e.AddImage(page, "")
		if err != nil {
			return "", fmt.Errorf("failed to add page %d: %w", i+1, err)
		}
		fmt.Fprintf(&body,
			`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
			internalPath, i+1, "\n")
	}
	if _, err := e.AddSection(body.String(), chapterTitle, "", ""); err != nil {
		return "", fmt.Errorf("failed to add section: %w", err)
	}

	outputPath := filepath.Join(b.outputDir, sanitizeFilename(bookTitle+" - "+chapterTitle)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

func (b *EPubBuilder) titles(title *data.Title, chapter *data.Chapter) (string, string) {
	bookTitle := chapter.MangaTitle
	chapterTitle := labels.ChapterLabel(chapter.ID)
	if title != nil {
		if bookTitle == "" {
			bookTitle = title.Title
		}
		if t := title.ChapterTitle(chapter.ID); t != chapter.ID {
			chapterTitle = t
		}
	}
	if bookTitle == "" {
		bookTitle = chapter.MangaID
	}
	return bookTitle, chapterTitle
}

// fetchPages stores every page under dir and returns the file paths in page order.
func (b *EPubBuilder) fetchPages(ctx context.Context, dir string, urls []string) ([]string, error) {
	paths := make([]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)

	for i, u := range urls {
		g.Go(func() error {
			raw, err := b.download(gctx, u)
			if err != nil {
				return fmt.Errorf("failed to download page %d: %w", i+1, err)
			}
			processed, ext, err := b.process(raw)
			if err != nil {
				log.Warn().Err(err).Int("page", i+1).Msg("keeping page unprocessed")
				processed, ext = raw, extensionOf(u)
			}
			path := filepath.Join(dir, fmt.Sprintf("page-%04d%s", i+1, ext))
			if err := os.WriteFile(path, processed, 0o644); err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (b *EPubBuilder) download(ctx context.Context, u string) ([]byte, error) {
	resp, err := b.opener.Open(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// process re-encodes a page as JPEG, downsizing it to MaxWidth first.
// Webp pages are always re-encoded since not every EPUB reader supports them.
func (b *EPubBuilder) process(raw []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if b.opts.MaxWidth <= 0 || bounds.Dx() <= b.opts.MaxWidth {
		if format != "webp" {
			return raw, "." + format, nil
		}
	} else {
		img = resize(img, b.opts.MaxWidth, bounds.Dy()*b.opts.MaxWidth/bounds.Dx())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: b.opts.Quality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), ".jpg", nil
}

func resize(img image.Image, width, height int) image.Image {
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func extensionOf(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	ext := strings.ToLower(filepath.Ext(u))
	if isImageExt(ext) {
		return ext
	}
	return ".jpg"
}

func isImageExt(ext string) bool {
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".gif" || ext == ".webp"
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
