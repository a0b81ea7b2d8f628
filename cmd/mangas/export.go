package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kerbaras/mangas-reader/pkg/app/screens"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/integrations"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [chapter-id]",
	Short: "Export a chapter as an EPUB",
	Long:  "Download every page of a chapter and pack them into an EPUB for e-readers",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		chapterID := args[0]
		cobra.CheckErr(requireRoute(screens.ReaderRoute(chapterID, "")))

		outputDir, _ := cmd.Flags().GetString("output")
		maxWidth, _ := cmd.Flags().GetInt("max-width")
		quality, _ := cmd.Flags().GetInt("quality")
		if outputDir == "" {
			homeDir, _ := os.UserHomeDir()
			outputDir = filepath.Join(homeDir, "Downloads")
		}

		ctx, cancel := requestContext(cmd)
		chapter, err := deps.Client.GetChapter(ctx, chapterID)
		cancel()
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to fetch chapter %s: %w", chapterID, err))
		}

		var title *data.Title
		ctx, cancel = requestContext(cmd)
		title, err = deps.Controller.ParentTitle(ctx, chapter.MangaID)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("manga", chapter.MangaID).Msg("exporting without title metadata")
			title = nil
		}

		source := deps.Config.Source
		if !cmd.Flags().Changed("source") {
			ctx, cancel = requestContext(cmd)
			source = deps.Controller.TitleSource(ctx, chapter.MangaID)
			cancel()
		}
		urls := make([]string, len(chapter.Images))
		for i, u := range chapter.Images {
			urls[i] = deps.Client.ImageURL(u, source)
		}
		fmt.Printf("📥 Exporting %d pages of %s\n", len(urls), chapterID)

		builder := integrations.NewEPubBuilder(deps.Client.API(), outputDir, integrations.ExportOptions{
			MaxWidth:    maxWidth,
			Quality:     quality,
			Concurrency: deps.Config.ImageConcurrency,
		})
		epubPath, err := builder.Export(cmd.Context(), title, chapter, urls)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("EPUB generation failed: %w", err))
		}

		fmt.Printf("📖 EPUB created: %s\n", epubPath)
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "directory to write the EPUB to (default ~/Downloads)")
	exportCmd.Flags().Int("max-width", 1600, "downsize pages wider than this many px, 0 keeps originals")
	exportCmd.Flags().Int("quality", 85, "JPEG quality for re-encoded pages")
}
