package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/mangas-reader/pkg/app/screens"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/labels"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for manga",
	Long:  "Search the server for manga and display results in a table",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(requireRoute(screens.RouteSearch))
		query := strings.Join(args, " ")

		ctx, cancel := requestContext(cmd)
		defer cancel()
		results, err := deps.Controller.Search(ctx, query)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("search failed: %w", err))
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return
		}
		fmt.Println(summaryTable(results))
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List one page of a source's catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(requireRoute(screens.RouteHome))
		page, _ := cmd.Flags().GetInt("page")

		ctx, cancel := requestContext(cmd)
		defer cancel()
		results, err := deps.Client.ListTitles(ctx, deps.Config.Source, page)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to list %s: %w", deps.Config.Source, err))
		}

		if len(results) == 0 {
			fmt.Printf("No titles on page %d of %s.\n", page, deps.Config.Source)
			return
		}
		fmt.Printf("\n📚 %s, page %d\n\n", deps.Config.Source, page)
		fmt.Println(summaryTable(results))
	},
}

func init() {
	browseCmd.Flags().Int("page", 1, "catalog page to list")
	rootCmd.AddCommand(searchCmd)
}

func summaryTable(results []data.TitleSummary) *table.Table {
	var (
		purple = lipgloss.Color("99")

		headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
		cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			default:
				return cellStyle
			}
		}).
		Headers("#", "Title", "Latest", "Rating", "ID")

	for i, manga := range results {
		t.Row(
			fmt.Sprintf("%d", i+1),
			labels.Truncate(manga.Title, 48),
			labels.Truncate(manga.LatestChapter, 20),
			manga.Rating,
			manga.ID,
		)
	}
	return t
}
