package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangas-reader/pkg/app/screens"
	"github.com/kerbaras/mangas-reader/pkg/labels"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your reading history",
	Long:  "Display every title you have been reading, with how many chapters came out since",
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(requireRoute(screens.RouteHistory))

		ctx, cancel := requestContext(cmd)
		defer cancel()
		entries, err := deps.Controller.History(ctx)
		if err != nil {
			cobra.CheckErr(err)
		}

		if len(entries) == 0 {
			fmt.Println("📚 No reading history yet. Open a chapter with 'mangas-reader' to start tracking.")
			return
		}

		// Create table columns
		columns := []table.Column{
			{Title: "Title", Width: 36},
			{Title: "Last read", Width: 16},
			{Title: "Latest", Width: 16},
			{Title: "New", Width: 5},
			{Title: "Chapters", Width: 9},
			{Title: "When", Width: 16},
		}

		rows := []table.Row{}
		for _, e := range entries {
			title := e.DisplayTitle
			if title == "" {
				title = e.MangaTitle
			}
			chapter := e.ChapterTitle
			if chapter == "" {
				chapter = e.ChapterID
			}
			latest, total := "-", "-"
			if e.TotalChapters > 0 {
				latest = labels.ChapterLabel(e.LatestChapterTitle)
				total = fmt.Sprintf("%d", e.TotalChapters)
			}
			when := ""
			if ts, ok := e.LastRead(); ok {
				when = ts.Local().Format("2006-01-02 15:04")
			}

			rows = append(rows, table.Row{
				labels.Truncate(title, 34),
				labels.Truncate(labels.ChapterLabel(chapter), 16),
				labels.Truncate(latest, 16),
				fmt.Sprintf("%d", e.UnreadCount),
				total,
				when,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.NoColor{}).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📚 Reading history (%d titles)\n\n", len(entries))
		fmt.Println(t.View())
	},
}
