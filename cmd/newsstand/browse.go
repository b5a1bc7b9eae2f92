package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/newsstand/internal/catalog"
	"github.com/TobiSchelling/newsstand/internal/pipeline"
	"github.com/TobiSchelling/newsstand/internal/present"
)

var (
	listCategory string
	listSearch   string
	listPage     int
	popularLimit int
	readHTML     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, db, err := loadPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		state := pipeline.NewState().
			WithCategory(listCategory).
			WithSearch(listSearch).
			WithPage(listPage)
		fp := p.Front(state)

		fmt.Println(present.LongDate(time.Now()))
		fmt.Println(strings.Join(fp.Breadcrumbs, " / "))
		if fp.Breaking != nil {
			fmt.Printf("Última hora: %s\n", fp.Breaking.Title)
		}
		fmt.Println()

		if fp.Empty {
			fmt.Println("No se encontraron noticias.")
			return nil
		}

		now := time.Now()
		if f := fp.Layout.Featured; f != nil {
			fmt.Println("Destacado:")
			printPost(*f, fp.Views[f.ID], now)
			fmt.Println()
		}
		for _, post := range fp.Layout.Grid {
			printPost(post, fp.Views[post.ID], now)
		}
		for _, post := range fp.Layout.Secondary {
			printPost(post, fp.Views[post.ID], now)
		}

		fmt.Printf("\nPágina %d de %d (%d noticias)\n", fp.State.Page, fp.TotalPages, fp.Total)
		return nil
	},
}

func printPost(post catalog.Post, views int, now time.Time) {
	badge := ""
	if present.IsNew(post.PublishedAt, now) {
		badge = " [Nuevo]"
	}
	fmt.Printf("  %s%s\n", present.Upper(post.Title), badge)
	fmt.Printf("    %s | %s | %s lecturas | %s\n",
		post.ID,
		strings.Join(post.Categories, ", "),
		present.FormatNumber(views),
		present.TimeAgo(post.PublishedAt, now))
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Show the most read posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, db, err := loadPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		limit := popularLimit
		if limit <= 0 {
			limit = cfg.Pagination.MostRead
		}

		fmt.Println("Lo más leído:")
		for i, post := range p.MostRead(limit) {
			fmt.Printf("%2d. %s (%s lecturas)\n", i+1, post.Title, present.Comma(p.Views(post.ID)))
		}
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Open a post and print its article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, db, err := loadPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		a, err := p.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(present.Upper(a.Post.Title))
		fmt.Printf("%s | %d min lectura | %s lecturas\n\n",
			present.ShortDate(a.Post.PublishedAt),
			present.ReadTime(a.Raw),
			present.Comma(p.Views(a.Post.ID)))
		if readHTML {
			fmt.Println(a.HTML)
		} else {
			fmt.Println(a.Raw)
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with their post counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, db, err := loadPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		posts := p.Posts()
		for _, c := range catalog.Categories(posts) {
			n := len(catalog.Filter(posts, c, ""))
			fmt.Printf("  %-20s %3d\n", c, n)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", catalog.AllCategories, "Category to show")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Search term")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	popularCmd.Flags().IntVarP(&popularLimit, "limit", "n", 0, "Number of posts (default from config)")
	readCmd.Flags().BoolVar(&readHTML, "html", false, "Print rendered HTML instead of the source")
}
