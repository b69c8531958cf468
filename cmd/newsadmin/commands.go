package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"news-site/internal/admin"
	"news-site/internal/domain/entity"
	"news-site/internal/handler/http/site"
	"news-site/internal/infra/db"
	artUC "news-site/internal/usecase/article"
)

// articleOutput is the JSON shape printed for an article.
type articleOutput struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content,omitempty"`
	Image           string    `json:"image,omitempty"`
	URL             string    `json:"url"`
	PublicationDate time.Time `json:"publication_date"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toOutput(a *entity.Article, withContent bool) articleOutput {
	out := articleOutput{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		Image:           a.Image,
		URL:             site.DetailURL(a.Slug),
		PublicationDate: a.PublicationDate,
		UpdatedAt:       a.UpdatedAt,
	}
	if withContent {
		out.Content = a.Content
	}
	return out
}

func (a *app) printArticle(art *entity.Article) error {
	if a.jsonOutput() {
		return a.printJSON(toOutput(art, true))
	}
	cfg := admin.ArticleAdmin()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%d\n", art.ID)
	for _, fs := range cfg.Fieldsets {
		for _, field := range fs.Fields {
			fmt.Fprintf(tw, "%s:\t%s\n", field, admin.Value(art, field))
		}
	}
	fmt.Fprintf(tw, "%s:\t%s\n", admin.FieldPublicationDate, admin.Value(art, admin.FieldPublicationDate))
	fmt.Fprintf(tw, "%s:\t%s\n", admin.FieldUpdatedAt, admin.Value(art, admin.FieldUpdatedAt))
	fmt.Fprintf(tw, "url:\t%s\n", site.DetailURL(art.Slug))
	return tw.Flush()
}

func (a *app) createCmd() *cobra.Command {
	var in artUC.CreateInput
	var imagePath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article",
		Example: `  newsadmin create --title "Town hall reopens" --content "<p>On Monday...</p>"
  newsadmin create --title "Photo story" --content-file story.html --image photo.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			if err := readContentFile(cmd, &in.Content); err != nil {
				return err
			}

			if imagePath != "" {
				if in.Image, err = a.saveImage(ctx, imagePath); err != nil {
					return err
				}
			}
			art, err := svc.Create(ctx, in)
			if err != nil {
				a.discardImage(ctx, in.Image)
				return err
			}
			return a.printArticle(art)
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Article title (required)")
	cmd.Flags().StringVar(&in.Slug, "slug", "", "Explicit slug (derived from the title when empty)")
	cmd.Flags().StringVar(&in.Content, "content", "", "Article body (HTML)")
	cmd.Flags().String("content-file", "", "Read the article body from a file")
	cmd.Flags().StringVar(&imagePath, "image", "", "Image file to attach")
	_ = cmd.MarkFlagRequired("title")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var (
		in       artUC.SearchInput
		from, to string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List articles, newest first",
		Example: `  newsadmin list --query "bridge repairs" --from 2025-01-01
  newsadmin list --page 2 --limit 50 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			if in.From, err = artUC.ParseDateBound(from, false); err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			if in.To, err = artUC.ParseDateBound(to, true); err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			result, err := svc.Search(ctx, in)
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				items := make([]articleOutput, 0, len(result.Data))
				for _, art := range result.Data {
					items = append(items, toOutput(art, false))
				}
				return a.printJSON(map[string]any{
					"data":       items,
					"pagination": result.Pagination,
				})
			}

			cfg := admin.ArticleAdmin()
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\t%s\n", strings.ToUpper(strings.Join(cfg.ListDisplay, "\t")))
			for _, art := range result.Data {
				fmt.Fprintf(tw, "%d\t%s\n", art.ID, strings.Join(cfg.Row(art), "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			p := result.Pagination
			_, err = fmt.Fprintf(a.out, "\npage %d/%d, %d article(s)\n", p.Page, max(p.TotalPages, 1), p.Total)
			return err
		},
	}

	cmd.Flags().StringVarP(&in.Query, "query", "q", "", "Keywords matched against title and content")
	cmd.Flags().StringVar(&from, "from", "", "Publication date lower bound (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "Publication date upper bound (YYYY-MM-DD or RFC3339)")
	cmd.Flags().IntVar(&in.Page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&in.Limit, "limit", 20, "Articles per page")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|slug>",
		Short: "Show one article by ID or slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}

			var art *entity.Article
			if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
				art, err = svc.Get(ctx, id)
			} else {
				art, err = svc.GetBySlug(ctx, args[0])
			}
			if err != nil {
				return err
			}
			return a.printArticle(art)
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var (
		title, slug, content, imagePath string
		clearImage                      bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an article; only the given flags are changed",
		Long: `Update changes only the fields whose flags are given.
Changing the title never changes the slug; pass --slug to rename it.`,
		Example: `  newsadmin update 42 --title "Town hall reopens on Monday"
  newsadmin update 42 --image new.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}

			in := artUC.UpdateInput{ID: id, ClearImage: clearImage}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = &title
			}
			if flags.Changed("slug") {
				in.Slug = &slug
			}
			if flags.Changed("content") {
				in.Content = &content
			}
			if flags.Changed("content-file") {
				if err := readContentFile(cmd, &content); err != nil {
					return err
				}
				in.Content = &content
			}

			var stored string
			if imagePath != "" {
				if stored, err = a.saveImage(ctx, imagePath); err != nil {
					return err
				}
				in.Image = &stored
			}

			art, err := svc.Update(ctx, in)
			if err != nil {
				a.discardImage(ctx, stored)
				return err
			}
			return a.printArticle(art)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&slug, "slug", "", "New slug")
	cmd.Flags().StringVar(&content, "content", "", "New body (HTML)")
	cmd.Flags().String("content-file", "", "Read the new body from a file")
	cmd.Flags().StringVar(&imagePath, "image", "", "Replace the image with this file")
	cmd.Flags().BoolVar(&clearImage, "clear-image", false, "Remove the current image")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
	cmd.MarkFlagsMutuallyExclusive("image", "clear-image")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id> [id...]",
		Aliases: []string{"rm"},
		Short:   "Delete one or more articles together with their images",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}

			var deleted int64
			if len(ids) == 1 {
				if err := svc.Delete(ctx, ids[0]); err != nil {
					return err
				}
				deleted = 1
			} else if deleted, err = svc.DeleteMany(ctx, ids); err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.printJSON(map[string]int64{"deleted": deleted})
			}
			_, err = fmt.Fprintf(a.out, "deleted %d article(s)\n", deleted)
			return err
		},
	}
}

func (a *app) slugifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slugify <title...>",
		Short: "Print the slug that would be derived from a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			slug := admin.PrepopulateSlug(title)
			if a.jsonOutput() {
				return a.printJSON(map[string]string{"title": title, "slug": slug})
			}
			_, err := fmt.Fprintln(a.out, slug)
			return err
		},
	}
}

func (a *app) migrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create (or with --down drop) the article schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.openDB(ctx); err != nil {
				return err
			}
			if down {
				if err := db.MigrateDown(ctx, a.db); err != nil {
					return err
				}
				_, err := fmt.Fprintln(a.out, "schema dropped")
				return err
			}
			if err := db.MigrateUp(ctx, a.db, a.driver); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.out, "schema up to date (%s)\n", a.driver)
			return err
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "Drop the schema instead")
	return cmd
}
