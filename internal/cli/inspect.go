package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-folio/internal/catalog"
	"go-folio/internal/feed"
	"go-folio/internal/model"
	"go-folio/internal/render"
)

func (a *app) listCmd() *cobra.Command {
	var (
		loc   string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list <posts|projects>",
		Short: "List the entries of one partition as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if loc == "" {
				loc = string(a.cfg.Reference)
			}
			ct, l, err := parseArgs(args[0], loc)
			if err != nil {
				return err
			}
			cat, _ := a.sources(nil)
			return printJSON(cmd.OutOrStdout(), cat.List(cmd.Context(), ct, l, limit))
		},
	}
	cmd.Flags().StringVarP(&loc, "locale", "l", "", "requested locale (default: reference locale)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of entries, 0 for all")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var (
		loc  string
		html bool
	)
	cmd := &cobra.Command{
		Use:   "show <posts|projects> <slug>",
		Short: "Resolve one entry (with reference fallback) and print it as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if loc == "" {
				loc = string(a.cfg.Reference)
			}
			ct, l, err := parseArgs(args[0], loc)
			if err != nil {
				return err
			}
			cat, _ := a.sources(nil)
			doc, err := cat.GetBySlug(cmd.Context(), ct, l, args[1])
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("%s/%s not found in %s or %s", ct, args[1], l, cat.Reference())
			}
			if err != nil {
				return err
			}
			if !html {
				return printJSON(cmd.OutOrStdout(), doc)
			}
			res, err := render.New(a.cfg.Site.BaseURL).Render(doc.Body)
			if err != nil {
				return fmt.Errorf("render %s/%s: %w", ct, args[1], err)
			}
			return printJSON(cmd.OutOrStdout(), struct {
				*model.Document
				HTML string           `json:"html"`
				TOC  []render.Heading `json:"toc"`
			}{doc, res.HTML, res.TOC})
		},
	}
	cmd.Flags().StringVarP(&loc, "locale", "l", "", "requested locale (default: reference locale)")
	cmd.Flags().BoolVar(&html, "html", false, "include rendered HTML and table of contents")
	return cmd
}

func (a *app) auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Print translation coverage for every locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, aud := a.sources(nil)
			return printJSON(cmd.OutOrStdout(), aud.Audit(cmd.Context()))
		},
	}
}

func (a *app) feedCmd() *cobra.Command {
	var (
		out     string
		sitemap bool
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Generate the RSS feed (or the sitemap)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _ := a.sources(nil)
			b := feed.New(feed.Site{
				Title:       a.cfg.Site.Title,
				Description: a.cfg.Site.Description,
				BaseURL:     a.cfg.Site.BaseURL,
				Author:      a.cfg.Site.Author,
				Email:       a.cfg.Site.Email,
			}, cat.Reference(), cat)
			var data []byte
			if sitemap {
				x, err := b.Sitemap(cmd.Context())
				if err != nil {
					return fmt.Errorf("build sitemap: %w", err)
				}
				data = x
			} else {
				x, err := b.RSS(cmd.Context())
				if err != nil {
					return fmt.Errorf("build rss: %w", err)
				}
				data = []byte(x)
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&sitemap, "sitemap", false, "generate sitemap.xml instead of rss.xml")
	return cmd
}
