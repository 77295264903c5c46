// Package importer turns uploaded CSV documents into content records with
// per-row error isolation: a bad row is reported, not fatal to the batch.
package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/content"
	"gamehaven/app/internal/markdown"
	"gamehaven/app/internal/slug"
)

// Report aggregates the outcome of one import batch. Errors appear in row
// encounter order.
type Report struct {
	SuccessCount int      `json:"successCount"`
	FailCount    int      `json:"failCount"`
	Errors       []string `json:"errors"`
}

// Importer inserts CSV rows for one content type.
type Importer struct {
	repo   *content.Repository
	logger *logrus.Logger
}

// New constructs an Importer backed by the content repository.
func New(repo *content.Repository, logger *logrus.Logger) (*Importer, error) {
	if repo == nil {
		return nil, eris.New("content repository is required")
	}
	return &Importer{repo: repo, logger: logger}, nil
}

// Import parses csvData and inserts as many valid rows as possible. The
// whole batch runs inside one transaction so slug checks see rows inserted
// earlier in the same batch; individual row failures are recorded without
// aborting the rest. Only infrastructure failures roll the batch back.
func (im *Importer) Import(ctx context.Context, contentType, csvData string) (*Report, error) {
	if !content.ValidType(contentType) {
		return nil, eris.Wrapf(content.ErrUnknownType, "%s", contentType)
	}

	lines := splitLines(csvData)
	if len(lines) == 0 {
		return nil, eris.Wrap(content.ErrValidation, "csv data is empty")
	}

	headers := parseLine(lines[0])
	for i, header := range headers {
		headers[i] = strings.ToLower(header)
	}

	report := &Report{Errors: []string{}}

	err := im.repo.Transaction(ctx, func(txRepo *content.Repository) error {
		resolver, err := slug.NewResolver(txRepo)
		if err != nil {
			return err
		}

		for index, line := range lines[1:] {
			rowNumber := index + 2
			row := zipRow(headers, parseLine(line))

			if rowErr := im.importRow(ctx, txRepo, resolver, contentType, row); rowErr != nil {
				report.FailCount++
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: %s", rowNumber, rowErr.Error()))
				continue
			}
			report.SuccessCount++
		}

		return nil
	})
	if err != nil {
		if im.logger != nil {
			im.logger.WithFields(logrus.Fields{
				"content_type": contentType,
				"error":        err.Error(),
			}).Error("csv import transaction failed")
		}
		return nil, eris.Wrap(err, "importing csv batch")
	}

	return report, nil
}

func (im *Importer) importRow(ctx context.Context, txRepo *content.Repository, resolver *slug.Resolver, contentType string, row map[string]string) error {
	switch contentType {
	case content.TypeGames:
		return importGame(ctx, txRepo, resolver, row)
	case content.TypeBlogs:
		return importBlogPost(ctx, txRepo, resolver, row)
	case content.TypeProducts:
		return importProduct(ctx, txRepo, resolver, row)
	}
	return eris.Wrapf(content.ErrUnknownType, "%s", contentType)
}

func importGame(ctx context.Context, txRepo *content.Repository, resolver *slug.Resolver, row map[string]string) error {
	title := row["title"]
	if title == "" {
		return eris.New("title is required")
	}

	rating, err := parseOptionalFloat(row["rating"], content.DefaultRating)
	if err != nil {
		return eris.Wrap(err, "invalid rating")
	}

	resolved, err := resolver.Resolve(ctx, content.TypeGames, title, 0)
	if err != nil {
		return err
	}

	game := &content.Game{
		Slug:            resolved,
		Title:           title,
		Category:        fallback(row["category"], content.DefaultCategory),
		Description:     row["description"],
		DescriptionHTML: markdown.Render(row["description"]),
		CoverURL:        row["cover"],
		Gallery:         content.JoinList(splitMulti(row["gallery"])),
		Tags:            content.JoinList(splitMulti(row["tags"])),
		Platform:        row["platform"],
		PlayURL:         row["play_url"],
		Rating:          rating,
		Theme:           fallback(row["theme"], content.DefaultTheme),
	}

	return txRepo.CreateGame(ctx, game)
}

func importBlogPost(ctx context.Context, txRepo *content.Repository, resolver *slug.Resolver, row map[string]string) error {
	title := row["title"]
	if title == "" {
		return eris.New("title is required")
	}

	resolved, err := resolver.Resolve(ctx, content.TypeBlogs, title, 0)
	if err != nil {
		return err
	}

	post := &content.BlogPost{
		Slug:        resolved,
		Title:       title,
		Category:    fallback(row["category"], content.DefaultCategory),
		Content:     row["content"],
		ContentHTML: markdown.Render(row["content"]),
		CoverURL:    row["cover"],
		Tags:        content.JoinList(splitMulti(row["tags"])),
		Author:      fallback(row["author"], content.DefaultAuthor),
	}

	return txRepo.CreateBlogPost(ctx, post)
}

func importProduct(ctx context.Context, txRepo *content.Repository, resolver *slug.Resolver, row map[string]string) error {
	name := row["name"]
	if name == "" {
		return eris.New("name is required")
	}

	price, err := parseOptionalFloat(row["price"], 0)
	if err != nil {
		return eris.Wrap(err, "invalid price")
	}

	resolved, err := resolver.Resolve(ctx, content.TypeProducts, name, 0)
	if err != nil {
		return err
	}

	product := &content.Product{
		Slug:            resolved,
		Name:            name,
		Category:        fallback(row["category"], content.DefaultCategory),
		Description:     row["description"],
		DescriptionHTML: markdown.Render(row["description"]),
		Price:           price,
		Currency:        fallback(row["currency"], content.DefaultCurrency),
		ImageURL:        row["image"],
		Gallery:         content.JoinList(splitMulti(row["gallery"])),
		Tags:            content.JoinList(splitMulti(row["tags"])),
		BuyURL:          row["buy_url"],
	}

	return txRepo.CreateProduct(ctx, product)
}

func splitLines(csvData string) []string {
	normalized := strings.ReplaceAll(csvData, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitMulti decodes a multi-valued CSV cell; segments use | as the internal
// separator so commas stay free for the CSV layer.
func splitMulti(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, content.ListSeparator)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func parseOptionalFloat(value string, def float64) (float64, error) {
	if value == "" {
		return def, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
