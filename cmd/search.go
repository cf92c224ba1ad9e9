package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/maniraj0007/task-management-app-sub004/pkg/search"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a federated search across the configured domains",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "domain",
				Usage: "Restrict to specific domain(s): task, team, project, user. Can be used multiple times",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Require a tag on every result. Can be used multiple times",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Secondary sort: relevance, created, updated, alphabetical, priority",
			},
			&cli.BoolFlag{
				Name:  "asc",
				Usage: "Sort ascending instead of descending",
			},
			&cli.StringFlag{
				Name:  "start-date",
				Usage: "Only results created on or after this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "end-date",
				Usage: "Only results created on or before this date (YYYY-MM-DD)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: search.DefaultLimit,
			},
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Owner id used for history recording (defaults to the configured owner)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("usage: search <query>")
			}
			return runSearch(ctx, c)
		},
	}
}

func runSearch(ctx context.Context, c *cli.Command) error {
	stack, err := openSearchStack(c.String("config"))
	if err != nil {
		return err
	}
	defer stack.Close()

	// Reuse the HTTP parameter parser so the CLI and the API accept
	// the same vocabulary.
	queryParams := map[string][]string{
		"q":      {c.Args().First()},
		"domain": c.StringSlice("domain"),
		"tag":    c.StringSlice("tag"),
	}
	if sortBy := c.String("sort"); sortBy != "" {
		queryParams["sort"] = []string{sortBy}
	}
	if c.Bool("asc") {
		queryParams["order"] = []string{"asc"}
	}
	if start := c.String("start-date"); start != "" {
		queryParams["start_date"] = []string{start}
	}
	if end := c.String("end-date"); end != "" {
		queryParams["end_date"] = []string{end}
	}
	if limit := c.Int("limit"); limit > 0 {
		queryParams["limit"] = []string{fmt.Sprintf("%d", limit)}
	}

	params, err := search.ParseParams(queryParams)
	if err != nil {
		return fmt.Errorf("parsing search parameters: %w", err)
	}
	params.OwnerID = c.String("owner")
	if params.OwnerID == "" {
		params.OwnerID = stack.cfg.OwnerID
	}

	results, err := stack.service.Search(ctx, params)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(results) == 0 {
		fmt.Println(noDataStyle.Render("No results found"))
		return nil
	}

	order, grouped := groupByDomain(results)
	for _, domain := range order {
		fmt.Println(domainHeading(domain, len(grouped[domain])))
		for i, res := range grouped[domain] {
			fmt.Println(renderResult(i+1, res))
		}
	}
	fmt.Printf("Total: %d results across %d domains\n", len(results), len(order))

	return nil
}
