package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// SuggestCommand creates the suggest command
func SuggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Show ranked query suggestions for a prefix",
		ArgsUsage: "[prefix]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Owner whose history feeds the suggestions (defaults to the configured owner)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runSuggest(ctx, c)
		},
	}
}

func runSuggest(ctx context.Context, c *cli.Command) error {
	stack, err := openSearchStack(c.String("config"))
	if err != nil {
		return err
	}
	defer stack.Close()

	owner := c.String("owner")
	if owner == "" {
		owner = stack.cfg.OwnerID
	}

	suggestions, err := stack.history.SuggestionsFor(ctx, owner, c.Args().First())
	if err != nil {
		return fmt.Errorf("loading suggestions: %w", err)
	}

	if len(suggestions) == 0 {
		fmt.Println(noDataStyle.Render("No suggestions"))
		return nil
	}

	for i, sug := range suggestions {
		line := fmt.Sprintf("%d. %s", i+1, titleStyle.Render(sug.Text))
		if sug.Type == core.SuggestionQuery {
			line += " " + metaStyle.Render(fmt.Sprintf("(searched %d times, last %s)", sug.Frequency, formatTime(sug.LastUsedAt)))
		} else {
			line += " " + metaStyle.Render(fmt.Sprintf("(%s)", sug.Type))
		}
		fmt.Println(line)
	}

	return nil
}
