package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// HistoryCommand creates the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List or clear recorded searches",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "owner",
				Usage: "Owner whose history to operate on (defaults to the configured owner)",
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Delete all of the owner's history entries",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runHistory(ctx, c)
		},
	}
}

func runHistory(ctx context.Context, c *cli.Command) error {
	stack, err := openSearchStack(c.String("config"))
	if err != nil {
		return err
	}
	defer stack.Close()

	owner := c.String("owner")
	if owner == "" {
		owner = stack.cfg.OwnerID
	}

	if c.Bool("clear") {
		if err := stack.history.ClearHistory(ctx, owner); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Printf("History cleared for %s\n", owner)
		return nil
	}

	entries, err := stack.history.Recent(ctx, owner)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println(noDataStyle.Render("No recorded searches"))
		return nil
	}

	for i, entry := range entries {
		word := "results"
		if entry.ResultCount == 1 {
			word = "result"
		}
		fmt.Printf("%d. %s %s\n", i+1,
			titleStyle.Render(entry.Query),
			metaStyle.Render(fmt.Sprintf("(%d %s, %s)", entry.ResultCount, word, formatTime(entry.Timestamp))))
	}

	return nil
}
