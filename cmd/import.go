package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/urfave/cli/v3"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// ImportCommand creates the import command
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Seed domain records from a JSON file (optionally zstd-compressed)",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("usage: import <file>")
			}
			return runImport(ctx, c.String("config"), c.Args().First())
		},
	}
}

// importFile maps domain names to record lists:
//
//	{"task": [{"id": "...", "title": "..."}], "user": [...]}
func runImport(ctx context.Context, configPath, path string) error {
	stack, err := openSearchStack(configPath)
	if err != nil {
		return err
	}
	defer stack.Close()

	byDomain, err := readImportFile(path)
	if err != nil {
		return err
	}

	total := 0
	for name, records := range byDomain {
		domain, err := core.ParseDomainType(name)
		if err != nil {
			return fmt.Errorf("import file: %w", err)
		}

		for i := range records {
			if records[i].ID == "" {
				records[i].ID = uuid.NewString()
			}
		}

		coll, err := stack.manager.Collection(domain)
		if err != nil {
			return fmt.Errorf("opening collection for %s: %w", domain, err)
		}
		if err := coll.PutAll(ctx, records); err != nil {
			return fmt.Errorf("importing %s records: %w", domain, err)
		}

		fmt.Printf("Imported %d %s records\n", len(records), domain)
		total += len(records)
	}

	fmt.Printf("Done: %d records\n", total)
	return nil
}

func readImportFile(path string) (map[string][]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close import file: %v\n", err)
		}
	}()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".zstd") {
		decoder, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer decoder.Close()
		reader = decoder
	}

	var byDomain map[string][]core.Record
	if err := json.NewDecoder(reader).Decode(&byDomain); err != nil {
		return nil, fmt.Errorf("decoding import file: %w", err)
	}
	return byDomain, nil
}
