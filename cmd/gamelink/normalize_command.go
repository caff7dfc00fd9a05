package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gamelink/internal/linkage"
	"gamelink/internal/normalize"
)

type normalizedTitle struct {
	Title      string   `json:"title"`
	Key        string   `json:"key"`
	EditionTag string   `json:"edition_tag,omitempty"`
	BlockKeys  []string `json:"block_keys"`
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "normalize <title...>",
		Short: "Show the normalized key, edition tag, and blocking keys of titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := linkage.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			n := normalize.New(opts.Normalize)

			results := make([]normalizedTitle, 0, len(args))
			for _, title := range args {
				key := n.Normalize(title)
				blockKeys := opts.Scheme.Keys(key.Title)
				if blockKeys == nil {
					blockKeys = []string{}
				}
				results = append(results, normalizedTitle{
					Title:      title,
					Key:        key.Title,
					EditionTag: key.EditionTag,
					BlockKeys:  blockKeys,
				})
			}
			if jsonOutput {
				return writeJSON(cmd, results)
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Title, r.Key, r.EditionTag, strings.Join(r.BlockKeys, " | ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Title", "Key", "Edition", "Blocks"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}
