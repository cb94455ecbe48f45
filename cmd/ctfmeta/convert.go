package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ctfmeta/internal/astio"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <in.yaml|in.ctfast> -o <out.ctfast|out.yaml>",
	Short: "Convert a metadata AST dump between YAML and .ctfast",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := convertOutput
		if out == "" {
			in := args[0]
			out = strings.TrimSuffix(in, ".yaml")
			out = strings.TrimSuffix(out, ".yml") + ".ctfast"
			if out == in {
				return fmt.Errorf("--output is required for %s", in)
			}
		}
		root, err := astio.Load(args[0])
		if err != nil {
			return err
		}
		if err := astio.Save(out, root); err != nil {
			return err
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default: input with .ctfast extension)")
}
