// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "List the journals a run would query",
	Long: `Journals prints the effective journal set in query order: the
--journals-file list if given, the config file's journals key if set,
or the built-in default set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		journals, err := resolveJournals(cmd)
		if err != nil {
			return err
		}
		for _, j := range journals {
			fmt.Println(j)
		}
		fmt.Printf("\n%d journals\n", len(journals))
		return nil
	},
}

func init() {
	journalsCmd.Flags().String("journals-file", "", "YAML file listing journals to query")

	rootCmd.AddCommand(journalsCmd)
}
