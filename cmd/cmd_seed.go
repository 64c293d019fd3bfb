// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/jcodagnone/hotmap/complaints"
	"github.com/jcodagnone/hotmap/utils/textutils"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Import complaints from a seed file",
	Long: `Imports the complaints of a JSON seed file into the database. Complaints
already stored are replaced, complaints without id get a random one and
invalid complaints are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, repo, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := complaints.ImportFromJSON(cmd.Context(), repo, args[0])
		if err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}

		log.Printf("✅ Imported %s %s", textutils.FormatInt(int64(n)), textutils.Plural(n, "complaint", "complaints"))

		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all complaints to a seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, repo, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := complaints.ExportToJSON(cmd.Context(), repo, args[0])
		if err != nil {
			return fmt.Errorf("exporting %s: %w", args[0], err)
		}

		log.Printf("✅ Exported %s %s to %s", textutils.FormatInt(int64(n)), textutils.Plural(n, "complaint", "complaints"), args[0])

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
}
