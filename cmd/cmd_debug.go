// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/jcodagnone/hotmap/spatial"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugDistanceCmd = &cobra.Command{
	Use:   "distance <lat,lng> <lat,lng>",
	Short: "Print the great-circle distance between two points",
	Long: `Prints the haversine distance, in meters, used to decide whether two
hotspots overlap.

$ hotmap debug distance 0,0 0,1
111194.93 m
$ hotmap debug distance 12.9716,77.5946 12.2958,76.6394
128016.86 m`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := spatial.ParsePoint(args[0])
		if err != nil {
			return err
		}

		b, err := spatial.ParsePoint(args[1])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.2f m\n", a.HaversineDistance(&b))

		return err
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugDistanceCmd)
}
