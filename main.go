// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/hotmap/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
