// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progress reports advance of long running batch operations. It renders a
// progress bar only when stderr is a terminal.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(n int, description string) *progress {
	return newProgressTo(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), n, description)
}

func newProgressTo(w io.Writer, interactive bool, n int, description string) *progress {
	p := &progress{}
	if interactive && n > 0 {
		p.bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(w),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	return p
}

func (p *progress) Add(n int) {
	if p.bar != nil {
		_ = p.bar.Add(n)
	}
}

func (p *progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
