// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package textutils normalises and formats text shown to or typed by users.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

var printer = message.NewPrinter(language.English)

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	return printer.Sprintf("%d", n)
}

// Plural returns singular when n is one and plural otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}

	return plural
}
