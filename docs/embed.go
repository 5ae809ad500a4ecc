// Copyright © 2024 The scenelint authors

// Package docs embeds the scene language reference for use by the CLI.
package docs

import _ "embed"

//go:embed lang.md
var LangGuide string
