// Package web embeds the static registration UI served at /app.
package web

import "embed"

//go:embed static
var Assets embed.FS
