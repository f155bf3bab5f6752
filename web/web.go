// Package web embeds the landing page and the public assets.
package web

import "embed"

// Assets holds views/index.html and everything under public/.
//
//go:embed views public
var Assets embed.FS
