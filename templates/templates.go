// Package templates embeds the HTML views so rendering works from any
// working directory, tests included.
package templates

import "embed"

//go:embed *.html layouts/*.html
var FS embed.FS
