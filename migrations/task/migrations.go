// Package task embeds the goose migrations of the task schema.
package task

import "embed"

// FS holds every migration file of the task schema.
//
//go:embed *.sql
var FS embed.FS
