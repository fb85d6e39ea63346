// Package schemas хранит JSON-схемы документов и событий.
package schemas

import "embed"

//go:embed documents events
var SchemasFS embed.FS
