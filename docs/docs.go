// Package docs embeds the OpenAPI document of the web front end.
package docs

import _ "embed"

// Swagger is served at /swagger/doc.yaml.
//
//go:embed swagger.yaml
var Swagger []byte
