// Package swagger embeds the OpenAPI document served by the HTTP API.
package swagger

import _ "embed"

// Spec is the OpenAPI 2.0 description of the users API.
//
//go:embed users.swagger.json
var Spec []byte
