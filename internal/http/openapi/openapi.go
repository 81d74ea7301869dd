// Package openapi embeds the OpenAPI document of the product option API.
package openapi

import _ "embed"

// YAML contains the embedded OpenAPI document served at /openapi.yaml.
//
//go:embed openapi.yaml
var YAML []byte
