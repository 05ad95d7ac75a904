// Package docs registra el documento OpenAPI del servicio en swag y lo expone embebido
// para el UI de swagger.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var SwaggerJSON []byte

// SwaggerInfo metadatos del documento.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inventario Tenants API",
	Description:      "Multi-tenant inventory API: tenants, users, warehouses, products, permissions and restocks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  string(SwaggerJSON),
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
