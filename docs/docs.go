// Package docs registra la especificación OpenAPI que sirve /swagger/*.
// Se regenera con `swag init -g cmd/api/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/session": {
            "post": {
                "tags": ["session"],
                "summary": "Iniciar sesión",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.Token"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/me/notifications": {
            "get": {
                "tags": ["session"],
                "summary": "Toasts pendientes",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/console.Notification"}}}}
            }
        },
        "/me/overlay": {
            "get": {
                "tags": ["session"],
                "summary": "Estado del overlay de carga",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.OverlayState"}}}
            }
        },
        "/clientes/buscar": {
            "get": {
                "tags": ["clientes"],
                "summary": "Buscar cliente por documento",
                "parameters": [{"type": "string", "name": "documento", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/{modulo}": {
            "get": {
                "tags": ["crud"],
                "summary": "Listado del módulo (clientes, mascotas, categorias, productos, proveedores, compras, servicios, tipos-servicio, citas, roles, usuarios)",
                "parameters": [{"type": "string", "name": "modulo", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["crud"],
                "summary": "Crear registro",
                "parameters": [{"type": "string", "name": "modulo", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/{modulo}/{id}": {
            "put": {
                "tags": ["crud"],
                "summary": "Actualizar registro",
                "parameters": [
                    {"type": "string", "name": "modulo", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["crud"],
                "summary": "Eliminar registro (428 hasta confirmar)",
                "parameters": [
                    {"type": "string", "name": "modulo", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "name": "confirm", "in": "query"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "428": {"description": "Precondition Required", "schema": {"$ref": "#/definitions/respond.ErrorBody"}}
                }
            }
        },
        "/{modulo}/{id}/status": {
            "patch": {
                "tags": ["crud"],
                "summary": "Activar o desactivar",
                "parameters": [
                    {"type": "string", "name": "modulo", "in": "path", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "console.Confirmation": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "message": {"type": "string"},
                "confirmText": {"type": "string"},
                "cancelText": {"type": "string"},
                "destructive": {"type": "boolean"}
            }
        },
        "console.Notification": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "message": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "respond.ErrorBody": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "kind": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "confirmation": {"$ref": "#/definitions/console.Confirmation"}
            }
        },
        "session.loginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "session.Token": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresIn": {"type": "integer"}
            }
        },
        "session.OverlayState": {
            "type": "object",
            "properties": {"visible": {"type": "boolean"}, "remainingMs": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Pet Store Console API",
	Description:      "Consola administrativa de la tienda veterinaria.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
