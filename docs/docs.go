// Package docs registers the OpenAPI document served under /swagger.
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
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/users/me/access": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Grant access tags",
                "parameters": [{"description": "Tags", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.grantAccessRequest"}}],
                "responses": {"200": {"description": "access"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/nodes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "List nodes",
                "responses": {"200": {"description": "count, nodes"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Create node",
                "parameters": [{"description": "Node payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateNodeRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/v1/nodes/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["nodes"],
                "summary": "Remove node",
                "parameters": [{"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/nodes/{id}/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Get node UI state",
                "parameters": [{"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.NodeState"}}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/nodes/{id}/breaker": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["nodes"],
                "summary": "Toggle breaker",
                "parameters": [{"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "status, state"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/nodes/{id}/tool": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["nodes"],
                "summary": "Use tool on panel",
                "parameters": [
                    {"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true},
                    {"description": "Tool payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UseToolRequest"}}
                ],
                "responses": {"200": {"description": "accepted"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["nodes"],
                "summary": "Cancel tool operation",
                "parameters": [{"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "cancelled"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/nodes/{id}/compromise": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["overrides"],
                "summary": "Compromise node",
                "parameters": [{"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "affected"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/nodes/{id}/disturb": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["overrides"],
                "summary": "Disturb node",
                "parameters": [{"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "affected"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/nodes/{id}/examine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["nodes"],
                "summary": "Examine node",
                "parameters": [{"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Examination"}}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/nodes/{id}/load": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["nodes"],
                "summary": "Set simulated load and feed",
                "parameters": [
                    {"type": "string", "description": "Node id", "name": "id", "in": "path", "required": true},
                    {"description": "Flow payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SetLoadRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List logs",
                "parameters": [
                    {"type": "string", "description": "Node id", "name": "node", "in": "query"},
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range", "name": "to", "in": "query"},
                    {"type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "handlers.grantAccessRequest": {
            "type": "object",
            "required": ["access"],
            "properties": {"access": {"type": "array", "items": {"type": "string"}, "example": ["Engineering"]}}
        },
        "handlers.CreateNodeRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "access": {"type": "array", "items": {"type": "string"}, "example": ["Engineering"]},
                "id": {"type": "string", "example": "apc-engineering-1"}
            }
        },
        "handlers.UseToolRequest": {
            "type": "object",
            "required": ["tool"],
            "properties": {"tool": {"type": "string", "example": "screwdriver"}}
        },
        "handlers.SetLoadRequest": {
            "type": "object",
            "properties": {"feed": {"type": "number", "example": 5000}, "load": {"type": "number", "example": 1500}}
        },
        "models.NodeState": {
            "type": "object",
            "properties": {
                "breaker_enabled": {"type": "boolean"},
                "charge_fraction": {"type": "number"},
                "external_power": {"type": "string"},
                "node_id": {"type": "string"},
                "supply_watts": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "service.Examination": {
            "type": "object",
            "properties": {"key": {"type": "string"}, "text": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Power Node API",
	Description:      "Hosts simulated area power controllers: breaker, maintenance panel, access checks and UI state.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
