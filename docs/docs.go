// Package docs serves the OpenAPI description of the framestat API.
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
        "/config": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Get current configuration",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Load configuration",
                "parameters": [
                    {"description": "Configuration object", "name": "config", "in": "body", "required": true, "schema": {"$ref": "#/definitions/application.LoadConfigRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.LoadConfigResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/application.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/application.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/entities": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["entities"],
                "summary": "List entities",
                "parameters": [
                    {"type": "string", "description": "Entity kind, e.g. logger", "name": "kind", "in": "query"},
                    {"type": "string", "description": "Instance name", "name": "instance", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/application.EntityResponse"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/entities/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["entities"],
                "summary": "Get entity by ID",
                "parameters": [
                    {"type": "string", "description": "Entity ID, e.g. kind=logger|instance=rig|name=main", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.EntityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/application.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/loggers": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["loggers"],
                "summary": "List telemetry loggers",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/application.LoggerResponse"}}}
                }
            }
        },
        "/loggers/{name}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["loggers"],
                "summary": "Get telemetry logger",
                "parameters": [
                    {"type": "string", "description": "Logger name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.LoggerResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/loggers/{name}/log": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["text/plain"],
                "tags": ["loggers"],
                "summary": "Get logger log text",
                "parameters": [
                    {"type": "string", "description": "Logger name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/application.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/loggers/{name}/visibility": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["loggers"],
                "summary": "Toggle log visibility",
                "parameters": [
                    {"type": "string", "description": "Logger name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/application.VisibilityResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        },
        "/loggers/{name}/reset": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["loggers"],
                "summary": "Reset logger",
                "parameters": [
                    {"type": "string", "description": "Logger name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/application.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "application.DisplayValuesResponse": {
            "type": "object",
            "properties": {
                "cpu": {"type": "string"},
                "fps": {"type": "string"},
                "gpu": {"type": "string"},
                "memory": {"type": "string"},
                "metrics": {"type": "array", "items": {"$ref": "#/definitions/application.MetricResponse"}},
                "render": {"type": "string"}
            }
        },
        "application.EntityResponse": {
            "type": "object",
            "properties": {
                "canonical_id": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "kind": {"type": "string"},
                "labels": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "application.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "application.LoadConfigRequest": {
            "type": "object",
            "properties": {
                "config": {"type": "object"}
            }
        },
        "application.LoadConfigResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "instance": {"type": "string"},
                "loggers": {"type": "integer"}
            }
        },
        "application.LoggerResponse": {
            "type": "object",
            "properties": {
                "entity_id": {"type": "string"},
                "line_count": {"type": "integer"},
                "log_limit": {"type": "integer"},
                "name": {"type": "string"},
                "rollovers": {"type": "integer"},
                "session": {"type": "string"},
                "started_at": {"type": "string"},
                "update_interval": {"type": "number"},
                "values": {"$ref": "#/definitions/application.DisplayValuesResponse"},
                "visible": {"type": "boolean"}
            }
        },
        "application.MetricResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "text": {"type": "string"},
                "unit": {"type": "string"},
                "value": {"type": "number"}
            }
        },
        "application.VisibilityResponse": {
            "type": "object",
            "properties": {
                "visible": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "framestat API",
	Description:      "Frame statistics telemetry loggers: display values, rolling logs and log visibility.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
