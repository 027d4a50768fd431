// Package docs registers the Swagger document served under /swagger/.
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
        "/events": {
            "get": {
                "tags": ["events"],
                "summary": "List events",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "format", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "paginated events", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/events/add": {
            "post": {
                "tags": ["events"],
                "summary": "Create event",
                "responses": {
                    "201": {"description": "created", "schema": {"$ref": "#/definitions/envelope"}},
                    "422": {"description": "validation failed", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/events/{eventID}": {
            "get": {
                "tags": ["events"],
                "summary": "Event with brackets and bouts",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "event", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "not found", "schema": {"$ref": "#/definitions/envelope"}}
                }
            },
            "put": {
                "tags": ["events"],
                "summary": "Update event",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "updated", "schema": {"$ref": "#/definitions/envelope"}}}
            },
            "delete": {
                "tags": ["events"],
                "summary": "Delete event",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "deleted", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/events/{eventID}/form": {
            "patch": {
                "tags": ["events"],
                "summary": "Apply form actions and save",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "saved", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/events/{eventID}/status": {
            "patch": {
                "tags": ["events"],
                "summary": "Change event status",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "updated", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/events/{eventID}/poster": {
            "post": {
                "tags": ["events"],
                "summary": "Upload event poster",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "poster url", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/events/{eventID}/brackets": {
            "get": {
                "tags": ["brackets"],
                "summary": "Grouped bracket layouts",
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"type": "string", "name": "site", "in": "query", "enum": ["admin", "public", "tournament"]},
                    {"type": "string", "name": "ageClass", "in": "query"}
                ],
                "responses": {"200": {"description": "layouts or unavailable state", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/events/{eventID}/brackets/publish": {
            "post": {
                "tags": ["brackets"],
                "summary": "Replace brackets, generate bouts and publish",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "published", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/events/{eventID}/fight-card": {
            "get": {
                "tags": ["brackets"],
                "summary": "Flattened bouts with bracket info",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "fight card or not applicable state", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/bouts/{boutID}": {
            "get": {
                "tags": ["bouts"],
                "summary": "Get bout",
                "parameters": [{"type": "integer", "name": "boutID", "in": "path", "required": true}],
                "responses": {"200": {"description": "bout", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/bouts/{boutID}/result": {
            "put": {
                "tags": ["bouts"],
                "summary": "Record fight result",
                "parameters": [{"type": "integer", "name": "boutID", "in": "path", "required": true}],
                "responses": {"200": {"description": "updated bout", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/registrations": {
            "post": {
                "tags": ["registrations"],
                "summary": "Register fighter, trainer or promoter",
                "responses": {"201": {"description": "created", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/registrations/{registrationID}": {
            "get": {
                "tags": ["registrations"],
                "summary": "Get registration",
                "parameters": [{"type": "integer", "name": "registrationID", "in": "path", "required": true}],
                "responses": {"200": {"description": "registration", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/registrations/{registrationID}/status": {
            "patch": {
                "tags": ["registrations"],
                "summary": "Approve or reject registration",
                "parameters": [{"type": "integer", "name": "registrationID", "in": "path", "required": true}],
                "responses": {"200": {"description": "updated", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/registrations/{registrationID}/photo": {
            "post": {
                "tags": ["registrations"],
                "summary": "Upload profile photo",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "integer", "name": "registrationID", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "updated", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/registrations/{registrationID}/license": {
            "post": {
                "tags": ["registrations"],
                "summary": "Upload license certificate",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "integer", "name": "registrationID", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "updated", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/registrations/event/{eventID}": {
            "get": {
                "tags": ["registrations"],
                "summary": "List registrations of an event",
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "weightClass", "in": "query"},
                    {"type": "string", "name": "ageClass", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "paginated registrations", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/registrations/event/{eventID}/export": {
            "get": {
                "tags": ["registrations"],
                "summary": "Export registrations as XLSX",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "spreadsheet"}}
            }
        },
        "/tickets": {
            "post": {
                "tags": ["tickets"],
                "summary": "Buy tickets",
                "responses": {
                    "201": {"description": "ticket", "schema": {"$ref": "#/definitions/envelope"}},
                    "409": {"description": "sold out or sales closed", "schema": {"$ref": "#/definitions/envelope"}}
                }
            }
        },
        "/tickets/event/{eventID}": {
            "get": {
                "tags": ["tickets"],
                "summary": "List tickets of an event",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "tickets", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/tickets/{code}/check-in": {
            "post": {
                "tags": ["tickets"],
                "summary": "Check in a ticket",
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "ticket", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Dashboard statistics",
                "parameters": [
                    {"type": "string", "format": "date", "name": "startDate", "in": "query"},
                    {"type": "string", "format": "date", "name": "endDate", "in": "query"}
                ],
                "responses": {"200": {"description": "stats", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/uploads": {
            "post": {
                "tags": ["uploads"],
                "summary": "Upload a file to object storage",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "folder", "in": "query"},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {"201": {"description": "key and url", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        }
    },
    "definitions": {
        "envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "message": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fight Events API",
	Description:      "Combat-sports events, brackets, registrations and tickets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
