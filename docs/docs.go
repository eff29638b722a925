// Package docs holds the Swagger 2.0 description served under /swagger/.
// Keep it in step with the swag annotations on the api handlers.
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
        "/": {
            "get": {
                "description": "Lists the ten most recently uploaded files, newest first.",
                "produces": ["application/json", "text/html"],
                "tags": ["files"],
                "summary": "Recent uploads",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.FilesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.StatusResponse"}}
                }
            }
        },
        "/admin/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists every file.",
                "produces": ["application/json", "text/html"],
                "tags": ["admin"],
                "summary": "Admin file management",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.FilesResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Uploads new files, or replaces one when an id field is present. Honours X-HTTP-Method-Override.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin file management",
                "parameters": [
                    {"type": "file", "description": "File content", "name": "file", "in": "formData"},
                    {"type": "integer", "description": "File to replace", "name": "id", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.FilesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.StatusResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Bumps a file's modification time.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin file management",
                "parameters": [
                    {"description": "File id", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.FileIDRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.FileResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.StatusResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes a file and its content.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin file management",
                "parameters": [
                    {"description": "File id", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.FileIDRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StatusResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.StatusResponse"}}
                }
            }
        },
        "/admin/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves file events journaled after a given event ID, oldest first, at most 100 at a time.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get new events",
                "parameters": [
                    {"type": "integer", "description": "The ID of the last event received.", "name": "since", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/database.Event"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.StatusResponse"}}
                }
            }
        },
        "/admin/ws": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Upgrades to a websocket that receives every journaled file event.",
                "tags": ["events"],
                "summary": "Live file events",
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"type": "string"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["operations"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.HealthResponse"}}
                }
            }
        },
        "/login/": {
            "post": {
                "description": "Authenticates with a username or email. JSON clients also receive a Bearer access token tied to the session.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json", "text/html"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Login credentials", "name": "loginRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.LoginResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "string"}}
                }
            }
        },
        "/logout/": {
            "get": {
                "description": "Ends the current session, or every session of the user with all=1.",
                "tags": ["auth"],
                "summary": "Log out",
                "parameters": [
                    {"type": "boolean", "description": "End every session of the user", "name": "all", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Redirect to /login/", "schema": {"type": "string"}}
                }
            }
        },
        "/media/{fileID}": {
            "get": {
                "description": "Streams the stored content of a file as an attachment.",
                "produces": ["application/octet-stream"],
                "tags": ["files"],
                "summary": "Download a file",
                "parameters": [
                    {"type": "integer", "description": "File ID", "name": "fileID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.FileIDRequest": {
            "type": "object",
            "properties": {"id": {"type": "integer", "example": 7}}
        },
        "api.FileResponse": {
            "type": "object",
            "properties": {
                "file": {"$ref": "#/definitions/models.UploadedFile"},
                "message": {"type": "string", "example": "File updated successfully!"},
                "status": {"type": "string", "example": "success"}
            }
        },
        "api.FilesResponse": {
            "type": "object",
            "properties": {
                "files": {"type": "array", "items": {"$ref": "#/definitions/models.UploadedFile"}},
                "message": {"type": "string", "example": "2 file(s) uploaded successfully!"},
                "status": {"type": "string", "example": "success"}
            }
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {
                "database": {"type": "string", "example": "ok"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string", "example": "password123"},
                "username": {"type": "string", "example": "admin"}
            }
        },
        "api.LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "message": {"type": "string", "example": "Login successful"},
                "redirect": {"type": "string", "example": "/admin/"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "api.StatusResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "File deleted successfully!"},
                "status": {"type": "string", "example": "success"}
            }
        },
        "database.Event": {
            "type": "object",
            "properties": {
                "event_time": {"type": "string"},
                "event_type": {"type": "string", "example": "file_uploaded"},
                "id": {"type": "integer"},
                "payload": {"type": "object"}
            }
        },
        "models.UploadedFile": {
            "type": "object",
            "properties": {
                "file": {"type": "string", "example": "V1StGXR8_Z5jdHi6B-myT"},
                "id": {"type": "integer", "example": 7},
                "mime_type": {"type": "string", "example": "application/pdf"},
                "original_name": {"type": "string", "example": "report.pdf"},
                "size_bytes": {"type": "integer", "example": 52431},
                "updated_at": {"type": "string"},
                "uploaded_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "File Panel API",
	Description:      "Upload, replace, touch and delete files behind a session-guarded admin panel.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
