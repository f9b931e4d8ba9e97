// Package docs holds the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "AdminToken": {"type": "apiKey", "name": "X-Admin-Token", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"tags": ["Health"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["Health"], "summary": "Readiness", "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}},
        "/v1/auth/signup": {"post": {
            "tags": ["Auth"], "summary": "Sign up",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/LoginResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
        }},
        "/v1/auth/login": {"post": {
            "tags": ["Auth"], "summary": "Log in",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
        }},
        "/v1/me": {"get": {"tags": ["Auth"], "summary": "Current identity", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}}}},
        "/v1/notes": {
            "get": {"tags": ["Notes"], "summary": "List notes", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}}},
            "post": {
                "tags": ["Notes"], "summary": "Create note", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/NoteRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Note"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}, "403": {"description": "Quota exceeded", "schema": {"$ref": "#/definitions/ErrorResponse"}}}
            }
        },
        "/v1/notes/{id}": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "get": {"tags": ["Notes"], "summary": "Get note", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Note"}}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "put": {
                "tags": ["Notes"], "summary": "Update note", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/NoteRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Note"}}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "delete": {"tags": ["Notes"], "summary": "Delete note", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/v1/tenants/{slug}": {"get": {"tags": ["Tenants"], "summary": "Get tenant", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "slug", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Tenant"}}, "403": {"description": "Forbidden"}}}},
        "/v1/tenants/{slug}/upgrade": {"post": {"tags": ["Tenants"], "summary": "Upgrade tenant to PRO", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "slug", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/init": {"post": {"tags": ["Admin"], "summary": "Seed fixture data", "security": [{"AdminToken": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/reset": {"post": {"tags": ["Admin"], "summary": "Reset data", "security": [{"AdminToken": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/admin/tenants": {"get": {"tags": ["Admin"], "summary": "List tenants", "security": [{"AdminToken": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/archive": {"post": {"tags": ["Admin"], "summary": "Archive notes now", "security": [{"AdminToken": []}], "responses": {"200": {"description": "OK"}, "503": {"description": "Archiving not configured"}}}}
    },
    "definitions": {
        "SignupRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "tenantName": {"type": "string"}}},
        "LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "tokenType": {"type": "string"}, "expiresAt": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"}, "tenantSlug": {"type": "string"}}},
        "NoteRequest": {"type": "object", "properties": {"title": {"type": "string"}, "content": {"type": "string"}}},
        "Note": {"type": "object", "properties": {"id": {"type": "string"}, "tenant_id": {"type": "string"}, "user_id": {"type": "string"}, "title": {"type": "string"}, "content": {"type": "string"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "Tenant": {"type": "object", "properties": {"id": {"type": "string"}, "slug": {"type": "string"}, "display_name": {"type": "string"}, "plan": {"type": "string", "enum": ["FREE", "PRO"]}}},
        "ErrorResponse": {"type": "object", "properties": {"error": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Notes API",
	Description:      "Multi-tenant notes backend with plan-based quotas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
