// Package docs registers the OpenAPI description served under /swagger.
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
        "/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorEnvelope"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            }
        },
        "/logout": {
            "get": {
                "tags": ["auth"],
                "summary": "Logout",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            }
        },
        "/authors": {
            "get": {
                "tags": ["authors"],
                "summary": "List authors",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["authors"],
                "summary": "Create an author",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            }
        },
        "/authors/with-books": {
            "get": {
                "tags": ["authors"],
                "summary": "List authors with their books",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/authors/{id}": {
            "get": {
                "tags": ["authors"],
                "summary": "Get an author",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["authors"],
                "summary": "Update an author",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["authors"],
                "summary": "Delete an author",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            }
        },
        "/authors/{id}/details": {
            "get": {
                "tags": ["authors"],
                "summary": "Get an author with books",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        },
        "/books": {
            "get": {
                "tags": ["books"],
                "summary": "List books",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "author_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "Create a book",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            }
        },
        "/search/books": {
            "get": {
                "tags": ["books"],
                "summary": "Search books by author name or title",
                "parameters": [
                    {"type": "string", "name": "author", "in": "query"},
                    {"type": "string", "name": "title", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            }
        },
        "/books/{id}": {
            "get": {
                "tags": ["books"],
                "summary": "Get a book",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "Update a book",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bookRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["books"],
                "summary": "Delete a book",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorEnvelope"}}
                }
            }
        },
        "/books/{id}/details": {
            "get": {
                "tags": ["books"],
                "summary": "Get a book with its author",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/envelope"}}}
            }
        }
    },
    "definitions": {
        "envelope": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "integer"},
                "data": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "errorEnvelope": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "integer"},
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/violation"}}
            }
        },
        "violation": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"},
                "value": {}
            }
        },
        "registerRequest": {
            "type": "object",
            "required": ["username", "fullname", "email", "password"],
            "properties": {
                "username": {"type": "string"},
                "fullname": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "authorRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 255},
                "bio": {"type": "string"},
                "birthdate": {"type": "string", "example": "1965-07-31"}
            }
        },
        "bookRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 255},
                "description": {"type": "string"},
                "published_date": {"type": "string", "example": "1997-06-26"},
                "author_id": {"type": "integer"}
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
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Library API",
	Description:      "Users, authors and books with token-based authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
