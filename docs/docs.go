// Package docs holds the Swagger 2.0 description of the gateway API served at /swagger.
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
                "tags": ["health"],
                "summary": "Gateway health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Analyzed documents",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.DocumentListResult"}}
                }
            }
        },
        "/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current session",
                "parameters": [
                    {"type": "string", "description": "session id", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.State"}}}
            }
        },
        "/session/documents": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Analyze a document",
                "parameters": [
                    {"type": "file", "description": "document", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/backend.Result-model_Document"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/backend.Result-model_Document"}}
                }
            }
        },
        "/session/documents/{id}/select": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Open a document",
                "parameters": [
                    {"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.State"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/session/document": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Analysis view",
                "parameters": [
                    {"type": "boolean", "description": "include performance metrics", "name": "performance", "in": "query"},
                    {"type": "boolean", "description": "include processing errors", "name": "errors", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/session/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Processing status",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/session/back": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Back to dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.State"}}}
            }
        },
        "/session/reset": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Reset session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session.State"}}}
            }
        },
        "/qa/ask": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["qa"],
                "summary": "Ask a question",
                "parameters": [
                    {"description": "question", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/qa/suggestions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["qa"],
                "summary": "Suggested questions",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/qa/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["qa"],
                "summary": "Conversation history",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            },
            "delete": {
                "tags": ["qa"],
                "summary": "Clear conversation history",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/reports/export": {
            "get": {
                "produces": ["application/pdf", "text/html"],
                "tags": ["reports"],
                "summary": "Download report",
                "parameters": [
                    {"type": "string", "description": "pdf (default) or html", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/reports": {
            "post": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Publish report",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.PublishedReport"}},
                    "501": {"description": "Not Implemented", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"}
                    }
                }
            }
        },
        "handler.AskRequest": {
            "type": "object",
            "required": ["query"],
            "properties": {"query": {"type": "string", "maxLength": 2000}}
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "database": {"type": "string"},
                "backend": {"$ref": "#/definitions/model.HealthSnapshot"}
            }
        },
        "model.HealthSnapshot": {
            "type": "object",
            "properties": {
                "online": {"type": "boolean"},
                "services": {
                    "type": "object",
                    "properties": {
                        "direct_processing": {"type": "boolean"},
                        "vector_processing": {"type": "boolean"},
                        "rag_qa": {"type": "boolean"}
                    }
                },
                "capabilities": {"type": "object"}
            }
        },
        "model.Document": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "filename": {"type": "string"},
                "analysis": {"type": "object"},
                "opened_at": {"type": "string"}
            }
        },
        "backend.Result-model_Document": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "error"]},
                "data": {"$ref": "#/definitions/model.Document"},
                "error": {"type": "string"}
            }
        },
        "session.State": {
            "type": "object",
            "properties": {
                "active_view": {"type": "string", "enum": ["dashboard", "analyzing", "document"]},
                "current_document": {"$ref": "#/definitions/model.Document"},
                "uploaded_file": {"type": "object"},
                "is_processing": {"type": "boolean"},
                "last_error": {"type": "string"},
                "backend_health": {"$ref": "#/definitions/model.HealthSnapshot"},
                "processing_status": {"type": "object"}
            }
        },
        "service.DocumentListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"type": "object"}},
                "total": {"type": "integer"}
            }
        },
        "service.PublishedReport": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "url": {"type": "string"},
                "filename": {"type": "string"},
                "strategy": {"type": "string"},
                "size": {"type": "integer"},
                "expires_at": {"type": "string"}
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
	Title:            "legaldesk gateway",
	Description:      "Session, analysis, Q&A and report endpoints in front of the legal document analysis backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
