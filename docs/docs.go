// Package docs holds the OpenAPI description served at /swagger.
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
    "paths": {
        "/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a new employee",
                "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Exchange credentials for a token",
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "List active tasks visible to the caller",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "priority", "in": "query"},
                    {"type": "integer", "name": "department_id", "in": "query"},
                    {"type": "integer", "name": "assignee_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.TaskResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Create a task",
                "parameters": [{"in": "body", "name": "task", "required": true, "schema": {"$ref": "#/definitions/handler.CreateTaskRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.TaskResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks/trashed": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Trash"],
                "summary": "List the trash (admin)",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.TaskResponse"}}}}
            }
        },
        "/tasks/pending-approvals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Review"],
                "summary": "List tasks awaiting approval (admin)",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.TaskResponse"}}}}
            }
        },
        "/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Get a task",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TaskResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Edit task fields",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "task", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateTaskRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TaskResponse"}}}
            }
        },
        "/tasks/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Change task status",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "status", "required": true, "schema": {"$ref": "#/definitions/handler.StatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TaskResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Review"],
                "summary": "Approve a task under review (admin)",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TaskResponse"}}}
            }
        },
        "/tasks/{id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Review"],
                "summary": "Send a task under review back to work (admin)",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "feedback", "schema": {"$ref": "#/definitions/handler.RejectRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TaskResponse"}}}
            }
        },
        "/tasks/{id}/assignments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Assignments"],
                "summary": "List task assignees",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.AssignmentResponse"}}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Assignments"],
                "summary": "Replace the assignee set",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AssignmentsRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.AssignmentResponse"}}}}
            }
        },
        "/tasks/{id}/assignments/{user_id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Assignments"],
                "summary": "Unassign one user",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/tasks/{id}/trash": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Trash"],
                "summary": "Move a task to the trash",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/tasks/{id}/restore": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Trash"],
                "summary": "Restore a task from the trash (admin)",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/tasks/{id}/permanent": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Trash"],
                "summary": "Permanently delete a trashed task (admin)",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/tasks/{id}/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Audit trail of a task",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.HistoryResponse"}}}}
            }
        },
        "/tasks/{id}/comments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Comments"],
                "summary": "List comments, newest first",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.CommentResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Comments"],
                "summary": "Comment on a task",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "comment", "required": true, "schema": {"$ref": "#/definitions/handler.CommentRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.CommentResponse"}}}
            }
        },
        "/tasks/{id}/comments/{comment_id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Comments"],
                "summary": "Delete a comment (author or admin)",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "comment_id", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "reason": {"type": "string"}}
        },
        "handler.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "minLength": 2},
                "password": {"type": "string", "minLength": 6},
                "department_id": {"type": "integer"}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "department_id": {"type": "integer"}
            }
        },
        "handler.AuthResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/handler.UserResponse"}}
        },
        "handler.CreateTaskRequest": {
            "type": "object",
            "required": ["title", "description", "due_date"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "due_date": {"type": "string", "example": "2026-03-09"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "department_id": {"type": "integer"},
                "assignee_ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "handler.UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "due_date": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "department_id": {"type": "integer"}
            }
        },
        "handler.StatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "in_progress", "awaiting_approval", "completed"]},
                "feedback": {"type": "string"}
            }
        },
        "handler.RejectRequest": {
            "type": "object",
            "properties": {"feedback": {"type": "string"}}
        },
        "handler.AssignmentsRequest": {
            "type": "object",
            "required": ["user_ids"],
            "properties": {"user_ids": {"type": "array", "items": {"type": "integer"}}}
        },
        "handler.CommentRequest": {
            "type": "object",
            "required": ["comment"],
            "properties": {"comment": {"type": "string"}}
        },
        "handler.TaskResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "due_date": {"type": "string"},
                "priority": {"type": "string"},
                "status": {"type": "string"},
                "department_id": {"type": "integer"},
                "created_by": {"type": "integer"},
                "feedback": {"type": "string"},
                "is_deleted": {"type": "boolean"},
                "deleted_at": {"type": "string"},
                "version": {"type": "integer"},
                "assignee_ids": {"type": "array", "items": {"type": "integer"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.AssignmentResponse": {
            "type": "object",
            "properties": {"user_id": {"type": "integer"}, "assigned_by": {"type": "integer"}, "assigned_at": {"type": "string"}}
        },
        "handler.HistoryResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "user_id": {"type": "integer"}, "action": {"type": "string"}, "created_at": {"type": "string"}}
        },
        "handler.CommentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "comment": {"type": "string"},
                "is_own": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	Schemes:          []string{"http"},
	Title:            "Task Tracker API",
	Description:      "Department task tracking with review, trash and audit trail.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
