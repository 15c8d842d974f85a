// Package docs registers the OpenAPI description served under /swagger.
//
// Regenerate from the handler annotations with:
//
//	swag init -g cmd/api/main.go -o internal/docs
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
        "/me": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions/": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Rows to skip", "name": "skip", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Page size (1-100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "income or expense", "name": "type", "in": "query"},
                    {"type": "string", "description": "Exact category", "name": "category", "in": "query"},
                    {"type": "string", "description": "Inclusive start date (YYYY-MM-DD)", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "Inclusive end date (YYYY-MM-DD)", "name": "end_date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Transaction"}}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "parameters": [
                    {"description": "Transaction details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateTransactionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Transaction created", "schema": {"$ref": "#/definitions/models.Transaction"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions/{id}": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get a transaction",
                "parameters": [{"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Transaction"}},
                    "404": {"description": "Transaction not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Delete a transaction",
                "parameters": [{"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Transaction deleted", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Transaction not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions/report/monthly": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Monthly report",
                "parameters": [
                    {"type": "integer", "description": "Year (2020-2100)", "name": "year", "in": "query", "required": true},
                    {"type": "integer", "description": "Month (1-12)", "name": "month", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.MonthlyReport"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions/categories/list": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/budgets/": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "List budgets",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Budget"}}}
                }
            },
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Create a budget",
                "parameters": [
                    {"description": "Budget details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateBudgetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Budget created", "schema": {"$ref": "#/definitions/models.Budget"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/budgets/{id}": {
            "put": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Update a budget",
                "parameters": [
                    {"type": "integer", "description": "Budget ID", "name": "id", "in": "path", "required": true},
                    {"description": "New limit", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateBudgetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Budget"}},
                    "404": {"description": "Budget not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["budgets"],
                "summary": "Delete a budget",
                "parameters": [{"type": "integer", "description": "Budget ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Budget deleted", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Budget not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/goals/": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "List goals",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Goal"}}}
                }
            },
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Create a goal",
                "parameters": [
                    {"description": "Goal details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateGoalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Goal created", "schema": {"$ref": "#/definitions/models.Goal"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/goals/{id}": {
            "put": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Update a goal",
                "parameters": [
                    {"type": "integer", "description": "Goal ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateGoalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Goal"}},
                    "404": {"description": "Goal not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Delete a goal",
                "parameters": [{"type": "integer", "description": "Goal ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Goal deleted", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Goal not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.FieldError": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
        },
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/errors.FieldError"}}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handlers.ErrorDetail"}}
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "telegram_id": {"type": "integer"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handlers.CreateTransactionRequest": {
            "type": "object",
            "required": ["type", "amount", "category"],
            "properties": {
                "type": {"type": "string", "enum": ["income", "expense"], "example": "expense"},
                "amount": {"type": "number", "example": 300.5},
                "currency": {"type": "string", "example": "RUB"},
                "category": {"type": "string", "maxLength": 50, "example": "food"},
                "description": {"type": "string", "maxLength": 255},
                "transaction_date": {"type": "string", "example": "2024-03-10"}
            }
        },
        "handlers.CreateBudgetRequest": {
            "type": "object",
            "required": ["category", "monthly_limit"],
            "properties": {
                "category": {"type": "string", "maxLength": 50, "example": "food"},
                "monthly_limit": {"type": "number", "example": 15000}
            }
        },
        "handlers.UpdateBudgetRequest": {
            "type": "object",
            "required": ["monthly_limit"],
            "properties": {"monthly_limit": {"type": "number", "example": 20000}}
        },
        "handlers.CreateGoalRequest": {
            "type": "object",
            "required": ["goal_name", "target_amount"],
            "properties": {
                "goal_name": {"type": "string", "maxLength": 100, "example": "Vacation"},
                "target_amount": {"type": "number", "example": 100000},
                "current_amount": {"type": "number", "example": 0},
                "deadline": {"type": "string", "example": "2025-12-31"}
            }
        },
        "handlers.UpdateGoalRequest": {
            "type": "object",
            "properties": {
                "current_amount": {"type": "number"},
                "target_amount": {"type": "number"},
                "deadline": {"type": "string"}
            }
        },
        "models.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "type": {"type": "string"},
                "amount": {"type": "number"},
                "currency": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "transaction_date": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.Budget": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "category": {"type": "string"},
                "monthly_limit": {"type": "number"},
                "created_at": {"type": "string"}
            }
        },
        "models.Goal": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "goal_name": {"type": "string"},
                "target_amount": {"type": "number"},
                "current_amount": {"type": "number"},
                "deadline": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "services.CategorySummary": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "total": {"type": "number"},
                "count": {"type": "integer"}
            }
        },
        "services.MonthlyReport": {
            "type": "object",
            "properties": {
                "month": {"type": "string", "example": "2024-03"},
                "total_income": {"type": "number"},
                "total_expense": {"type": "number"},
                "savings": {"type": "number"},
                "expenses_by_category": {"type": "array", "items": {"$ref": "#/definitions/services.CategorySummary"}},
                "income_by_category": {"type": "array", "items": {"$ref": "#/definitions/services.CategorySummary"}}
            }
        }
    },
    "securityDefinitions": {
        "TelegramInitData": {
            "description": "Raw signed launch payload of the mini-app.",
            "type": "apiKey",
            "name": "X-Telegram-Init-Data",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "AI Finance Mini-App API",
	Description:      "Backend of a Telegram mini-app for tracking income, expenses, budgets and savings goals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
