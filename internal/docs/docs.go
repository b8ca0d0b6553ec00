// Package docs registra el documento OpenAPI servido en /swagger.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Registro con email y password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/users.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/users.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login con email y password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/users.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/users.errorResponse"}}
                }
            }
        },
        "/cows": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cows"],
                "summary": "Alta de vaca",
                "parameters": [
                    {"type": "string", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "name": "Authorization", "in": "header"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/cows.createCowRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/cows.cowWriteResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/farm": {
            "get": {
                "produces": ["application/json"],
                "tags": ["farm"],
                "summary": "Resumen de la granja",
                "parameters": [
                    {"type": "string", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "name": "Authorization", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/herd.overviewResponse"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/farm/recommendations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["farm"],
                "summary": "Recomendaciones priorizadas",
                "parameters": [
                    {"type": "string", "name": "X-Debug-User-ID", "in": "header"},
                    {"type": "string", "name": "Authorization", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/herd.recommendationResponse"}}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/farm/assess": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["farm"],
                "summary": "Evaluar mediciones",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/herd.snapshotRequest"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/herd.assessmentResponse"}},
                    "400": {"description": "invalid json", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "users.registerRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "users.loginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "users.userResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "avatar": {"type": "string"}}
        },
        "users.authResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user": {"$ref": "#/definitions/users.userResponse"}, "token": {"type": "string"}}
        },
        "users.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "cows.createCowRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "age": {"type": "integer"}, "lactation_stage": {"type": "string"}, "photo": {"type": "string"},
                "milk_volume": {"type": "number"}, "fat_percent": {"type": "number"}, "protein_percent": {"type": "number"},
                "lactose_percent": {"type": "number"}, "ph": {"type": "number"}
            }
        },
        "cows.cowResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "owner_user_id": {"type": "string"}, "name": {"type": "string"}, "age": {"type": "integer"},
                "lactation_stage": {"type": "string"}, "photo": {"type": "string"}, "milk_volume": {"type": "number"},
                "fat_percent": {"type": "number"}, "protein_percent": {"type": "number"}, "lactose_percent": {"type": "number"},
                "ph": {"type": "number"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}
            }
        },
        "cows.alertResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "severity": {"type": "string"}, "timestamp": {"type": "string"}}
        },
        "cows.cowWriteResponse": {
            "type": "object",
            "properties": {"cow": {"$ref": "#/definitions/cows.cowResponse"}, "alerts": {"type": "array", "items": {"$ref": "#/definitions/cows.alertResponse"}}}
        },
        "herd.snapshotRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "milk_volume": {"type": "number"}, "fat_percent": {"type": "number"},
                "protein_percent": {"type": "number"}, "lactose_percent": {"type": "number"}, "ph": {"type": "number"}
            }
        },
        "herd.alertResponse": {
            "type": "object",
            "properties": {
                "cow_id": {"type": "string"}, "cow_name": {"type": "string"}, "message": {"type": "string"},
                "severity": {"type": "string", "enum": ["warning", "danger"]}, "timestamp": {"type": "string"}
            }
        },
        "herd.recommendationResponse": {
            "type": "object",
            "properties": {"cow_id": {"type": "string"}, "message": {"type": "string"}, "priority": {"type": "string", "enum": ["High", "Medium", "Low"]}}
        },
        "herd.statsResponse": {
            "type": "object",
            "properties": {
                "total_cows": {"type": "integer"}, "total_milk": {"type": "number"}, "average_milk_volume": {"type": "number"},
                "average_fat_percent": {"type": "number"}, "average_protein_percent": {"type": "number"},
                "average_lactose_percent": {"type": "number"}, "average_ph": {"type": "number"},
                "alert_count": {"type": "integer"}, "danger_count": {"type": "integer"}, "warning_count": {"type": "integer"}
            }
        },
        "herd.overviewResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}, "location": {"type": "string"}, "stats": {"$ref": "#/definitions/herd.statsResponse"},
                "alerts": {"type": "array", "items": {"$ref": "#/definitions/herd.alertResponse"}}
            }
        },
        "herd.assessmentResponse": {
            "type": "object",
            "properties": {
                "stats": {"$ref": "#/definitions/herd.statsResponse"},
                "alerts": {"type": "array", "items": {"$ref": "#/definitions/herd.alertResponse"}},
                "recommendations": {"type": "array", "items": {"$ref": "#/definitions/herd.recommendationResponse"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "SmartMilk API",
	Description:      "Rodeo lechero: vacas, alertas de calidad de leche y recomendaciones.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
