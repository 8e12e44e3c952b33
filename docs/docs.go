// Package docs contém o documento OpenAPI servido em /swagger/.
// Para regenerar: swag init -g cmd/main.go -o docs
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
        "/api/auth/register": {
            "post": {
                "description": "Cria o usuário com a senha em hash e retorna um bearer token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Cadastra um novo usuário",
                "parameters": [
                    {
                        "description": "Registration payload",
                        "name": "registration",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.UserRegistration"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TokenResponse"}},
                    "400": {"description": "Invalid payload or email already registered", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Failed to create user", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "description": "Verifica email e senha e retorna um bearer token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Autentica um usuário",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "login",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Retorna o usuário autenticado",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/api/auth/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Lista todos os usuários",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.UserResponse"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/api/users/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Lista todos os usuários",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.UserResponse"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Meta"],
                "summary": "Verifica se o serviço está vivo",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "category": {"type": "string", "example": "VALIDATION_ERROR"},
                "detail": {"type": "string", "example": "Email already registered"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "domain.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "password": {"type": "string", "example": "s3cret"}
            }
        },
        "domain.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"},
                "user": {"$ref": "#/definitions/domain.UserResponse"}
            }
        },
        "domain.UserRegistration": {
            "description": "Payload de cadastro. Aliases em snake_case também são aceitos.",
            "type": "object",
            "required": ["department", "email", "fullName", "password", "role", "workStyle"],
            "properties": {
                "acceptTerms": {"type": "boolean"},
                "department": {"type": "string", "example": "Engineering"},
                "email": {"type": "string", "example": "ada@example.com"},
                "enable2FA": {"type": "boolean"},
                "fullName": {"type": "string", "example": "Ada Lovelace"},
                "password": {"type": "string", "description": "no máximo 72 bytes", "example": "s3cret"},
                "receiveNotifications": {"type": "boolean"},
                "role": {"type": "string", "example": "Developer"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "workStyle": {"type": "string", "example": "remote"}
            }
        },
        "domain.UserResponse": {
            "type": "object",
            "properties": {
                "department": {"type": "string", "example": "Engineering"},
                "email": {"type": "string", "example": "ada@example.com"},
                "enable_2fa": {"type": "boolean"},
                "full_name": {"type": "string", "example": "Ada Lovelace"},
                "id": {"type": "string", "example": "3f2c8a9e-8f7e-4a51-9d0c-1b9b0e6f4c21"},
                "receive_notifications": {"type": "boolean"},
                "role": {"type": "string", "example": "Developer"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "work_style": {"type": "string", "example": "remote"}
            }
        },
        "router.StatusResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string", "example": "healthy"}
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AI Employee Assistant API",
	Description:      "Serviço de cadastro e autenticação de funcionários.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
