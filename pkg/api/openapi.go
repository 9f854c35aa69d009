package api

import (
	"github.com/gofiber/fiber/v2"
)

// openapiDocument describes the API surface. Served at
// GET /api-doc/openapi.json; kept by hand and updated alongside the
// routes and DTOs it describes.
const openapiDocument = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Vapor IaaS API",
    "description": "Server management endpoints",
    "version": "1.0.0"
  },
  "paths": {
    "/servers": {
      "post": {
        "summary": "Create a server",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/CreateServerRequest"}
            }
          }
        },
        "responses": {
          "201": {
            "description": "Server created successfully",
            "content": {
              "application/json": {
                "schema": {"$ref": "#/components/schemas/ServerResponse"}
              }
            }
          },
          "400": {"description": "Invalid request"},
          "401": {"description": "Invalid or missing API Key"}
        }
      },
      "get": {
        "summary": "List all servers",
        "responses": {
          "200": {
            "description": "All known servers",
            "content": {
              "application/json": {
                "schema": {
                  "type": "array",
                  "items": {"$ref": "#/components/schemas/ServerResponse"}
                }
              }
            }
          },
          "401": {"description": "Invalid or missing API Key"}
        }
      }
    },
    "/servers/{id}/disks": {
      "post": {
        "summary": "Attach a disk to a server",
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {"type": "string", "format": "uuid"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/AttachDiskRequest"}
            }
          }
        },
        "responses": {
          "200": {
            "description": "Updated server",
            "content": {
              "application/json": {
                "schema": {"$ref": "#/components/schemas/ServerResponse"}
              }
            }
          },
          "400": {"description": "Invalid request"},
          "401": {"description": "Invalid or missing API Key"},
          "404": {"description": "Resource not found"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "CreateServerRequest": {
        "type": "object",
        "required": ["name", "cpu", "ram", "storage"],
        "properties": {
          "name": {"type": "string"},
          "cpu": {"type": "integer", "minimum": 1},
          "ram": {"type": "integer", "minimum": 1},
          "storage": {"type": "integer", "minimum": 1}
        }
      },
      "AttachDiskRequest": {
        "type": "object",
        "required": ["size_gb"],
        "properties": {
          "size_gb": {"type": "integer", "minimum": 1}
        }
      },
      "ServerResponse": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "format": "uuid"},
          "name": {"type": "string"},
          "status": {
            "type": "string",
            "enum": ["Provisioning", "Running", "Stopped", "Terminated"]
          },
          "disks": {
            "type": "array",
            "items": {"$ref": "#/components/schemas/DiskResponse"}
          }
        }
      },
      "DiskResponse": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "format": "uuid"},
          "size_gb": {"type": "integer"}
        }
      }
    }
  },
  "tags": [
    {"name": "IaaS API", "description": "Server management endpoints"}
  ]
}`

// handleOpenAPIDocument serves the static API description.
func (a *API) handleOpenAPIDocument(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(openapiDocument)
}
