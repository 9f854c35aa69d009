package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vaporstack/vapor/internal/logger"
	"github.com/vaporstack/vapor/pkg/service"
	"github.com/vaporstack/vapor/pkg/store"
)

// handleCreateServer handles POST /servers.
func (a *API) handleCreateServer(c *fiber.Ctx) error {
	var req CreateServerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	server, err := a.svc.CreateServer(c.UserContext(), service.CreateServerCommand{
		Name:      req.Name,
		CPUCores:  req.CPU,
		RAMGB:     req.RAM,
		StorageGB: req.Storage,
	})
	if err != nil {
		return internalError(c, "create server", err)
	}

	return c.Status(fiber.StatusCreated).JSON(toServerResponse(server))
}

// handleListServers handles GET /servers.
func (a *API) handleListServers(c *fiber.Ctx) error {
	servers, err := a.svc.ListServers(c.UserContext())
	if err != nil {
		return internalError(c, "list servers", err)
	}

	resp := make([]ServerResponse, 0, len(servers))
	for _, server := range servers {
		resp = append(resp, toServerResponse(server))
	}
	return c.JSON(resp)
}

// handleAttachDisk handles POST /servers/:id/disks.
func (a *API) handleAttachDisk(c *fiber.Ctx) error {
	serverID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid server id")
	}

	var req AttachDiskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	server, err := a.svc.AttachDisk(c.UserContext(), service.AttachDiskCommand{
		ServerID: serverID,
		SizeGB:   req.SizeGB,
	})
	if err != nil {
		if errors.Is(err, store.ErrServerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
		}
		return internalError(c, "attach disk", err)
	}

	return c.JSON(toServerResponse(server))
}

// badRequest rejects a malformed payload before the core is invoked.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// internalError logs the real failure and answers with a generic message.
// Storage error text is never forwarded to external callers.
func internalError(c *fiber.Ctx, op string, err error) error {
	logger.Error("Failed to %s: %v", op, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An internal error occurred"})
}
