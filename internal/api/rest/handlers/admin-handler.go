package handlers

import (
	"strconv"
	"time"

	"github.com/DimaKostyrskyj/PriceBot/internal/api/rest/middleware"
	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/DimaKostyrskyj/PriceBot/internal/helper"
	"github.com/DimaKostyrskyj/PriceBot/internal/helper/utils"
	"github.com/DimaKostyrskyj/PriceBot/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	settings  services.SettingsService
	apps      services.ApplicationService
	contracts services.ContractService
	audit     services.AuditService
	auth      helper.Auth

	adminUsername     string
	adminPasswordHash string
}

func NewAdminHandler(
	settings services.SettingsService,
	apps services.ApplicationService,
	contracts services.ContractService,
	audit services.AuditService,
	auth helper.Auth,
	adminUsername, adminPasswordHash string,
) *AdminHandler {
	return &AdminHandler{
		settings:          settings,
		apps:              apps,
		contracts:         contracts,
		audit:             audit,
		auth:              auth,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
	}
}

func (h *AdminHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	admin := api.Group("/admin")
	admin.Post("/login", h.Login)

	admin.Use(middleware.AuthMiddleware(h.auth))
	admin.Get("/settings", h.GetSettings)
	admin.Put("/settings", h.UpdateSetting)
	admin.Post("/settings/reload", h.ReloadSettings)
	admin.Get("/applications", h.ListApplications)
	admin.Get("/contracts", h.ListContracts)
	admin.Get("/audit", h.ListAudit)
}

func (h *AdminHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.AdminLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "username and password are required")
	}

	if requestBody.Username != h.adminUsername ||
		h.auth.VerifyPassword(requestBody.Password, h.adminPasswordHash) != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid username or password")
	}

	token, err := h.auth.GenerateToken(requestBody.Username)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not generate token")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.LoginResponse{Token: token})
}

func (h *AdminHandler) GetSettings(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, h.settings.All())
}

func (h *AdminHandler) UpdateSetting(ctx *fiber.Ctx) error {
	var requestBody dto.SettingUpdateRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Key == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.settings.Set(requestBody.Key, requestBody.Value); err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Setting updated successfully")
}

func (h *AdminHandler) ReloadSettings(ctx *fiber.Ctx) error {
	if err := h.settings.Reload(); err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Settings reloaded")
}

func (h *AdminHandler) ListApplications(ctx *fiber.Ctx) error {
	status := domain.ApplicationStatus(ctx.Query("status", string(domain.ApplicationStatusSubmitted)))
	limit := queryInt(ctx, "limit", 50)
	offset := queryInt(ctx, "offset", 0)

	apps, err := h.apps.ListByStatus(status, limit, offset)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, apps)
}

func (h *AdminHandler) ListContracts(ctx *fiber.Ctx) error {
	limit := queryInt(ctx, "limit", 50)
	offset := queryInt(ctx, "offset", 0)

	contracts, err := h.contracts.List(limit, offset)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, contracts)
}

func (h *AdminHandler) ListAudit(ctx *fiber.Ctx) error {
	days := queryInt(ctx, "days", 7)
	if days < 1 || days > 90 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "days must be between 1 and 90")
	}
	limit := queryInt(ctx, "limit", 500)

	since := time.Now().AddDate(0, 0, -days)
	entries, err := h.audit.ListSince(since, limit)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		resp := dto.AuditLogResponse{
			ActorID:   e.ActorID,
			Action:    e.Action,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.Note != nil {
			resp.Note = *e.Note
		}
		out = append(out, resp)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, out)
}

func queryInt(ctx *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return def
	}
	return v
}
