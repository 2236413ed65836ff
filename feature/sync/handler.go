package sync

import (
	"errors"
	"strconv"

	"catalog-sync/core/logger"
	"catalog-sync/core/storage"
	"catalog-sync/core/utils"
	"catalog-sync/feature/links"
	"catalog-sync/feature/runlog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// HeaderOperator names the person or job triggering a run.
	HeaderOperator = "X-Operator"
	// HeaderToken overrides the configured remote credential.
	HeaderToken = "X-Dropbox-Token"

	defaultOperator = "api"
)

// Handler handles HTTP requests for the sync pipeline.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/crawl", h.HandleCrawl)
	group.Post("/links", h.HandleLinks)
	group.Get("/links/missing", h.HandleMissingLinks)
	group.Post("/mappings", h.HandleGenerateMappings)
	group.Delete("/mappings", h.HandleDeleteMappings)
	group.Get("/status/:type", h.HandleStatus)
	group.Get("/runs", h.HandleRuns)
	group.Post("/runs/:id/fail", h.HandleForceFail)
}

// ForceFailRequest is the body of a force-fail request.
type ForceFailRequest struct {
	Message string `json:"message"`
}

// HandleCrawl crawls the remote roots and reconciles the file registry.
// @Summary Crawl Remote Files
// @Description Lists every configured root and reconciles the file registry. With dry_run the diff is computed but not written.
// @Tags sync
// @Produce json
// @Param X-Operator header string false "Operator name"
// @Param X-Dropbox-Token header string false "Remote access token"
// @Param dry_run query boolean false "Compute the diff only"
// @Success 200 {object} CrawlResult
// @Failure 401 {object} map[string]string "Remote credential rejected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/crawl [post]
func (h *Handler) HandleCrawl(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	dryRun := utils.Truthy(c.Query("dry_run"))

	res, err := h.service.Crawl(c.UserContext(), c.Get(HeaderToken), operator(c), dryRun)
	if err != nil {
		l.Error("Crawl failed", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(res)
}

// HandleLinks provisions missing share links.
// @Summary Provision Share Links
// @Description Creates share links for web-displayable files. Large backlogs run in the background and return 202.
// @Tags sync
// @Produce json
// @Param X-Operator header string false "Operator name"
// @Param X-Dropbox-Token header string false "Remote access token"
// @Success 200 {object} links.Result
// @Success 202 {object} map[string]interface{} "Started in background"
// @Failure 401 {object} map[string]string "Remote credential rejected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/links [post]
func (h *Handler) HandleLinks(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	trigger, err := h.service.TriggerLinks(c.UserContext(), c.Get(HeaderToken), operator(c))
	if err != nil {
		l.Error("Link provisioning failed", zap.Error(err))
		return respondError(c, err)
	}
	if trigger.Started {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status":  "started",
			"missing": trigger.Missing,
		})
	}
	return c.JSON(trigger.Result)
}

// HandleMissingLinks counts files without a share link.
// @Summary Count Missing Links
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/links/missing [get]
func (h *Handler) HandleMissingLinks(c *fiber.Ctx) error {
	missing, err := h.service.MissingLinks(c.UserContext())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Missing link count failed", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"missing": missing})
}

// HandleGenerateMappings runs the SKU matcher.
// @Summary Generate SKU Mappings
// @Description Prunes orphaned mappings, maps unmapped SKUs and back-fills primaries.
// @Tags sync
// @Produce json
// @Param X-Operator header string false "Operator name"
// @Success 200 {object} skumatch.Result
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/mappings [post]
func (h *Handler) HandleGenerateMappings(c *fiber.Ctx) error {
	res, err := h.service.GenerateMappings(c.UserContext(), operator(c))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Mapping generation failed", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(res)
}

// HandleDeleteMappings removes every SKU mapping.
// @Summary Delete All SKU Mappings
// @Tags sync
// @Produce json
// @Param X-Operator header string false "Operator name"
// @Success 200 {object} map[string]int64
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/mappings [delete]
func (h *Handler) HandleDeleteMappings(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Warn("Deleting all SKU mappings", zap.String("operator", operator(c)))

	deleted, err := h.service.DeleteMappings(c.UserContext(), operator(c))
	if err != nil {
		l.Error("Mapping deletion failed", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"mappings_deleted": deleted})
}

// HandleStatus reports the latest run of a sync type.
// @Summary Sync Status
// @Tags sync
// @Produce json
// @Param type path string true "Sync type" Enums(dropbox_crawl, dropbox_links, sku_mapping, dropbox_access)
// @Success 200 {object} runlog.RunStatus
// @Failure 400 {object} map[string]string "Unknown sync type"
// @Router /sync/status/{type} [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.service.Status(c.UserContext(), c.Params("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

// HandleRuns lists recent runs.
// @Summary List Sync Runs
// @Tags sync
// @Produce json
// @Param type query string false "Sync type"
// @Param limit query int false "Maximum rows"
// @Success 200 {array} models.SyncRun
// @Failure 400 {object} map[string]string "Unknown sync type"
// @Router /sync/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.UserContext(), c.Query("type"), utils.IntOr(c.Query("limit"), 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(runs)
}

// HandleForceFail fails a run that is stuck in running.
// @Summary Force Fail Run
// @Tags sync
// @Accept json
// @Produce json
// @Param id path int true "Run ID"
// @Param request body ForceFailRequest true "Failure message"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Run not found or not running"
// @Router /sync/runs/{id}/fail [post]
func (h *Handler) HandleForceFail(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid run id"})
	}

	var req ForceFailRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}
	if req.Message == "" {
		req.Message = "marked failed by " + operator(c)
	}

	if err := h.service.ForceFail(c.UserContext(), uint(id), req.Message); err != nil {
		l.Warn("Force fail rejected", zap.Uint64("run_id", id), zap.Error(err))
		return respondError(c, err)
	}
	l.Info("Run force failed", zap.Uint64("run_id", id), zap.String("operator", operator(c)))
	return c.JSON(fiber.Map{"status": "failed"})
}

func operator(c *fiber.Ctx) string {
	if op := c.Get(HeaderOperator); op != "" {
		return op
	}
	return defaultOperator
}

// respondError maps pipeline errors to HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, runlog.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrUnknownSyncType):
		status = fiber.StatusBadRequest
	case errors.Is(err, storage.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, links.ErrTooManyFailures), errors.Is(err, links.ErrBatchFailed):
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
