package handler

import (
	"net/http"

	"github.com/deppfellow/income-api/internal/lib/locale"
	"github.com/deppfellow/income-api/internal/lib/utils"
	"github.com/deppfellow/income-api/internal/middleware"
	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/response"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/labstack/echo/v4"
)

type IncomeCategoryHandler struct {
	Handler
	service IncomeCategoryService
	locale  *locale.Resolver
}

func NewIncomeCategoryHandler(s *server.Server, service IncomeCategoryService, resolver *locale.Resolver) *IncomeCategoryHandler {
	return &IncomeCategoryHandler{
		Handler: NewHandler(s),
		service: service,
		locale:  resolver,
	}
}

// Index returns one category when an id is given and the filtered list
// otherwise. The id always wins over list filters.
func (h *IncomeCategoryHandler) Index(c echo.Context, payload *model.GetIncomeCategoriesPayload) (*response.Envelope, error) {
	lang := h.language(c, payload.Lang)

	if payload.HasID() {
		return h.details(c, payload.ID, lang), nil
	}

	filter := payload.Filter()
	filter.Language = lang
	return h.list(c, filter), nil
}

func (h *IncomeCategoryHandler) list(c echo.Context, filter model.IncomeCategoryFilter) *response.Envelope {
	env := response.New()

	categories, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to list income categories")
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to load the income category list.")
	}
	// An empty result is a failed load, like a service error.
	if len(categories) == 0 {
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to load the income category list.")
	}

	return env.Succeed("Income category list loaded successfully.", map[string]any{
		"count": len(categories),
		"items": categories,
	})
}

// details does not tell a missing category apart from a failed lookup;
// both answer 500.
func (h *IncomeCategoryHandler) details(c echo.Context, rawID, lang string) *response.Envelope {
	env := response.New()

	id, ok := utils.ParseID(rawID)
	if !ok {
		return env.Fail(http.StatusBadRequest, "Invalid arguments. A numeric income category id must be provided.")
	}

	category, err := h.service.Details(c.Request().Context(), id, lang)
	if err != nil || category == nil {
		middleware.GetLogger(c).Error().Err(err).Int64("income_category_id", id).Msg("failed to load income category")
		return env.Fail(http.StatusInternalServerError,
			"An error occurred while trying to load the income category details or there is no income category with this id.")
	}

	return env.Succeed("Income category details loaded successfully.", map[string]any{
		"id":          category.ID,
		"symbol":      category.Symbol,
		"name":        category.Translation.Name,
		"description": category.Translation.Description,
	})
}

// Form creates on POST without id and updates on PUT with id. Any other
// combination is rejected with 405.
func (h *IncomeCategoryHandler) Form(c echo.Context, payload *model.IncomeCategoryFormPayload) (*response.Envelope, error) {
	method := c.Request().Method

	switch {
	case payload.HasID() && method == http.MethodPut:
		return h.update(c, payload), nil
	case !payload.HasID() && method == http.MethodPost:
		return h.create(c, payload), nil
	default:
		return response.New().Fail(http.StatusMethodNotAllowed, "Invalid method."), nil
	}
}

func (h *IncomeCategoryHandler) create(c echo.Context, payload *model.IncomeCategoryFormPayload) *response.Envelope {
	env := response.New()

	if payload.IsEmpty() {
		return env.Fail(http.StatusBadRequest, "Invalid arguments. Params must be provided.")
	}
	payload.Lang = h.language(c, payload.Lang)

	id, err := h.service.Create(c.Request().Context(), payload)
	if err != nil || id == 0 {
		middleware.GetLogger(c).Error().Err(err).Str("symbol", payload.Symbol).Msg("failed to create income category")
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to create an income category entry.")
	}

	return env.Succeed("Income category created successfully.", map[string]any{"id": id})
}

func (h *IncomeCategoryHandler) update(c echo.Context, payload *model.IncomeCategoryFormPayload) *response.Envelope {
	env := response.New()

	if payload.IsEmpty() {
		return env.Fail(http.StatusBadRequest, "Invalid arguments. Params must be provided.")
	}
	payload.Lang = h.language(c, payload.Lang)

	id, err := h.service.Update(c.Request().Context(), payload)
	if err != nil || id == 0 {
		middleware.GetLogger(c).Error().Err(err).Int64("income_category_id", payload.ID).Msg("failed to update income category")
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to update an income category entry.")
	}

	return env.Succeed("Income category updated successfully.", map[string]any{"id": id})
}

func (h *IncomeCategoryHandler) Delete(c echo.Context, payload *model.DeleteIncomeCategoryPayload) (*response.Envelope, error) {
	env := response.New()

	id, ok := utils.ParseID(payload.ID)
	if !ok {
		return env.Fail(http.StatusBadRequest, "Invalid arguments. Numeric id must be provided."), nil
	}

	deleted, err := h.service.Delete(c.Request().Context(), id)
	if err != nil || !deleted {
		middleware.GetLogger(c).Error().Err(err).Int64("income_category_id", id).Msg("failed to delete income category")
		return env.Fail(http.StatusInternalServerError, "An error occurred while trying to delete an income category entry."), nil
	}

	return env.Succeed("Income category deleted successfully.", nil), nil
}

func (h *IncomeCategoryHandler) language(c echo.Context, explicit string) string {
	return h.locale.Resolve(explicit, c.Request().Header.Get("Accept-Language"))
}
