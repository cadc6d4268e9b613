package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hottakes/hottakes-api/internal/api/middleware"
	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/services"
	"github.com/hottakes/hottakes-api/internal/types"
	"github.com/hottakes/hottakes-api/internal/utils"
	"github.com/hottakes/hottakes-api/internal/validation"
	"github.com/hottakes/hottakes-api/internal/voting"
)

type SauceHandler struct {
	sauceService *services.SauceService
	schemas      *validation.Registry
	baseURL      string
}

func NewSauceHandler(sauceService *services.SauceService, schemas *validation.Registry, baseURL string) *SauceHandler {
	return &SauceHandler{sauceService: sauceService, schemas: schemas, baseURL: baseURL}
}

func scopeOf(c *gin.Context) services.Scope {
	return services.NewScope(middleware.UserID(c))
}

func (h *SauceHandler) ListSauces(c *gin.Context) {
	sauces, err := h.sauceService.List(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SendSuccess(c, sauces)
}

func (h *SauceHandler) GetSauce(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateID(id); err != nil {
		utils.Fail(c, err)
		return
	}

	sauce, err := h.sauceService.Get(c.Request.Context(), scopeOf(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SendSuccess(c, sauce)
}

// CreateSauce expects multipart/form-data with a JSON "sauce" field and an
// "image" file.
func (h *SauceHandler) CreateSauce(c *gin.Context) {
	form, err := parseSauceForm(c, h.sauceService.MaxImageBytes())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer form.Close()

	if form.raw == nil {
		utils.Fail(c, apperr.Validation(apperr.FieldError{
			Location: "form",
			Path:     sauceField,
			Message:  "is required",
		}))
		return
	}
	req, err := validation.Decode[validation.SauceInput](h.schemas, validation.SchemaSauce, form.raw)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if form.image == nil {
		utils.Fail(c, apperr.FileMissing(imageField))
		return
	}

	sauce, err := h.sauceService.Create(c.Request.Context(), scopeOf(c), req, form.image, origin(c, h.baseURL))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SendCreated(c, types.SauceResponse{Message: "sauce saved", Sauce: sauce})
}

// UpdateSauce accepts a JSON body, or multipart/form-data with an optional
// "sauce" field and an optional replacement "image".
func (h *SauceHandler) UpdateSauce(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateID(id); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	scope, err := h.sauceService.CheckOwnership(ctx, scopeOf(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	raw := []byte("{}")
	var image *services.Image
	switch {
	case c.ContentType() == mimeMultipart:
		form, err := parseSauceForm(c, h.sauceService.MaxImageBytes())
		if err != nil {
			utils.Fail(c, err)
			return
		}
		defer form.Close()
		if form.raw != nil {
			raw = form.raw
		}
		image = form.image
	case hasBody(c):
		body, err := readJSON(c)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		if len(body) > 0 {
			raw = body
		}
	}

	req, err := validation.Decode[validation.SauceUpdateInput](h.schemas, validation.SchemaSauceUpdate, raw)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	sauce, err := h.sauceService.Update(ctx, scope, id, req, image, origin(c, h.baseURL))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SendSuccess(c, types.SauceResponse{Message: "sauce updated", Sauce: sauce})
}

func (h *SauceHandler) DeleteSauce(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateID(id); err != nil {
		utils.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	scope, err := h.sauceService.CheckOwnership(ctx, scopeOf(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.sauceService.Delete(ctx, scope, id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SendMessage(c, http.StatusOK, "sauce deleted")
}

// VoteSauce handles {"like": 1 | 0 | -1}.
func (h *SauceHandler) VoteSauce(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateID(id); err != nil {
		utils.Fail(c, err)
		return
	}

	raw, err := readJSON(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	req, err := validation.Decode[validation.VoteInput](h.schemas, validation.SchemaVote, raw)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	action, err := voting.ParseAction(*req.Like)
	if err != nil {
		utils.Fail(c, apperr.Validation(apperr.FieldError{Location: "body", Path: "/like", Message: err.Error()}))
		return
	}

	result, err := h.sauceService.Vote(c.Request.Context(), scopeOf(c), id, action)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	resp := types.VoteResponse{Message: result.Outcome.Message()}
	if result.Outcome.ReportsCounts() {
		resp.Likes = &result.Likes
		resp.Dislikes = &result.Dislikes
	}
	utils.SendSuccess(c, resp)
}
