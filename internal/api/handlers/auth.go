package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hottakes/hottakes-api/internal/services"
	"github.com/hottakes/hottakes-api/internal/utils"
	"github.com/hottakes/hottakes-api/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
	schemas     *validation.Registry
}

func NewAuthHandler(authService *services.AuthService, schemas *validation.Registry) *AuthHandler {
	return &AuthHandler{authService: authService, schemas: schemas}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	raw, err := readJSON(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	req, err := validation.Decode[validation.SignupInput](h.schemas, validation.SchemaSignup, raw)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if _, err := h.authService.Signup(c.Request.Context(), req); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.SendMessage(c, http.StatusCreated, "user created")
}

func (h *AuthHandler) Login(c *gin.Context) {
	raw, err := readJSON(c)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	req, err := validation.Decode[validation.LoginInput](h.schemas, validation.SchemaLogin, raw)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.SendSuccess(c, response)
}
