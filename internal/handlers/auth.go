package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/smartasset-org/smartasset-backend/internal/services"
)

type AuthHandler struct {
  authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Email     string `json:"email"`
    Password  string `json:"password"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, user)
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  pair, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, pair)
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  var req struct {
    RefreshToken string `json:"refresh_token"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  pair, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, pair)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.Logout(c.Request.Context()); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
