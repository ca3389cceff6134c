package controllers

import (
	"errors"
	"net/http"

	"github.com/Azizbek0606/kitchen-inventory/config"
	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/logger"
	"github.com/Azizbek0606/kitchen-inventory/models"
	"github.com/Azizbek0606/kitchen-inventory/util"

	"gorm.io/gorm"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register creates a new user account. New accounts get the manager role;
// admins are promoted out of band.
func Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.User
	err := database.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		writeError(w, http.StatusBadRequest, "username already taken")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{Username: req.Username, Password: hash, Role: models.RoleManager}
	if err := database.DB.Create(&user).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := util.GenerateJWT(user.ID, user.Username, user.Role, config.JWTSecret())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, Username: user.Username, Role: user.Role})
}

// Login authenticates a user and issues a JWT.
func Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !util.CheckPasswordHash(req.Password, user.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := util.GenerateJWT(user.ID, user.Username, user.Role, config.JWTSecret())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Username: user.Username, Role: user.Role})
}
