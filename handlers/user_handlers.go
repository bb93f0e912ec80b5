package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"catalog-api/models"
	"catalog-api/repository"
	"catalog-api/utils"
)

// SignUp handles account creation. New accounts get the "user" role; admin
// accounts are promoted out of band.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	// Validate request
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	// Reject duplicate emails
	if _, err := h.Users.FindByEmail(r.Context(), req.Email); err == nil {
		h.ErrorHdlr.HandleBadRequest(w, "Email already registered")
		return
	} else if err != repository.ErrNotFound {
		log.Printf("Error checking existing email: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to create account")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Failed to create account")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     "user",
	}
	if err := h.Users.Insert(r.Context(), &user); err != nil {
		log.Printf("Error creating user: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to create account")
		return
	}

	h.ResponseHdlr.Created(w, "Account created successfully", models.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// Login handles authentication and returns a signed JWT
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	// Validate request
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err == repository.ErrNotFound {
		h.ErrorHdlr.HandleUnauthorized(w, "Invalid email or password")
		return
	}
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		h.ErrorHdlr.HandleUnauthorized(w, "Invalid email or password")
		return
	}

	token, err := utils.GenerateJWT(h.JWTSecret, user.ID.Hex(), user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to log in")
		return
	}

	h.ResponseHdlr.Success(w, "Logged in successfully", models.LoginResponse{
		Token: token,
		User: models.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}
