// Copyright (c) 2026 Warden. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buivan/warden/internal/platform/constants"
	"github.com/buivan/warden/internal/platform/middleware"
	requestutil "github.com/buivan/warden/internal/platform/request"
	"github.com/buivan/warden/internal/platform/respond"
	"github.com/buivan/warden/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// This handler covers the public identity entry points (registration and
// login). Everything behind a session gate lives in the account package.
type Handler struct {
	authService  *Service
	cookieDomain string
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, cookieDomain string) *Handler {
	return &Handler{authService: service, cookieDomain: cookieDomain}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and sets the session cookie.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for email conflicts, derives the salted
credential digest, and persists a new account. Request metadata (client IP,
user agent, preferred language) is captured once here, informational only.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 200: User: Created profile, secret fields omitted
  - 400: ErrInvalidJSON: Bad input, validation failure, or duplicate email
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:       input.Username,
		Email:          input.Email,
		Password:       input.Password,
		IP:             middleware.RealIP(request),
		UserAgent:      request.UserAgent(),
		AcceptLanguage: request.Header.Get(constants.HeaderAcceptLanguage),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Login authenticates a user and establishes the session.

POST /api/v1/auth/login

Description: Verifies the password digest, mints a fresh session token, and
injects it as a cookie. Any previous session for the account is replaced.
The cookie is scoped to the configured domain and the root path; no
Secure/HttpOnly/SameSite attributes are set.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: User: Authenticated profile with session expiry
  - 400: ErrInvalidJSON: Missing fields or unknown email
  - 403: ErrForbidden: Password mismatch
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:    constants.SessionCookieName,
		Value:   user.Session.Token,
		Domain:  handler.cookieDomain,
		Path:    constants.SessionCookiePath,
		Expires: user.Session.ExpiresAt,
	})

	respond.OK(writer, user)
}
