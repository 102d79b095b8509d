package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KeenIsHere/reactecom/pkg/audit"
	"github.com/KeenIsHere/reactecom/pkg/auth"
	"github.com/KeenIsHere/reactecom/pkg/contextkeys"
	"github.com/KeenIsHere/reactecom/pkg/httputil"
	"github.com/KeenIsHere/reactecom/pkg/observability"
)

// AuthHandlers handles registration and login requests.
type AuthHandlers struct {
	registration *auth.RegistrationService
	login        *auth.LoginService
	recorder     *audit.Recorder
	logger       *observability.Logger
	metrics      *observability.Metrics
}

// NewAuthHandlers creates the auth handlers. recorder and metrics may be
// nil.
func NewAuthHandlers(registration *auth.RegistrationService, login *auth.LoginService, recorder *audit.Recorder, logger *observability.Logger, metrics *observability.Metrics) *AuthHandlers {
	return &AuthHandlers{
		registration: registration,
		login:        login,
		recorder:     recorder,
		logger:       logger,
		metrics:      metrics,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/register", h.register).Methods("POST")
	router.HandleFunc("/auth/login", h.loginHandler).Methods("POST")
}

// register handles POST /auth/register
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if httputil.IsJSONRequest(r) {
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.WriteBadRequest(w, "invalid request body")
			return
		}
	} else {
		req.Email = httputil.FormValue(r, "email")
		req.Password = httputil.FormValue(r, "password")
		req.FullName = httputil.FormValue(r, "full_name")
	}

	userID, err := h.registration.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.registerError(w, r, req.Email, err)
		return
	}

	h.countRegistration("success")
	h.recorder.Record(r.Context(), audit.Event{
		Action:    audit.ActionRegister,
		UserID:    userID,
		RequestID: contextkeys.RequestID(r.Context()),
		RemoteIP:  r.RemoteAddr,
		Outcome:   "success",
	})
	httputil.WriteCreated(w, "User registered successfully", map[string]int64{"user_id": userID})
}

func (h *AuthHandlers) registerError(w http.ResponseWriter, r *http.Request, email string, err error) {
	switch {
	case auth.IsMissingField(err):
		h.countRegistration("missing_fields")
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, auth.ErrDuplicateEmail):
		h.countRegistration("duplicate_email")
		h.recorder.Record(r.Context(), audit.Event{
			Action:    audit.ActionRegister,
			RequestID: contextkeys.RequestID(r.Context()),
			RemoteIP:  r.RemoteAddr,
			Outcome:   "duplicate_email",
			Detail:    map[string]string{"email": email},
		})
		httputil.WriteConflict(w, "Email is already registered")
	default:
		h.countRegistration("error")
		h.logger.WithError(err).
			WithField("request_id", contextkeys.RequestID(r.Context())).
			Error("Registration failed")
		httputil.WriteInternalError(w)
	}
}

// loginHandler handles POST /auth/login
func (h *AuthHandlers) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if httputil.IsJSONRequest(r) {
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.WriteBadRequest(w, "invalid request body")
			return
		}
	} else {
		req.Email = httputil.FormValue(r, "email")
		req.Password = httputil.FormValue(r, "password")
	}

	result, err := h.login.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.loginError(w, r, req.Email, err)
		return
	}

	h.countLogin("success")
	if h.metrics != nil {
		h.metrics.TokensIssuedTotal.Inc()
	}
	h.recorder.Record(r.Context(), audit.Event{
		Action:    audit.ActionLogin,
		UserID:    result.UserID,
		RequestID: contextkeys.RequestID(r.Context()),
		RemoteIP:  r.RemoteAddr,
		Outcome:   "success",
	})
	httputil.WriteTokenIssued(w, "User logged in successfully", result.Token, map[string]interface{}{
		"user_id": result.UserID,
		"role":    result.Role,
	})
}

func (h *AuthHandlers) loginError(w http.ResponseWriter, r *http.Request, email string, err error) {
	switch {
	case auth.IsMissingField(err):
		h.countLogin("missing_fields")
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.countLogin("invalid_credentials")
		h.recorder.Record(r.Context(), audit.Event{
			Action:    audit.ActionLogin,
			RequestID: contextkeys.RequestID(r.Context()),
			RemoteIP:  r.RemoteAddr,
			Outcome:   "invalid_credentials",
			Detail:    map[string]string{"email": email},
		})
		httputil.WriteUnauthorized(w, "Invalid email or password")
	default:
		h.countLogin("error")
		h.logger.WithError(err).
			WithField("request_id", contextkeys.RequestID(r.Context())).
			Error("Login failed")
		httputil.WriteInternalError(w)
	}
}

func (h *AuthHandlers) countRegistration(outcome string) {
	if h.metrics != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *AuthHandlers) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}
