package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"stashtrack/internal/app"
	"stashtrack/internal/token"
	"stashtrack/internal/util"
)

const defaultMaxUploadBytes = 10 << 20

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	Tokens         *token.Service
	UploadsDir     string
	MaxUploadBytes int64
}

// Server exposes the HTTP API.
type Server struct {
	app            *app.App
	tokens         *token.Service
	mux            *http.ServeMux
	maxUploadBytes int64
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	s := &Server{
		app:            cfg.App,
		tokens:         cfg.Tokens,
		mux:            http.NewServeMux(),
		maxUploadBytes: maxUpload,
	}
	s.routes(cfg.UploadsDir)
	return s
}

// Router returns the configured handler wrapped in the middleware chain.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(
		util.WithRequestLog("stashtrack",
			util.WithSecurityHeaders(
				util.WithCORS(s.mux))))
}

func (s *Server) routes(uploadsDir string) {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/register", s.handleRegister)
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.Handle("/me", s.authenticated(s.handleMe))

	// hierarchy
	s.mux.Handle("/locations", s.authenticated(s.handleLocations))
	s.mux.Handle("/containers", s.authenticated(s.handleContainers))
	s.mux.Handle("/items", s.authenticated(s.handleItems))

	// uploaded pictures are served back under their recorded relative paths
	if strings.TrimSpace(uploadsDir) != "" {
		s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

// auth gate
type authHandler func(http.ResponseWriter, *http.Request, token.Claims)

// authenticated verifies the bearer token before the handler runs. A missing
// token is 401; a malformed, forged, or expired one is 403. No handler touches
// the store before this check passes.
func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		claims, err := s.tokens.Verify(raw)
		if err != nil {
			logger := util.LoggerFromContext(r.Context())
			logger.Warn("token rejected", "path", r.URL.Path, "reason", err.Error())
			if errors.Is(err, token.ErrMissingToken) {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}
		next(w, r, claims)
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// auth handlers
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if _, err := s.app.Register(req.Name, req.Email, req.Username, req.Password); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "User created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	_, signed, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Message: "Login successful", Token: signed})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, claims token.Claims) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	user, err := s.app.CurrentUser(claims.Subject)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Success: true, Name: user.Name, Email: user.Email})
}

// hierarchy handlers
func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request, claims token.Claims) {
	switch r.Method {
	case http.MethodPost:
		payload, pic, closeFn, err := s.parseCreatePayload(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer closeFn()
		loc, err := s.app.CreateLocation(claims.Subject, payload.Name, payload.Description, pic)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"message":  "Location added successfully",
			"location": loc,
		})
	case http.MethodGet:
		locations, err := s.app.ListLocations(claims.Subject)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "locations": locations})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleContainers(w http.ResponseWriter, r *http.Request, claims token.Claims) {
	switch r.Method {
	case http.MethodPost:
		payload, pic, closeFn, err := s.parseCreatePayload(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer closeFn()
		c, err := s.app.CreateContainer(claims.Subject, payload.LocationID, payload.Name, payload.Description, pic)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Container added successfully",
			"container": c,
		})
	case http.MethodGet:
		var (
			containers any
			err        error
		)
		if locationID := strings.TrimSpace(r.URL.Query().Get("location")); locationID != "" {
			containers, err = s.app.ListContainersByLocation(claims.Subject, locationID)
		} else {
			containers, err = s.app.ListContainers(claims.Subject)
		}
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "containers": containers})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request, claims token.Claims) {
	switch r.Method {
	case http.MethodPost:
		payload, pic, closeFn, err := s.parseCreatePayload(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer closeFn()
		item, err := s.app.CreateItem(claims.Subject, payload.ContainerID, payload.Name, payload.Description, pic)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Item added successfully",
			"item":    item,
		})
	case http.MethodGet:
		var (
			items any
			err   error
		)
		if containerID := strings.TrimSpace(r.URL.Query().Get("container")); containerID != "" {
			items, err = s.app.ListItemsByContainer(claims.Subject, containerID)
		} else {
			items, err = s.app.ListItems(claims.Subject)
		}
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "items": items})
	default:
		methodNotAllowed(w)
	}
}

// createPayload carries the fields shared by all three create routes.
type createPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LocationID  string `json:"location_id"`
	ContainerID string `json:"container_id"`
}

// parseCreatePayload accepts either a JSON body or multipart/form-data with
// an optional "picture" file part. The returned close function releases the
// upload once the handler is done with it.
func (s *Server) parseCreatePayload(w http.ResponseWriter, r *http.Request) (createPayload, *app.Picture, func(), error) {
	noop := func() {}
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
		if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
			return createPayload{}, nil, noop, errors.New("Invalid form data")
		}
		payload := createPayload{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			LocationID:  r.FormValue("location_id"),
			ContainerID: r.FormValue("container_id"),
		}
		file, header, err := r.FormFile("picture")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return payload, nil, noop, nil
			}
			return createPayload{}, nil, noop, errors.New("Invalid picture upload")
		}
		pic := &app.Picture{Filename: header.Filename, Reader: file}
		return payload, pic, func() { _ = file.Close() }, nil
	}

	var payload createPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&payload); err != nil {
		return createPayload{}, nil, noop, errors.New("Invalid JSON body")
	}
	return payload, nil, noop, nil
}

// error mapping
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrUserFieldsRequired),
		errors.Is(err, app.ErrLocationNameRequired),
		errors.Is(err, app.ErrContainerFieldsRequired),
		errors.Is(err, app.ErrItemFieldsRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrLocationNotFound),
		errors.Is(err, app.ErrContainerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrDuplicateIdentity):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrUpload):
		// keep the underlying I/O detail out of the response
		util.LoggerFromContext(r.Context()).Error("upload failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, app.ErrUpload.Error())
	default:
		util.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type meResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Success: false, Message: msg})
}
