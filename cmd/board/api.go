package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"board-lab/domain"
	"board-lab/errors"
	"board-lab/internal"
	"board-lab/services"

	"github.com/google/uuid"
)

const shutdownGrace = 5 * time.Second

// apiServer exposes the session service as a plain request/response JSON
// API. Live broadcast delivery stays with the pluggable transports; HTTP
// clients catch up by polling the updates endpoint with their last seen
// sequence.
type apiServer struct {
	log     *slog.Logger
	service services.ISessionService
}

func serveAPI(ctx context.Context, log *slog.Logger, config internal.Config, service services.ISessionService) <-chan error {
	api := &apiServer{log: log, service: service}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions", api.createSession)
	mux.HandleFunc("GET /v1/sessions", api.listSessions)
	mux.HandleFunc("GET /v1/sessions/{id}", api.getSession)
	mux.HandleFunc("POST /v1/rejoin", api.rejoin)
	mux.HandleFunc("POST /v1/sessions/{id}/join", api.join)
	mux.HandleFunc("POST /v1/sessions/{id}/leave", api.leave)
	mux.HandleFunc("POST /v1/sessions/{id}/end", api.endSession)
	mux.HandleFunc("POST /v1/sessions/{id}/permissions", api.updatePermissions)
	mux.HandleFunc("POST /v1/sessions/{id}/updates", api.appendUpdate)
	mux.HandleFunc("GET /v1/sessions/{id}/updates", api.updatesSince)
	mux.HandleFunc("POST /v1/updates/{id}/applied", api.markApplied)
	mux.HandleFunc("GET /v1/sessions/{id}/conflicts", api.pendingConflicts)
	mux.HandleFunc("POST /v1/sessions/{id}/conflicts/{conflict}/resolve", api.resolve)
	mux.HandleFunc("GET /v1/sessions/{id}/presence", api.presence)
	mux.HandleFunc("POST /v1/sessions/{id}/cursor", api.moveCursor)
	mux.HandleFunc("GET /v1/sessions/{id}/search", api.search)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Session API listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("api server error: %w", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	return errChan
}

func (a *apiServer) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocumentID string `json:"document_id"`
		OwnerID    string `json:"owner_id"`
		OwnerName  string `json:"owner_name"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	session, err := a.service.CreateSession(r.Context(), domain.CreateSessionCommand{
		DocumentID: body.DocumentID,
		OwnerID:    body.OwnerID,
		OwnerName:  body.OwnerName,
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusCreated, session)
}

func (a *apiServer) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := a.service.Sessions(r.Context(), r.URL.Query().Get("document"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusOK, sessions)
}

func (a *apiServer) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	session, err := a.service.Session(r.Context(), sessionID)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusOK, session)
}

func (a *apiServer) join(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	var body struct {
		UserID      string `json:"user_id"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	result, err := a.service.Join(r.Context(), domain.JoinSessionCommand{
		SessionID:   sessionID,
		UserID:      body.UserID,
		DisplayName: body.DisplayName,
		Role:        domain.Role(body.Role),
	}, nil)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusOK, result)
}

func (a *apiServer) rejoin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	result, err := a.service.Rejoin(r.Context(), body.Token, nil)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusOK, result)
}

func (a *apiServer) leave(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	var body struct {
		UserID string `json:"user_id"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	if err := a.service.Leave(r.Context(), domain.LeaveSessionCommand{
		SessionID: sessionID,
		UserID:    body.UserID,
	}); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *apiServer) endSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	var body struct {
		ActorID string `json:"actor_id"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	if err := a.service.EndSession(r.Context(), domain.EndSessionCommand{
		SessionID: sessionID,
		ActorID:   body.ActorID,
	}); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *apiServer) updatePermissions(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	var body struct {
		ActorID  string `json:"actor_id"`
		TargetID string `json:"target_id"`
		Role     string `json:"role"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	if err := a.service.UpdatePermissions(r.Context(), domain.UpdatePermissionsCommand{
		SessionID: sessionID,
		ActorID:   body.ActorID,
		TargetID:  body.TargetID,
		Role:      domain.Role(body.Role),
	}); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *apiServer) appendUpdate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	var body struct {
		AuthorID string          `json:"author_id"`
		Type     string          `json:"type"`
		Payload  json.RawMessage `json:"payload"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	update, err := a.service.AppendUpdate(r.Context(), domain.AppendUpdateCommand{
		SessionID: sessionID,
		AuthorID:  body.AuthorID,
		Type:      domain.UpdateType(body.Type),
		Payload:   []byte(body.Payload),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusCreated, update)
}

func (a *apiServer) updatesSince(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	after, _ := strconv.ParseUint(r.URL.Query().Get("after"), 10, 64)
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	updates, err := a.service.UpdatesSince(r.Context(), sessionID, after, limit)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusOK, updates)
}

func (a *apiServer) markApplied(w http.ResponseWriter, r *http.Request) {
	updateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		a.badRequest(w, "update id must be a uuid")
		return
	}
	if err := a.service.MarkApplied(r.Context(), updateID); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *apiServer) pendingConflicts(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	conflicts, err := a.service.PendingConflicts(r.Context(), sessionID)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusOK, conflicts)
}

func (a *apiServer) resolve(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	conflictID, err := uuid.Parse(r.PathValue("conflict"))
	if err != nil {
		a.badRequest(w, "conflict id must be a uuid")
		return
	}
	var body struct {
		Resolution    string          `json:"resolution"`
		ResolvedBy    string          `json:"resolved_by"`
		MergedPayload json.RawMessage `json:"merged_payload"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	conflict, err := a.service.Resolve(r.Context(), domain.ResolveConflictCommand{
		SessionID:     sessionID,
		ConflictID:    conflictID,
		Resolution:    domain.Resolution(body.Resolution),
		ResolvedBy:    body.ResolvedBy,
		MergedPayload: []byte(body.MergedPayload),
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusOK, conflict)
}

func (a *apiServer) presence(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	a.reply(w, http.StatusOK, a.service.Presence(sessionID))
}

func (a *apiServer) moveCursor(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	var body struct {
		UserID string  `json:"user_id"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}
	if !a.decode(w, r, &body) {
		return
	}
	if err := a.service.MoveCursor(domain.MoveCursorCommand{
		SessionID: sessionID,
		UserID:    body.UserID,
		X:         body.X,
		Y:         body.Y,
	}); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *apiServer) search(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := a.sessionID(w, r)
	if !ok {
		return
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	hits, total, err := a.service.SearchAnnotations(r.Context(), sessionID, r.URL.Query().Get("q"), offset)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.reply(w, http.StatusOK, map[string]any{"total": total, "hits": hits})
}

func (a *apiServer) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		a.badRequest(w, "session id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}

func (a *apiServer) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		a.badRequest(w, "malformed request body: "+err.Error())
		return false
	}
	return true
}

func (a *apiServer) reply(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Warn("Response encoding failed", "error", err)
	}
}

func (a *apiServer) badRequest(w http.ResponseWriter, message string) {
	a.reply(w, http.StatusBadRequest, map[string]string{"error": message})
}

// fail maps the error kind taxonomy onto HTTP statuses so clients can
// branch without parsing messages.
func (a *apiServer) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.KindOf(err) {
	case errors.KindValidation:
		status = http.StatusBadRequest
	case errors.KindNotFound:
		status = http.StatusNotFound
	case errors.KindUnauthorized:
		status = http.StatusForbidden
	case errors.KindAlreadyActive, errors.KindStorageConflict:
		status = http.StatusConflict
	case errors.KindStorageUnavailable:
		status = http.StatusServiceUnavailable
	}
	a.reply(w, status, map[string]string{"error": err.Error()})
}
