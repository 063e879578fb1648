package server

import (
	"log/slog"
	"net/http"
	"pair-lab/auth"
	"pair-lab/domain"
	"pair-lab/errors"
	"pair-lab/projection"
	"pair-lab/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	log            *slog.Logger
	sessionService services.ISessionService
}

func NewSessionHandler(log *slog.Logger, sessionService services.ISessionService) *SessionHandler {
	return &SessionHandler{log: log, sessionService: sessionService}
}

type createSessionRequest struct {
	Problem    string `json:"problem"`
	Difficulty string `json:"difficulty"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserImage string `json:"userImage"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	caller, ok := auth.Caller(c)
	if !ok {
		h.fail(c, errors.ErrMissingAuth)
		return
	}
	var body createSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, errors.ErrInvalidProblem)
		return
	}
	session, err := h.sessionService.Create(c.Request.Context(), domain.CreateSessionCommand{
		Problem:    body.Problem,
		Difficulty: body.Difficulty,
		Host:       caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	view, _ := projection.Project(session, domain.AccessFull)
	c.JSON(http.StatusCreated, gin.H{"session": view})
}

func (h *SessionHandler) ListActive(c *gin.Context) {
	caller, _ := auth.Caller(c)
	sessions, err := h.sessionService.ListActive(c.Request.Context(), caller.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": nonNil(sessions)})
}

func (h *SessionHandler) ListRecent(c *gin.Context) {
	caller, _ := auth.Caller(c)
	sessions, err := h.sessionService.ListRecent(c.Request.Context(), caller.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": nonNil(sessions)})
}

func (h *SessionHandler) Get(c *gin.Context) {
	caller, _ := auth.Caller(c)
	view, err := h.sessionService.Get(c.Request.Context(), c.Param("id"), caller.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

func (h *SessionHandler) Join(c *gin.Context) {
	caller, _ := auth.Caller(c)
	session, err := h.sessionService.Join(c.Request.Context(), domain.JoinSessionCommand{
		SessionID: domain.SessionID(c.Param("id")),
		Caller:    caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	view, _ := projection.Project(session, domain.AccessFull)
	c.JSON(http.StatusOK, gin.H{"session": view})
}

func (h *SessionHandler) End(c *gin.Context) {
	caller, _ := auth.Caller(c)
	session, err := h.sessionService.End(c.Request.Context(), domain.EndSessionCommand{
		SessionID: domain.SessionID(c.Param("id")),
		Caller:    caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	view, _ := projection.Project(session, domain.AccessFull)
	c.JSON(http.StatusOK, gin.H{"session": view, "msg": "Session ended successfully"})
}

func (h *SessionHandler) Token(c *gin.Context) {
	caller, _ := auth.Caller(c)
	credential, err := h.sessionService.IssueCredential(c.Request.Context(), c.Query("sessionId"), caller)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		Token:     credential.Token,
		UserID:    credential.UserID,
		UserName:  credential.UserName,
		UserImage: credential.UserImage,
	})
}

func (h *SessionHandler) fail(c *gin.Context, err error) {
	status, msg := errors.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", "path", c.FullPath(), "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"msg": msg})
}

func nonNil(sessions []projection.SessionView) []projection.SessionView {
	if sessions == nil {
		return []projection.SessionView{}
	}
	return sessions
}
