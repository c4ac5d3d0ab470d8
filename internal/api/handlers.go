package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/GoFutureTeam/gofomentos/internal/auth"
	"github.com/GoFutureTeam/gofomentos/internal/db"
	"github.com/GoFutureTeam/gofomentos/internal/match"
	"github.com/GoFutureTeam/gofomentos/internal/models"
	"github.com/GoFutureTeam/gofomentos/internal/upstream"
)

func (s *Server) handleListEditais(c echo.Context) error {
	q := c.QueryParam("q")

	limit := 20
	offset := 0
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}

	// Semantic ordering when the chat backend can embed the query;
	// plain keyword search otherwise.
	var queryEmbedding []float32
	if q != "" && s.Chat != nil {
		embedCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		vec, err := s.Chat.GenerateEmbedding(embedCtx, q)
		if err != nil {
			s.Logger.Debug("query embedding unavailable", zap.Error(err))
		} else {
			queryEmbedding = vec
		}
	}

	result, err := s.Store.ListEditais(c.Request().Context(), db.ListParams{
		Query:          q,
		QueryEmbedding: queryEmbedding,
		Area:           c.QueryParam("area"),
		Financiador:    c.QueryParam("financiador"),
		Status:         c.QueryParam("status"),
		SortBy:         c.QueryParam("sort"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		s.Logger.Error("failed to list editais", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetEdital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid edital ID"})
	}

	edital, err := s.Store.GetEdital(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Edital não encontrado"})
	}
	return c.JSON(http.StatusOK, edital)
}

func (s *Server) handleGetEditalPDF(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid edital ID"})
	}

	edital, err := s.Store.GetEdital(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Edital não encontrado"})
	}
	if edital.LinkPDF == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Edital sem PDF cadastrado"})
	}

	return c.Redirect(http.StatusFound, edital.LinkPDF)
}

func (s *Server) handleGetFilters(c echo.Context) error {
	options, err := s.Store.GetFilterOptions(c.Request().Context())
	if err != nil {
		s.Logger.Error("failed to aggregate filter options", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, options)
}

func (s *Server) handleMatch(c echo.Context) error {
	var projeto models.Projeto
	if err := c.Bind(&projeto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(projeto.Titulo) == "" && strings.TrimSpace(projeto.Objetivo) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Informe ao menos título ou objetivo do projeto"})
	}

	list, err := s.Store.ListEditais(c.Request().Context(), db.ListParams{
		Status: "open",
		Limit:  500,
	})
	if err != nil {
		s.Logger.Error("failed to load editais for matching", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	results, err := s.Matcher.FindMatches(c.Request().Context(), &projeto, list.Editais)
	if err != nil {
		if errors.Is(err, match.ErrMatchTimeout) {
			return c.JSON(http.StatusGatewayTimeout, map[string]string{
				"error": "Tempo limite excedido ao calcular compatibilidade, tente novamente",
			})
		}
		s.Logger.Error("match failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	if results == nil {
		results = []models.MatchResult{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"matches": results,
		"total":   len(results),
	})
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

type chatRequest struct {
	EditalID string `json:"edital_id"`
	Question string `json:"question"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Pergunta vazia"})
	}

	var noticeContext string
	if req.EditalID != "" {
		id, err := uuid.Parse(req.EditalID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid edital ID"})
		}
		edital, err := s.Store.GetEdital(c.Request().Context(), id)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Edital não encontrado"})
		}
		noticeContext = edital.Apelido + "\n" + edital.Descricao + "\n" + edital.Observacoes
	}

	answer, err := s.Chat.Ask(c.Request().Context(), req.Question, noticeContext)
	if err != nil {
		s.Logger.Error("chat backend failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Serviço de chat indisponível"})
	}

	return c.JSON(http.StatusOK, map[string]string{"answer": answer})
}

// Auth

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Email == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email e senha de no mínimo 8 caracteres são obrigatórios"})
	}

	resp, err := s.Auth.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.Auth.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCreds) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// Projects

func (s *Server) handleCreateProjeto(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var projeto models.Projeto
	if err := c.Bind(&projeto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(projeto.Titulo) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Título do projeto é obrigatório"})
	}

	projeto.UserID = userID
	if err := s.Store.CreateProjeto(c.Request().Context(), &projeto); err != nil {
		s.Logger.Error("failed to create projeto", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, projeto)
}

func (s *Server) handleListProjetos(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	projetos, err := s.Store.ListProjetos(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	if projetos == nil {
		projetos = []models.Projeto{}
	}
	return c.JSON(http.StatusOK, projetos)
}

func (s *Server) handleGetProjeto(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid projeto ID"})
	}

	projeto, err := s.Store.GetProjeto(c.Request().Context(), id, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Projeto não encontrado"})
	}
	return c.JSON(http.StatusOK, projeto)
}

func (s *Server) handleDeleteProjeto(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid projeto ID"})
	}

	if err := s.Store.DeleteProjeto(c.Request().Context(), id, userID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Projeto não encontrado"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Saved notices

func (s *Server) handleSaveEdital(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	editalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid edital ID"})
	}

	if err := s.Store.SaveEdital(c.Request().Context(), userID, editalID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save edital"})
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleUnsaveEdital(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	editalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid edital ID"})
	}

	if err := s.Store.UnsaveEdital(c.Request().Context(), userID, editalID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to unsave edital"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "unsaved"})
}

func (s *Server) handleListSalvos(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	editais, err := s.Store.ListEditaisSalvos(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved editais"})
	}
	if editais == nil {
		editais = []models.Edital{}
	}
	return c.JSON(http.StatusOK, editais)
}

// Admin sync

func (s *Server) handleSync(c echo.Context) error {
	return s.runSync(c, "")
}

func (s *Server) handleSyncSource(c echo.Context) error {
	return s.runSync(c, c.Param("source"))
}

func (s *Server) runSync(c echo.Context, sourceID string) error {
	s.syncMu.Lock()
	if s.syncRunning {
		s.syncMu.Unlock()
		return c.JSON(http.StatusConflict, map[string]string{"error": "A sync is already running"})
	}
	s.syncRunning = true
	s.syncMu.Unlock()

	defer func() {
		s.syncMu.Lock()
		s.syncRunning = false
		s.syncMu.Unlock()
	}()

	registry := s.registry
	if sourceID != "" {
		var filtered []upstream.SourceConfig
		for _, src := range s.registry.Sources {
			if src.ID == sourceID {
				filtered = append(filtered, src)
			}
		}
		if len(filtered) == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Unknown source: " + sourceID})
		}
		registry = &upstream.Registry{Sources: filtered}
	}

	syncer := upstream.NewSyncer(registry, s.catalog, s.Chat, s.Logger)
	stats, err := syncer.Run(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Sync complete",
		"stats":   stats,
	})
}
