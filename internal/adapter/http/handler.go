package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"actionforge/internal/app/action"
	"actionforge/internal/app/auth"
	"actionforge/internal/app/pending"
	"actionforge/internal/app/ports"
	"actionforge/internal/app/replay"
	"actionforge/internal/app/status"
	"actionforge/internal/domain/queue"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/go-playground/validator/v10"
)

const playerIDHeader = "X-Player-ID"
const playerKeyHeader = "X-Player-Key"

type Handler struct {
	RegisterUC auth.RegisterUseCase
	AuthUC     auth.VerifyUseCase
	StartUC    action.StartUseCase
	ProcessUC  action.ProcessUseCase
	StatusUC   status.UseCase
	PendingUC  pending.UseCase
	ReplayUC   replay.UseCase
	Catalog    catalogLister
	KPI        kpiSnapshotProvider
	Metrics    http.Handler
}

type catalogLister interface {
	Actions() []queue.ActionDefinition
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	player := s.Group("/api/player")
	player.POST("/register", h.register)
	player.POST("/actions/start", h.start)
	player.POST("/actions/process", h.process)
	player.GET("/status", h.status)
	player.GET("/equipment", h.equipment)
	player.GET("/pending", h.pending)
	player.GET("/replay", h.replay)

	s.GET("/api/catalog/actions", h.catalog)
	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body startRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json", nil)
		return
	}
	if err := requestValidate.Struct(body); err != nil {
		writeValidationError(ctx, err)
		return
	}

	resp, err := h.StartUC.Execute(c, action.StartRequest{
		PlayerID:       playerID,
		IdempotencyKey: body.IdempotencyKey,
		Strategy:       queue.Strategy(body.Strategy),
		Actions:        body.queuedActions(),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) process(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.ProcessUC.Execute(c, action.ProcessRequest{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.StatusUC.ActivePlayerInfo(c, status.Request{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) equipment(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.StatusUC.CheckpointEquipments(c, status.Request{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) pending(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.PendingUC.Execute(c, pending.Request{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	q := replayQuery{}
	q.Limit, _ = strconv.Atoi(string(ctx.Query("limit")))
	q.OccurredFrom, _ = strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	q.OccurredTo, _ = strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	if err := requestValidate.Struct(q); err != nil {
		writeValidationError(ctx, err)
		return
	}
	var types []string
	if raw := strings.TrimSpace(string(ctx.Query("types"))); raw != "" {
		types = strings.Split(raw, ",")
	}

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		PlayerID:     playerID,
		Limit:        q.Limit,
		OccurredFrom: q.OccurredFrom,
		OccurredTo:   q.OccurredTo,
		Types:        types,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	resp, err := h.RegisterUC.Execute(c, auth.RegisterRequest{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) catalog(_ context.Context, ctx *app.RequestContext) {
	if h.Catalog == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "catalog not configured", nil)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"actions": h.Catalog.Actions()})
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured", nil)
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingPlayerIDHeader = errors.New("missing x-player-id header")
var ErrMissingPlayerKeyHeader = errors.New("missing x-player-key header")
var ErrMissingPlayerCredentials = errors.New("missing player credentials")

func (h Handler) requireAuthenticatedPlayer(c context.Context, ctx *app.RequestContext) (string, error) {
	playerID := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	playerKey := strings.TrimSpace(string(ctx.GetHeader(playerKeyHeader)))
	if playerID == "" && playerKey == "" {
		return "", ErrMissingPlayerCredentials
	}
	if playerID == "" {
		return "", ErrMissingPlayerIDHeader
	}
	if playerKey == "" {
		return "", ErrMissingPlayerKeyHeader
	}
	if err := h.AuthUC.Execute(c, auth.VerifyRequest{
		PlayerID:  playerID,
		PlayerKey: playerKey,
	}); err != nil {
		return "", err
	}
	return playerID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPlayerCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_credentials", err.Error(), nil)
	case errors.Is(err, ErrMissingPlayerIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error(), nil)
	case errors.Is(err, ErrMissingPlayerKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_key", err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_player_credentials", err.Error(), nil)
	case errors.Is(err, queue.ErrQueueCapacityExceeded):
		writeErrorBody(ctx, consts.StatusConflict, "queue_capacity_exceeded", err.Error(), capacityDetails(err))
	case errors.Is(err, queue.ErrQueueTimeExceeded):
		writeErrorBody(ctx, consts.StatusConflict, "queue_time_exceeded", err.Error(), capacityDetails(err))
	case errors.Is(err, queue.ErrEquipmentNotHeld):
		writeErrorBody(ctx, consts.StatusConflict, "equipment_not_held", err.Error(), validationDetails(err))
	case errors.Is(err, queue.ErrUnknownAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_action", err.Error(), validationDetails(err))
	case errors.Is(err, queue.ErrUnknownChoice):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_choice", err.Error(), validationDetails(err))
	case errors.Is(err, queue.ErrInvalidAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_action", err.Error(), validationDetails(err))
	case errors.Is(err, queue.ErrInvalidStrategy):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_strategy", err.Error(), nil)
	case errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, pending.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error(), nil)
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error(), nil)
	default:
		hlog.Errorf("unhandled request error: %v", err)
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func writeValidationError(ctx *app.RequestContext, err error) {
	var fields []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, fe.Namespace()+":"+fe.Tag())
		}
	}
	var details map[string]any
	if len(fields) > 0 {
		details = map[string]any{"fields": fields}
	}
	writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", "request failed validation", details)
}

func validationDetails(err error) map[string]any {
	var verr *queue.ValidationError
	if errors.As(err, &verr) && verr != nil {
		return map[string]any{"index": verr.Index, "reason": verr.Reason}
	}
	return nil
}

func capacityDetails(err error) map[string]any {
	var cerr *queue.CapacityError
	if errors.As(err, &cerr) && cerr != nil {
		return map[string]any{"requested": cerr.Requested, "limit": cerr.Limit}
	}
	return nil
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string, details map[string]any) {
	body := map[string]any{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	ctx.JSON(status, map[string]any{"error": body})
}
