package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"actionforge/internal/app/auth"
	"actionforge/internal/app/ports"
	"actionforge/internal/app/status"
	"actionforge/internal/domain/queue"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func TestRequireAuthenticatedPlayer_FromHeaders(t *testing.T) {
	f := newFixture(t)
	playerID, key := f.register(t)

	ctx := authedRequest(playerID, key, "/api/player/status", "")
	got, err := f.h.requireAuthenticatedPlayer(context.Background(), ctx)
	if err != nil {
		t.Fatalf("requireAuthenticatedPlayer error: %v", err)
	}
	if got != playerID {
		t.Fatalf("unexpected player id: %q", got)
	}
}

func TestRequireAuthenticatedPlayer_MissingHeaders(t *testing.T) {
	h := Handler{}

	ctx := &app.RequestContext{}
	if _, err := h.requireAuthenticatedPlayer(context.Background(), ctx); err != ErrMissingPlayerCredentials {
		t.Fatalf("expected ErrMissingPlayerCredentials, got %v", err)
	}

	ctx = &app.RequestContext{}
	ctx.Request.Header.Set(playerIDHeader, "p-1")
	if _, err := h.requireAuthenticatedPlayer(context.Background(), ctx); err != ErrMissingPlayerKeyHeader {
		t.Fatalf("expected ErrMissingPlayerKeyHeader, got %v", err)
	}

	ctx = &app.RequestContext{}
	ctx.Request.Header.Set(playerKeyHeader, "k")
	if _, err := h.requireAuthenticatedPlayer(context.Background(), ctx); err != ErrMissingPlayerIDHeader {
		t.Fatalf("expected ErrMissingPlayerIDHeader, got %v", err)
	}
}

func TestRequireAuthenticatedPlayer_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	playerID, _ := f.register(t)

	ctx := authedRequest(playerID, "wrong", "/api/player/status", "")
	if _, err := f.h.requireAuthenticatedPlayer(context.Background(), ctx); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		name string
	}{
		{&queue.CapacityError{Requested: 4, Limit: 3, Err: queue.ErrQueueCapacityExceeded}, consts.StatusConflict, "queue_capacity_exceeded"},
		{&queue.CapacityError{Requested: 90000, Limit: 86400, Err: queue.ErrQueueTimeExceeded}, consts.StatusConflict, "queue_time_exceeded"},
		{&queue.ValidationError{Index: 1, Reason: "right hand", Err: queue.ErrEquipmentNotHeld}, consts.StatusConflict, "equipment_not_held"},
		{&queue.ValidationError{Index: 0, Reason: "id 9", Err: queue.ErrUnknownAction}, consts.StatusBadRequest, "unknown_action"},
		{queue.ErrUnknownChoice, consts.StatusBadRequest, "unknown_choice"},
		{queue.ErrInvalidAction, consts.StatusBadRequest, "invalid_action"},
		{queue.ErrInvalidStrategy, consts.StatusBadRequest, "invalid_strategy"},
		{status.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{auth.ErrInvalidCredentials, consts.StatusUnauthorized, "invalid_player_credentials"},
		{fmt.Errorf("save: %w", ports.ErrConflict), consts.StatusConflict, "conflict"},
		{ports.ErrNotFound, consts.StatusNotFound, "not_found"},
		{errors.New("boom"), consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.code {
			t.Fatalf("%v: status mismatch: got=%d want=%d", tc.err, got, tc.code)
		}
		if got := errorCode(t, ctx); got != tc.name {
			t.Fatalf("%v: error code mismatch: got=%q want=%q", tc.err, got, tc.name)
		}
	}
}

func TestWriteError_IncludesValidationDetails(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, &queue.ValidationError{Index: 2, Reason: "left hand", Err: queue.ErrEquipmentNotHeld})

	var body map[string]map[string]any
	decodeBody(t, ctx, &body)
	details, _ := body["error"]["details"].(map[string]any)
	if details["index"] != float64(2) || details["reason"] != "left hand" {
		t.Fatalf("unexpected details: %+v", body["error"])
	}
}

func TestStartProcessStatusFlow(t *testing.T) {
	f := newFixture(t)
	playerID, key := f.register(t)
	f.store.SetBalance(playerID, 10, 1)

	body := `{"idempotency_key":"k-1","strategy":"overwrite","actions":[{"action_id":1,"right_hand":10,"timespan":3600}]}`
	ctx := authedRequest(playerID, key, "/api/player/actions/start", body)
	f.h.start(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("start status %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var started struct {
		QueueIDs   []string `json:"queue_ids"`
		Checkpoint int64    `json:"checkpoint"`
	}
	decodeBody(t, ctx, &started)
	if len(started.QueueIDs) != 1 || started.QueueIDs[0] != "q-1" || started.Checkpoint != t0 {
		t.Fatalf("unexpected start response: %+v", started)
	}

	// Retrying the same key replays the stored answer.
	retry := authedRequest(playerID, key, "/api/player/actions/start", body)
	f.h.start(context.Background(), retry)
	if string(retry.Response.Body()) != string(ctx.Response.Body()) {
		t.Fatalf("expected identical replayed response")
	}

	f.advance(time.Hour)
	ctx = authedRequest(playerID, key, "/api/player/pending", "")
	f.h.pending(context.Background(), ctx)
	var preview struct {
		ExperienceDeltas map[string]uint64 `json:"experience_deltas"`
	}
	decodeBody(t, ctx, &preview)
	if preview.ExperienceDeltas["woodcutting"] != 3600 {
		t.Fatalf("unexpected pending preview: %s", ctx.Response.Body())
	}

	ctx = authedRequest(playerID, key, "/api/player/actions/process", "")
	f.h.process(context.Background(), ctx)
	var processed struct {
		XP map[string]uint64 `json:"xp"`
	}
	decodeBody(t, ctx, &processed)
	if processed.XP["woodcutting"] != 3600 {
		t.Fatalf("unexpected process response: %s", ctx.Response.Body())
	}

	ctx = authedRequest(playerID, key, "/api/player/status", "")
	f.h.status(context.Background(), ctx)
	var info status.ActivePlayerInfo
	decodeBody(t, ctx, &info)
	if len(info.QueueIDs) != 0 || info.CurrentIndex != -1 {
		t.Fatalf("expected drained queue, got %+v", info)
	}

	ctx = authedRequest(playerID, key, "/api/player/replay?limit=50&types=action_completed", "")
	f.h.replay(context.Background(), ctx)
	var replayed struct {
		Summary struct {
			Completed int `json:"completed"`
		} `json:"summary"`
	}
	decodeBody(t, ctx, &replayed)
	if replayed.Summary.Completed != 1 {
		t.Fatalf("unexpected replay: %s", ctx.Response.Body())
	}

	if s := f.metrics.Snapshot(); s.ByOperation["start"] != 2 || s.ByOperation["process"] != 1 {
		t.Fatalf("unexpected metrics: %+v", s)
	}
}

func TestStart_RejectsInvalidBodies(t *testing.T) {
	f := newFixture(t)
	playerID, key := f.register(t)

	cases := map[string]struct {
		body string
		code string
	}{
		"bad json":         {`{`, "invalid_json"},
		"missing key":      {`{"strategy":"append","actions":[{"action_id":1,"timespan":60}]}`, "invalid_request"},
		"unknown strategy": {`{"idempotency_key":"k","strategy":"shuffle","actions":[{"action_id":1,"timespan":60}]}`, "invalid_request"},
		"no actions":       {`{"idempotency_key":"k","strategy":"append","actions":[]}`, "invalid_request"},
		"bad style":        {`{"idempotency_key":"k","strategy":"append","actions":[{"action_id":1,"timespan":60,"combat_style":"kick"}]}`, "invalid_request"},
	}
	for name, tc := range cases {
		ctx := authedRequest(playerID, key, "/api/player/actions/start", tc.body)
		f.h.start(context.Background(), ctx)
		if ctx.Response.StatusCode() != consts.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, ctx.Response.StatusCode())
		}
		if got := errorCode(t, ctx); got != tc.code {
			t.Fatalf("%s: expected %s, got %s", name, tc.code, got)
		}
	}
}

func TestStart_EquipmentNotHeld(t *testing.T) {
	f := newFixture(t)
	playerID, key := f.register(t)

	body := `{"idempotency_key":"k-1","strategy":"append","actions":[{"action_id":1,"right_hand":10,"timespan":3600}]}`
	ctx := authedRequest(playerID, key, "/api/player/actions/start", body)
	f.h.start(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	if got := errorCode(t, ctx); got != "equipment_not_held" {
		t.Fatalf("expected equipment_not_held, got %s", got)
	}
}

func TestReplay_RejectsNegativeWindow(t *testing.T) {
	f := newFixture(t)
	playerID, key := f.register(t)

	ctx := authedRequest(playerID, key, "/api/player/replay?occurred_from=-5", "")
	f.h.replay(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
	}
}

func TestCatalogAndKPI(t *testing.T) {
	f := newFixture(t)

	ctx := &app.RequestContext{}
	f.h.catalog(context.Background(), ctx)
	var listed struct {
		Actions []queue.ActionDefinition `json:"actions"`
	}
	decodeBody(t, ctx, &listed)
	if len(listed.Actions) != 1 || listed.Actions[0].ActionID != 1 {
		t.Fatalf("unexpected catalog: %s", ctx.Response.Body())
	}

	ctx = &app.RequestContext{}
	f.h.kpi(context.Background(), ctx)
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("expected kpi 200, got %d", ctx.Response.StatusCode())
	}

	empty := Handler{}
	ctx = &app.RequestContext{}
	empty.kpi(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusNotFound {
		t.Fatalf("expected kpi 404 when not configured, got %d", ctx.Response.StatusCode())
	}
	ctx = &app.RequestContext{}
	empty.catalog(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusNotFound {
		t.Fatalf("expected catalog 404 when not configured, got %d", ctx.Response.StatusCode())
	}
}
