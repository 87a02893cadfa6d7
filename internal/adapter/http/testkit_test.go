package httpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	staticcatalog "actionforge/internal/adapter/catalog/static"
	"actionforge/internal/adapter/metrics/inmemory"
	"actionforge/internal/adapter/repo/memory"
	"actionforge/internal/app/action"
	"actionforge/internal/app/auth"
	"actionforge/internal/app/pending"
	"actionforge/internal/app/replay"
	"actionforge/internal/app/shared/engineenv"
	"actionforge/internal/app/status"

	"github.com/cloudwego/hertz/pkg/app"
)

const testCatalogYAML = `
actions:
  - action_id: 1
    skill: woodcutting
    xp_per_hour: 3600
    rate_per_hour: 50
    output_item: 20
    right_hand_items: [10]
`

const t0 int64 = 1_700_000_000

type fixture struct {
	store   *memory.Store
	metrics *inmemory.Recorder
	clock   *time.Time
	h       Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := staticcatalog.Parse([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	store := memory.NewStore()
	now := time.Unix(t0, 0).UTC()
	f := &fixture{store: store, metrics: inmemory.NewRecorder(), clock: &now}
	nowFn := func() time.Time { return *f.clock }
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("q-%d", n)
	}

	tx := memory.NewTxManager(store)
	sessions := memory.NewPlayerSessionRepo(store)
	events := memory.NewEventRepo(store)
	ledger := memory.NewLedger(store)
	credentials := memory.NewPlayerCredentialRepo(store)
	env := engineenv.Loader{
		Balances:   ledger,
		Catalog:    c,
		Randomness: memory.NewWordSource(store),
		Boosts:     memory.NewBoostProvider(store),
	}

	f.h = Handler{
		RegisterUC: auth.RegisterUseCase{Credentials: credentials, SessionRepo: sessions, TxManager: tx, Now: nowFn},
		AuthUC:     auth.VerifyUseCase{Credentials: credentials},
		StartUC: action.StartUseCase{
			TxManager: tx, SessionRepo: sessions, ActionRepo: memory.NewActionExecutionRepo(store),
			EventRepo: events, Rewards: ledger, Env: env, Metrics: f.metrics, NewID: newID, Now: nowFn,
		},
		ProcessUC: action.ProcessUseCase{
			TxManager: tx, SessionRepo: sessions, EventRepo: events, Rewards: ledger,
			Env: env, Metrics: f.metrics, Now: nowFn,
		},
		StatusUC:  status.UseCase{SessionRepo: sessions, Now: nowFn},
		PendingUC: pending.UseCase{SessionRepo: sessions, Env: env, Now: nowFn},
		ReplayUC:  replay.UseCase{Events: events},
		Catalog:   c,
		KPI:       f.metrics,
	}
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

// register creates a player through the handler and returns its credentials.
func (f *fixture) register(t *testing.T) (string, string) {
	t.Helper()
	ctx := &app.RequestContext{}
	f.h.register(context.Background(), ctx)
	if ctx.Response.StatusCode() != 201 {
		t.Fatalf("register status %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp auth.RegisterResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	return resp.PlayerID, resp.PlayerKey
}

func authedRequest(playerID, playerKey, uri, body string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI(uri)
	ctx.Request.Header.Set(playerIDHeader, playerID)
	ctx.Request.Header.Set(playerKeyHeader, playerKey)
	if body != "" {
		ctx.Request.SetBody([]byte(body))
	}
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext, out any) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), out); err != nil {
		t.Fatalf("decode response %q: %v", ctx.Response.Body(), err)
	}
}

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	var body map[string]map[string]any
	decodeBody(t, ctx, &body)
	code, _ := body["error"]["code"].(string)
	return code
}
