package server

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franswap/bot-discord-immobilier/internal/catalog"
	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/command/challenge"
	"github.com/franswap/bot-discord-immobilier/internal/command/properties"
	"github.com/franswap/bot-discord-immobilier/internal/interaction"
	"github.com/franswap/bot-discord-immobilier/internal/session"
	"github.com/franswap/bot-discord-immobilier/internal/verify"
)

type fixture struct {
	priv    ed25519.PrivateKey
	store   *session.Store
	handler http.Handler
}

func newFixture(t *testing.T, d Dispatcher) *fixture {
	t.Helper()
	return newFixtureWithTimeout(t, d, time.Second)
}

func newFixtureWithTimeout(t *testing.T, d Dispatcher, timeout time.Duration) *fixture {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	v, err := verify.NewVerifier(hex.EncodeToString(pub))
	require.NoError(t, err)

	f := &fixture{priv: priv, store: session.NewStore(time.Minute)}
	if d == nil {
		reg := command.NewRegistry()
		reg.MustRegister(challenge.New(f.store), properties.New(catalog.Default()))
		d = interaction.New(reg, f.store)
	}
	f.handler = NewRouter(v, d, timeout)
	return f
}

func (f *fixture) post(t *testing.T, body string, signed bool) *httptest.ResponseRecorder {
	t.Helper()
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, InteractionsPath, strings.NewReader(body))
	req.Header.Set(verify.HeaderTimestamp, ts)
	if signed {
		req.Header.Set(verify.HeaderSignature, hex.EncodeToString(ed25519.Sign(f.priv, []byte(ts+body))))
	} else {
		req.Header.Set(verify.HeaderSignature, strings.Repeat("00", ed25519.SignatureSize))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type countingDispatcher struct{ calls int }

func (c *countingDispatcher) Dispatch(context.Context, *interaction.Interaction) *discordgo.InteractionResponse {
	c.calls++
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
}

type slowDispatcher struct{}

func (slowDispatcher) Dispatch(ctx context.Context, _ *interaction.Interaction) *discordgo.InteractionResponse {
	<-ctx.Done()
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
}

func TestPing(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.post(t, `{"type":1,"id":"p1"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, float64(1), decode(t, rec)["type"])
	assert.Zero(t, f.store.Len())
}

func TestUnsignedRequestNeverReachesDispatcher(t *testing.T) {
	d := &countingDispatcher{}
	f := newFixture(t, d)

	rec := f.post(t, `{"type":1}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request signature")
	assert.Zero(t, d.calls)

	rec = f.post(t, `{"type":1}`, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, d.calls)
}

func TestChallengeOverHTTP(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.post(t, `{"type":2,"id":"i1","data":{"name":"challenge","options":[{"value":"rock"}]},"member":{"user":{"id":"u1"}}}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, float64(4), out["type"])
	data := out["data"].(map[string]any)
	rows := data["components"].([]any)
	require.Len(t, rows, 1)
	buttons := rows[0].(map[string]any)["components"].([]any)
	require.Len(t, buttons, 1)
	assert.Equal(t, "accept_i1", buttons[0].(map[string]any)["custom_id"])

	sess, err := f.store.Get("i1")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.OwnerID)
	assert.Equal(t, "rock", sess.String("objectName"))
}

func TestHouseSelectionOverHTTP(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.post(t, `{"type":3,"id":"i2","data":{"custom_id":"house_house3","component_type":2},"member":{"user":{"id":"u1"}}}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	assert.Contains(t, data["content"], "Chalet en Montagne")
	assert.Zero(t, f.store.Len())
}

func TestMalformedComponentIsEphemeral(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.post(t, `{"type":3,"id":"i3","data":{"custom_id":"nodelimiter","component_type":2},"user":{"id":"u1"}}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(discordgo.MessageFlagsEphemeral), data["flags"])
}

func TestCommandWithoutDataIsEphemeral(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.post(t, `{"type":2,"id":"i4","user":{"id":"u1"}}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(discordgo.MessageFlagsEphemeral), data["flags"])
	assert.Equal(t, "Unknown command.", data["content"])
}

func TestLateReplyIsDropped(t *testing.T) {
	f := newFixtureWithTimeout(t, slowDispatcher{}, 20*time.Millisecond)

	rec := f.post(t, `{"type":1}`, true)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"type"`)
}

func TestInvalidJSON(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.post(t, `{"type":`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := New("127.0.0.1:0", http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
