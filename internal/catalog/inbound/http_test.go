package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcarehq/mindcare/internal/catalog/entity"
	"github.com/mindcarehq/mindcare/internal/catalog/usecase"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

type fakeUC struct {
	listIn   usecase.ListInput
	itemIn   usecase.CreateItemInput
	uploadIn usecase.CreateUploadInput
}

func (f *fakeUC) ListGuidance(_ context.Context, in usecase.ListInput) ([]entity.Guidance, error) {
	f.listIn = in
	return []entity.Guidance{{ID: 1, Title: "Breathe", IsFeatured: true}}, nil
}

func (f *fakeUC) ListMusic(context.Context) ([]entity.Music, error) {
	return []entity.Music{{ID: 2, Title: "Rain", DurationSeconds: 185}}, nil
}

func (f *fakeUC) ListBoosters(context.Context) ([]entity.Booster, error) { return nil, nil }

func (f *fakeUC) ListMeditations(_ context.Context, in usecase.ListInput) ([]entity.Meditation, error) {
	f.listIn = in
	return nil, nil
}

func (f *fakeUC) ListCategories(context.Context) ([]entity.Category, error) {
	return []entity.Category{{Kind: entity.KindMeditations, Value: "deep-sleep", Label: "Deep Sleep"}}, nil
}

func (f *fakeUC) CreateItem(_ context.Context, in usecase.CreateItemInput) (*usecase.CreateItemOutput, error) {
	f.itemIn = in
	return &usecase.CreateItemOutput{Kind: entity.KindMusic, Item: &entity.Music{ID: 9, Title: in.Payload.GetString("title"), DurationSeconds: 61}}, nil
}

func (f *fakeUC) CreateUpload(_ context.Context, in usecase.CreateUploadInput) (*usecase.UploadOutput, error) {
	f.uploadIn = in
	return &usecase.UploadOutput{Key: "music/9.mp3", URL: "https://signed.test/put", Method: "PUT", ExpiresAt: time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC)}, nil
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type tokens struct {
	admin  string
	member string
}

func setup(t *testing.T) (*router.Router, *fakeUC, tokens) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))
	require.NoError(t, err)

	signer, err := jwt.NewHS512(jwt.Config{Secret: []byte(strings.Repeat("k", 64)), Issuer: "test", TTL: time.Hour})
	require.NoError(t, err)

	var tok tokens
	tok.admin, _, err = signer.Generate(jwt.Subject{UserID: 1, Email: "admin@x.com", Role: "admin"})
	require.NoError(t, err)
	tok.member, _, err = signer.Generate(jwt.Subject{UserID: 2, Email: "a@x.com", Role: "member"})
	require.NoError(t, err)

	m, err := model.NewModelFromString(rbacModel)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	_, err = e.AddPolicy("admin", "catalog", "write")
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       fixedID("cid"),
		JWT:        signer,
		Instrument: instrument.NewNoop(),
		Enforcer:   e,
	})
	uc := &fakeUC{}
	RegisterHTTPEndpoint(r, uc)

	return r, uc, tok
}

func do(r http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestListsArePublic(t *testing.T) {
	r, uc, _ := setup(t)

	rec, out := do(r, http.MethodGet, "/api/v1/catalog/guidance?category=sleep&featured=true", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sleep", uc.listIn.Category)
	require.NotNil(t, uc.listIn.Featured)
	assert.True(t, *uc.listIn.Featured)
	assert.Equal(t, "1", out["data"].([]any)[0].(map[string]any)["id"])

	rec, out = do(r, http.MethodGet, "/api/v1/catalog/music", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "03:05", out["data"].([]any)[0].(map[string]any)["duration"])

	rec, out = do(r, http.MethodGet, "/api/v1/catalog/boosters", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, out["data"])

	rec, _ = do(r, http.MethodGet, "/api/v1/catalog/meditations?featured=often", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCategories(t *testing.T) {
	r, _, _ := setup(t)

	rec, out := do(r, http.MethodGet, "/api/v1/catalog/categories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := out["data"].(map[string]any)
	assert.Equal(t, []any{}, data["guidance"])
	med := data["meditations"].([]any)
	require.Len(t, med, 1)
	assert.Equal(t, "Deep Sleep", med[0].(map[string]any)["label"])
}

func TestCreateItem_RequiresAdmin(t *testing.T) {
	r, uc, tok := setup(t)
	body := `{"title":"Rain","audio_url":"music/9.mp3"}`

	rec, _ := do(r, http.MethodPost, "/api/v1/catalog/items/music", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(r, http.MethodPost, "/api/v1/catalog/items/music", body, tok.member)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, out := do(r, http.MethodPost, "/api/v1/catalog/items/music", body, tok.admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "music", uc.itemIn.Kind)
	assert.Equal(t, "music/9.mp3", uc.itemIn.Payload.GetString("audio_url"))

	data := out["data"].(map[string]any)
	assert.Equal(t, "music", data["kind"])
	assert.Equal(t, "01:01", data["item"].(map[string]any)["duration"])

	rec, _ = do(r, http.MethodPost, "/api/v1/catalog/items/music", `[1,2]`, tok.admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUpload(t *testing.T) {
	r, uc, tok := setup(t)

	rec, out := do(r, http.MethodPost, "/api/v1/catalog/uploads", `{"kind":"music","file_name":"rain.mp3","content_type":"audio/mpeg"}`, tok.admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "rain.mp3", uc.uploadIn.FileName)

	data := out["data"].(map[string]any)
	assert.Equal(t, "music/9.mp3", data["key"])
	assert.Equal(t, "PUT", data["method"])

	rec, _ = do(r, http.MethodPost, "/api/v1/catalog/uploads", `{"kind":"music"}`, tok.member)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
