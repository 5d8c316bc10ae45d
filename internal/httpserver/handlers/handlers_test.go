package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pingodeleite/internal/cache"
	"pingodeleite/internal/models"
	"pingodeleite/internal/remote"
	"pingodeleite/internal/repository"
)

var errDown = errors.New("connection reset by peer")

// downRemote is a RemoteStore that is permanently unreachable, forcing every
// repository operation onto its cache path.
type downRemote struct{}

func (downRemote) ListClients(ctx context.Context) ([]models.Client, error) { return nil, errDown }
func (downRemote) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return nil, errDown
}
func (downRemote) InsertClient(ctx context.Context, c models.Client) (models.Client, error) {
	return models.Client{}, errDown
}
func (downRemote) ReplaceClient(ctx context.Context, id string, c models.Client) (bool, error) {
	return false, errDown
}
func (downRemote) UpsertClient(ctx context.Context, c models.Client) error { return errDown }
func (downRemote) DeleteClient(ctx context.Context, id string) error       { return errDown }
func (downRemote) ListEvents(ctx context.Context) ([]models.Event, error)  { return nil, errDown }
func (downRemote) ListEventsByClient(ctx context.Context, clientID string) ([]models.Event, error) {
	return nil, errDown
}
func (downRemote) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return nil, errDown
}
func (downRemote) InsertEvent(ctx context.Context, e models.Event) (models.Event, error) {
	return models.Event{}, errDown
}
func (downRemote) ReplaceEvent(ctx context.Context, id string, e models.Event) (bool, error) {
	return false, errDown
}
func (downRemote) UpsertEvent(ctx context.Context, e models.Event) error { return errDown }
func (downRemote) DeleteEvent(ctx context.Context, id string) error      { return errDown }
func (downRemote) ListUsers(ctx context.Context) ([]models.User, error)  { return nil, errDown }
func (downRemote) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, errDown
}
func (downRemote) InsertUser(ctx context.Context, u models.User) (models.User, error) {
	return models.User{}, errDown
}
func (downRemote) UpsertUser(ctx context.Context, u models.User) error            { return errDown }
func (downRemote) InsertLog(ctx context.Context, entry models.LogEntry) error     { return errDown }
func (downRemote) UpsertLog(ctx context.Context, entry models.LogEntry) error     { return errDown }
func (downRemote) ListLogs(ctx context.Context, limit int64) ([]models.LogEntry, error) {
	return nil, errDown
}

func newOfflineRepos(t *testing.T) *repository.Repos {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), func() bool { return false })
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return repository.New(downRemote{}, c, zap.NewNop().Sugar())
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func withURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateClient_OfflineDegradesToLocal(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	rec := doJSON(t, CreateClient(repos.Clients, repos.Logs, lg),
		http.MethodPost, "/v1/clients", `{"nome":"Maria Silva","cpfCnpj":"12345678901"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "local", rec.Header().Get("X-Data-Origin"))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var created models.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Maria Silva", created.Name)
	require.Equal(t, "123.456.789-01", created.CpfCnpj)
	require.Equal(t, models.OriginLocal, created.Origin)
}

func TestCreateClient_ValidationError(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	rec := doJSON(t, CreateClient(repos.Clients, repos.Logs, lg),
		http.MethodPost, "/v1/clients", `{"nome":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "nome")
}

func TestCreateClient_MalformedBody(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	rec := doJSON(t, CreateClient(repos.Clients, repos.Logs, lg),
		http.MethodPost, "/v1/clients", `{"nome":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetClient_NotFound(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	r := httptest.NewRequest(http.MethodGet, "/v1/clients/nope", nil)
	r = withURLParam(r, "id", "nope")
	rec := httptest.NewRecorder()
	GetClient(repos.Clients, lg).ServeHTTP(rec, r)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListClients_ServesCacheWhileOffline(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	_, _, err := repos.Clients.Create(context.Background(), models.Client{Name: "Maria"})
	require.NoError(t, err)

	rec := doJSON(t, ListClients(repos.Clients, lg), http.MethodGet, "/v1/clients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "local", rec.Header().Get("X-Data-Origin"))

	var cs []models.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cs))
	require.Len(t, cs, 1)
}

func TestPriceEvent_Preview(t *testing.T) {
	t.Parallel()
	lg := zap.NewNop().Sugar()

	body := `{
		"baloes": {
			"nacionalidade": "Nacional",
			"customizacao": "Customizado",
			"preenchimento": "Bom Preenchimento",
			"metros": 5,
			"shine": 2
		}
	}`
	rec := doJSON(t, PriceEvent(lg), http.MethodPost, "/v1/events/price", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.InDelta(t, 990, out["precoTotal"], 1e-9)
}

func TestRegisterAndLogin_Offline(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	rec := doJSON(t, Register(repos.Users, lg),
		http.MethodPost, "/v1/auth/register", `{"name":"Ana","email":"ana@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "local", rec.Header().Get("X-Data-Origin"))
	require.NotContains(t, rec.Body.String(), "s3cret")

	rec = doJSON(t, Login(repos.Users, lg),
		http.MethodPost, "/v1/auth/login", `{"email":"ana@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	require.Equal(t, "ana@example.com", out.User.Email)

	rec = doJSON(t, Login(repos.Users, lg),
		http.MethodPost, "/v1/auth/login", `{"email":"ana@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserByEmail_RequiresQuery(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	rec := doJSON(t, UserByEmail(repos.Users, lg), http.MethodGet, "/v1/users/by-email", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLog_AlwaysAccepted(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	rec := doJSON(t, CreateLog(repos.Logs, lg),
		http.MethodPost, "/v1/logs", `{"userName":"Ana","action":"abrir painel","success":true}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var stored models.LogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	require.NotEmpty(t, stored.ID)
	require.NotEmpty(t, stored.Timestamp)

	rec = doJSON(t, RecentLogs(repos.Logs, lg), http.MethodGet, "/v1/logs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "local", rec.Header().Get("X-Data-Origin"))
}

func TestDBStatus_NoConnectionString(t *testing.T) {
	t.Parallel()
	lg := zap.NewNop().Sugar()
	rc := remote.NewWithDialer("", nil, lg)

	rec := doJSON(t, DBStatus(rc, lg), http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st models.DBStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Equal(t, "disconnected", st.Status)
	_, err := time.Parse(time.RFC3339, st.Timestamp)
	require.NoError(t, err)
}

func TestResync_ReportsStuckKeys(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	_, _, err := repos.Clients.Create(context.Background(), models.Client{Name: "Maria"})
	require.NoError(t, err)

	rec := doJSON(t, Resync(repos, lg), http.MethodPost, "/v1/sync", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Results []repository.SyncResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Results, 1)
	require.Equal(t, repository.KeyClients, out.Results[0].Key)
	require.NotEmpty(t, out.Results[0].Error)
}

func TestAnalytics_OfflineEmpty(t *testing.T) {
	t.Parallel()
	repos := newOfflineRepos(t)
	lg := zap.NewNop().Sugar()

	rec := doJSON(t, Analytics(repos.Events, repos.Clients, lg), http.MethodGet, "/v1/dashboard/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "local", rec.Header().Get("X-Data-Origin"))
	require.Contains(t, rec.Body.String(), "mostRequestedItem")
}
