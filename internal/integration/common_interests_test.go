package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"interest-match/internal/app"
	"interest-match/internal/config"
	"interest-match/internal/database"
	"interest-match/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User struct {
		PublicID uuid.UUID `json:"public_id"`
		Email    string    `json:"email"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

type userInterestItem struct {
	ID         int64     `json:"id"`
	InterestID int64     `json:"interest_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type matchPage struct {
	Count   int `json:"count"`
	Results []struct {
		PublicID            uuid.UUID `json:"public_id"`
		SharedInterestCount int       `json:"shared_interest_count"`
	} `json:"results"`
}

type testUser struct {
	publicID uuid.UUID
	email    string
	token    string
}

type fixture struct {
	app        *fiber.App
	db         database.DB
	categoryID int64
	interests  []int64
	emails     []string
}

func TestIntegration_CommonInterestsFeed(t *testing.T) {
	f := setup(t)

	u := f.register(t, "u")
	v := f.register(t, "v")
	w := f.register(t, "w")
	x := f.register(t, "x")

	a, b, c := f.interests[0], f.interests[1], f.interests[2]
	f.bulk(t, u, a, b)
	f.bulk(t, v, a, b, c)
	f.bulk(t, w, a)
	f.bulk(t, x, c)

	var page matchPage
	status := f.call(t, http.MethodGet, "/api/v1/matching-profiles", u.token, nil, &page)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, page.Results, 2)
	assert.Equal(t, v.publicID, page.Results[0].PublicID)
	assert.Equal(t, 2, page.Results[0].SharedInterestCount)
	assert.Equal(t, w.publicID, page.Results[1].PublicID)
	assert.Equal(t, 1, page.Results[1].SharedInterestCount)

	status = f.call(t, http.MethodGet, "/api/v1/matching-profiles", "", nil, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, page.Results)
}

func TestIntegration_BulkReplaceIsIdempotent(t *testing.T) {
	f := setup(t)
	u := f.register(t, "bulk")

	first := f.bulk(t, u, f.interests[0], f.interests[1], f.interests[1])
	require.Len(t, first, 2)

	second := f.bulk(t, u, f.interests[1], f.interests[0])
	assert.Equal(t, first, second)

	third := f.bulk(t, u, f.interests[1], f.interests[2])
	require.Len(t, third, 2)
	kept := map[int64]userInterestItem{}
	for _, it := range first {
		kept[it.InterestID] = it
	}
	for _, it := range third {
		if it.InterestID == f.interests[1] {
			assert.Equal(t, kept[it.InterestID].ID, it.ID)
		}
	}

	var bad semanticResponse
	status := f.raw(t, http.MethodPut, "/api/v1/user-interests/bulk", u.token, map[string]any{"interest_ids": []int64{f.interests[0], -1, 987654321}}, &bad)
	require.Equal(t, http.StatusBadRequest, status)

	var after []userInterestItem
	f.call(t, http.MethodGet, "/api/v1/user-interests", u.token, nil, &after)
	assert.Equal(t, third, after)
}

func TestIntegration_ConcurrentBulkReplaceSerializes(t *testing.T) {
	f := setup(t)
	u := f.register(t, "race")

	sets := [][]int64{
		{f.interests[0], f.interests[1]},
		{f.interests[2]},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(set []int64) {
			defer wg.Done()
			b, _ := json.Marshal(map[string]any{"interest_ids": set})
			req := httptest.NewRequest(http.MethodPut, "/api/v1/user-interests/bulk", bytes.NewReader(b))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+u.token)
			resp, err := f.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				_ = resp.Body.Close()
			}
		}(sets[i%2])
	}
	wg.Wait()

	var final []userInterestItem
	f.call(t, http.MethodGet, "/api/v1/user-interests", u.token, nil, &final)
	got := make([]int64, 0, len(final))
	for _, it := range final {
		got = append(got, it.InterestID)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Contains(t, sets, got)
}

func TestIntegration_ImportanceUpsertKeepsOneRow(t *testing.T) {
	f := setup(t)
	u := f.register(t, "imp")

	body := map[string]any{"category_id": f.categoryID, "importance": 2}
	status := f.call(t, http.MethodPost, "/api/v1/user-interest-category-importances", u.token, body, nil)
	require.Equal(t, http.StatusCreated, status)

	body["importance"] = 5
	status = f.call(t, http.MethodPost, "/api/v1/user-interest-category-importances", u.token, body, nil)
	require.Equal(t, http.StatusOK, status)

	var items []struct {
		CategoryID int64 `json:"category_id"`
		Importance int   `json:"importance"`
	}
	f.call(t, http.MethodGet, "/api/v1/user-interest-category-importances", u.token, nil, &items)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Importance)
}

func setup(t *testing.T) *fixture {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	cfg := testConfig(t)
	c, err := app.NewContainer(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	f := &fixture{app: app.New(cfg, c).Fiber, db: c.DB}

	// A private category keeps the run independent of whatever else the
	// database holds.
	suffix := uuid.NewString()[:8]
	require.NoError(t, c.DB.QueryRow(ctx,
		`INSERT INTO interest_categories (name) VALUES ($1) RETURNING id`, "it-"+suffix,
	).Scan(&f.categoryID))
	for i := 0; i < 3; i++ {
		var id int64
		require.NoError(t, c.DB.QueryRow(ctx,
			`INSERT INTO interests (name, category_id) VALUES ($1, $2) RETURNING id`,
			"it-"+suffix+"-"+strconv.Itoa(i), f.categoryID,
		).Scan(&id))
		f.interests = append(f.interests, id)
	}

	t.Cleanup(func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer ccancel()
		for _, email := range f.emails {
			_, _ = c.DB.Exec(cctx, `DELETE FROM users WHERE email = $1`, email)
		}
		_, _ = c.DB.Exec(cctx, `DELETE FROM interest_categories WHERE id = $1`, f.categoryID)
	})
	return f
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	host := stringsOrDefault(os.Getenv("INTERESTMATCH_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("INTERESTMATCH_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("INTERESTMATCH_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("INTERESTMATCH_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("INTERESTMATCH_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("INTERESTMATCH_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set INTERESTMATCH_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}

	return config.Config{
		App: config.AppConfig{AppName: "interest-match-test", Environment: "test", HTTPPort: "0"},
		Database: config.DatabaseConfig{
			DBHost:      host,
			DBPort:      port,
			DBName:      name,
			DBUser:      user,
			DBPassword:  pass,
			DBSSLMode:   stringsOrDefault(ssl, "disable"),
			AutoMigrate: true,
		},
		JWT: config.JWTConfig{
			AccessSecret:     "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessExpiresIn:  time.Hour,
			RefreshExpiresIn: 24 * time.Hour,
		},
		Matching: config.MatchingConfig{PageSize: config.DefaultPageSize},
		Log:      config.LogConfig{Mode: "test"},
	}
}

func (f *fixture) register(t *testing.T, prefix string) testUser {
	t.Helper()

	email := prefix + "-" + uuid.NewString()[:8] + "@example.com"
	f.emails = append(f.emails, email)

	var data authData
	status := f.call(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{"email": email, "password": "password123"}, &data)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, data.AccessToken)
	return testUser{publicID: data.User.PublicID, email: email, token: data.AccessToken}
}

func (f *fixture) bulk(t *testing.T, u testUser, ids ...int64) []userInterestItem {
	t.Helper()

	var out []userInterestItem
	status := f.call(t, http.MethodPut, "/api/v1/user-interests/bulk", u.token, map[string]any{"interest_ids": ids}, &out)
	require.Equal(t, http.StatusOK, status)
	return out
}

// call decodes the envelope's data into out when out is not nil.
func (f *fixture) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var env semanticResponse
	status := f.raw(t, method, path, token, body, &env)
	if out != nil && status < 300 && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return status
}

func (f *fixture) raw(t *testing.T, method, path, token string, body any, env *semanticResponse) int {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, env), string(raw))
	return resp.StatusCode
}

func stringsOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
