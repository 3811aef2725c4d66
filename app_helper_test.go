package marketplace_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	marketplace "github.com/goliatone/go-marketplace"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app    *fiber.App
	repo   marketplace.RepositoryManager
	auther *marketplace.Auther
}

// setupTestApp wires the full HTTP surface against a private in-memory
// database, mirroring the cmd wiring.
func setupTestApp(t *testing.T, prices marketplace.PriceProvider) *testApp {
	t.Helper()

	repo := setupRepoManager(t)
	provider := marketplace.NewUserProvider(repo.Users())
	auther := marketplace.NewAuthenticator(provider, repo, newTestConfig())

	certificates := marketplace.NewDiskCertificateStore(t.TempDir(), "/certificates")

	authController := marketplace.NewAuthController(
		marketplace.WithAuther(auther),
		marketplace.WithAuthRepo(repo),
	)

	productOpts := []marketplace.ProductControllerOption{
		marketplace.WithProductRepo(repo),
		marketplace.WithCertificateStore(certificates),
	}
	if prices != nil {
		productOpts = append(productOpts, marketplace.WithPriceProvider(prices))
	}
	productController := marketplace.NewProductController(productOpts...)

	app := fiber.New()

	protected := marketplace.TokenAuth(marketplace.TokenAuthConfig{
		Auther: auther,
		Users:  repo.Users(),
	})

	marketplace.RegisterAuthRoutes(app, authController, protected)
	marketplace.RegisterProductRoutes(app, productController, protected)

	return &testApp{app: app, repo: repo, auther: auther}
}

func (a *testApp) postJSON(t *testing.T, path string, body map[string]any, headers map[string]string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func (a *testApp) get(t *testing.T, path string, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

// postMultipart sends a multipart form; files maps field name to
// filename/content pairs.
func (a *testApp) postMultipart(t *testing.T, path string, fields map[string]string, files map[string][2]string, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for field, file := range files {
		part, err := writer.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func decodeList(t *testing.T, res *http.Response) []map[string]any {
	t.Helper()

	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	list := []map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &list))
	return list
}

// registerAndLogin runs the full register + login flow, returning the token
func (a *testApp) registerAndLogin(t *testing.T, username, email, password string) string {
	t.Helper()

	res := a.postJSON(t, "/register", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res = a.postJSON(t, "/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func bearer(token string) map[string]string {
	return map[string]string{fiber.HeaderAuthorization: "Bearer " + token}
}
