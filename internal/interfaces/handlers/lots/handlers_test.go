package lots

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	lotsvc "origenmx-backend/internal/application/lots"
	"origenmx-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLotsApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDemo(db))

	h := &Handlers{Service: &lotsvc.Service{DB: db}}
	app := fiber.New()
	app.Post("/register-lot", h.RegisterLot)
	app.Get("/get-all-lots", h.GetAllLots)
	app.Get("/get-lot/:lot_id", h.GetLotByID)
	app.Post("/upload-evidence", h.UploadEvidence)
	app.Post("/refresh-score", h.RefreshScore)
	return app, db
}

func postJSON(app *fiber.App, target, body string) (int, map[string]interface{}, error) {
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, parsed, nil
}

func TestGetAllLots(t *testing.T) {
	app, _ := setupLotsApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-all-lots", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Data   []struct {
			LotID        string `json:"lot_id"`
			CreditStatus string `json:"credit_status"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	require.Len(t, body.Data, 4)

	byID := map[string]string{}
	for _, lot := range body.Data {
		byID[lot.LotID] = lot.CreditStatus
	}
	assert.Equal(t, "Active", byID["LOT-001"])
	assert.Equal(t, "No credit", byID["LOT-004"])
}

func TestGetLotByID(t *testing.T) {
	app, _ := setupLotsApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-lot/LOT-001", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/get-lot/LOT-999", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/get-lot/banana", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRegisterLot(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, body, err := postJSON(app, "/register-lot", `{
		"crop_type": "Sorgo",
		"area_ha": 6.1,
		"location": "Culiacán, Sinaloa",
		"cooperative": "Ejido El Tamarindo",
		"planting_date": "2026-03-01",
		"harvest_date": "2026-10-15"
	}`)
	require.NoError(t, err)
	assert.Equal(t, 201, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "LOT-005", data["lot_id"])
	assert.Equal(t, "No credit", data["credit_status"])
	assert.Equal(t, float64(0), data["agro_score"])
}

func TestRegisterLot_BadRequests(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, _, err := postJSON(app, "/register-lot", `{"crop_type": "Sorgo"}`)
	require.NoError(t, err)
	assert.Equal(t, 400, status)

	status, _, err = postJSON(app, "/register-lot", `{
		"crop_type": "Tulipanes",
		"area_ha": 6.1,
		"location": "Culiacán, Sinaloa",
		"cooperative": "Ejido El Tamarindo",
		"planting_date": "2026-03-01",
		"harvest_date": "2026-10-15"
	}`)
	require.NoError(t, err)
	assert.Equal(t, 400, status)

	status, _, err = postJSON(app, "/register-lot", `{
		"crop_type": "Sorgo",
		"area_ha": 6.1,
		"location": "Culiacán, Sinaloa",
		"cooperative": "Ejido El Tamarindo",
		"planting_date": "not-a-date",
		"harvest_date": "2026-10-15"
	}`)
	require.NoError(t, err)
	assert.Equal(t, 400, status)
}

func TestUploadEvidence(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, body, err := postJSON(app, "/upload-evidence", `{
		"lot_id": "LOT-004",
		"name": "certificado-organico.pdf",
		"mime_type": "application/pdf",
		"size_bytes": 88211
	}`)
	require.NoError(t, err)
	assert.Equal(t, 201, status)
	data := body["data"].(map[string]interface{})
	assert.True(t, strings.HasPrefix(data["content_address"].(string), "cid-"))

	status, _, err = postJSON(app, "/upload-evidence", `{
		"lot_id": "LOT-004",
		"name": "malware.exe",
		"mime_type": "application/x-msdownload",
		"size_bytes": 10
	}`)
	require.NoError(t, err)
	assert.Equal(t, 400, status)

	status, _, err = postJSON(app, "/upload-evidence", `{
		"lot_id": "LOT-999",
		"name": "x.pdf",
		"mime_type": "application/pdf",
		"size_bytes": 10
	}`)
	require.NoError(t, err)
	assert.Equal(t, 404, status)
}

func TestRefreshScore(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, body, err := postJSON(app, "/refresh-score", `{"lot_id": "LOT-002"}`)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	data := body["data"].(map[string]interface{})
	score := data["agro_score"].(float64)
	assert.GreaterOrEqual(t, score, 60.0)
	assert.Less(t, score, 100.0)

	status, _, err = postJSON(app, "/refresh-score", `{"lot_id": "LOT-999"}`)
	require.NoError(t, err)
	assert.Equal(t, 404, status)
}
