package lots

import (
	"time"

	lotsvc "origenmx-backend/internal/application/lots"
	"origenmx-backend/internal/pkg/response"
	"origenmx-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *lotsvc.Service
}

const dateLayout = "2006-01-02"

var errStatus = map[string]int{
	lotsvc.ErrLotNotFound.Error():        404,
	lotsvc.ErrMissingFields.Error():      400,
	lotsvc.ErrInvalidCropType.Error():    400,
	lotsvc.ErrInvalidArea.Error():        400,
	lotsvc.ErrInvalidWeight.Error():      400,
	lotsvc.ErrHarvestBeforePlant.Error(): 400,
	lotsvc.ErrInvalidMimeType.Error():    400,
	lotsvc.ErrInvalidFileSize.Error():    400,
}

func respondErr(c *fiber.Ctx, err error) error {
	if code, ok := errStatus[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// GetAllLots GET /api/v1/lots/get-all-lots
func (h *Handlers) GetAllLots(c *fiber.Ctx) error {
	lots, err := h.Service.ListLots(c.Context())
	if err != nil {
		return respondErr(c, err)
	}
	return response.Success(c, "Lots fetched successfully", lots, nil)
}

// GetLotByID GET /api/v1/lots/get-lot/:lot_id
func (h *Handlers) GetLotByID(c *fiber.Ctx) error {
	lotID := c.Params("lot_id")
	if !validation.IsValidLotID(lotID) {
		return response.Error(c, "Invalid lot id format", 400, nil)
	}
	lot, err := h.Service.GetLot(c.Context(), lotID)
	if err != nil {
		return respondErr(c, err)
	}
	return response.Success(c, "Lot fetched successfully", lot, nil)
}

// RegisterLot POST /api/v1/lots/register-lot
func (h *Handlers) RegisterLot(c *fiber.Ctx) error {
	var body struct {
		CropType     string   `json:"crop_type"`
		AreaHa       float64  `json:"area_ha"`
		WeightKg     *float64 `json:"weight_kg"`
		Location     string   `json:"location"`
		Cooperative  string   `json:"cooperative"`
		PlantingDate string   `json:"planting_date"`
		HarvestDate  string   `json:"harvest_date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.CropType == "" || body.Location == "" || body.Cooperative == "" ||
		body.PlantingDate == "" || body.HarvestDate == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	planting, err := time.Parse(dateLayout, body.PlantingDate)
	if err != nil {
		return response.Error(c, "Invalid planting_date (expected YYYY-MM-DD)", 400, nil)
	}
	harvest, err := time.Parse(dateLayout, body.HarvestDate)
	if err != nil {
		return response.Error(c, "Invalid harvest_date (expected YYYY-MM-DD)", 400, nil)
	}

	lot, err := h.Service.RegisterLot(c.Context(), lotsvc.RegisterLotInput{
		CropType:     body.CropType,
		AreaHa:       body.AreaHa,
		WeightKg:     body.WeightKg,
		Location:     body.Location,
		Cooperative:  body.Cooperative,
		PlantingDate: planting,
		HarvestDate:  harvest,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return response.SuccessCreated(c, "Lot registered successfully", lot, nil)
}

// UploadEvidence POST /api/v1/lots/upload-evidence
func (h *Handlers) UploadEvidence(c *fiber.Ctx) error {
	var body struct {
		LotID     string `json:"lot_id"`
		Name      string `json:"name"`
		MimeType  string `json:"mime_type"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.LotID == "" || body.Name == "" || body.MimeType == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if !validation.IsValidLotID(body.LotID) {
		return response.Error(c, "Invalid lot id format", 400, nil)
	}
	file, err := h.Service.UploadEvidence(c.Context(), body.LotID, lotsvc.EvidenceInput{
		Name:      body.Name,
		MimeType:  body.MimeType,
		SizeBytes: body.SizeBytes,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return response.SuccessCreated(c, "Evidence uploaded successfully", file, nil)
}

// RefreshScore POST /api/v1/lots/refresh-score
func (h *Handlers) RefreshScore(c *fiber.Ctx) error {
	var body struct {
		LotID string `json:"lot_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.LotID == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if !validation.IsValidLotID(body.LotID) {
		return response.Error(c, "Invalid lot id format", 400, nil)
	}
	score, err := h.Service.RefreshAgroScore(c.Context(), body.LotID)
	if err != nil {
		return respondErr(c, err)
	}
	return response.Success(c, "AgroScore refreshed", fiber.Map{
		"lot_id":     body.LotID,
		"agro_score": score,
	}, nil)
}
