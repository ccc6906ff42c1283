package credits

import (
	"time"

	creditsvc "origenmx-backend/internal/application/credits"
	"origenmx-backend/internal/pkg/response"
	"origenmx-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *creditsvc.Service
}

var errStatus = map[string]int{
	creditsvc.ErrCreditNotFound.Error():      404,
	creditsvc.ErrInstallmentNotFound.Error(): 404,
	creditsvc.ErrLotNotFound.Error():         404,
	creditsvc.ErrAlreadyPaid.Error():         409,
	creditsvc.ErrLotHasCredit.Error():        409,
	creditsvc.ErrInvalidAmount.Error():       400,
	creditsvc.ErrInvalidTerm.Error():         400,
}

func respondErr(c *fiber.Ctx, err error) error {
	if code, ok := errStatus[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// GetAllCredits GET /api/v1/credits/get-all-credits
func (h *Handlers) GetAllCredits(c *fiber.Ctx) error {
	credits, err := h.Service.ListCredits(c.Context())
	if err != nil {
		return respondErr(c, err)
	}
	return response.Success(c, "Credits fetched successfully", credits, nil)
}

// GetCreditByID GET /api/v1/credits/get-credit/:credit_id
func (h *Handlers) GetCreditByID(c *fiber.Ctx) error {
	creditID := c.Params("credit_id")
	if !validation.IsValidCreditID(creditID) {
		return response.Error(c, "Invalid credit id format", 400, nil)
	}
	credit, err := h.Service.GetCredit(c.Context(), creditID)
	if err != nil {
		return respondErr(c, err)
	}
	return response.Success(c, "Credit fetched successfully", credit, nil)
}

// RequestCredit POST /api/v1/credits/request-credit
func (h *Handlers) RequestCredit(c *fiber.Ctx) error {
	var body struct {
		LotID      string  `json:"lot_id"`
		Amount     float64 `json:"amount"`
		TermMonths int     `json:"term_months"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.LotID == "" || body.Amount == 0 || body.TermMonths == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if !validation.IsValidLotID(body.LotID) {
		return response.Error(c, "Invalid lot id format", 400, nil)
	}
	credit, err := h.Service.RequestCredit(c.Context(), body.LotID, body.Amount, body.TermMonths)
	if err != nil {
		return respondErr(c, err)
	}
	return response.SuccessCreated(c, "Credit disbursed successfully", credit, nil)
}

// PayInstallment POST /api/v1/credits/pay-installment
func (h *Handlers) PayInstallment(c *fiber.Ctx) error {
	var body struct {
		CreditID string `json:"credit_id"`
		Number   int    `json:"number"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.CreditID == "" || body.Number == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if !validation.IsValidCreditID(body.CreditID) {
		return response.Error(c, "Invalid credit id format", 400, nil)
	}
	credit, err := h.Service.PayInstallment(c.Context(), body.CreditID, body.Number)
	if err != nil {
		return respondErr(c, err)
	}
	return response.Success(c, "Installment paid successfully", credit, nil)
}

// SweepOverdue POST /api/v1/credits/sweep-overdue — also run daily by cron.
func (h *Handlers) SweepOverdue(c *fiber.Ctx) error {
	swept, err := h.Service.MarkOverdue(c.Context(), time.Now())
	if err != nil {
		return respondErr(c, err)
	}
	return response.Success(c, "Overdue sweep completed", fiber.Map{"swept": swept}, nil)
}
