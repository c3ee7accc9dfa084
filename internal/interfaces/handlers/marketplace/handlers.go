package marketplace

import (
	mktsvc "bazaar-backend/internal/application/marketplace"
	"bazaar-backend/internal/middleware"
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the state-changing marketplace operations. The caller's
// account identity is bound as seller on create and buyer on purchase.
type Handlers struct {
	Facade *mktsvc.Service
}

type addListingBody struct {
	Name  string `json:"name"`
	Price uint64 `json:"price"`
}

// POST /api/v1/listings
func (h *Handlers) AddListing(c *fiber.Ctx) error {
	var body addListingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	listing, err := h.Facade.AddListing(c.Context(), middleware.Caller(c), body.Name, body.Price)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Listing created successfully", listing)
}

type purchaseBody struct {
	PaidAmount          uint64 `json:"paid_amount"`
	DeliveryInformation string `json:"delivery_information"`
}

// POST /api/v1/listings/:id/purchase
func (h *Handlers) Purchase(c *fiber.Ctx) error {
	var body purchaseBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	result, err := h.Facade.Purchase(c.Context(), middleware.Caller(c), c.Params("id"), body.PaidAmount, body.DeliveryInformation)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing purchased successfully", result)
}
