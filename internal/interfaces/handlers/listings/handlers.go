package listings

import (
	"strconv"

	"bazaar-backend/internal/application/events"
	listsvc "bazaar-backend/internal/application/listings"
	"bazaar-backend/internal/application/marketplace"
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the read-only query surface of the ledger.
type Handlers struct {
	Facade *marketplace.Service
	Events *events.Recorder
}

// GET /api/v1/listings/count
func (h *Handlers) Count(c *fiber.Ctx) error {
	n, err := h.Facade.Count(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Listing count fetched", fiber.Map{"count": n})
}

// GET /api/v1/listings/at/:index
func (h *Handlers) AtGlobalIndex(c *fiber.Ctx) error {
	index, err := parseIndex(c.Params("index"))
	if err != nil {
		return err
	}
	id, err := h.Facade.ListingAtGlobalIndex(c.Context(), index)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing resolved", fiber.Map{"listing_id": id, "global_index": index})
}

// GET /api/v1/listings/:id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	listing, err := h.Facade.GetListing(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.Success(c, "Listing fetched", listing)
}

// GET /api/v1/listings/:id/exists
func (h *Handlers) Exists(c *fiber.Ctx) error {
	exists, err := h.Facade.IsListing(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.Success(c, "Listing existence checked", fiber.Map{"exists": exists})
}

// GET /api/v1/listings/:id/events
func (h *Handlers) EventsForListing(c *fiber.Ctx) error {
	id := c.Params("id")
	exists, err := h.Facade.IsListing(c.Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return listsvc.ErrNotFound
	}
	log, err := h.Events.ListForListing(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing events fetched", log)
}

// GET /api/v1/sellers/:seller/listings/count
func (h *Handlers) SellerCount(c *fiber.Ctx) error {
	n, err := h.Facade.SellerListingCount(c.Context(), c.Params("seller"))
	if err != nil {
		return err
	}
	return response.Success(c, "Seller listing count fetched", fiber.Map{"count": n})
}

// GET /api/v1/sellers/:seller/listings/:index
func (h *Handlers) SellerAtLocalIndex(c *fiber.Ctx) error {
	index, err := parseIndex(c.Params("index"))
	if err != nil {
		return err
	}
	globalIndex, err := h.Facade.SellerListingAtLocalIndex(c.Context(), c.Params("seller"), index)
	if err != nil {
		return err
	}
	return response.Success(c, "Seller listing resolved", fiber.Map{"global_index": globalIndex})
}

func parseIndex(raw string) (uint64, error) {
	index, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid index")
	}
	return index, nil
}
