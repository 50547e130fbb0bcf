package handlers

import (
	"errors"
	"net/http"

	"zoe_store_backend/internal/services"
	"zoe_store_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PurchaseHandler holds the purchase service.
type PurchaseHandler struct {
	purchaseService services.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(ps services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: ps}
}

// CreatePurchase handles the creation of a new purchase.
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req services.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreatePurchase: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(req)
	if err != nil {
		utils.LogError(err, "CreatePurchase: Error from purchaseService.CreatePurchase")
		if errors.Is(err, services.ErrPurchaseValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Missing required fields: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create purchase.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"purchase": purchase})
}

// GetPurchases handles fetching all purchases, most recent first.
func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	purchases, err := h.purchaseService.GetPurchases()
	if err != nil {
		utils.LogError(err, "GetPurchases: Error from purchaseService.GetPurchases")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch purchases.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

// GetPurchaseByID handles fetching a single purchase by ID, with its owning
// client resolved when it still exists.
func (h *PurchaseHandler) GetPurchaseByID(c *gin.Context) {
	purchaseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetPurchaseByID(purchaseID)
	if err != nil {
		utils.LogError(err, "GetPurchaseByID: Error from purchaseService.GetPurchaseByID")
		if errors.Is(err, services.ErrPurchaseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Purchase not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch purchase.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// GetPurchasesByClient handles fetching all purchases for one client.
// A client with no purchases gets an empty list, not a 404.
func (h *PurchaseHandler) GetPurchasesByClient(c *gin.Context) {
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	purchases, err := h.purchaseService.GetPurchasesByClient(clientID)
	if err != nil {
		utils.LogError(err, "GetPurchasesByClient: Error from purchaseService.GetPurchasesByClient")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch purchases.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

// UpdatePurchase handles a partial update of a purchase.
func (h *PurchaseHandler) UpdatePurchase(c *gin.Context) {
	purchaseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdatePurchase: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	purchase, err := h.purchaseService.UpdatePurchase(purchaseID, req)
	if err != nil {
		utils.LogError(err, "UpdatePurchase: Error from purchaseService.UpdatePurchase")
		if errors.Is(err, services.ErrPurchaseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Purchase not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrPurchaseValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update purchase.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// DeletePurchase handles deleting a purchase. Success here means the
// purchase record is gone; the client counter adjustment behind it is
// best-effort and never changes the response.
func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
	purchaseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.purchaseService.DeletePurchase(purchaseID); err != nil {
		utils.LogError(err, "DeletePurchase: Error from purchaseService.DeletePurchase")
		if errors.Is(err, services.ErrPurchaseNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Purchase not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete purchase.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted successfully"})
}
