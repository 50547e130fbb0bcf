package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"zoe_store_backend/internal/models"
	"zoe_store_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPurchaseService struct {
	createErr error
	getErr    error
	deleteErr error

	purchase  *models.Purchase
	purchases []models.Purchase
}

var _ services.PurchaseService = (*stubPurchaseService)(nil)

func (s *stubPurchaseService) CreatePurchase(services.CreatePurchaseRequest) (*models.Purchase, error) {
	return s.purchase, s.createErr
}
func (s *stubPurchaseService) GetPurchaseByID(int64) (*models.Purchase, error) {
	return s.purchase, s.getErr
}
func (s *stubPurchaseService) GetPurchases() ([]models.Purchase, error) {
	return s.purchases, nil
}
func (s *stubPurchaseService) GetPurchasesByClient(int64) ([]models.Purchase, error) {
	return s.purchases, nil
}
func (s *stubPurchaseService) UpdatePurchase(int64, services.UpdatePurchaseRequest) (*models.Purchase, error) {
	return s.purchase, s.getErr
}
func (s *stubPurchaseService) DeletePurchase(int64) error { return s.deleteErr }

func newPurchaseTestRouter(svc services.PurchaseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewPurchaseHandler(svc)
	engine.POST("/api/purchases", h.CreatePurchase)
	engine.GET("/api/purchases/:id", h.GetPurchaseByID)
	engine.DELETE("/api/purchases/:id", h.DeletePurchase)
	engine.GET("/api/purchases/client/:clientId", h.GetPurchasesByClient)
	return engine
}

func TestCreatePurchaseReturns201(t *testing.T) {
	svc := &stubPurchaseService{purchase: &models.Purchase{ID: 1, ClientID: 1, TotalAmount: 100}}
	engine := newPurchaseTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/purchases", gin.H{
		"client_id": 1, "details": "lentes", "total_amount": 100,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreatePurchaseMissingFieldsReturns400(t *testing.T) {
	svc := &stubPurchaseService{createErr: services.ErrPurchaseValidation}
	engine := newPurchaseTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/purchases", gin.H{"client_id": 1, "total_amount": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPurchaseByIDNotFoundReturns404(t *testing.T) {
	svc := &stubPurchaseService{getErr: services.ErrPurchaseNotFound}
	engine := newPurchaseTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/api/purchases/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePurchaseReturns200(t *testing.T) {
	svc := &stubPurchaseService{}
	engine := newPurchaseTestRouter(svc)

	w := doJSON(t, engine, http.MethodDelete, "/api/purchases/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Purchase deleted successfully", resp.Message)
}

func TestDeletePurchaseNotFoundReturns404(t *testing.T) {
	svc := &stubPurchaseService{deleteErr: services.ErrPurchaseNotFound}
	engine := newPurchaseTestRouter(svc)

	w := doJSON(t, engine, http.MethodDelete, "/api/purchases/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPurchasesByClientEmptyReturns200(t *testing.T) {
	svc := &stubPurchaseService{purchases: []models.Purchase{}}
	engine := newPurchaseTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/api/purchases/client/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
