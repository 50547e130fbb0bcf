package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"zoe_store_backend/internal/models"
	"zoe_store_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClientService struct {
	createErr    error
	getErr       error
	updateErr    error
	deleteErr    error
	reconcileErr error

	client    *models.Client
	purchases []models.Purchase
}

var _ services.ClientService = (*stubClientService)(nil)

func (s *stubClientService) CreateClient(services.CreateClientRequest) (*models.Client, error) {
	return s.client, s.createErr
}
func (s *stubClientService) GetClientByID(int64) (*models.Client, error) {
	return s.client, s.getErr
}
func (s *stubClientService) GetClients() ([]models.Client, error) {
	return []models.Client{}, nil
}
func (s *stubClientService) UpdateClient(int64, services.UpdateClientRequest) (*models.Client, error) {
	return s.client, s.updateErr
}
func (s *stubClientService) DeleteClient(int64) error { return s.deleteErr }
func (s *stubClientService) GetClientWithPurchases(int64) (*models.Client, []models.Purchase, error) {
	return s.client, s.purchases, s.getErr
}
func (s *stubClientService) ReconcilePurchaseCount(int64) (*models.Client, error) {
	return s.client, s.reconcileErr
}

func newClientTestRouter(svc services.ClientService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewClientHandler(svc)
	engine.POST("/api/clients", h.CreateClient)
	engine.GET("/api/clients/:id", h.GetClientByID)
	engine.GET("/api/clients/:id/purchases", h.GetClientWithPurchases)
	engine.DELETE("/api/clients/:id", h.DeleteClient)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateClientReturns201(t *testing.T) {
	svc := &stubClientService{client: &models.Client{ID: 1, Name: "Ana"}}
	engine := newClientTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/clients", gin.H{"name": "Ana", "email": "ana@x.com"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Client models.Client `json:"client"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ana", resp.Client.Name)
}

func TestCreateClientDuplicateEmailReturns400(t *testing.T) {
	svc := &stubClientService{createErr: services.ErrEmailExists}
	engine := newClientTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/clients", gin.H{"name": "Ana", "email": "ana@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateClientValidationErrorReturns400(t *testing.T) {
	svc := &stubClientService{createErr: services.ErrClientValidation}
	engine := newClientTestRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/api/clients", gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetClientByIDNotFoundReturns404(t *testing.T) {
	svc := &stubClientService{getErr: services.ErrClientNotFound}
	engine := newClientTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/api/clients/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetClientByIDBadIDReturns400(t *testing.T) {
	svc := &stubClientService{client: &models.Client{ID: 1, Name: "Ana"}}
	engine := newClientTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/api/clients/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetClientWithPurchasesEmptyListReturns200(t *testing.T) {
	svc := &stubClientService{client: &models.Client{ID: 1, Name: "Ana"}, purchases: []models.Purchase{}}
	engine := newClientTestRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/api/clients/1/purchases", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Purchases []models.Purchase `json:"purchases"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Purchases)
	assert.Empty(t, resp.Purchases)
}

func TestDeleteClientReturns200(t *testing.T) {
	svc := &stubClientService{}
	engine := newClientTestRouter(svc)

	w := doJSON(t, engine, http.MethodDelete, "/api/clients/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
