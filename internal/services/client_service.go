package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"zoe_store_backend/internal/models"
	"zoe_store_backend/internal/repositories"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrClientValidation = errors.New("client data validation error")
)

// --- Client DTOs ---
type CreateClientRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// --- ClientService Interface ---

// ClientService is the client registry: it owns client records, enforces the
// unique-email rule on registration, and exposes the denormalized purchase
// counter together with its explicit repair operation.
type ClientService interface {
	CreateClient(req CreateClientRequest) (*models.Client, error)
	GetClientByID(clientID int64) (*models.Client, error)
	GetClients() ([]models.Client, error)
	UpdateClient(clientID int64, req UpdateClientRequest) (*models.Client, error)
	DeleteClient(clientID int64) error
	GetClientWithPurchases(clientID int64) (*models.Client, []models.Purchase, error)
	ReconcilePurchaseCount(clientID int64) (*models.Client, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo   repositories.ClientRepository
	purchaseRepo repositories.PurchaseRepository
	db           *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(clientRepo repositories.ClientRepository, purchaseRepo repositories.PurchaseRepository, db *sql.DB) ClientService {
	return &clientService{
		clientRepo:   clientRepo,
		purchaseRepo: purchaseRepo,
		db:           db,
	}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

func (s *clientService) CreateClient(req CreateClientRequest) (*models.Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrClientValidation)
	}

	if req.Email != nil && *req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailRegex.MatchString(email) {
			return nil, fmt.Errorf("%w: email format is invalid", ErrClientValidation)
		}
		existing, err := s.clientRepo.GetClientByEmail(email)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if existing != nil {
			return nil, ErrEmailExists
		}
	}

	client := &models.Client{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PurchaseCount: 0,
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		// The unique index backstops the pre-check under concurrent registration.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(id)
}

func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients() ([]models.Client, error) {
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) UpdateClient(clientID int64, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for update: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrClientValidation)
		}
		client.Name = *req.Name
	}
	if req.Email != nil {
		if *req.Email != "" && !emailRegex.MatchString(strings.ToLower(strings.TrimSpace(*req.Email))) {
			return nil, fmt.Errorf("%w: email format is invalid", ErrClientValidation)
		}
		// Uniqueness is not re-checked on update; only the unique index
		// stands between two clients and a shared email here.
		client.Email = req.Email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}

	if err := s.clientRepo.UpdateClient(s.db, client); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(clientID)
}

// DeleteClient removes the client record only. Purchases referencing the
// client are orphaned, not cascade-deleted; reads of those purchases resolve
// the owner as nil from then on.
func (s *clientService) DeleteClient(clientID int64) error {
	if _, err := s.clientRepo.GetClientByID(clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to find client for deletion: %w", err)
	}

	if err := s.clientRepo.DeleteClient(s.db, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// GetClientWithPurchases returns the client together with every purchase
// referencing it, most recent first. A client with no purchases yields an
// empty list, not an error.
func (s *clientService) GetClientWithPurchases(clientID int64) (*models.Client, []models.Purchase, error) {
	client, err := s.GetClientByID(clientID)
	if err != nil {
		return nil, nil, err
	}

	purchases, err := s.purchaseRepo.GetPurchasesByClientID(clientID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get purchases for client %d: %w", clientID, err)
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	return client, purchases, nil
}

// ReconcilePurchaseCount recomputes the denormalized counter from the actual
// purchase rows and overwrites it. This is the explicit repair operation for
// counter drift; it never runs implicitly.
func (s *clientService) ReconcilePurchaseCount(clientID int64) (*models.Client, error) {
	if _, err := s.GetClientByID(clientID); err != nil {
		return nil, err
	}

	count, err := s.purchaseRepo.CountPurchasesByClientID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to count purchases for client %d: %w", clientID, err)
	}

	if err := s.clientRepo.SetPurchaseCount(s.db, clientID, count); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to set purchase count for client %d: %w", clientID, err)
	}
	return s.clientRepo.GetClientByID(clientID)
}
