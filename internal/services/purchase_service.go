package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"zoe_store_backend/internal/models"
	"zoe_store_backend/internal/repositories"
	"zoe_store_backend/pkg/utils"
)

// --- Custom Service Errors for Purchase ---
var (
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrPurchaseValidation = errors.New("purchase data validation error")
)

// --- Purchase DTOs ---
type CreatePurchaseRequest struct {
	ClientID      int64                `json:"client_id" binding:"required"`
	Details       *string              `json:"details"`
	TotalAmount   *float64             `json:"total_amount" binding:"required"`
	PurchaseDate  *time.Time           `json:"purchase_date"`
	Address       *models.Address      `json:"address"`
	CPF           *string              `json:"cpf"`
	PaymentMethod *string              `json:"payment_method"`
	Prescription  *models.Prescription `json:"prescription"`
	FrameRef      *string              `json:"frame_ref"`
	LensRef       *string              `json:"lens_ref"`
	OtherNotes    *string              `json:"other_notes"`
	Deposit       *float64             `json:"deposit"`
}

type UpdatePurchaseRequest struct {
	ClientID       *int64               `json:"client_id"`
	Details        *string              `json:"details"`
	TotalAmount    *float64             `json:"total_amount"`
	PurchaseDate   *time.Time           `json:"purchase_date"`
	PurchaseStatus *bool                `json:"purchase_status"`
	Address        *models.Address      `json:"address"`
	CPF            *string              `json:"cpf"`
	PaymentMethod  *string              `json:"payment_method"`
	Prescription   *models.Prescription `json:"prescription"`
	FrameRef       *string              `json:"frame_ref"`
	LensRef        *string              `json:"lens_ref"`
	OtherNotes     *string              `json:"other_notes"`
	Deposit        *float64             `json:"deposit"`
}

// --- PurchaseService Interface ---

// PurchaseService is the purchase ledger: it owns purchase records and keeps
// the owning client's denormalized purchase counter roughly in step as
// purchases come and go. The counter writes are deliberately decoupled from
// the purchase writes; see CreatePurchase and DeletePurchase.
type PurchaseService interface {
	CreatePurchase(req CreatePurchaseRequest) (*models.Purchase, error)
	GetPurchaseByID(purchaseID int64) (*models.Purchase, error)
	GetPurchases() ([]models.Purchase, error)
	GetPurchasesByClient(clientID int64) ([]models.Purchase, error)
	UpdatePurchase(purchaseID int64, req UpdatePurchaseRequest) (*models.Purchase, error)
	DeletePurchase(purchaseID int64) error
}

// --- purchaseService Implementation ---
type purchaseService struct {
	purchaseRepo repositories.PurchaseRepository
	clientRepo   repositories.ClientRepository
	db           *sql.DB
}

// NewPurchaseService creates a new instance of PurchaseService.
func NewPurchaseService(purchaseRepo repositories.PurchaseRepository, clientRepo repositories.ClientRepository, db *sql.DB) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		clientRepo:   clientRepo,
		db:           db,
	}
}

func validatePaymentMethod(method *string) error {
	if method == nil || *method == "" {
		return nil
	}
	if !models.IsValidPaymentMethod(*method) {
		return fmt.Errorf("%w: payment method must be one of %s",
			ErrPurchaseValidation, strings.Join(models.PaymentMethods, ", "))
	}
	return nil
}

func (s *purchaseService) CreatePurchase(req CreatePurchaseRequest) (*models.Purchase, error) {
	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: client reference is required", ErrPurchaseValidation)
	}
	if req.Details == nil || strings.TrimSpace(*req.Details) == "" {
		return nil, fmt.Errorf("%w: details are required", ErrPurchaseValidation)
	}
	if req.TotalAmount == nil || *req.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be a positive number", ErrPurchaseValidation)
	}
	if err := validatePaymentMethod(req.PaymentMethod); err != nil {
		return nil, err
	}
	if req.Deposit != nil && *req.Deposit < 0 {
		return nil, fmt.Errorf("%w: deposit cannot be negative", ErrPurchaseValidation)
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != nil && !req.PurchaseDate.IsZero() {
		purchaseDate = *req.PurchaseDate
	}
	deposit := 0.0
	if req.Deposit != nil {
		deposit = *req.Deposit
	}

	purchase := &models.Purchase{
		ClientID:       req.ClientID,
		Details:        req.Details,
		TotalAmount:    *req.TotalAmount,
		PurchaseDate:   purchaseDate,
		PurchaseStatus: false,
		Address:        req.Address,
		CPF:            req.CPF,
		PaymentMethod:  req.PaymentMethod,
		Prescription:   req.Prescription,
		FrameRef:       req.FrameRef,
		LensRef:        req.LensRef,
		OtherNotes:     req.OtherNotes,
		Deposit:        deposit,
	}

	// TODO: decide whether creation should reject unknown client ids. Today
	// the reference is stored unchecked and the reconcile endpoint is the
	// operator's repair tool for the fallout.
	id, err := s.purchaseRepo.CreatePurchase(s.db, purchase)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase in repository: %w", err)
	}

	s.bumpClientCounter(req.ClientID, 1, id)

	return s.purchaseRepo.GetPurchaseByID(id)
}

// bumpClientCounter shifts the owning client's purchase counter after a
// purchase write has already committed. The two writes are sequential and
// non-transactional on purpose: the purchase write is the durable one, and a
// counter failure here is logged and swallowed so it never fails the
// user-visible operation. Drift is repaired via ReconcilePurchaseCount.
func (s *purchaseService) bumpClientCounter(clientID int64, delta int, purchaseID int64) {
	if err := s.clientRepo.AdjustPurchaseCount(s.db, clientID, delta); err != nil {
		utils.LogError(err, fmt.Sprintf(
			"purchase %d committed but purchase_count adjustment (%+d) for client %d failed; counter may drift",
			purchaseID, delta, clientID))
	}
}

// GetPurchaseByID returns the purchase with its owning client resolved
// best-effort: a dangling or unreadable client reference leaves Client nil
// without failing the read.
func (s *purchaseService) GetPurchaseByID(purchaseID int64) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetPurchaseByID(purchaseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to get purchase by ID: %w", err)
	}

	client, err := s.clientRepo.GetClientByID(purchase.ClientID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			utils.LogError(err, fmt.Sprintf("resolving client %d for purchase %d failed", purchase.ClientID, purchaseID))
		}
	} else {
		purchase.Client = client
	}
	return purchase, nil
}

// GetPurchases returns every purchase, ordered by purchase date descending.
func (s *purchaseService) GetPurchases() ([]models.Purchase, error) {
	purchases, err := s.purchaseRepo.GetPurchases()
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	return purchases, nil
}

// GetPurchasesByClient returns the client's purchases, purchase date
// descending. Zero matches is a valid, empty result, never a not-found.
func (s *purchaseService) GetPurchasesByClient(clientID int64) ([]models.Purchase, error) {
	purchases, err := s.purchaseRepo.GetPurchasesByClientID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases for client %d: %w", clientID, err)
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	return purchases, nil
}

func (s *purchaseService) UpdatePurchase(purchaseID int64, req UpdatePurchaseRequest) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetPurchaseByID(purchaseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to find purchase for update: %w", err)
	}

	if req.ClientID != nil {
		purchase.ClientID = *req.ClientID
	}
	if req.Details != nil {
		purchase.Details = req.Details
	}
	if req.TotalAmount != nil {
		purchase.TotalAmount = *req.TotalAmount
	}
	if req.PurchaseDate != nil {
		purchase.PurchaseDate = *req.PurchaseDate
	}
	if req.PurchaseStatus != nil {
		// Status may move in either direction; no ordering is enforced.
		purchase.PurchaseStatus = *req.PurchaseStatus
	}
	if req.Address != nil {
		purchase.Address = req.Address
	}
	if req.CPF != nil {
		purchase.CPF = req.CPF
	}
	if req.PaymentMethod != nil {
		purchase.PaymentMethod = req.PaymentMethod
	}
	if req.Prescription != nil {
		purchase.Prescription = req.Prescription
	}
	if req.FrameRef != nil {
		purchase.FrameRef = req.FrameRef
	}
	if req.LensRef != nil {
		purchase.LensRef = req.LensRef
	}
	if req.OtherNotes != nil {
		purchase.OtherNotes = req.OtherNotes
	}
	if req.Deposit != nil {
		purchase.Deposit = *req.Deposit
	}

	// The merged record has to stay valid, whichever fields were touched.
	if purchase.ClientID <= 0 {
		return nil, fmt.Errorf("%w: client reference cannot be removed", ErrPurchaseValidation)
	}
	if purchase.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must remain positive", ErrPurchaseValidation)
	}
	if err := validatePaymentMethod(purchase.PaymentMethod); err != nil {
		return nil, err
	}
	if purchase.Deposit < 0 {
		return nil, fmt.Errorf("%w: deposit cannot be negative", ErrPurchaseValidation)
	}

	if err := s.purchaseRepo.UpdatePurchase(s.db, purchase); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to update purchase in repository: %w", err)
	}
	return s.purchaseRepo.GetPurchaseByID(purchaseID)
}

// DeletePurchase removes the purchase, then decrements the owning client's
// purchase counter best-effort (floored at zero in the store). The delete is
// the durable operation: once it commits, this method reports success even
// if the decrement fails, and the failure is only logged.
func (s *purchaseService) DeletePurchase(purchaseID int64) error {
	purchase, err := s.purchaseRepo.GetPurchaseByID(purchaseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPurchaseNotFound
		}
		return fmt.Errorf("failed to find purchase for deletion: %w", err)
	}

	if err := s.purchaseRepo.DeletePurchase(s.db, purchaseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPurchaseNotFound
		}
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	s.bumpClientCounter(purchase.ClientID, -1, purchaseID)

	return nil
}
