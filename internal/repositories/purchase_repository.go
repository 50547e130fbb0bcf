package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"zoe_store_backend/internal/models"
)

// PurchaseRepository defines the interface for purchase-related database operations.
type PurchaseRepository interface {
	CreatePurchase(executor SQLExecutor, purchase *models.Purchase) (int64, error)
	GetPurchaseByID(id int64) (*models.Purchase, error)
	GetPurchases() ([]models.Purchase, error)
	GetPurchasesByClientID(clientID int64) ([]models.Purchase, error)
	CountPurchasesByClientID(clientID int64) (int, error)
	UpdatePurchase(executor SQLExecutor, purchase *models.Purchase) error
	DeletePurchase(executor SQLExecutor, id int64) error
}

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository.
func NewPurchaseRepository(db *sql.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

const purchaseColumns = `id, client_id, details, total_amount, purchase_date, purchase_status,
	address, cpf, payment_method, prescription, frame_ref, lens_ref, other_notes, deposit,
	created_at, updated_at`

// marshalJSONB encodes an optional struct for a JSONB column, mapping nil to SQL NULL.
func marshalJSONB(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func scanPurchase(row interface{ Scan(...interface{}) error }) (*models.Purchase, error) {
	purchase := &models.Purchase{}
	var addressRaw, prescriptionRaw []byte

	err := row.Scan(
		&purchase.ID, &purchase.ClientID, &purchase.Details, &purchase.TotalAmount,
		&purchase.PurchaseDate, &purchase.PurchaseStatus,
		&addressRaw, &purchase.CPF, &purchase.PaymentMethod, &prescriptionRaw,
		&purchase.FrameRef, &purchase.LensRef, &purchase.OtherNotes, &purchase.Deposit,
		&purchase.CreatedAt, &purchase.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(addressRaw) > 0 {
		address := &models.Address{}
		if err := json.Unmarshal(addressRaw, address); err != nil {
			return nil, fmt.Errorf("decoding address: %w", err)
		}
		purchase.Address = address
	}
	if len(prescriptionRaw) > 0 {
		prescription := &models.Prescription{}
		if err := json.Unmarshal(prescriptionRaw, prescription); err != nil {
			return nil, fmt.Errorf("decoding prescription: %w", err)
		}
		purchase.Prescription = prescription
	}
	return purchase, nil
}

// CreatePurchase inserts a new purchase. The client reference is stored as
// given; it is not checked against the clients table here.
func (r *purchaseRepository) CreatePurchase(executor SQLExecutor, purchase *models.Purchase) (int64, error) {
	query := `INSERT INTO purchases (client_id, details, total_amount, purchase_date, purchase_status,
	            address, cpf, payment_method, prescription, frame_ref, lens_ref, other_notes, deposit,
	            created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id`

	currentTime := time.Now()
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = currentTime
	}
	if purchase.UpdatedAt.IsZero() {
		purchase.UpdatedAt = currentTime
	}

	var addressArg, prescriptionArg interface{}
	var err error
	if purchase.Address != nil {
		if addressArg, err = marshalJSONB(purchase.Address); err != nil {
			return 0, fmt.Errorf("%w: encoding purchase address: %v", ErrDatabaseError, err)
		}
	}
	if purchase.Prescription != nil {
		if prescriptionArg, err = marshalJSONB(purchase.Prescription); err != nil {
			return 0, fmt.Errorf("%w: encoding purchase prescription: %v", ErrDatabaseError, err)
		}
	}

	err = executor.QueryRow(query,
		purchase.ClientID, purchase.Details, purchase.TotalAmount,
		purchase.PurchaseDate, purchase.PurchaseStatus,
		addressArg, purchase.CPF, purchase.PaymentMethod, prescriptionArg,
		purchase.FrameRef, purchase.LensRef, purchase.OtherNotes, purchase.Deposit,
		purchase.CreatedAt, purchase.UpdatedAt,
	).Scan(&purchase.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating purchase: %v", ErrDatabaseError, err)
	}
	return purchase.ID, nil
}

// GetPurchaseByID retrieves a purchase by its ID.
func (r *purchaseRepository) GetPurchaseByID(id int64) (*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	purchase, err := scanPurchase(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting purchase by ID %d: %v", ErrDatabaseError, id, err)
	}
	return purchase, nil
}

// GetPurchases retrieves all purchases, most recent purchase date first.
// The descending order is part of the API contract.
func (r *purchaseRepository) GetPurchases() ([]models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases ORDER BY purchase_date DESC`
	return r.queryPurchases(query)
}

// GetPurchasesByClientID retrieves all purchases referencing the given
// client, most recent purchase date first. Zero matches yield an empty slice.
func (r *purchaseRepository) GetPurchasesByClientID(clientID int64) ([]models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE client_id = $1 ORDER BY purchase_date DESC`
	return r.queryPurchases(query, clientID)
}

func (r *purchaseRepository) queryPurchases(query string, args ...interface{}) ([]models.Purchase, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying purchases: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	purchases := []models.Purchase{}
	for rows.Next() {
		purchase, scanErr := scanPurchase(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: scanning purchase: %v", ErrDatabaseError, scanErr)
		}
		purchases = append(purchases, *purchase)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating purchase rows: %v", ErrDatabaseError, err)
	}
	return purchases, nil
}

// CountPurchasesByClientID returns the true number of purchases referencing
// the given client, for reconciling the denormalized counter.
func (r *purchaseRepository) CountPurchasesByClientID(clientID int64) (int, error) {
	query := `SELECT COUNT(*) FROM purchases WHERE client_id = $1`

	var count int
	if err := r.db.QueryRow(query, clientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting purchases for client ID %d: %v", ErrDatabaseError, clientID, err)
	}
	return count, nil
}

// UpdatePurchase updates an existing purchase in the database.
func (r *purchaseRepository) UpdatePurchase(executor SQLExecutor, purchase *models.Purchase) error {
	query := `UPDATE purchases SET client_id = $1, details = $2, total_amount = $3,
	            purchase_date = $4, purchase_status = $5, address = $6, cpf = $7,
	            payment_method = $8, prescription = $9, frame_ref = $10, lens_ref = $11,
	            other_notes = $12, deposit = $13, updated_at = $14
	          WHERE id = $15`

	purchase.UpdatedAt = time.Now()

	var addressArg, prescriptionArg interface{}
	var err error
	if purchase.Address != nil {
		if addressArg, err = marshalJSONB(purchase.Address); err != nil {
			return fmt.Errorf("%w: encoding purchase address: %v", ErrDatabaseError, err)
		}
	}
	if purchase.Prescription != nil {
		if prescriptionArg, err = marshalJSONB(purchase.Prescription); err != nil {
			return fmt.Errorf("%w: encoding purchase prescription: %v", ErrDatabaseError, err)
		}
	}

	result, err := executor.Exec(query,
		purchase.ClientID, purchase.Details, purchase.TotalAmount,
		purchase.PurchaseDate, purchase.PurchaseStatus,
		addressArg, purchase.CPF, purchase.PaymentMethod, prescriptionArg,
		purchase.FrameRef, purchase.LensRef, purchase.OtherNotes, purchase.Deposit,
		purchase.UpdatedAt, purchase.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating purchase ID %d: %v", ErrDatabaseError, purchase.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating purchase ID %d: %v", ErrDatabaseError, purchase.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePurchase removes a purchase from the database.
func (r *purchaseRepository) DeletePurchase(executor SQLExecutor, id int64) error {
	query := `DELETE FROM purchases WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting purchase ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting purchase ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
