package models

import "time"

// Payment methods accepted on a purchase.
const (
	PaymentCard     = "Card"
	PaymentInvoice  = "Invoice"
	PaymentCash     = "Cash"
	PaymentTransfer = "Transfer"
	PaymentPix      = "Pix"
)

// PaymentMethods lists every accepted payment method value.
var PaymentMethods = []string{PaymentCard, PaymentInvoice, PaymentCash, PaymentTransfer, PaymentPix}

// IsValidPaymentMethod reports whether m is one of the accepted payment methods.
func IsValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Address is the delivery address carried by a structured order.
type Address struct {
	Street   string `json:"street,omitempty"`
	District string `json:"district,omitempty"`
	City     string `json:"city,omitempty"`
}

// LensParams holds one eye's lens parameters.
type LensParams struct {
	Spherical   string `json:"spherical,omitempty"`
	Cylindrical string `json:"cylindrical,omitempty"`
	Axis        string `json:"axis,omitempty"`
}

// EyePair groups the right and left eye parameters for one viewing distance.
type EyePair struct {
	RightEye *LensParams `json:"right_eye,omitempty"`
	LeftEye  *LensParams `json:"left_eye,omitempty"`
}

// Prescription carries the distance and near lens prescriptions of an optical order.
type Prescription struct {
	Distance *EyePair `json:"distance,omitempty"`
	Near     *EyePair `json:"near,omitempty"`
}

// Purchase represents an order placed by a client. The core fields are always
// present; the structured order fields (address, payment method, prescription,
// frame/lens references, deposit) form an optional extension used by optical
// orders.
type Purchase struct {
	ID             int64     `json:"id" db:"id"`
	ClientID       int64     `json:"client_id" db:"client_id"`
	Details        *string   `json:"details,omitempty" db:"details"`
	TotalAmount    float64   `json:"total_amount" db:"total_amount"`
	PurchaseDate   time.Time `json:"purchase_date" db:"purchase_date"`
	PurchaseStatus bool      `json:"purchase_status" db:"purchase_status"`

	Address       *Address      `json:"address,omitempty" db:"address"`
	CPF           *string       `json:"cpf,omitempty" db:"cpf"`
	PaymentMethod *string       `json:"payment_method,omitempty" db:"payment_method"`
	Prescription  *Prescription `json:"prescription,omitempty" db:"prescription"`
	FrameRef      *string       `json:"frame_ref,omitempty" db:"frame_ref"`
	LensRef       *string       `json:"lens_ref,omitempty" db:"lens_ref"`
	OtherNotes    *string       `json:"other_notes,omitempty" db:"other_notes"`
	Deposit       float64       `json:"deposit" db:"deposit"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Client is the resolved owner, populated only on reads that ask for
	// the join. A dangling reference leaves it nil.
	Client *Client `json:"client,omitempty"`
}
