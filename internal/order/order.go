package order

import "regexp"

// PaymentMethod is the closed set of payment methods the Order API accepts.
type PaymentMethod string

const (
	PayOnDelivery PaymentMethod = "contraentrega"
	BankTransfer  PaymentMethod = "transferencia"
	QRCode        PaymentMethod = "qr"
)

func (m PaymentMethod) Valid() bool {
	return m == PayOnDelivery || m == BankTransfer || m == QRCode
}

// RequiresEvidence reports whether the method needs a payment receipt
// before the order can be submitted.
func (m PaymentMethod) RequiresEvidence() bool {
	return m == BankTransfer || m == QRCode
}

// CustomerData and the request types below mirror the Order API wire
// format, which is in Spanish.
type CustomerData struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Phone string `json:"telefono"`
}

type ShippingAddress struct {
	Street  string `json:"calle"`
	City    string `json:"ciudad"`
	ZipCode string `json:"codigoPostal"`
	Country string `json:"pais"`
}

type OrderLine struct {
	ProductID string  `json:"producto"`
	Quantity  int     `json:"cantidad"`
	Size      string  `json:"talla,omitempty"`
	Color     string  `json:"color,omitempty"`
	UnitPrice float64 `json:"precioUnitario"`
}

type CreateOrderRequest struct {
	Customer        CustomerData    `json:"customerData"`
	Products        []OrderLine     `json:"productos"`
	PaymentMethod   PaymentMethod   `json:"metodoPago"`
	TotalPaid       float64         `json:"totalPagado"`
	ShippingCost    float64         `json:"costoEnvio"`
	ShippingAddress ShippingAddress `json:"direccionEnvio"`
	PaymentEvidence string          `json:"comprobantePago,omitempty"`
}

type Order struct {
	OrderNumber string `json:"orderNumber"`
}

// numberPattern matches the Order API's AM<YY><MM>-<4 digits> format.
var numberPattern = regexp.MustCompile(`^AM\d{4}-\d{4}$`)

// ValidNumber reports whether s looks like an order number the Order API
// would have produced.
func ValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}
