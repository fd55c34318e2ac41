package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/andersondev17/AMMAE-sub000/internal/cart"
	"github.com/andersondev17/AMMAE-sub000/internal/order"
)

// BusinessNumber is the store's WhatsApp line, international format
// without the plus sign.
const BusinessNumber = "573052668499"

// LinkOpener hands a deep link to the buyer's device. The HTTP layer
// implements it as a redirect; tests inject fakes.
type LinkOpener interface {
	Open(link string) error
}

// Result is the outcome of a dispatch attempt. All failure paths end
// here; the dispatcher never panics outward.
type Result struct {
	Success      bool     `json:"success"`
	Platform     Platform `json:"platform,omitempty"`
	Link         string   `json:"link,omitempty"`
	FallbackUsed bool     `json:"fallbackUsed,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type Dispatcher struct {
	number   string
	opener   LinkOpener
	fallback LinkOpener
}

// NewDispatcher builds a dispatcher around a primary opener and a
// fallback used when the primary is blocked. fallback may be nil.
func NewDispatcher(number string, opener, fallback LinkOpener) *Dispatcher {
	if number == "" {
		number = BusinessNumber
	}
	return &Dispatcher{number: number, opener: opener, fallback: fallback}
}

// SendOrderNotification formats the order summary and opens it through
// the platform-appropriate WhatsApp link. A blocked primary opener falls
// back to the desktop web link.
func (d *Dispatcher) SendOrderNotification(snap cart.Snapshot, customer order.CustomerData, shipping float64, userAgent string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Success: false, Error: fmt.Sprintf("notification dispatch panicked: %v", r)}
		}
	}()

	platform := DetectPlatform(userAgent)
	message := FormatOrderMessage(snap, customer, shipping)

	link := d.deepLink(platform, message)
	if err := d.opener.Open(link); err == nil {
		return Result{Success: true, Platform: platform, Link: link}
	}

	// Primary blocked; last resort is the plain web link.
	webLink := d.webLink(message)
	if d.fallback != nil {
		if err := d.fallback.Open(webLink); err == nil {
			return Result{Success: true, Platform: platform, Link: webLink, FallbackUsed: true}
		}
	}

	return Result{
		Success:      false,
		Platform:     platform,
		Link:         webLink,
		FallbackUsed: true,
		Error:        "could not open whatsapp link",
	}
}

func (d *Dispatcher) deepLink(platform Platform, message string) string {
	if platform.IsMobile() {
		return fmt.Sprintf("whatsapp://send?phone=%s&text=%s", d.number, url.QueryEscape(message))
	}
	return d.webLink(message)
}

func (d *Dispatcher) webLink(message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", d.number, url.QueryEscape(message))
}

// FormatOrderMessage renders the fixed-structure summary: customer block,
// itemized lines, then totals. Platform plays no part here.
func FormatOrderMessage(snap cart.Snapshot, customer order.CustomerData, shipping float64) string {
	var b strings.Builder

	b.WriteString("*Nuevo pedido AMMAE*\n\n")
	fmt.Fprintf(&b, "Cliente: %s\n", customer.Name)
	fmt.Fprintf(&b, "Email: %s\n", customer.Email)
	fmt.Fprintf(&b, "Telefono: %s\n\n", customer.Phone)

	b.WriteString("*Productos:*\n")
	for _, item := range snap.Items {
		fmt.Fprintf(&b, "- %s", item.Product.Name)
		if item.Size != "" {
			fmt.Fprintf(&b, " | Talla %s", item.Size)
		}
		if item.Color != "" {
			fmt.Fprintf(&b, " | %s", item.Color)
		}
		fmt.Fprintf(&b, " x%d = %s\n", item.Quantity, formatPrice(item.LineTotal))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", formatPrice(snap.Subtotal))
	fmt.Fprintf(&b, "Envio: %s\n", formatPrice(shipping))
	fmt.Fprintf(&b, "*Total: %s*\n", formatPrice(snap.Subtotal+shipping))

	return b.String()
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.0f", v)
}
