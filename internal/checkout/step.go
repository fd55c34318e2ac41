package checkout

// Step is the checkout position. ContactInfo is initial; Submitted is
// terminal.
type Step int

const (
	StepContactInfo Step = iota + 1
	StepPaymentMethod
	StepPaymentEvidence
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepContactInfo:
		return "CONTACT_INFO"
	case StepPaymentMethod:
		return "PAYMENT_METHOD"
	case StepPaymentEvidence:
		return "PAYMENT_EVIDENCE"
	case StepSubmitted:
		return "SUBMITTED"
	default:
		return "UNKNOWN"
	}
}

func (s Step) IsTerminal() bool {
	return s == StepSubmitted
}

// CanTransitionTo enumerates the legal step transitions. Pay-on-delivery
// submits straight from the payment-method step; transfer and QR pass
// through the evidence step first.
func CanTransitionTo(from, to Step) bool {
	switch from {
	case StepContactInfo:
		return to == StepPaymentMethod
	case StepPaymentMethod:
		return to == StepPaymentEvidence || to == StepSubmitted
	case StepPaymentEvidence:
		return to == StepSubmitted
	default:
		return false
	}
}

// ShippingMethod is the checkout-time shipping tier. This tariff, not the
// cart's free-shipping display figure, decides the charged amount.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "estandar"
	ShippingExpress  ShippingMethod = "expreso"
)

const (
	standardShippingCost = 5000
	expressShippingCost  = 10000
)

func (m ShippingMethod) Valid() bool {
	return m == ShippingStandard || m == ShippingExpress
}

func (m ShippingMethod) Cost() float64 {
	if m == ShippingExpress {
		return expressShippingCost
	}
	return standardShippingCost
}
