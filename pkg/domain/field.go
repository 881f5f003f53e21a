package domain

// Field names shared by the forms, the submission record and the adapters.
// They follow the input names used by the page markup.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldAddress   = "address"
	FieldCity      = "city"
	FieldProvince  = "province"
	FieldPostal    = "postal"
	FieldCountry   = "country"

	FieldCardNumber = "cardNumber"
	FieldCardHolder = "cardHolder"
	FieldExpiry     = "expiry"
	FieldCVV        = "cvv"
)

// PersonalFields lists the personal form inputs in document order.
// Constraint reporting picks the first invalid field in this order.
var PersonalFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldAddress,
	FieldCity,
	FieldProvince,
	FieldPostal,
	FieldCountry,
}

// PaymentFields lists the card form inputs in document order.
var PaymentFields = []string{
	FieldCardNumber,
	FieldCardHolder,
	FieldExpiry,
	FieldCVV,
}

// IsPersonalField reports whether name belongs to the personal form.
func IsPersonalField(name string) bool {
	return contains(PersonalFields, name)
}

// IsPaymentField reports whether name belongs to the card form.
func IsPaymentField(name string) bool {
	return contains(PaymentFields, name)
}

func contains(list []string, name string) bool {
	for _, f := range list {
		if f == name {
			return true
		}
	}
	return false
}

// MarkerState is the visual validity marker of an input.
type MarkerState string

const (
	MarkerValid   MarkerState = "valid"
	MarkerInvalid MarkerState = "invalid"
)

// Marker annotates a single input after validation.
// An absent marker means the field is in its neutral state.
type Marker struct {
	State   MarkerState `json:"state"`
	Message string      `json:"message,omitempty"`
}
