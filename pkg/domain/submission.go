package domain

import "strconv"

// Submission is the flat record handed to the submission endpoint.
// It never carries the full card number or the CVV.
type Submission struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	City        string
	Province    string
	Postal      string
	Country     string
	CardType    string
	LastFour    string
	ExpiryMonth int
	ExpiryYear  int
}

// NewSubmission builds the record from a session whose card data was validated.
func NewSubmission(s *FormSession) Submission {
	return Submission{
		FirstName:   s.Personal[FieldFirstName],
		LastName:    s.Personal[FieldLastName],
		Email:       s.Personal[FieldEmail],
		Phone:       s.Personal[FieldPhone],
		Address:     s.Personal[FieldAddress],
		City:        s.Personal[FieldCity],
		Province:    s.Personal[FieldProvince],
		Postal:      s.Personal[FieldPostal],
		Country:     s.Personal[FieldCountry],
		CardType:    s.Card.NetworkName,
		LastFour:    s.Card.LastFour(),
		ExpiryMonth: s.Card.ExpiryMonth,
		ExpiryYear:  s.Card.ExpiryYear,
	}
}

// SubmissionKeys lists the record keys in wire order.
var SubmissionKeys = []string{
	FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldAddress,
	FieldCity, FieldProvince, FieldPostal, FieldCountry,
	"cardType", "lastFour", "expiryMonth", "expiryYear",
}

// Fields flattens the record into its wire key/value pairs.
func (s Submission) Fields() map[string]string {
	return map[string]string{
		FieldFirstName: s.FirstName,
		FieldLastName:  s.LastName,
		FieldEmail:     s.Email,
		FieldPhone:     s.Phone,
		FieldAddress:   s.Address,
		FieldCity:      s.City,
		FieldProvince:  s.Province,
		FieldPostal:    s.Postal,
		FieldCountry:   s.Country,
		"cardType":     s.CardType,
		"lastFour":     s.LastFour,
		"expiryMonth":  strconv.Itoa(s.ExpiryMonth),
		"expiryYear":   strconv.Itoa(s.ExpiryYear),
	}
}
