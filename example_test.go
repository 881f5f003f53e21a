package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/checkout"
	"github.com/aretw0/checkout/pkg/adapters/memory"
	"github.com/aretw0/checkout/pkg/domain"
)

// ExampleNew_memory drives a checkout against an in-memory submitter.
func ExampleNew_memory() {
	sub := memory.NewSubmitter("Thank you")
	eng, err := checkout.New(checkout.WithSubmitter(sub))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	s, _ := eng.Start(ctx, "example")

	// An empty personal form is blocked on its first field.
	_, err = eng.Advance(ctx, s)
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		fmt.Println(ve.Fields[0].Field, "-", ve.Fields[0].Message)
	}

	s, _ = eng.ChangeField(ctx, s, domain.FieldCardNumber, "5500000000000004")
	view, _ := eng.Render(ctx, s)
	fmt.Println(view.Payment[0].Value, view.CardNetwork)

	// Output:
	// firstName - Please fill out this field.
	// 5500 0000 0000 0004 Mastercard
}
