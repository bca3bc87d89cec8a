package lib

import (
	"context"
	"os"
	"rsb/src/config"
	"rsb/src/types"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

// NewStripeClient Replace stripe instance with custom client implementation
func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

func gatewayContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.PaymentConfirmTimeout*time.Second)
}

// CreateSeatPaymentIntent opens a payment intent scoped to one seat of one
// game. Amount is in minor units. No seat state is touched here.
func CreateSeatPaymentIntent(amount int64, seatId uint, gameId uint) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	currency := os.Getenv("PAYMENT_CURRENCY")
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	params := stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"seat_id": strconv.FormatUint(uint64(seatId), 10),
			"game_id": strconv.FormatUint(uint64(gameId), 10),
		},
	}
	ctx, cancel := gatewayContext()
	defer cancel()
	return sc.V1PaymentIntents.Create(ctx, &params)
}

// ConfirmSeatPaymentIntent looks the intent up at the gateway and collapses
// its state into the typed result the booking flow switches on.
func ConfirmSeatPaymentIntent(intentId string) (*types.IntentResult, error) {
	sc := GetStripeClient()
	ctx, cancel := gatewayContext()
	defer cancel()
	pi, err := sc.V1PaymentIntents.Retrieve(ctx, intentId, nil)
	if err != nil {
		return nil, err
	}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return &types.IntentResult{Status: types.INTENT_CONFIRMED}, nil
	case stripe.PaymentIntentStatusProcessing,
		stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod:
		return &types.IntentResult{Status: types.INTENT_PENDING, Reason: string(pi.Status)}, nil
	default:
		return &types.IntentResult{Status: types.INTENT_FAILED, Reason: string(pi.Status)}, nil
	}
}
