package payments

import (
	"elearn/config"
	"log"
)

// Intent is the provider-neutral view of a payment intent. Amounts are
// integer minor currency units as transmitted on the wire.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string
	Metadata     map[string]string
}

// Event is a provider-initiated webhook notification. Intent is nil for
// event types that do not carry a payment intent.
type Event struct {
	Type   string
	Intent *Intent
}

// Provider abstracts the payment provider. The Stripe implementation is
// the only one in production; tests inject a fake.
type Provider interface {
	CreateIntent(amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(id string) (*Intent, error)
	// VerifyWebhook authenticates a webhook delivery against the raw,
	// unparsed request body. Any transformation of the body before this
	// call invalidates the signature.
	VerifyWebhook(rawBody []byte, sigHeader string) (*Event, error)
}

// Gateway is the application-scoped payment provider, constructed once at
// startup. Nil when STRIPE_SECRET_KEY is not configured; handlers then
// report the payment service as unconfigured.
var Gateway Provider

// Setup constructs the Stripe gateway from validated credentials. A
// present but malformed key fails startup instead of failing lazily on
// the first request.
func Setup() {
	if config.AppConfig.StripeSecretKey == "" {
		log.Println("Payments: STRIPE_SECRET_KEY not set, paid enrollment disabled")
		return
	}

	gw, err := NewStripeGateway(config.AppConfig.StripeSecretKey, config.AppConfig.StripeWebhookSecret)
	if err != nil {
		log.Fatalf("Payments: invalid Stripe configuration: %v", err)
	}

	Gateway = gw
	log.Println("Payments: Stripe gateway initialized")
}
