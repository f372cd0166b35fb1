// Package payment wraps the Braintree gateway behind a small interface so
// the product workflow receives an injected client instead of sharing
// package-global state, and so tests can substitute a fake gateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	braintree "github.com/braintree-go/braintree-go"
)

// Config carries the recognized gateway options.
type Config struct {
	Environment string // "sandbox" or "production"
	MerchantID  string
	PublicKey   string
	PrivateKey  string
}

// Transaction is the slice of the gateway result this system persists with
// an order. The gateway keeps the authoritative record.
type Transaction struct {
	ID     string  `bson:"id" json:"id"`
	Status string  `bson:"status" json:"status"`
	Amount float64 `bson:"amount" json:"amount"`
}

// Gateway issues client tokens and captures sale transactions.
type Gateway interface {
	// ClientToken requests a client-side token for the payment SDK.
	ClientToken(ctx context.Context) (string, error)
	// Sale submits a sale for amount against a payment method nonce,
	// requesting immediate settlement.
	Sale(ctx context.Context, amount float64, nonce string) (*Transaction, error)
}

// Braintree is the production Gateway implementation.
type Braintree struct {
	bt *braintree.Braintree
}

// New builds a Braintree gateway client from cfg.
func New(cfg Config) (*Braintree, error) {
	if cfg.MerchantID == "" || cfg.PublicKey == "" || cfg.PrivateKey == "" {
		return nil, errors.New("payment: braintree credentials are not configured")
	}

	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	return &Braintree{
		bt: braintree.New(env, cfg.MerchantID, cfg.PublicKey, cfg.PrivateKey),
	}, nil
}

// ErrGatewayDisabled is returned by the disabled gateway used when no
// Braintree credentials are configured. Payment routes stay mounted but
// answer with an error instead of crashing the process at startup.
var ErrGatewayDisabled = errors.New("payment: gateway is not configured")

// Disabled returns a Gateway whose operations always fail with
// ErrGatewayDisabled.
func Disabled() Gateway {
	return disabledGateway{}
}

type disabledGateway struct{}

func (disabledGateway) ClientToken(context.Context) (string, error) {
	return "", ErrGatewayDisabled
}

func (disabledGateway) Sale(context.Context, float64, string) (*Transaction, error) {
	return nil, ErrGatewayDisabled
}

func (g *Braintree) ClientToken(ctx context.Context) (string, error) {
	token, err := g.bt.ClientToken().Generate(ctx)
	if err != nil {
		return "", fmt.Errorf("payment: generate client token: %w", err)
	}
	return token, nil
}

func (g *Braintree) Sale(ctx context.Context, amount float64, nonce string) (*Transaction, error) {
	cents := int64(math.Round(amount * 100))

	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(cents, 2),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("payment: sale: %w", err)
	}

	return &Transaction{
		ID:     tx.Id,
		Status: string(tx.Status),
		Amount: amount,
	}, nil
}
