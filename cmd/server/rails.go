package main

import (
	"cmp"
	"strings"

	"github.com/tabison/suppliers/internal/platform/config"
	"github.com/tabison/suppliers/modules/payments"
	"github.com/tabison/suppliers/modules/payments/infrastructure/rails"
)

// buildRails constructs the configured rails. A rail with missing
// credentials is an error, never a silent skip.
func buildRails(cfg config.Config) ([]payments.Rail, error) {
	client := rails.NewHTTPClient(cfg.Payments.RequestTimeout)
	base := strings.TrimRight(cfg.Payments.PublicBaseURL, "/")

	var out []payments.Rail
	for _, name := range cfg.Payments.Rails {
		switch name {
		case config.RailMpesa:
			m := cfg.Payments.Mpesa
			rail, err := rails.NewMpesa(rails.MpesaConfig{
				BaseURL:        m.BaseURL,
				ConsumerKey:    m.ConsumerKey,
				ConsumerSecret: m.ConsumerSecret,
				ShortCode:      m.ShortCode,
				Passkey:        m.Passkey,
			}, client)
			if err != nil {
				return nil, err
			}
			out = append(out, rail)

		case config.RailCard:
			rail, err := rails.NewCard(rails.CardConfig{
				BaseURL:   cfg.Payments.Card.BaseURL,
				SecretKey: cfg.Payments.Card.SecretKey,
			}, client)
			if err != nil {
				return nil, err
			}
			out = append(out, rail)

		case config.RailPayPal:
			p := cfg.Payments.PayPal
			rail, err := rails.NewPayPal(rails.PayPalConfig{
				BaseURL:      p.BaseURL,
				ClientID:     p.ClientID,
				ClientSecret: p.ClientSecret,
				Currency:     p.Currency,
				Rate:         p.Rate,
				ReturnURL:    cmp.Or(p.ReturnURL, base+"/checkout/paypal/return"),
				CancelURL:    cmp.Or(p.CancelURL, base+"/checkout/paypal/cancel"),
			}, client)
			if err != nil {
				return nil, err
			}
			out = append(out, rail)

		case config.RailSandbox:
			// config.Validate already refuses the sandbox in production.
			out = append(out, rails.NewSandbox())
		}
	}
	return out, nil
}
