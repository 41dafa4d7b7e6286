package auth

import (
	"fmt"
	"net/url"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/core/domain"
)

const (
	claimOrderID = "order_id"
	claimTotal   = "total"

	defaultLinkTTL = 24 * time.Hour
)

// PaymentLinker issues checkout links carrying an encrypted order token.
type PaymentLinker struct {
	parser   paseto.Parser
	key      paseto.V4SymmetricKey
	checkout *url.URL
	ttl      time.Duration
	now      func() time.Time
}

// NewPaymentLinker uses the hex key from config, or a random key when none is set.
// Links issued with a random key do not survive a restart.
func NewPaymentLinker(conf *config.Payment) (*PaymentLinker, error) {
	key := paseto.NewV4SymmetricKey()
	if conf.LinkKey != "" {
		var err error
		key, err = paseto.V4SymmetricKeyFromHex(conf.LinkKey)
		if err != nil {
			return nil, fmt.Errorf("parse payment link key: %w", err)
		}
	}

	ttl := conf.LinkTTL
	if ttl <= 0 {
		ttl = defaultLinkTTL
	}

	checkout, err := url.Parse(conf.CheckoutURL)
	if err != nil {
		return nil, fmt.Errorf("parse checkout url: %w", err)
	}

	return &PaymentLinker{
		parser:   paseto.NewParser(),
		key:      key,
		checkout: checkout,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

func (p *PaymentLinker) CreateLink(order *domain.Order) (string, error) {
	now := p.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(p.ttl))
	token.SetString(claimOrderID, order.ID)
	err := token.Set(claimTotal, order.Total)
	if err != nil {
		return "", domain.ErrTokenCreation
	}

	link := *p.checkout
	query := link.Query()
	query.Set(claimOrderID, order.ID)
	query.Set("token", token.V4Encrypt(p.key, nil))
	link.RawQuery = query.Encode()

	return link.String(), nil
}

// VerifyToken returns the order id of a valid, unexpired token.
func (p *PaymentLinker) VerifyToken(token string) (string, error) {
	parsed, err := p.parser.ParseV4Local(p.key, token, nil)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	orderID, err := parsed.GetString(claimOrderID)
	if err != nil || orderID == "" {
		return "", domain.ErrInvalidToken
	}
	return orderID, nil
}
