package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MikeRez0/tgshop/internal/core/domain"
)

const notSpecified = "not specified"

// OperatorMessage is the text the shop operator receives for a paid order.
func OperatorMessage(order *domain.Order, currency string) string {
	var b strings.Builder

	b.WriteString("🛒 New paid order\n\n")
	fmt.Fprintf(&b, "👤 Name: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "📱 Phone: %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "📍 Pickup point: %s\n", pickupAddress(order.PickupPoint))
	fmt.Fprintf(&b, "🔗 Telegram: %s\n", username(order.CustomerUsername))
	fmt.Fprintf(&b, "🆔 User ID: %s\n\n", order.CustomerID)

	b.WriteString("📦 Items:\n")
	for _, l := range order.Lines {
		fmt.Fprintf(&b, "- %s ×%d — %s %s\n", l.Name, l.Quantity, domain.FormatAmount(l.LineTotal), currency)
	}

	fmt.Fprintf(&b, "\n💰 Total: %s %s\n", domain.FormatAmount(order.Total), currency)
	fmt.Fprintf(&b, "🧾 Order: %s", order.ID)

	return b.String()
}

func CustomerMessage(order *domain.Order, currency string) string {
	return fmt.Sprintf("✅ Order %s is paid.\nAmount: %s %s\nStatus: %s\n\nThank you! We will let you know when it is ready for pickup.",
		order.ID, domain.FormatAmount(order.Total), currency, order.Status)
}

func pickupAddress(p *domain.PickupPoint) string {
	if p == nil {
		return notSpecified
	}
	if !p.Resolved {
		return p.Code
	}

	parts := make([]string, 0, 3)
	for _, s := range []string{p.Address, p.City, p.PostalCode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return p.Code
	}
	return strings.Join(parts, ", ")
}

func username(u string) string {
	if u == "" {
		return notSpecified
	}
	if strings.HasPrefix(u, "@") {
		return u
	}
	return "@" + u
}

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<token>"))
}
