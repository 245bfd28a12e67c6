package whatsapp

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/config"
)

// Module exposes the outbound message sender to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (Sender, error) {
	if p.Config.WhatsAppToken == "" {
		p.Logger.Warn("whatsapp token not configured, outbound messages are logged only")
		return NewLogSender(p.Logger), nil
	}
	return NewHTTPClient(p.Config.WhatsAppAPIURL, p.Config.WhatsAppPhoneNumberID, p.Config.WhatsAppToken, p.Logger)
}
