package di

import (
	"context"

	dropusecase "nft-drop/internal/drop/usecase"
	"nft-drop/internal/shared/eventbus"
	"nft-drop/internal/shared/logger"
	walletusecase "nft-drop/internal/wallet/usecase"

	"go.uber.org/zap"
)

// subscribeAudit writes every wallet and mint event to the log
func subscribeAudit(bus *eventbus.EventBus, log logger.Logger) {
	handler := auditHandler(log.WithComponent("audit"))
	for _, eventType := range []string{
		eventbus.EventTypeWalletConnected,
		eventbus.EventTypeWalletDisconnected,
		eventbus.EventTypeMintConfirmed,
		eventbus.EventTypeMintFailed,
	} {
		bus.Subscribe(eventType, handler)
	}
}

func auditHandler(log logger.Logger) eventbus.Handler {
	return func(ctx context.Context, event eventbus.Event) error {
		fields := []zap.Field{
			zap.String("event", event.Type()),
			zap.String("source", event.Source()),
			zap.Time("at", event.Timestamp()),
		}

		switch data := event.Data().(type) {
		case walletusecase.WalletEvent:
			fields = append(fields, zap.String("address", data.Address), zap.String("session_id", data.SessionID))
		case dropusecase.MintEvent:
			fields = append(fields,
				zap.String("collection", data.Collection),
				zap.String("receiver", data.Receiver),
				zap.String("tx_hash", data.TxHash),
				zap.Strings("token_ids", data.TokenIDs),
			)
			if data.Reason != "" {
				fields = append(fields, zap.String("reason", data.Reason))
			}
		}

		entry := log.WithContext(ctx).WithFields(logger.Fields(fields...))
		if event.Type() == eventbus.EventTypeMintFailed {
			entry.Warn("audit")
		} else {
			entry.Info("audit")
		}
		return nil
	}
}
