package events

// Wallet event types
const (
	WalletConnectedEventType      = "wallet.connected"
	WalletDisconnectedEventType   = "wallet.disconnected"
	WalletAccountChangedEventType = "wallet.account_changed"
	NotificationEventType         = "notification"
)

// WalletConnectedEvent is emitted when a connect attempt completes.
type WalletConnectedEvent struct {
	BaseEvent
	Account string `json:"account"`
}

// NewWalletConnectedEvent creates a new WalletConnectedEvent
func NewWalletConnectedEvent(account string) *WalletConnectedEvent {
	return &WalletConnectedEvent{
		BaseEvent: newBaseEvent(WalletConnectedEventType),
		Account:   account,
	}
}

// WalletDisconnectedEvent is emitted on explicit disconnect and when the
// provider reports zero accounts.
type WalletDisconnectedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

// NewWalletDisconnectedEvent creates a new WalletDisconnectedEvent
func NewWalletDisconnectedEvent(reason string) *WalletDisconnectedEvent {
	return &WalletDisconnectedEvent{
		BaseEvent: newBaseEvent(WalletDisconnectedEventType),
		Reason:    reason,
	}
}

// WalletAccountChangedEvent is emitted when reconciliation switches the
// active account without going through Connect.
type WalletAccountChangedEvent struct {
	BaseEvent
	Previous string `json:"previous,omitempty"`
	Account  string `json:"account"`
}

// NewWalletAccountChangedEvent creates a new WalletAccountChangedEvent
func NewWalletAccountChangedEvent(previous, account string) *WalletAccountChangedEvent {
	return &WalletAccountChangedEvent{
		BaseEvent: newBaseEvent(WalletAccountChangedEventType),
		Previous:  previous,
		Account:   account,
	}
}

// NotificationLevel controls how a client presents a notification.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// NotificationEvent carries a short user-facing message.
type NotificationEvent struct {
	BaseEvent
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// NewNotificationEvent creates a new NotificationEvent
func NewNotificationEvent(level NotificationLevel, message string) *NotificationEvent {
	return &NotificationEvent{
		BaseEvent: newBaseEvent(NotificationEventType),
		Level:     level,
		Message:   message,
	}
}
