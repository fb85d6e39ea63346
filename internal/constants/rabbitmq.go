package constants

const (
	IdentityExchange                 = "identity_exchange"
	IdentityExchangeType             = "topic"
	PasswordResetRequestedRoutingKey = "password_reset.requested"
)
