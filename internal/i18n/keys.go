// internal/i18n/keys.go
package i18n

// Translation keys shared between handlers and middleware.
const (
	KeyAuthRequired        = "auth.required"
	KeyAuthInvalidToken    = "auth.invalid_token"
	KeyAuthTokenExpired    = "auth.token_expired"
	KeyAuthRegisterSuccess = "auth.register_success"
	KeyAuthLoginSuccess    = "auth.login_success"
	KeyAuthLogoutSuccess   = "auth.logout_success"

	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"

	KeyUserNotFound = "user.not_found"

	KeySellerAccessDenied = "seller.access_denied"

	KeyStoreNotFound            = "store.not_found"
	KeyStoreExists              = "store.exists"
	KeyStoreBankAccountRequired = "store.bank_account_required"

	KeyProductNotFound             = "product.not_found"
	KeyProductQuotaExceeded        = "product.quota_exceeded"
	KeyProductSubscriptionRequired = "product.subscription_required"
	KeyProductOutOfStock           = "product.out_of_stock"

	KeyCartEmpty        = "cart.empty"
	KeyCartItemNotFound = "cart.item_not_found"

	KeyAddressNotFound = "address.not_found"

	KeyOrderNotFound          = "order.not_found"
	KeyOrderAddressRequired   = "order.address_required"
	KeyOrderInvalidTransition = "order.invalid_transition"
	KeyOrderCreated           = "order.created"

	KeyReturnNotFound         = "return.not_found"
	KeyReturnAlreadyRequested = "return.already_requested"
	KeyReturnNotDelivered     = "return.not_delivered"
	KeyReturnResolved         = "return.resolved"

	KeyPlanNotFound          = "subscription.plan_not_found"
	KeySubscriptionActivated = "subscription.activated"
	KeySubscriptionNotFound  = "subscription.not_found"
	KeyPaymentFailed         = "payment.failed"
	KeyPaymentSuccess        = "payment.success"
)
