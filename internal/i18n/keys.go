// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthInvalidToken  = "auth.invalid_token"
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Products
	KeyProductCreated      = "product.created"
	KeyProductNotFound     = "product.not_found"
	KeyProductSlugTaken    = "product.slug_taken"
	KeyProductCreateFailed = "product.create_failed"

	// Uploads
	KeyUploadNoFiles     = "upload.no_files"
	KeyUploadCountCap    = "upload.count_cap"
	KeyUploadTooLarge    = "upload.too_large"
	KeyUploadUnsupported = "upload.unsupported_type"
	KeyUploadRejected    = "upload.rejected"

	// Cart
	KeyCartEmpty       = "cart.empty"
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartCleared     = "cart.cleared"
	KeyCartUnavailable = "cart.unavailable"

	// Checkout
	KeyCheckoutFailed    = "checkout.failed"
	KeyCheckoutSucceeded = "checkout.success"
	KeyCheckoutCancelled = "checkout.cancelled"
)
