// Package errors provides structured error handling for WarmNest services.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidArgument represents a malformed or missing request field.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Auth errors
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeAdminRequired Code = "ADMIN_REQUIRED"

	// Order errors
	CodeOrderNotFound     Code = "ORDER_NOT_FOUND"
	CodeOrderEmptyAddress Code = "ORDER_EMPTY_ADDRESS"
	CodeOrderInvalidTotal Code = "ORDER_INVALID_TOTAL"

	// Payment errors
	CodePaymentConfigMissing    Code = "PAYMENT_CONFIG_MISSING"
	CodePaymentBadSignature     Code = "PAYMENT_BAD_SIGNATURE"
	CodePaymentAmountMismatch   Code = "PAYMENT_AMOUNT_MISMATCH"
	CodePaymentMerchantMismatch Code = "PAYMENT_MERCHANT_MISMATCH"
	CodePaymentValidationFailed Code = "PAYMENT_VALIDATION_FAILED"
	CodePaymentMissingField     Code = "PAYMENT_MISSING_FIELD"

	// Catalog errors
	CodeProductNotFound Code = "PRODUCT_NOT_FOUND"
	CodeProductNotOwned Code = "PRODUCT_NOT_OWNED"

	// Vendor errors
	CodeVendorNotFound      Code = "VENDOR_NOT_FOUND"
	CodeVendorNotApproved   Code = "VENDOR_NOT_APPROVED"
	CodeVendorProfileExists Code = "VENDOR_PROFILE_EXISTS"
	CodeVendorSlugTaken     Code = "VENDOR_SLUG_TAKEN"

	// Account errors
	CodeUserNotFound    Code = "USER_NOT_FOUND"
	CodeUserInvalidRole Code = "USER_INVALID_ROLE"

	// Waitlist errors
	CodeWaitlistEmailExists    Code = "WAITLIST_EMAIL_EXISTS"
	CodeWaitlistEntryNotFound  Code = "WAITLIST_ENTRY_NOT_FOUND"
	CodeWaitlistAccountMissing Code = "WAITLIST_ACCOUNT_MISSING"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// HTTPStatus maps a domain error code to an HTTP status code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeAdminRequired, CodeProductNotOwned, CodeVendorNotApproved:
		return http.StatusForbidden
	case CodeOrderNotFound, CodeProductNotFound, CodeVendorNotFound,
		CodeUserNotFound, CodeWaitlistEntryNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeVendorProfileExists, CodeVendorSlugTaken,
		CodeWaitlistEmailExists:
		return http.StatusConflict
	case CodeInvalidArgument, CodeOrderEmptyAddress, CodeOrderInvalidTotal, CodeUserInvalidRole,
		CodeWaitlistAccountMissing, CodePaymentBadSignature,
		CodePaymentAmountMismatch, CodePaymentMerchantMismatch,
		CodePaymentValidationFailed, CodePaymentMissingField:
		return http.StatusBadRequest
	case CodePaymentConfigMissing:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
