package errors

var (
	ErrInvalidQuantity = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "INVALID_QUANTITY",
		Message: "quantity must be at least 1",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "INVALID_AMOUNT",
		Message: "amount must be one of 5, 10, 20, 50, 100",
	}
	ErrCostOverflow = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "INVALID_QUANTITY",
		Message: "total cost is out of range",
	}
	ErrInsufficientFunds = &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_FUNDS",
		Message: "You do not have enough money to buy this product or this quantity",
	}
	ErrInsufficientStock = &DomainError{
		Kind:    KindInsufficientStock,
		Code:    "INSUFFICIENT_STOCK",
		Message: "Not enough quantity!",
	}
	ErrProductNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "PRODUCT_NOT_FOUND",
		Message: "Product not found",
	}
	ErrNotOwner = &DomainError{
		Kind:    KindForbidden,
		Code:    "NOT_OWNER",
		Message: "You are not the owner of this product!",
	}
)
