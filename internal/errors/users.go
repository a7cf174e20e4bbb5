package errors

var (
	ErrUserNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "USER_NOT_FOUND",
		Message: "User not found",
	}
	ErrUsernameTaken = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "USERNAME_TAKEN",
		Message: "Username is already taken!",
	}
	ErrInvalidCredentials = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid credentials!",
	}
	ErrInvalidInput = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "INVALID_INPUT",
		Message: "invalid input",
	}
	ErrSellerHasProducts = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "SELLER_HAS_PRODUCTS",
		Message: "seller still has products listed",
	}
	ErrForbidden = &DomainError{
		Kind:    KindForbidden,
		Code:    "FORBIDDEN",
		Message: "Forbidden",
	}
	ErrUnauthorized = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: "Unauthorized",
	}
	ErrInvalidToken = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "INVALID_TOKEN",
		Message: "invalid or expired token",
	}
)
