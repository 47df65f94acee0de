package nft

import "fmt"

// Error is a program error with a stable code, callers compare with errors.Is.
type Error struct {
	Code    uint32
	Name    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error Code: %s. Error Number: %d. Error Message: %s", e.Name, e.Code, e.Message)
}

var (
	ErrUnauthorized               = &Error{6000, "Unauthorized", "You are not authorized to perform this action."}
	ErrInvalidManager             = &Error{6001, "InvalidNftManager", "Invalid nft manager."}
	ErrInvalidCollectionAuthority = &Error{6002, "InvalidCollectionAuthority", "Invalid collection authority."}
	ErrInvalidCollectionMint      = &Error{6003, "InvalidCollectionMint", "Invalid collection mint."}
	ErrInvalidTokenId             = &Error{6004, "InvalidTokenId", "Invalid token id."}
)

func ErrorByCode(code uint32) *Error {
	for _, e := range []*Error{
		ErrUnauthorized,
		ErrInvalidManager,
		ErrInvalidCollectionAuthority,
		ErrInvalidCollectionMint,
		ErrInvalidTokenId,
	} {
		if e.Code == code {
			return e
		}
	}
	return nil
}
