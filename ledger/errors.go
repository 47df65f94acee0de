package ledger

import "errors"

var (
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrMissingSignature    = errors.New("missing required signature for instruction")
	ErrInvalidSeeds        = errors.New("invalid seeds, address must fall off the curve")
	ErrAccountAlreadyInUse = errors.New("account already in use")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAccountDataTooSmall = errors.New("account data too small for instruction")
	ErrInvalidAccountOwner = errors.New("invalid account owner")
	ErrInvalidAccountData  = errors.New("invalid account data for instruction")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")

	ErrNotRentExempt        = errors.New("lamport balance below rent-exempt threshold")
	ErrUninitializedAccount = errors.New("invalid state: account not initialized")
	ErrAlreadyInitialized   = errors.New("account or token already in use")
	ErrOwnerMismatch        = errors.New("owner does not match")
	ErrMintMismatch         = errors.New("account not associated with this mint")
	ErrFixedSupply          = errors.New("the total supply of this token is fixed")

	ErrDerivedKeyInvalid                = errors.New("derived key invalid")
	ErrInvalidMintAuthority             = errors.New("mint authority provided does not match the authority on the mint")
	ErrUpdateAuthorityIncorrect         = errors.New("update authority is incorrect")
	ErrDataIsImmutable                  = errors.New("data is immutable")
	ErrIsMutableCanOnlyBeFlippedToFalse = errors.New("is mutable can only be flipped to false")
	ErrNameTooLong                      = errors.New("name too long")
	ErrSymbolTooLong                    = errors.New("symbol too long")
	ErrUriTooLong                       = errors.New("uri too long")
	ErrInvalidBasisPoints               = errors.New("basis points cannot be more than 10000")
	ErrShareTotalMustBe100              = errors.New("share total must equal 100 for creator array")
	ErrCannotVerifyAnotherCreator       = errors.New("you cannot unilaterally verify another creator, they must sign")
	ErrEditionsMustHaveExactlyOneToken  = errors.New("editions must have exactly one token")
	ErrCollectionMustBeUnique           = errors.New("collection must be a unique master edition v2")
	ErrUnsizedCollection                = errors.New("can't use this function on unsized collection")
	ErrCollectionAlreadyVerified        = errors.New("collection already verified")
	ErrCollectionSelfVerify             = errors.New("collection cannot be verified as its own item")
	ErrInvalidCollectionUpdateAuthority = errors.New("update authority is not approved to modify this collection")
)
