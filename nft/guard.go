package nft

import "github.com/blocto/solana-go-sdk/common"

// RequireCreator guards the configuration mutators.
func RequireCreator(cfg *NftConfiguration, caller common.PublicKey) error {
	if cfg.Creator != caller {
		return ErrUnauthorized
	}
	return nil
}

// RequireManager guards the mint side operations. When manager is the key the
// configuration address was derived from, the check holds structurally.
func RequireManager(cfg *NftConfiguration, manager common.PublicKey) error {
	if cfg.Creator != manager {
		return ErrInvalidManager
	}
	return nil
}

func RequireAuthorityMatch(ca *CollectionAuthority, config common.PublicKey) error {
	if ca.Authority != config {
		return ErrInvalidCollectionAuthority
	}
	return nil
}

func RequireCollectionTokenMatch(ca *CollectionAuthority, token common.PublicKey) error {
	if !ca.Minted() || ca.CollectionToken != token {
		return ErrInvalidCollectionMint
	}
	return nil
}
