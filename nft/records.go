package nft

import (
	"bytes"
	"fmt"

	"github.com/MixinNetwork/mixin/crypto"
	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/near/borsh-go"
)

const (
	// long texts fail to store with ledger.ErrAccountDataTooSmall
	NftConfigurationSize    = 453
	// discriminator, authority, collection token, bump
	CollectionAuthoritySize = 8 + 32 + 32 + 1
)

type NftConfiguration struct {
	Creator common.PublicKey
	Name    string
	Symbol  string
	BaseURI string
	Price   uint64
	Bump    uint8
}

type CollectionAuthority struct {
	Authority       common.PublicKey
	CollectionToken common.PublicKey
	Bump            uint8
}

// Minted reports whether the collection token has been recorded.
func (ca *CollectionAuthority) Minted() bool {
	return ca.CollectionToken != (common.PublicKey{})
}

func discriminator(name string) []byte {
	h := crypto.NewHash([]byte("account:" + name))
	return h[:8]
}

var (
	discriminatorConfiguration = discriminator("NftConfiguration")
	discriminatorCollection    = discriminator("CollectionAuthority")
)

func (cfg *NftConfiguration) Marshal() []byte {
	return encodeRecord(discriminatorConfiguration, *cfg)
}

func (ca *CollectionAuthority) Marshal() []byte {
	return encodeRecord(discriminatorCollection, *ca)
}

func DecodeNftConfiguration(data []byte) (*NftConfiguration, error) {
	var cfg NftConfiguration
	err := decodeRecord(discriminatorConfiguration, data, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func DecodeCollectionAuthority(data []byte) (*CollectionAuthority, error) {
	var ca CollectionAuthority
	err := decodeRecord(discriminatorCollection, data, &ca)
	if err != nil {
		return nil, err
	}
	return &ca, nil
}

func encodeRecord(disc []byte, record interface{}) []byte {
	data, err := borsh.Serialize(record)
	if err != nil {
		panic(err)
	}
	return append(append([]byte{}, disc...), data...)
}

func decodeRecord(disc []byte, data []byte, record interface{}) error {
	if len(data) < len(disc) || !bytes.Equal(data[:len(disc)], disc) {
		return fmt.Errorf("%w: account discriminator mismatch", ledger.ErrInvalidAccountData)
	}
	err := borsh.Deserialize(record, data[len(disc):])
	if err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrInvalidAccountData, err)
	}
	return nil
}
