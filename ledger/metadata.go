package ledger

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
)

const (
	MetadataSize                  = 679
	MasterEditionSize             = 282
	CollectionAuthorityRecordSize = 35

	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxUriLength    = 200

	keyMetadataV1                = 4
	keyMasterEditionV2           = 6
	keyCollectionAuthorityRecord = 9
)

type MetadataData struct {
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             *[]token_metadata.Creator
}

type Collection struct {
	Verified bool
	Key      common.PublicKey
}

type CollectionDetails struct {
	Size uint64
}

type Metadata struct {
	Key                 uint8
	UpdateAuthority     common.PublicKey
	Mint                common.PublicKey
	Data                MetadataData
	PrimarySaleHappened bool
	IsMutable           bool
	Collection          *Collection
	CollectionDetails   *CollectionDetails
}

type MasterEdition struct {
	Key       uint8
	Supply    uint64
	MaxSupply *uint64
}

type CollectionAuthorityRecord struct {
	Key             uint8
	Bump            uint8
	UpdateAuthority *common.PublicKey
}

func DecodeMetadata(acc *Account) (*Metadata, error) {
	var md Metadata
	err := decodeState(acc, TokenMetadataProgramID, &md)
	if err != nil {
		return nil, err
	}
	if md.Key != keyMetadataV1 {
		return nil, fmt.Errorf("%w: %s key %d", ErrInvalidAccountData, acc.Address.ToBase58(), md.Key)
	}
	return &md, nil
}

func DecodeMasterEdition(acc *Account) (*MasterEdition, error) {
	var me MasterEdition
	err := decodeState(acc, TokenMetadataProgramID, &me)
	if err != nil {
		return nil, err
	}
	if me.Key != keyMasterEditionV2 {
		return nil, fmt.Errorf("%w: %s key %d", ErrInvalidAccountData, acc.Address.ToBase58(), me.Key)
	}
	return &me, nil
}

func DecodeCollectionAuthorityRecord(acc *Account) (*CollectionAuthorityRecord, error) {
	var r CollectionAuthorityRecord
	err := decodeState(acc, TokenMetadataProgramID, &r)
	if err != nil {
		return nil, err
	}
	if r.Key != keyCollectionAuthorityRecord {
		return nil, fmt.Errorf("%w: %s key %d", ErrInvalidAccountData, acc.Address.ToBase58(), r.Key)
	}
	return &r, nil
}

func MetadataAddress(mint common.PublicKey) (common.PublicKey, error) {
	return token_metadata.GetTokenMetaPubkey(mint)
}

func MasterEditionAddress(mint common.PublicKey) (common.PublicKey, error) {
	return token_metadata.GetMasterEdition(mint)
}

func CollectionAuthorityRecordAddress(mint, authority common.PublicKey) (common.PublicKey, uint8, error) {
	return common.FindProgramAddress([][]byte{
		[]byte("metadata"),
		TokenMetadataProgramID.Bytes(),
		mint.Bytes(),
		[]byte("collection_authority"),
		authority.Bytes(),
	}, TokenMetadataProgramID)
}

func ValidateMetadataData(data *MetadataData) error {
	if len(data.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(data.Symbol) > MaxSymbolLength {
		return ErrSymbolTooLong
	}
	if len(data.Uri) > MaxUriLength {
		return ErrUriTooLong
	}
	if data.SellerFeeBasisPoints > 10000 {
		return ErrInvalidBasisPoints
	}
	if data.Creators == nil {
		return nil
	}
	total := 0
	for _, c := range *data.Creators {
		total += int(c.Share)
	}
	if total != 100 {
		return ErrShareTotalMustBe100
	}
	return nil
}

type CreateMetadataParam struct {
	Metadata          common.PublicKey
	Mint              common.PublicKey
	MintAuthority     common.PublicKey
	Payer             common.PublicKey
	UpdateAuthority   common.PublicKey
	Data              MetadataData
	IsMutable         bool
	CollectionDetails *CollectionDetails
}

func (inv *Invocation) CreateMetadata(p CreateMetadataParam) error {
	err := inv.begin(p.MintAuthority, p.Payer)
	if err != nil {
		return err
	}
	err = checkDerived(p.Metadata, p.Mint, MetadataAddress)
	if err != nil {
		return err
	}
	macc, err := inv.rt.mustReadAccount(p.Mint)
	if err != nil {
		return err
	}
	m, err := DecodeMint(macc)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil || *m.MintAuthority != p.MintAuthority {
		return ErrInvalidMintAuthority
	}
	err = ValidateMetadataData(&p.Data)
	if err != nil {
		return err
	}
	if p.Data.Creators != nil {
		for _, c := range *p.Data.Creators {
			if c.Verified && !inv.signers[c.Address] {
				return ErrCannotVerifyAnotherCreator
			}
		}
	}
	if err := inv.requireSystemAccount(p.Payer); err != nil {
		return err
	}
	acc, err := inv.rt.allocate(p.Payer, p.Metadata, inv.rt.MinimumBalance(MetadataSize), MetadataSize, TokenMetadataProgramID)
	if err != nil {
		return err
	}
	inv.rt.Msg("CreateMetadata %s mint %s", p.Metadata.ToBase58(), p.Mint.ToBase58())
	return inv.rt.writeState(acc, Metadata{
		Key:               keyMetadataV1,
		UpdateAuthority:   p.UpdateAuthority,
		Mint:              p.Mint,
		Data:              p.Data,
		IsMutable:         p.IsMutable,
		CollectionDetails: p.CollectionDetails,
	})
}

type CreateMasterEditionParam struct {
	Edition         common.PublicKey
	Mint            common.PublicKey
	UpdateAuthority common.PublicKey
	MintAuthority   common.PublicKey
	Metadata        common.PublicKey
	Payer           common.PublicKey
	MaxSupply       *uint64
}

// CreateMasterEdition freezes the supply of a one token mint. Both mint
// authorities move to the edition account.
func (inv *Invocation) CreateMasterEdition(p CreateMasterEditionParam) error {
	err := inv.begin(p.UpdateAuthority, p.MintAuthority, p.Payer)
	if err != nil {
		return err
	}
	err = checkDerived(p.Edition, p.Mint, MasterEditionAddress)
	if err != nil {
		return err
	}
	mdacc, err := inv.rt.mustReadAccount(p.Metadata)
	if err != nil {
		return err
	}
	md, err := DecodeMetadata(mdacc)
	if err != nil {
		return err
	}
	if md.Mint != p.Mint {
		return fmt.Errorf("%w: metadata mint %s", ErrMintMismatch, md.Mint.ToBase58())
	}
	if md.UpdateAuthority != p.UpdateAuthority {
		return ErrUpdateAuthorityIncorrect
	}
	macc, err := inv.rt.mustReadAccount(p.Mint)
	if err != nil {
		return err
	}
	m, err := DecodeMint(macc)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil || *m.MintAuthority != p.MintAuthority {
		return ErrInvalidMintAuthority
	}
	if m.Decimals != 0 || m.Supply != 1 {
		return ErrEditionsMustHaveExactlyOneToken
	}
	if err := inv.requireSystemAccount(p.Payer); err != nil {
		return err
	}
	acc, err := inv.rt.allocate(p.Payer, p.Edition, inv.rt.MinimumBalance(MasterEditionSize), MasterEditionSize, TokenMetadataProgramID)
	if err != nil {
		return err
	}
	err = inv.rt.writeState(acc, MasterEdition{Key: keyMasterEditionV2, MaxSupply: p.MaxSupply})
	if err != nil {
		return err
	}
	inv.rt.Msg("CreateMasterEdition %s mint %s", p.Edition.ToBase58(), p.Mint.ToBase58())
	return inv.setMintAuthorities(macc, m, p.Edition)
}

type UpdateMetadataParam struct {
	Metadata            common.PublicKey
	UpdateAuthority     common.PublicKey
	NewUpdateAuthority  *common.PublicKey
	Data                *MetadataData
	PrimarySaleHappened *bool
	IsMutable           *bool
}

// UpdateMetadata never touches the collection fields.
func (inv *Invocation) UpdateMetadata(p UpdateMetadataParam) error {
	err := inv.begin(p.UpdateAuthority)
	if err != nil {
		return err
	}
	acc, err := inv.rt.mustReadAccount(p.Metadata)
	if err != nil {
		return err
	}
	md, err := DecodeMetadata(acc)
	if err != nil {
		return err
	}
	if md.UpdateAuthority != p.UpdateAuthority {
		return ErrUpdateAuthorityIncorrect
	}
	if p.Data != nil {
		if !md.IsMutable {
			return ErrDataIsImmutable
		}
		err = ValidateMetadataData(p.Data)
		if err != nil {
			return err
		}
		md.Data = *p.Data
	}
	if p.NewUpdateAuthority != nil {
		md.UpdateAuthority = *p.NewUpdateAuthority
	}
	if p.PrimarySaleHappened != nil && *p.PrimarySaleHappened {
		md.PrimarySaleHappened = true
	}
	if p.IsMutable != nil {
		if *p.IsMutable && !md.IsMutable {
			return ErrIsMutableCanOnlyBeFlippedToFalse
		}
		md.IsMutable = *p.IsMutable
	}
	inv.rt.Msg("UpdateMetadata %s", p.Metadata.ToBase58())
	return inv.rt.writeState(acc, *md)
}

type ApproveCollectionAuthorityParam struct {
	Record          common.PublicKey
	NewAuthority    common.PublicKey
	UpdateAuthority common.PublicKey
	Payer           common.PublicKey
	Metadata        common.PublicKey
	Mint            common.PublicKey
}

func (inv *Invocation) ApproveCollectionAuthority(p ApproveCollectionAuthorityParam) error {
	err := inv.begin(p.UpdateAuthority, p.Payer)
	if err != nil {
		return err
	}
	err = checkDerived(p.Metadata, p.Mint, MetadataAddress)
	if err != nil {
		return err
	}
	mdacc, err := inv.rt.mustReadAccount(p.Metadata)
	if err != nil {
		return err
	}
	md, err := DecodeMetadata(mdacc)
	if err != nil {
		return err
	}
	if md.UpdateAuthority != p.UpdateAuthority {
		return ErrUpdateAuthorityIncorrect
	}
	record, bump, err := CollectionAuthorityRecordAddress(p.Mint, p.NewAuthority)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeeds, err)
	}
	if record != p.Record {
		return fmt.Errorf("%w: %s", ErrDerivedKeyInvalid, p.Record.ToBase58())
	}
	if err := inv.requireSystemAccount(p.Payer); err != nil {
		return err
	}
	acc, err := inv.rt.allocate(p.Payer, record, inv.rt.MinimumBalance(CollectionAuthorityRecordSize), CollectionAuthorityRecordSize, TokenMetadataProgramID)
	if err != nil {
		return err
	}
	authority := p.UpdateAuthority
	inv.rt.Msg("ApproveCollectionAuthority %s for %s", p.NewAuthority.ToBase58(), p.Mint.ToBase58())
	return inv.rt.writeState(acc, CollectionAuthorityRecord{
		Key:             keyCollectionAuthorityRecord,
		Bump:            bump,
		UpdateAuthority: &authority,
	})
}

type SetAndVerifySizedCollectionItemParam struct {
	Metadata                common.PublicKey
	CollectionAuthority     common.PublicKey
	Payer                   common.PublicKey
	UpdateAuthority         common.PublicKey
	CollectionMint          common.PublicKey
	CollectionMetadata      common.PublicKey
	CollectionMasterEdition common.PublicKey
	AuthorityRecord         *common.PublicKey
}

// SetAndVerifySizedCollectionItem marks the item as a verified member of a
// sized collection and grows the collection size by one.
func (inv *Invocation) SetAndVerifySizedCollectionItem(p SetAndVerifySizedCollectionItemParam) error {
	err := inv.begin(p.CollectionAuthority, p.Payer)
	if err != nil {
		return err
	}
	acc, err := inv.rt.mustReadAccount(p.Metadata)
	if err != nil {
		return err
	}
	md, err := DecodeMetadata(acc)
	if err != nil {
		return err
	}
	if md.UpdateAuthority != p.UpdateAuthority {
		return ErrUpdateAuthorityIncorrect
	}
	if md.Mint == p.CollectionMint {
		return ErrCollectionSelfVerify
	}
	if md.Collection != nil && md.Collection.Verified {
		return ErrCollectionAlreadyVerified
	}

	err = checkDerived(p.CollectionMetadata, p.CollectionMint, MetadataAddress)
	if err != nil {
		return err
	}
	err = checkDerived(p.CollectionMasterEdition, p.CollectionMint, MasterEditionAddress)
	if err != nil {
		return err
	}
	cacc, err := inv.rt.mustReadAccount(p.CollectionMetadata)
	if err != nil {
		return err
	}
	cmd, err := DecodeMetadata(cacc)
	if err != nil {
		return err
	}
	eacc, err := inv.rt.mustReadAccount(p.CollectionMasterEdition)
	if err != nil {
		return err
	}
	me, err := DecodeMasterEdition(eacc)
	if err != nil {
		return err
	}
	if me.MaxSupply == nil || *me.MaxSupply != 0 {
		return ErrCollectionMustBeUnique
	}
	if cmd.CollectionDetails == nil {
		return ErrUnsizedCollection
	}
	err = inv.checkCollectionAuthority(cmd, p)
	if err != nil {
		return err
	}

	md.Collection = &Collection{Verified: true, Key: p.CollectionMint}
	cmd.CollectionDetails.Size += 1
	err = inv.rt.writeState(acc, *md)
	if err != nil {
		return err
	}
	inv.rt.Msg("SetAndVerifySizedCollectionItem %s in %s size %d", md.Mint.ToBase58(), p.CollectionMint.ToBase58(), cmd.CollectionDetails.Size)
	return inv.rt.writeState(cacc, *cmd)
}

func (inv *Invocation) checkCollectionAuthority(cmd *Metadata, p SetAndVerifySizedCollectionItemParam) error {
	if p.AuthorityRecord != nil {
		addr, _, err := CollectionAuthorityRecordAddress(p.CollectionMint, p.CollectionAuthority)
		if err != nil || addr != *p.AuthorityRecord {
			return ErrInvalidCollectionUpdateAuthority
		}
		racc, err := inv.rt.txn.ReadAccount(addr)
		if err != nil {
			return err
		}
		if racc.HoldsData() {
			r, err := DecodeCollectionAuthorityRecord(racc)
			if err != nil {
				return err
			}
			if r.UpdateAuthority != nil && *r.UpdateAuthority == cmd.UpdateAuthority {
				return nil
			}
			return ErrInvalidCollectionUpdateAuthority
		}
	}
	if cmd.UpdateAuthority != p.CollectionAuthority {
		return ErrInvalidCollectionUpdateAuthority
	}
	return nil
}

func checkDerived(actual, mint common.PublicKey, derive func(common.PublicKey) (common.PublicKey, error)) error {
	expected, err := derive(mint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeeds, err)
	}
	if expected != actual {
		return fmt.Errorf("%w: %s", ErrDerivedKeyInvalid, actual.ToBase58())
	}
	return nil
}
