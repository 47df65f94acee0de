package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// keypair files hold the 64 byte secret key as a JSON array of integers
func readKeypair(path string) (types.Account, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return types.Account{}, err
	}
	var ints []int
	err = json.Unmarshal(data, &ints)
	if err != nil {
		return types.Account{}, fmt.Errorf("keypair %s: %w", path, err)
	}
	b := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return types.Account{}, fmt.Errorf("keypair %s: byte %d out of range", path, i)
		}
		b[i] = byte(v)
	}
	return types.AccountFromBytes(b)
}

func writeKeypair(path string, acc types.Account) error {
	ints := make([]int, len(acc.PrivateKey))
	for i, v := range acc.PrivateKey {
		ints[i] = int(v)
	}
	payload, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	return os.WriteFile(expandHome(path), payload, 0600)
}

func parsePublicKey(s string) (common.PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil || len(b) != 32 {
		return common.PublicKey{}, fmt.Errorf("invalid public key %s", s)
	}
	return common.PublicKeyFromBytes(b), nil
}
