package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var lamportsPerSol = decimal.New(1, 9)

func parseSol(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	l := d.Mul(lamportsPerSol)
	if l.Sign() < 0 || !l.Equal(l.Truncate(0)) || !l.BigInt().IsUint64() {
		return 0, fmt.Errorf("invalid amount %s", s)
	}
	return l.BigInt().Uint64(), nil
}

func formatSol(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9).String()
}

func printTransaction(cmd *cobra.Command, tx *ledger.Transaction) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s %s %s\n", tx.TraceId, tx.StateName(), tx.Memo, tx.Signature)
	for _, l := range tx.Logs {
		fmt.Fprintf(out, "  %s\n", l)
	}
	if tx.Error != "" {
		fmt.Fprintf(out, "  error: %s\n", tx.Error)
	}
}

func KeygenCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "generate a keypair file",
		RunE: func(cmd *cobra.Command, args []string) error {
			acc := types.NewAccount()
			err := writeKeypair(output, acc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), acc.PublicKey.ToBase58())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "outfile", "o", "keypair.json", "keypair file path")
	return cmd
}

func AirdropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <address> <sol>",
		Short: "credit lamports to an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parsePublicKey(args[0])
			if err != nil {
				return err
			}
			lamports, err := parseSol(args[1])
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			tx, err := env.ledger.Airdrop(cmd.Context(), to, lamports)
			if err != nil {
				return err
			}
			printTransaction(cmd, tx)
			return nil
		},
	}
}

func BalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "show the balance of an address in SOL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parsePublicKey(args[0])
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			lamports, err := env.ledger.Balance(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s SOL\n", formatSol(lamports))
			return nil
		},
	}
}

func HistoryCmd() *cobra.Command {
	var state string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "list journaled transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var s int
			switch strings.ToLower(state) {
			case "committed":
				s = ledger.TransactionStateCommitted
			case "failed":
				s = ledger.TransactionStateFailed
			default:
				return fmt.Errorf("invalid state %s", state)
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			txs, err := env.ledger.ListTransactions(s, limit)
			if err != nil {
				return err
			}
			for _, tx := range txs {
				printTransaction(cmd, tx)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "committed", "committed or failed")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum transactions to list")
	return cmd
}
