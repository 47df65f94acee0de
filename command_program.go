package main

import (
	"fmt"
	"strconv"

	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/MixinNetwork/pdamint/nft"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/spf13/cobra"
)

type signerFlags struct {
	keypair string
	manager string
	traceId string
}

func (sf *signerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sf.keypair, "keypair", "k", "keypair.json", "signer keypair file path")
	cmd.Flags().StringVarP(&sf.manager, "manager", "m", "", "manager address, defaults to the signer")
	cmd.Flags().StringVar(&sf.traceId, "trace", "", "trace id of the transaction")
}

func (sf *signerFlags) resolve() (types.Account, common.PublicKey, error) {
	signer, err := readKeypair(sf.keypair)
	if err != nil {
		return signer, common.PublicKey{}, err
	}
	if sf.manager == "" {
		return signer, signer.PublicKey, nil
	}
	manager, err := parsePublicKey(sf.manager)
	return signer, manager, err
}

func InitializeCmd() *cobra.Command {
	var sf signerFlags
	cmd := &cobra.Command{
		Use:   "initialize <name> <symbol> <base-uri> <price-sol>",
		Short: "create the configuration of the signer",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := readKeypair(sf.keypair)
			if err != nil {
				return err
			}
			price, err := parseSol(args[3])
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			tx, err := env.program.Initialize(cmd.Context(), nft.InitializeParam{
				TraceId: sf.traceId,
				Manager: signer,
				Name:    args[0],
				Symbol:  args[1],
				BaseURI: args[2],
				Price:   price,
			})
			if err != nil {
				return err
			}
			printTransaction(cmd, tx)
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func SetMetadataCmd() *cobra.Command {
	var sf signerFlags
	cmd := &cobra.Command{
		Use:   "set-metadata <name> <symbol> <base-uri>",
		Short: "change the display metadata of a configuration",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, manager, err := sf.resolve()
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			tx, err := env.program.SetMetadata(cmd.Context(), nft.SetMetadataParam{
				TraceId: sf.traceId,
				Manager: manager,
				Caller:  signer,
				Name:    args[0],
				Symbol:  args[1],
				BaseURI: args[2],
			})
			if err != nil {
				return err
			}
			printTransaction(cmd, tx)
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func SetPriceCmd() *cobra.Command {
	var sf signerFlags
	cmd := &cobra.Command{
		Use:   "set-price <price-sol>",
		Short: "change the member mint price of a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, manager, err := sf.resolve()
			if err != nil {
				return err
			}
			price, err := parseSol(args[0])
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			tx, err := env.program.SetPrice(cmd.Context(), nft.SetPriceParam{
				TraceId: sf.traceId,
				Manager: manager,
				Caller:  signer,
				Price:   price,
			})
			if err != nil {
				return err
			}
			printTransaction(cmd, tx)
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func MintCollectionCmd() *cobra.Command {
	var sf signerFlags
	cmd := &cobra.Command{
		Use:   "mint-collection",
		Short: "issue the collection token to the manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, manager, err := sf.resolve()
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			token, tx, err := env.program.MintCollection(cmd.Context(), nft.MintCollectionParam{
				TraceId: sf.traceId,
				Manager: manager,
				Caller:  signer,
			})
			if err != nil {
				return err
			}
			printTransaction(cmd, tx)
			printToken(cmd, token)
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func MintCmd() *cobra.Command {
	var sf signerFlags
	cmd := &cobra.Command{
		Use:   "mint <token-id>",
		Short: "buy a member token of the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			signer, manager, err := sf.resolve()
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			ca, err := env.program.ReadCollectionAuthority(manager)
			if err != nil {
				return err
			}
			if ca == nil {
				return fmt.Errorf("%w: no configuration for %s", ledger.ErrAccountNotFound, manager.ToBase58())
			}
			res, err := env.program.Mint(cmd.Context(), nft.MintParam{
				TraceId:        sf.traceId,
				Manager:        manager,
				Payer:          signer,
				CollectionMint: ca.CollectionToken,
				TokenId:        id,
			})
			if res != nil {
				printTransaction(cmd, res.Transaction)
				if res.Verification != nil {
					printTransaction(cmd, res.Verification)
				}
				printToken(cmd, &res.Token)
				fmt.Fprintf(cmd.OutOrStdout(), "verified: %t\n", res.Verified)
			}
			return err
		},
	}
	sf.bind(cmd)
	return cmd
}

func SetCollectionCmd() *cobra.Command {
	var sf signerFlags
	cmd := &cobra.Command{
		Use:   "set-collection <mint>",
		Short: "approve the collection authority over the metadata of a mint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey(args[0])
			if err != nil {
				return err
			}
			signer, manager, err := sf.resolve()
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			tx, err := env.program.SetCollection(cmd.Context(), nft.SetCollectionParam{
				TraceId: sf.traceId,
				Manager: manager,
				Payer:   signer,
				Mint:    mint,
			})
			if err != nil {
				return err
			}
			printTransaction(cmd, tx)
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func VerifyCollectionCmd() *cobra.Command {
	var sf signerFlags
	cmd := &cobra.Command{
		Use:   "verify-collection <mint>",
		Short: "verify an issued member token as part of the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey(args[0])
			if err != nil {
				return err
			}
			signer, manager, err := sf.resolve()
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			ca, err := env.program.ReadCollectionAuthority(manager)
			if err != nil {
				return err
			}
			if ca == nil {
				return fmt.Errorf("%w: no configuration for %s", ledger.ErrAccountNotFound, manager.ToBase58())
			}
			tx, err := env.program.SetAndVerifyCollection(cmd.Context(), nft.SetAndVerifyCollectionParam{
				TraceId:        sf.traceId,
				Manager:        manager,
				Payer:          signer,
				Mint:           mint,
				CollectionMint: ca.CollectionToken,
			})
			if err != nil {
				return err
			}
			printTransaction(cmd, tx)
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func UpdateMetadataCmd() *cobra.Command {
	var sf signerFlags
	cmd := &cobra.Command{
		Use:   "update-metadata <mint> <name> <symbol> <uri>",
		Short: "rewrite the metadata of an issued token",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey(args[0])
			if err != nil {
				return err
			}
			signer, manager, err := sf.resolve()
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			tx, err := env.program.UpdateMetadataAccount(cmd.Context(), nft.UpdateMetadataAccountParam{
				TraceId: sf.traceId,
				Manager: manager,
				Caller:  signer,
				Mint:    mint,
				Name:    args[1],
				Symbol:  args[2],
				Uri:     args[3],
			})
			if err != nil {
				return err
			}
			printTransaction(cmd, tx)
			return nil
		},
	}
	sf.bind(cmd)
	return cmd
}

func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <manager>",
		Short: "show the configuration and collection of a manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := parsePublicKey(args[0])
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			cfg, err := env.program.ReadConfiguration(manager)
			if err != nil {
				return err
			}
			if cfg == nil {
				return fmt.Errorf("%w: no configuration for %s", ledger.ErrAccountNotFound, manager.ToBase58())
			}
			ca, err := env.program.ReadCollectionAuthority(manager)
			if err != nil {
				return err
			}
			config, err := env.program.ConfigurationAddress(manager)
			if err != nil {
				return err
			}
			balance, err := env.ledger.Balance(config)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "configuration: %s\n", config.ToBase58())
			fmt.Fprintf(out, "creator: %s\n", cfg.Creator.ToBase58())
			fmt.Fprintf(out, "name: %s\nsymbol: %s\nbase uri: %s\n", cfg.Name, cfg.Symbol, cfg.BaseURI)
			fmt.Fprintf(out, "price: %s SOL\n", formatSol(cfg.Price))
			fmt.Fprintf(out, "balance: %s SOL\n", formatSol(balance))
			if ca != nil && ca.Minted() {
				fmt.Fprintf(out, "collection: %s\n", ca.CollectionToken.ToBase58())
			}
			return nil
		},
	}
}

func TokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <mint>",
		Short: "show an issued token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePublicKey(args[0])
			if err != nil {
				return err
			}
			env, err := openEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			ts, err := env.program.ReadToken(mint)
			if err != nil {
				return err
			}
			if ts == nil {
				return fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, mint.ToBase58())
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mint: %s supply %d decimals %d\n", mint.ToBase58(), ts.Mint.Supply, ts.Mint.Decimals)
			if md := ts.Metadata; md != nil {
				fmt.Fprintf(out, "name: %s\nsymbol: %s\nuri: %s\n", md.Data.Name, md.Data.Symbol, md.Data.Uri)
				fmt.Fprintf(out, "update authority: %s\n", md.UpdateAuthority.ToBase58())
				if md.Collection != nil {
					fmt.Fprintf(out, "collection: %s verified %t\n", md.Collection.Key.ToBase58(), md.Collection.Verified)
				}
				if md.CollectionDetails != nil {
					fmt.Fprintf(out, "collection size: %d\n", md.CollectionDetails.Size)
				}
			}
			if ts.MasterEdition != nil && ts.MasterEdition.MaxSupply != nil {
				fmt.Fprintf(out, "master edition max supply: %d\n", *ts.MasterEdition.MaxSupply)
			}
			return nil
		},
	}
}

func printToken(cmd *cobra.Command, token *nft.Token) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mint: %s\n", token.Mint.ToBase58())
	fmt.Fprintf(out, "holding: %s\n", token.Holding.ToBase58())
	fmt.Fprintf(out, "metadata: %s\n", token.Metadata.ToBase58())
	fmt.Fprintf(out, "master edition: %s\n", token.MasterEdition.ToBase58())
	fmt.Fprintf(out, "uri: %s\n", token.Uri)
}

func ErrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "error <code>",
		Short: "explain a program error code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return err
			}
			e := nft.ErrorByCode(uint32(code))
			if e == nil {
				return fmt.Errorf("unknown program error %d", code)
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Error())
			return nil
		},
	}
}
