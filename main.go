package main

import (
	"context"
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/pdamint/ledger"
	"github.com/MixinNetwork/pdamint/nft"
	"github.com/MixinNetwork/pdamint/pda"
	"github.com/MixinNetwork/pdamint/store"
	"github.com/spf13/cobra"
)

var (
	dataPath   string
	configPath string
)

func main() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pdamint",
		Short:        "two tier NFT collections on an emulated ledger",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "~/.mixin/pdamint/data", "database directory path")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "~/.mixin/pdamint/config.toml", "configuration file path")

	cmd.AddCommand(KeygenCmd())
	cmd.AddCommand(AirdropCmd())
	cmd.AddCommand(BalanceCmd())
	cmd.AddCommand(HistoryCmd())
	cmd.AddCommand(InitializeCmd())
	cmd.AddCommand(SetMetadataCmd())
	cmd.AddCommand(SetPriceCmd())
	cmd.AddCommand(MintCollectionCmd())
	cmd.AddCommand(MintCmd())
	cmd.AddCommand(SetCollectionCmd())
	cmd.AddCommand(VerifyCollectionCmd())
	cmd.AddCommand(UpdateMetadataCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(TokenCmd())
	cmd.AddCommand(ErrorCmd())

	return cmd
}

type environment struct {
	store   *store.BadgerStore
	ledger  *ledger.Ledger
	program *nft.Program
}

func (env *environment) Close() error {
	return env.store.Close()
}

func openEnvironment(ctx context.Context) (*environment, error) {
	cp := expandHome(configPath)
	conf, err := ledger.Setup(cp)
	if errors.Is(err, os.ErrNotExist) {
		conf, err = ledger.DefaultConfiguration(), nil
	}
	if err != nil {
		return nil, err
	}
	logger.SetLevel(conf.Logger.Level)

	programId, err := conf.ProgramId()
	if err != nil {
		return nil, err
	}
	db, err := store.OpenBadger(ctx, expandHome(dataPath))
	if err != nil {
		return nil, err
	}
	l, err := ledger.BuildLedger(ctx, db, conf)
	if err != nil {
		db.Close()
		return nil, err
	}
	deriver := pda.NewDeriver(programId, conf.Cache.Derivations)
	return &environment{
		store:   db,
		ledger:  l,
		program: nft.NewProgram(l, deriver),
	}, nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		usr, _ := user.Current()
		p = filepath.Join(usr.HomeDir, p[2:])
	}
	return p
}
