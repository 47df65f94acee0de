package ledger

import (
	"fmt"
	"os"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
	"github.com/pelletier/go-toml"
)

const DefaultProgramId = "As35BqTErxt7neUhzZik8P194q9zdFJmuzcLYu1BvpNh"

type ProgramConfiguration struct {
	Id string `toml:"id"`
}

type Rent struct {
	LamportsPerByteYear uint64 `toml:"lamports-per-byte-year"`
	ExemptionThreshold  uint64 `toml:"exemption-threshold"`
}

type LoggerConfiguration struct {
	Level int `toml:"level"`
}

type CacheConfiguration struct {
	Derivations int `toml:"derivations"`
}

type Configuration struct {
	Program ProgramConfiguration `toml:"program"`
	Rent    Rent                 `toml:"rent"`
	Logger  LoggerConfiguration  `toml:"logger"`
	Cache   CacheConfiguration   `toml:"cache"`
}

func DefaultConfiguration() *Configuration {
	return &Configuration{
		Program: ProgramConfiguration{Id: DefaultProgramId},
		Rent: Rent{
			LamportsPerByteYear: 3480,
			ExemptionThreshold:  2,
		},
		Logger: LoggerConfiguration{Level: 2},
		Cache:  CacheConfiguration{Derivations: 1024},
	}
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(f, &conf)
	if err != nil {
		return nil, err
	}
	def := DefaultConfiguration()
	if conf.Program.Id == "" {
		conf.Program.Id = def.Program.Id
	}
	if conf.Rent.LamportsPerByteYear == 0 {
		conf.Rent.LamportsPerByteYear = def.Rent.LamportsPerByteYear
	}
	if conf.Rent.ExemptionThreshold == 0 {
		conf.Rent.ExemptionThreshold = def.Rent.ExemptionThreshold
	}
	if conf.Logger.Level == 0 {
		conf.Logger.Level = def.Logger.Level
	}
	if conf.Cache.Derivations == 0 {
		conf.Cache.Derivations = def.Cache.Derivations
	}
	_, err = conf.ProgramId()
	return &conf, err
}

func (conf *Configuration) ProgramId() (common.PublicKey, error) {
	b, err := base58.Decode(conf.Program.Id)
	if err != nil || len(b) != 32 {
		return common.PublicKey{}, fmt.Errorf("invalid program id %s", conf.Program.Id)
	}
	return common.PublicKeyFromBytes(b), nil
}

// MinimumBalance is the rent exempt balance of an account holding space bytes.
func (r Rent) MinimumBalance(space uint64) uint64 {
	return (128 + space) * r.LamportsPerByteYear * r.ExemptionThreshold
}
