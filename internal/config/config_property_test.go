package config

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// deserialize(serialize(config)) == config
func TestConfigRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("config round-trip preserves data", prop.ForAll(
		func(cfg *Config) bool {
			data, err := cfg.Serialize()
			if err != nil {
				return false
			}
			parsed, err := ParseConfig(data)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(cfg, parsed)
		},
		genConfig(),
	))

	properties.TestingRun(t)
}

func TestCmdOverridePrecedenceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("command-line value wins over environment", prop.ForAll(
		func(envSite, argSite string) bool {
			t.Setenv("PLANNER_OUTPUT_SITE", envSite)
			cfg, err := NewLoader().WithCmdArgs(map[string]string{"planner.output_site": argSite}).Load()
			return err == nil && cfg.Planner.OutputSite == argSite
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

func genConfig() gopter.Gen {
	return gopter.CombineGens(
		genPlannerConfig(),
		genTransferConfig(),
		gen.OneConstOf("debug", "info", "warn", "error"),
		gen.OneConstOf("json", "console"),
		gen.IntRange(0, 1000),
	).Map(func(values []interface{}) *Config {
		cfg := DefaultConfig()
		cfg.Planner = values[0].(PlannerConfig)
		cfg.Transfer = values[1].(TransferConfig)
		cfg.Logging.Level = values[2].(string)
		cfg.Logging.Format = values[3].(string)
		cfg.Logging.MaxSize = values[4].(int)
		return cfg
	})
}

func genPlannerConfig() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("RoundRobin", "Random"),
		gen.OneConstOf("Installed", "Staged"),
		gen.SliceOfN(3, gen.Identifier()),
		gen.Identifier(),
		gen.Bool(),
		gen.Int64(),
	).Map(func(values []interface{}) PlannerConfig {
		return PlannerConfig{
			SiteSelector:           values[0].(string),
			TransformationSelector: values[1].(string),
			Sites:                  values[2].([]string),
			OutputSite:             values[3].(string),
			ClusterByLabel:         values[4].(bool),
			RandomSeed:             values[5].(int64),
		}
	})
}

func genTransferConfig() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOfN(2, gen.Identifier()),
		gen.OneConstOf("", "local", "remote"),
	).Map(func(values []interface{}) TransferConfig {
		return TransferConfig{
			StageInRemoteSites: values[0].([]string),
			LocationPreference: values[1].(string),
		}
	})
}

func TestConfigRoundTripSpecificCases(t *testing.T) {
	testCases := []struct {
		name   string
		config *Config
	}{
		{
			name:   "default config",
			config: DefaultConfig(),
		},
		{
			name: "clustered random",
			config: func() *Config {
				c := DefaultConfig()
				c.Planner.SiteSelector = "Random"
				c.Planner.ClusterByLabel = true
				c.Planner.ProfileAggregators = []string{"pegasus.runtime=MAX"}
				return c
			}(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.config.Serialize()
			assert.NoError(t, err)

			parsed, err := ParseConfig(data)
			assert.NoError(t, err)
			assert.Equal(t, tc.config, parsed)
		})
	}
}
