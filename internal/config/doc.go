// Package config holds CLI configuration for dqp.
//
// The library packages take explicit Options only; this package exists for
// the dqp binary. Configuration is loaded from a JSON or YAML file (picked
// by extension), overlaid with DQP_* environment variables, and finally
// with command line flags.
package config
