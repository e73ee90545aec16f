package config

import "time"

// Environment variables. Every config key can also be set as
// CRUNNER_<KEY>, e.g. CRUNNER_RPC_ALGORITHM.
const (
	EnvPrefix          = "CRUNNER"
	EnvSetterSecretKey = "CRUNNER_SETTER_SECRETKEY"
)

// Defaults for write transactions.
const (
	DefaultBlockConfirmations = uint64(20)
	DefaultPollInterval       = 2 * time.Second // receipt / head polling while confirming
)

// Timeout constants used across cmd.
const (
	RPCSelectTimeout = 10 * time.Second // endpoint benchmark / RPC selection
)
