package config

import (
	"os"
	"regexp"
	"strings"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: rinkeby -> RINKEBY_RPC_URL, polygon-mumbai -> POLYGON_MUMBAI_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// ExpandValue replaces ${VAR} and $VAR references using lookup.
// Unset variables expand to the empty string.
func ExpandValue(raw string, lookup LookupFunc) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return os.Expand(raw, func(key string) string {
		v, _ := lookup(key)
		return v
	})
}

// MapLookup adapts a map to a LookupFunc
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
