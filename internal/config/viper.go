// Package config binds uispec settings to Viper. Keys may come from the
// config file, environment variables (dots become underscores) or defaults.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agentstation/uispec/pkg/constants"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/reconciler"
)

// Keys.
const (
	KeyWeightsLabel      = "weights.label"
	KeyWeightsBinding    = "weights.binding"
	KeyWeightsChildTypes = "weights.child_types"
	KeyWeightsPosition   = "weights.position"
	KeyCacheTTL          = "cache.ttl"
	KeyProvenance        = "provenance"
	KeySchemaValidation  = "schema_validation"
	KeyServerAddr        = "server.addr"
	KeyServerOrigins     = "server.allowed_origins"
)

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// BindEnv makes every key readable from the environment, e.g. weights.label
// from WEIGHTS_LABEL.
func BindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	w := reconciler.DefaultWeights()
	v.SetDefault(KeyWeightsLabel, w.Label)
	v.SetDefault(KeyWeightsBinding, w.Binding)
	v.SetDefault(KeyWeightsChildTypes, w.ChildTypes)
	v.SetDefault(KeyWeightsPosition, w.Position)
	v.SetDefault(KeyCacheTTL, constants.CacheTTL)
	v.SetDefault(KeyProvenance, false)
	v.SetDefault(KeySchemaValidation, true)
	v.SetDefault(KeyServerAddr, constants.DefaultServerAddr)
	v.SetDefault(KeyServerOrigins, []string{})
}

// Weights reads and validates the reconciler weights.
func Weights(v *viper.Viper) (reconciler.Weights, error) {
	w := reconciler.Weights{
		Label:      v.GetInt(KeyWeightsLabel),
		Binding:    v.GetInt(KeyWeightsBinding),
		ChildTypes: v.GetInt(KeyWeightsChildTypes),
		Position:   v.GetInt(KeyWeightsPosition),
	}
	if err := w.Validate(); err != nil {
		return reconciler.Weights{}, errors.NewConfigError("weights", "invalid reconciler weights", err)
	}
	return w, nil
}

// CacheTTL reads the memo TTL. Zero disables memoization.
func CacheTTL(v *viper.Viper) (time.Duration, error) {
	ttl := v.GetDuration(KeyCacheTTL)
	if ttl < 0 {
		return 0, errors.NewConfigError("cache", "ttl cannot be negative", nil)
	}
	return ttl, nil
}
