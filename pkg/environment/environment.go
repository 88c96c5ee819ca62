// Package environment loads CLI-level defaults from the process
// environment so embedding shells can tune conversion policy without
// flags on every call.
package environment

import (
	env "github.com/Netflix/go-env"
)

// Environment holds conversion defaults loaded from the OS environment.
type Environment struct {
	MaxSizeMB       float64    `env:"MEDIACONV_MAX_SIZE_MB,default=50"`
	ValidateContent bool       `env:"MEDIACONV_VALIDATE,default=true"`
	Debug           bool       `env:"DEBUG,default=false"`
	Extras          env.EnvSet
}

// NewEnvironment loads the environment, applying defaults for anything
// unset.
func NewEnvironment() (*Environment, error) {
	var environ Environment
	extras, err := env.UnmarshalFromEnviron(&environ)
	if err != nil {
		return nil, err
	}
	environ.Extras = extras
	return &environ, nil
}
