package config

import "go.uber.org/fx"

// Module loads Config from flags and the environment.
var Module = fx.Provide(Load)
