package statistics

import "go.uber.org/fx"

// Module exposes the dashboard aggregates via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
