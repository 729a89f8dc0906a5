package metrics

import "go.uber.org/fx"

// Module provides the metrics singleton for fx DI
var Module = fx.Module("metrics",
	fx.Provide(GetDefaultMetrics),
)
