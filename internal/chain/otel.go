package chain

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Garsondee/Striker-Sense/internal/chain"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
