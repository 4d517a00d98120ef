package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ProbeResult is the outcome of a connection check.
type ProbeResult struct {
	// Models lists advertised model IDs when the server exposes them.
	Models []string
	// ServerOnly is set when the server answered but would not list models.
	ServerOnly bool
}

// Probe checks that the endpoint answers. A server that responds with an
// HTTP error to the model listing still counts as reachable.
func Probe(ctx context.Context, lister ModelLister) (ProbeResult, error) {
	models, err := lister.ListModels(ctx)
	if err == nil {
		return ProbeResult{Models: models}, nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		log.Debug().Int("status", statusErr.Code).Msg("Model list unavailable, server responds")
		return ProbeResult{ServerOnly: true}, nil
	}
	return ProbeResult{}, fmt.Errorf("probe server: %w", err)
}
