package stage

import "github.com/riftlabs/ladder-pipeline/orchestrator"

// zeroOctx builds a bare orchestration context for stage tests that don't
// care about its run id or timestamp, just its pipeline name.
func zeroOctx(pipeline string) orchestrator.Context {
	return orchestrator.Context{Pipeline: pipeline}
}
