package main

import (
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// fxLogger sends dependency graph events to zerolog. Only failures and
// lifecycle milestones are logged above debug.
type fxLogger struct{}

func newFxLogger() fxevent.Logger { return fxLogger{} }

func (fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.Provided:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("fx provide failed")
			return
		}
		log.Debug().Str("constructor", e.ConstructorName).Strs("types", e.OutputTypeNames).Msg("fx provided")
	case *fxevent.Invoked:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("function", e.FunctionName).Str("trace", e.Trace).Msg("fx invoke failed")
		}
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx start hook failed")
		}
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx stop hook failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("fx start failed")
			return
		}
		log.Info().Msg("application started")
	case *fxevent.Stopped:
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("fx stop failed")
		}
	}
}
