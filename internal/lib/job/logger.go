package job

import (
	"fmt"

	"github.com/rs/zerolog"
)

// asynqLogger adapts zerolog to asynq.Logger.
type asynqLogger struct {
	log zerolog.Logger
}

func newAsynqLogger(logger *zerolog.Logger) *asynqLogger {
	return &asynqLogger{log: logger.With().Str("component", "asynq").Logger()}
}

func (l *asynqLogger) Debug(args ...any) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...any)  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...any)  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...any) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...any) { l.log.Fatal().Msg(fmt.Sprint(args...)) }

// cronLogger adapts zerolog to cron.Logger. cron reports every tick at info,
// so those go to debug.
type cronLogger struct {
	log zerolog.Logger
}

func newCronLogger(logger *zerolog.Logger) *cronLogger {
	return &cronLogger{log: logger.With().Str("component", "cron").Logger()}
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
