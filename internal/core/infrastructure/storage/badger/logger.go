package badger

import (
	"strings"

	log "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
)

// badgerLogger 将BadgerDB内部日志适配到系统Logger
type badgerLogger struct {
	logger log.Logger
}

func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("badger: "+strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("badger: "+strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	// BadgerDB的Info日志较为冗余，降级为Debug
	l.logger.Debugf("badger: "+strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("badger: "+strings.TrimSpace(format), args...)
}
