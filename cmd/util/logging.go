package util

import "github.com/gridlab/gridclient/pkg/logger"

var LoggingMode = logger.LogModeDefault
