package logger

var InitLoggerTo = initLogger
