package logutil

import (
	"io"
	"io/ioutil"
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger.
// level: DEBUG/INFO/ERROR (default INFO).
// output: NONE/FILE/STDERR/ALL (default STDERR); FILE and ALL append to path.
func Setup(level string, output string, path string) {
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "Jan _2 15:04:05.000000"
	formatter.FullTimestamp = true
	formatter.DisableColors = true
	log.SetFormatter(formatter)

	switch level {
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		fallthrough
	default:
		log.SetLevel(log.InfoLevel)
	}

	switch output {
	case "NONE":
		log.SetOutput(ioutil.Discard)
	case "FILE":
		log.SetOutput(openLogFile(path))
	case "ALL":
		log.SetOutput(io.MultiWriter(openLogFile(path), os.Stdout))
	case "STDERR":
		fallthrough
	default:
		// Stderr is set by default
	}
}

func openLogFile(path string) io.Writer {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Error(err)
		return os.Stderr
	}
	return file
}
