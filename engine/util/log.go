package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogVoxel | LogStream | LogEdit | LogPublish | LogIO | LogNetwork | LogSystem

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int

const (
	LogVoxel LogCategory = 1 << iota
	LogStream
	LogEdit
	LogPublish
	LogIO
	LogNetwork
	LogSystem
)

var categoryNames = map[string]LogCategory{
	"voxel":   LogVoxel,
	"stream":  LogStream,
	"edit":    LogEdit,
	"publish": LogPublish,
	"io":      LogIO,
	"network": LogNetwork,
	"system":  LogSystem,
}

var levelNames = map[string]LogLevel{
	"error":   LogLevelError,
	"warning": LogLevelWarning,
	"info":    LogLevelInfo,
	"debug":   LogLevelDebug,
}

var (
	logMutex  sync.Mutex
	logOutput io.Writer = os.Stderr
)

func SetLogOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logOutput = w
}

func ParseLogLevel(name string) (LogLevel, error) {
	level, ok := levelNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// ParseLogCategories turns a list of names into a category mask. "all"
// enables every category.
func ParseLogCategories(names []string) (LogCategory, error) {
	var mask LogCategory
	for _, name := range names {
		name = strings.ToLower(name)
		if name == "all" {
			for _, cat := range categoryNames {
				mask |= cat
			}
			continue
		}
		cat, ok := categoryNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown log category %q", name)
		}
		mask |= cat
	}
	return mask, nil
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintln(logOutput, txt)
}

func LogVoxelInfo(txt string) {
	log(LogVoxel, LogLevelInfo, txt)
}

func LogVoxelDebug(txt string) {
	log(LogVoxel, LogLevelDebug, txt)
}

func LogStreamInfo(txt string) {
	log(LogStream, LogLevelInfo, txt)
}

func LogStreamDebug(txt string) {
	log(LogStream, LogLevelDebug, txt)
}

func LogEditInfo(txt string) {
	log(LogEdit, LogLevelInfo, txt)
}

func LogEditDebug(txt string) {
	log(LogEdit, LogLevelDebug, txt)
}

func LogPublishDebug(txt string) {
	log(LogPublish, LogLevelDebug, txt)
}

func LogPublishWarning(txt string) {
	log(LogPublish, LogLevelWarning, txt)
}

func LogIOInfo(txt string) {
	log(LogIO, LogLevelInfo, txt)
}

func LogIOError(txt string) {
	log(LogIO, LogLevelError, txt)
}

func LogNetworkInfo(txt string) {
	log(LogNetwork, LogLevelInfo, txt)
}

func LogNetworkDebug(txt string) {
	log(LogNetwork, LogLevelDebug, txt)
}

func LogNetworkWarning(txt string) {
	log(LogNetwork, LogLevelWarning, txt)
}

func LogNetworkError(txt string) {
	log(LogNetwork, LogLevelError, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}

func LogSystemError(txt string) {
	log(LogSystem, LogLevelError, txt)
}
