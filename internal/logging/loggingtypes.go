package logging

// GetLogType creates a key/value slice which can be passed as the first
// argument of the Logger methods to tag log lines with a subsystem and an
// optional context id for log aggregation.
func GetLogType(logType ...string) []any {
	var temp []any
	for i := 0; i < len(logType); i++ {
		if i == 0 {
			temp = append(temp, "subType")
		} else if i == 1 {
			temp = append(temp, "contextId1")
		} else {
			break
		}
		temp = append(temp, logType[i])
	}
	return temp
}

func GetLogTypeInitialization() []any {
	return GetLogType("initialization")
}

func GetLogTypeContent() []any {
	return GetLogType("content")
}

func GetLogTypeAuthoring() []any {
	return GetLogType("authoring")
}

func GetLogTypeAssets() []any {
	return GetLogType("assets")
}
