package env

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv reads nameEnv and converts it to the type of defaultValue. Unset
// variables and values that do not parse yield defaultValue.
func GetEnv[T any](nameEnv string, defaultValue T) T {
	valueStr, ok := os.LookupEnv(nameEnv)
	valueStr = strings.TrimSpace(valueStr)
	if !ok || valueStr == "" {
		return defaultValue
	}

	var value any
	var err error

	switch any(defaultValue).(type) {
	case int:
		value, err = strconv.Atoi(valueStr)
	case bool:
		value, err = strconv.ParseBool(valueStr)
	case float64:
		value, err = strconv.ParseFloat(valueStr, 64)
	case time.Duration:
		value, err = time.ParseDuration(valueStr)
	case []string:
		parts := strings.Split(valueStr, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		value = list
	default:
		value = valueStr
	}

	if err != nil {
		log.Printf("env: ignoring invalid %s=%q: %v", nameEnv, valueStr, err)
		return defaultValue
	}
	return value.(T)
}
