package utils

import (
  "os"
  "strconv"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
)

func GetEnv(key, defaultVal string, log *logger.Logger) string {
  val, ok := os.LookupEnv(key)
  if !ok {
    if log != nil {
      log.Debug("Environment variable not found, using default value", "env_var", key, "defaultValue", defaultVal)
    }
    return defaultVal
  }
  return val
}

func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
  valStr, ok := os.LookupEnv(key)
  if !ok {
    if log != nil {
      log.Debug("Environment variable not found, using default int", "env_var", key, "defaultVal", defaultVal)
    }
    return defaultVal
  }
  i, err := strconv.Atoi(valStr)
  if err != nil {
    if log != nil {
      log.Debug("Environment variable could not be parsed as int, using default", "env_var", key, "providedVal", valStr, "defaultVal", defaultVal, "error", err)
    }
    return defaultVal
  }
  return i
}

func GetEnvAsBool(key string, defaultVal bool, log *logger.Logger) bool {
  valStr, ok := os.LookupEnv(key)
  if !ok {
    if log != nil {
      log.Debug("Environment variable not found, using default bool", "env_var", key, "defaultVal", defaultVal)
    }
    return defaultVal
  }
  b, err := strconv.ParseBool(valStr)
  if err != nil {
    if log != nil {
      log.Debug("Environment variable could not be parsed as bool, using default", "env_var", key, "providedVal", valStr, "defaultVal", defaultVal, "error", err)
    }
    return defaultVal
  }
  return b
}
