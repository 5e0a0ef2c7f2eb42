package constants

// Config
const VerboseEnvVar = "MPU_VERBOSE"

// Error messages
const ErrMsgInternal = "An internal error occurred. If the issue persists, please contact us."
const ErrMsgNoFiles = "No files specified. Usage: mpu upload <files...>"

// Formatting
const TimeFormat = "2006-01-02 @ 03:04:05pm"
