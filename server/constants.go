package main

const version = "1.0.0"

// exit codes
const (
	successCode = iota
	configPathErr
	configLoadErr
	configGetErr
	loggerErr
	catalogDatabaseErr
	upstreamErr
	serverErr
)
