package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/Nagaurav/MockInterview1/internal/testsessions"
)

// Default configuration constants.
const (
	defaultNumSessions = 1000
	defaultNumUsers    = 25
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numSessions = flag.Int("sessions", defaultNumSessions, "Number of sessions to generate and submit")
		numUsers    = flag.Int("users", defaultNumUsers, "Number of distinct users to spread sessions over")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated sessions (default: generated_sessions_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testsessions.ShowHelp()
		return
	}

	// Setup logging
	if err := testsessions.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testsessions.Config{
		BaseURL:     *baseURL,
		NumSessions: *numSessions,
		NumUsers:    *numUsers,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the test
	if err := testsessions.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
