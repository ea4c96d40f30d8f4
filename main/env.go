package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	threadsVar   = "MODYLIP_THREADS"
	outputDirVar = "MODYLIP_OUTPUT_DIR"
)

// loadEnv loads environment variables from the given .env files, or from
// ./.env if none are given. Missing files are ignored. Variables which are
// already set are not overwritten.
func loadEnv(files ...string) error {
	if len(files) == 0 { files = []string{".env"} }
	for _, file := range files {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) { return err }
	}
	return nil
}

// envThreads returns the value of $MODYLIP_THREADS, or def if it isn't set.
func envThreads(def int) (int, error) {
	str := os.Getenv(threadsVar)
	if str == "" { return def, nil }
	n, err := strconv.Atoi(str)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, not '%s'.",
			threadsVar, str)
	}
	return n, nil
}

// envOutputDir returns the value of $MODYLIP_OUTPUT_DIR, which may be empty.
func envOutputDir() string {
	return os.Getenv(outputDirVar)
}
