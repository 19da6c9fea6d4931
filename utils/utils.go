package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseArguments converts command-line arguments into a map of flags and values
func ParseArguments() map[string]string {
	args := make(map[string]string)

	// First, identify the command (verify/quality/stats)
	command := ""
	commandIndex := -1
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "verify" || os.Args[i] == "quality" || os.Args[i] == "stats" {
			command = os.Args[i]
			commandIndex = i
			break
		}
	}

	if command != "" {
		args["command"] = command
	}

	// Process all arguments, skipping the command
	for i := 1; i < len(os.Args); i++ {
		if i == commandIndex {
			continue
		}

		arg := os.Args[i]

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			// Check if this is a boolean flag (no value)
			if i+1 >= len(os.Args) || strings.HasPrefix(os.Args[i+1], "--") {
				args[flagName] = "true"
			} else {
				// The next argument is the value
				args[flagName] = os.Args[i+1]
				i++ // Skip the value in the next iteration
			}
		}
	}

	return args
}

// GetDefaultDatabasePath returns the default path for the report database
func GetDefaultDatabasePath() string {
	// Get the executable path
	exePath, err := os.Executable()
	if err != nil {
		// Fallback to current directory if executable path can't be determined
		return "verifications.db"
	}

	// Get the directory containing the executable
	exeDir := filepath.Dir(exePath)

	// Return the default database path in the same directory
	return filepath.Join(exeDir, "verifications.db")
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage() {
	fmt.Printf("Usage:\n")
	fmt.Printf("  %s verify --reference=PATH --candidate=PATH [--mode=MODE] [--store] [--config=PATH] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("  %s quality --image=PATH[,PATH...] [--min-quality=VALUE] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("  %s stats [--database=PATH]\n", os.Args[0])
	fmt.Printf("\nParameters:\n")
	fmt.Printf("  --reference   : Path to the reference (known genuine) signature image\n")
	fmt.Printf("  --candidate   : Path to the candidate signature image to verify\n")
	fmt.Printf("  --mode        : Preprocessing mode: auto, enhance, denoise, sharpen (default: auto)\n")
	fmt.Printf("  --store       : Store the verdict in the report database\n")
	fmt.Printf("  --image       : Comma-separated image paths for the quality pre-check\n")
	fmt.Printf("  --min-quality : Suitability threshold override (0.0-1.0, default: 0.5)\n")
	fmt.Printf("  --config      : Path to a YAML configuration file\n")
	fmt.Printf("  --database    : Path to the report database (default: %s)\n", GetDefaultDatabasePath())
	fmt.Printf("  --debug       : Enable debug mode (logs detailed information)\n")
	fmt.Printf("  --logfile     : Specify custom log file path (default: firmaverify.log)\n")
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  %s verify --reference=/scans/ref.png --candidate=/scans/check.png --mode=denoise\n", os.Args[0])
	fmt.Printf("  %s quality --image=/scans/a.png,/scans/b.png\n", os.Args[0])
}

// ParseThreshold parses and validates a threshold value from string
func ParseThreshold(thresholdStr string) (float64, error) {
	parsedThreshold, err := strconv.ParseFloat(thresholdStr, 64)
	if err != nil || parsedThreshold < 0 || parsedThreshold > 1 {
		return 0.5, fmt.Errorf("invalid threshold value '%s', using default (0.5)", thresholdStr)
	}
	return parsedThreshold, nil
}
