package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"firmaverify/config"
	"firmaverify/database"
	"firmaverify/logging"
	"firmaverify/quality"
	"firmaverify/scoring"
	"firmaverify/signalhandler"
	"firmaverify/types"
	"firmaverify/utils"
)

func main() {
	// Set up proper signal handling
	signalhandler.SetupHandler()

	// Set the optimal number of CPUs to use
	runtime.GOMAXPROCS(signalhandler.GetOptimalProcs())

	// Parse command line arguments into a map
	args := utils.ParseArguments()

	// Get the command (verify/quality/stats)
	command, hasCommand := args["command"]

	// Load configuration: defaults, then optional YAML file
	cfg := config.Default()
	if configPath, ok := args["config"]; ok && configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		cfg = loaded
	}

	// Setup debug logging if enabled
	debugMode := false
	if _, ok := args["debug"]; ok {
		debugMode = true
		logPath := cfg.LogFile
		if customLogPath, ok := args["logfile"]; ok && customLogPath != "" {
			logPath = customLogPath
		}
		if err := logging.SetupLogger(logPath); err != nil {
			fmt.Printf("Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Printf("Debug mode enabled. Logging to: %s\n", logPath)
			logging.LogInfo("command: %s", command)
		}
	}

	// Check if required arguments are missing
	showUsage := !hasCommand

	if hasCommand && command == "verify" && (args["reference"] == "" || args["candidate"] == "") {
		showUsage = true
	}

	if hasCommand && command == "quality" && args["image"] == "" {
		showUsage = true
	}

	// Show usage if required arguments are missing
	if showUsage {
		utils.PrintUsage()
		os.Exit(1)
	}

	switch command {
	case "verify":
		handleVerifyCommand(args, cfg, debugMode)
	case "quality":
		handleQualityCommand(args, cfg)
	case "stats":
		handleStatsCommand(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		utils.PrintUsage()
		os.Exit(1)
	}
}

func handleVerifyCommand(args map[string]string, cfg config.Config, debugMode bool) {
	referencePath := args["reference"]
	candidatePath := args["candidate"]

	// Verify paths exist before doing any work
	if _, err := os.Stat(referencePath); os.IsNotExist(err) {
		log.Fatalf("Reference image does not exist: %s", referencePath)
	}
	if _, err := os.Stat(candidatePath); os.IsNotExist(err) {
		log.Fatalf("Candidate image does not exist: %s", candidatePath)
	}

	mode := types.PreprocessMode(cfg.Preprocessing)
	if modeArg, ok := args["mode"]; ok && modeArg != "" {
		mode = types.PreprocessMode(modeArg)
	}
	if !types.ValidMode(mode) {
		log.Fatalf("Invalid preprocessing mode: %s (expected auto, enhance, denoise or sharpen)", mode)
	}

	opts := types.VerifyOptions{
		Preprocessing:           mode,
		ApplyNaturalnessPenalty: cfg.ApplyNaturalnessPenalty,
		DebugMode:               debugMode,
	}

	startTime := time.Now()

	verdict, err := scoring.VerifyFiles(referencePath, candidatePath, opts)
	if err != nil {
		logging.LogError("verification of %s vs %s failed: %v", referencePath, candidatePath, err)
		log.Fatalf("Verification failed: %v", err)
	}

	printVerdict(referencePath, candidatePath, mode, verdict)

	// Optionally persist the verdict for later review
	if _, ok := args["store"]; ok {
		dbPath := cfg.Database
		if customDB, ok := args["database"]; ok && customDB != "" {
			dbPath = customDB
		}

		db, err := database.InitDatabase(dbPath)
		if err != nil {
			log.Fatalf("Error initializing report database: %v", err)
		}
		defer db.Close()

		if err := database.StoreVerification(db, referencePath, candidatePath, mode, verdict); err != nil {
			log.Fatalf("Error storing verdict: %v", err)
		}
		fmt.Printf("\nVerdict stored in: %s\n", dbPath)
	}

	duration := time.Since(startTime)
	fmt.Printf("\nTotal verification time: %v\n", duration)
}

func printVerdict(referencePath, candidatePath string, mode types.PreprocessMode, verdict types.Verdict) {
	fmt.Printf("Reference: %s\n", referencePath)
	fmt.Printf("Candidate: %s\n", candidatePath)
	fmt.Printf("Mode:      %s\n", mode)
	fmt.Printf("\nVerdict: %s (confidence %.0f%%)\n", verdict.Category, verdict.Confidence*100)
	fmt.Printf("  Final score:         %.4f\n", verdict.FinalScore)
	fmt.Printf("  SSIM score:          %.4f\n", verdict.SSIMScore)
	fmt.Printf("  Graphological score: %.4f\n", verdict.GraphologicalScore)
	fmt.Printf("  Naturalness:         %.4f (fluidity %.2f, pressure %.2f, coordination %.2f)\n",
		verdict.Naturalness.Overall, verdict.Naturalness.Fluidity,
		verdict.Naturalness.PressureConsistency, verdict.Naturalness.Coordination)

	// Stable parameter ordering for readable output
	names := make([]string, 0, len(verdict.ParameterBreakdown))
	for name := range verdict.ParameterBreakdown {
		names = append(names, string(name))
	}
	sort.Strings(names)

	fmt.Printf("\nParameter breakdown:\n")
	for _, name := range names {
		comparison := verdict.ParameterBreakdown[types.ParameterName(name)]
		fmt.Printf("  %-20s %10.3f vs %10.3f  -> %.2f\n",
			name, comparison.RefValue, comparison.VerValue, comparison.Compatibility)
	}
}

func handleQualityCommand(args map[string]string, cfg config.Config) {
	paths := strings.Split(args["image"], ",")
	for i := range paths {
		paths[i] = strings.TrimSpace(paths[i])
	}

	minQuality := cfg.MinQuality
	if thresholdStr, ok := args["min-quality"]; ok {
		parsed, err := utils.ParseThreshold(thresholdStr)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
		} else {
			minQuality = parsed
		}
	}

	startTime := time.Now()

	reports, err := quality.AssessBatch(paths, signalhandler.GetOptimalProcs(), minQuality)
	blocked := errors.Is(err, types.ErrNoSuitableImages)
	if err != nil && !blocked {
		logging.LogError("quality assessment failed: %v", err)
		log.Fatalf("Quality assessment failed: %v", err)
	}

	for _, report := range reports {
		fmt.Printf("%s\n", report.Path)
		fmt.Printf("  overall: %.2f  suitable: %v\n", report.OverallScore, report.Suitable)
		fmt.Printf("  resolution %.2f | contrast %.2f | sharpness %.2f | completeness %.2f | presence %.2f\n",
			report.Metrics[types.MetricResolution],
			report.Metrics[types.MetricContrast],
			report.Metrics[types.MetricSharpness],
			report.Metrics[types.MetricCompleteness],
			report.Metrics[types.MetricPresence])
	}

	duration := time.Since(startTime)
	fmt.Printf("\nTotal assessment time: %v\n", duration)

	if blocked {
		// Hard gate: none of the supplied images can be verified
		fmt.Println("\nBLOCKED: no supplied image meets the minimum quality for verification.")
		os.Exit(2)
	}
}

func handleStatsCommand(args map[string]string) {
	dbPath := utils.GetDefaultDatabasePath()
	if customDB, ok := args["database"]; ok && customDB != "" {
		dbPath = customDB
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Fatalf("Report database does not exist: %s. Run verify --store first.", dbPath)
	}

	db, err := database.OpenDatabase(dbPath)
	if err != nil {
		log.Fatalf("Error opening report database: %v", err)
	}
	defer db.Close()

	stats, err := database.GetVerificationStats(db)
	if err != nil {
		log.Fatalf("Error reading stats: %v", err)
	}

	fmt.Printf("Stored verifications: %d\n", stats.TotalVerifications)
	if stats.TotalVerifications == 0 {
		return
	}
	fmt.Printf("Average final score:  %.4f\n", stats.AverageFinalScore)
	fmt.Printf("By category:\n")
	for _, category := range []types.Category{types.Authentic, types.ProbablyAuthentic, types.Inconclusive, types.Suspicious} {
		if count, ok := stats.ByCategory[category]; ok {
			fmt.Printf("  %-18s %d\n", category, count)
		}
	}

	records, err := database.ListRecent(db, 5)
	if err != nil {
		log.Fatalf("Error listing recent verdicts: %v", err)
	}
	if len(records) > 0 {
		fmt.Printf("\nMost recent:\n")
		for _, r := range records {
			fmt.Printf("  %s  %s vs %s -> %.4f (%s)\n",
				r.CreatedAt, r.ReferencePath, r.CandidatePath, r.FinalScore, r.Category)
		}
	}
}
