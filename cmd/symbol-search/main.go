package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/symbol-search-mcp/internal/imaging"
	"github.com/ironsheep/symbol-search-mcp/internal/match"
	"github.com/ironsheep/symbol-search-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("symbol-search-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "search":
			os.Exit(runSearch(os.Args[2:]))
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("SYMBOL_MCP_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Symbol Search MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("symbol-search-mcp - locate symbol templates in drawing page images")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  symbol-search                                            Run as MCP server over stdin/stdout")
	fmt.Println("  symbol-search search <image> <template> <threshold> [method]")
	fmt.Println("                                                           One-shot search, JSON result on stdout")
	fmt.Println()
	fmt.Println("Arguments:")
	fmt.Println("  image       Path to the full page image to search in")
	fmt.Println("  template    Path to the template image (cropped symbol)")
	fmt.Println("  threshold   Minimum confidence threshold (0.0-1.0)")
	fmt.Println("  method      NORMALIZED_CORRELATION (default) or NORMALIZED_SQUARED_DIFFERENCE")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SYMBOL_MCP_LOG_LEVEL=debug    Enable debug logging (server mode)")
	fmt.Println()
	fmt.Println("Exit status for search: 0 when success=true, 1 otherwise.")
}

// runSearch executes a one-shot search and prints the JSON result. The
// result is printed on every path, including failures, so callers can
// always parse stdout; the exit code mirrors the success flag.
func runSearch(args []string) int {
	if len(args) < 3 {
		return printResult(match.FailureResult(fmt.Errorf(
			"missing required arguments. Usage: symbol-search search <image> <template> <threshold> [method]")))
	}

	imagePath := args[0]
	templatePath := args[1]

	threshold, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return printResult(match.FailureResult(fmt.Errorf("invalid confidence threshold %q: %v", args[2], err)))
	}

	method := match.MethodNormalizedCorrelation
	if len(args) > 3 {
		method = match.ParseMethod(args[3])
	}

	cache := imaging.NewImageCache()
	result, err := match.SearchFiles(context.Background(), cache, imagePath, templatePath, threshold, method)
	if err != nil {
		return printResult(match.FailureResult(err))
	}
	return printResult(result)
}

func printResult(result *match.SearchResult) int {
	out, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	if !result.Success {
		return 1
	}
	return 0
}
