// Package main is a terminal client for the translation API: it validates
// the text, translates it and prints the scores.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pricofy/translation-api/internal/client"
)

// memoryWarningMB is the memory usage above which a warning is printed.
const memoryWarningMB = 200

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("translate", flag.ContinueOnError)
	flags.SetOutput(stderr)
	apiURL := flags.String("api", envOr("APP_API_URL", client.DefaultBaseURL), "translation API base URL")
	timeout := flags.Duration("timeout", 2*time.Minute, "request timeout")
	showMonitor := flags.Bool("monitor", false, "print server request statistics and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	c := client.New(*apiURL, *timeout)

	if *showMonitor {
		return printMonitor(ctx, c, stdout, stderr)
	}

	if flags.NArg() > 0 {
		return translate(ctx, c, strings.Join(flags.Args(), " "), stdout, stderr)
	}

	status := 0
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if code := translate(ctx, c, line, stdout, stderr); code != 0 {
			status = code
			if errors.Is(ctx.Err(), context.Canceled) {
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	return status
}

func translate(ctx context.Context, c *client.Client, text string, stdout, stderr io.Writer) int {
	check, err := c.Validate(ctx, text)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if !check.Success {
		fmt.Fprintln(stderr, "invalid input:")
		for _, d := range check.Details {
			fmt.Fprintf(stderr, "  - %s\n", d)
		}
		return 1
	}

	res, err := c.Translate(ctx, text)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && len(apiErr.Details) > 0 {
			fmt.Fprintf(stderr, "error: %s\n", strings.Join(apiErr.Details, "; "))
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}

	fmt.Fprintf(stdout, "Translated text: %s\n", res.TranslatedText)
	fmt.Fprintf(stdout, "BLEU score:      %.4f\n", res.BLEUScore)
	if res.Perplexity.Defined() {
		fmt.Fprintf(stdout, "Perplexity:      %.4f\n", float64(res.Perplexity))
	} else {
		fmt.Fprintln(stdout, "Perplexity:      undefined")
	}
	fmt.Fprintf(stdout, "Response time:   %.4f s\n", res.ResponseTime)
	fmt.Fprintf(stdout, "Memory usage:    %.2f MB\n", res.MemoryUsageMB)
	fmt.Fprintf(stdout, "Total requests:  %d\n", res.TotalRequests)
	if res.MemoryUsageMB > memoryWarningMB {
		fmt.Fprintf(stderr, "warning: high memory usage detected (%.2f MB)\n", res.MemoryUsageMB)
	}
	return 0
}

func printMonitor(ctx context.Context, c *client.Client, stdout, stderr io.Writer) int {
	snap, err := c.Monitor(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Total requests:     %d\n", snap.TotalRequests)
	fmt.Fprintf(stdout, "In-flight requests: %d\n", snap.InFlightRequests)
	if snap.MinMemoryUsageMB.Defined() {
		fmt.Fprintf(stdout, "Min memory usage:   %.2f MB\n", float64(snap.MinMemoryUsageMB))
		fmt.Fprintf(stdout, "Max memory usage:   %.2f MB\n", float64(snap.MaxMemoryUsageMB))
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
