// Copyright 2026 Pangea Cyber Corporation
//
// Example: log one event, then run a verified search and walk the pages.
//
// Usage:
//
//	PANGEA_TOKEN=... audit-example -domain pangea.cloud -query reboot
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pangeacyber/go-pangea/pkg/audit"
	"github.com/pangeacyber/go-pangea/pkg/config"
)

func main() {
	domain := flag.String("domain", "", "server origin, e.g. pangea.cloud")
	query := flag.String("query", "reboot", "search query")
	pageSize := flag.Int64("page-size", 5, "results per page")
	verify := flag.Bool("verify", true, "verify returned events")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	if *domain != "" {
		cfg.Domain = *domain
	}

	client, err := audit.New(cfg)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()

	fmt.Println("Log Data...")
	logged, err := client.Log(ctx, map[string]interface{}{
		"action":  "reboot",
		"actor":   "villain",
		"target":  "world",
		"status":  "success",
		"message": "system reboot requested",
	}, *verify)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Logged event hash: %s\n", logged.Hash)

	fmt.Println("Search Data...")
	results, err := client.Search(ctx, audit.SearchOptions{
		Query:    *query,
		PageSize: *pageSize,
		Verify:   *verify,
	})
	if err != nil {
		fatal(err)
	}

	for results != nil {
		fmt.Printf("Results: %d of %d (request %s)\n",
			results.Count(), results.Total(), results.Response.RequestID)
		for _, event := range results.Result.Events {
			fmt.Printf("%s\t%v\t%v\t%v\tmembership=%s consistency=%s\n",
				event.ReceivedAt,
				event.Event["actor"],
				event.Event["action"],
				event.Event["status"],
				event.MembershipVerification,
				event.ConsistencyVerification)
		}

		results, err = client.SearchNext(ctx, results)
		if err != nil {
			fatal(err)
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
