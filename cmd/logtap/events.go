// Logtap - Structured Event Logging and Log Tailing Pipeline
// Copyright 2026 Logtap Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oasys-platform/logtap

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oasys-platform/logtap/internal/config"
	"github.com/oasys-platform/logtap/internal/event"
)

// runEvents inspects or amends the event registry.
func runEvents(cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "logtap events: expected subcommand list or register")
		return 2
	}
	if !cfg.Logs.Configured() {
		fmt.Fprintln(os.Stderr, "logtap: no log directory configured (set LOGTAP_LOGS_DIR)")
		return 1
	}
	registry := event.NewRegistry(cfg.RegistryPath())

	switch args[0] {
	case "list":
		return eventsList(registry, args[1:])
	case "register":
		return eventsRegister(registry, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "logtap events: unknown subcommand %q\n", args[0])
		return 2
	}
}

func eventsList(registry *event.Registry, args []string) int {
	fs := flag.NewFlagSet("events list", flag.ExitOnError)
	typeFilter := fs.String("type", "", "show only this category")
	fs.Parse(args)

	if *typeFilter != "" {
		category, err := event.ParseCategory(*typeFilter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logtap events list: %v\n", err)
			return 2
		}
		printCategory(category, registry.Names(category))
		return 0
	}

	all := registry.All()
	for _, category := range event.Categories() {
		printCategory(category, all[category])
	}
	return 0
}

func printCategory(category event.Category, names []string) {
	fmt.Printf("%s - %s\n", category, category.Description())
	if len(names) == 0 {
		fmt.Println("  (no events registered)")
		return
	}
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
}

func eventsRegister(registry *event.Registry, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "logtap events register: expected <category> <name>")
		return 2
	}
	category, err := event.ParseCategory(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "logtap events register: %v\n", err)
		return 2
	}
	if err := registry.Register(category, args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "logtap events register: %v\n", err)
		return 1
	}
	fmt.Printf("registered %s/%s\n", category, args[1])
	return 0
}
