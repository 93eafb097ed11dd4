// Copyright 2025 The bufcomplete Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the buffer completion server and CLI [DBG] application.

bufcomplete suggests completions for the word under the cursor using only the
words already present in the same document. It can operate as a MessagePack
IPC server for editor plugins, or as a CLI application for trying the engine
against a file.

# Usage

Start the server with default settings:

	bufcomplete

Use a custom config file and enable debug mode:

	bufcomplete -config ./config.toml -d

Run in CLI mode against a file:

	bufcomplete -c -file main.go -limit 10

In CLI mode, type "<row> <col>" (both 0-based, columns in bytes) to complete
the word ending there, "a <n>" to accept the n-th suggestion into the
in-memory copy, "p" to print the copy and "q" to quit.

# Configuration

Runtime configuration is managed through a TOML file with engine thresholds,
server limits and CLI defaults:

	[engine]
	min_gain = 2
	short_word_max = 4
	min_chunk = 2
	limit = 0

	[server]
	max_limit = 64
	max_prefix = 60
	dedupe = true

	[cli]
	default_limit = 24
	show_ranges = true

The config file is created with defaults if it doesn't exist. Broken files are
recovered key by key. Clients can send a "reload" request to pick up changes
without restarting the server.

# IPC Protocol

See package server for the message layout. A session looks like:

	{"id": "1", "a": "open", "doc": "main.go", "text": "..."}
	{"id": "2", "a": "complete", "doc": "main.go", "row": 10, "col": 4}
	{"id": "3", "a": "accept", "doc": "main.go", "pick": {...}}

# Command Line Flags

	-version
	    Show current version
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-file string
	    Document to load in CLI mode
	-config string
	    Path to a config file
	-limit int
	    Number of suggestions to show in CLI mode (default from config)
	-reset-config
	    Rewrite the default config file and exit
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/bufcomplete/internal/cli"
	"github.com/bastiangx/bufcomplete/internal/logger"
	"github.com/bastiangx/bufcomplete/internal/utils"
	"github.com/bastiangx/bufcomplete/pkg/config"
	"github.com/bastiangx/bufcomplete/pkg/server"
	"github.com/bastiangx/bufcomplete/pkg/suggest"
	"github.com/bastiangx/bufcomplete/pkg/text"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "bufcomplete"
	gh      = "https://github.com/bastiangx/bufcomplete"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	file := flag.String("file", "", "Document to load in CLI mode")
	configFile := flag.String("config", "", "Path to a config file")
	limit := flag.Int("limit", 0, "Number of suggestions to show in CLI mode (default from config)")
	resetConfig := flag.Bool("reset-config", false, "Rewrite the default config file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Config rebuilt", "path", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		runCLI(appConfig, *file, *limit)
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(appConfig, configPath)

	showStartupInfo(configPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func runCLI(appConfig *config.Config, file string, limit int) {
	if file == "" {
		log.Fatal("CLI mode needs a document, use -file")
	}
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	path, err := pathResolver.ResolveDocumentPath(file)
	if err != nil {
		log.Fatalf("Failed to find document: %v", err)
	}
	content, err := utils.ReadTextFile(path)
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	if limit <= 0 {
		limit = appConfig.CLI.DefaultLimit
	}
	buf := text.NewBuffer(content)
	log.Debug("Input info:",
		"file", path,
		"lines", buf.LineCount(),
		"limit", limit,
		"showRanges", appConfig.CLI.ShowRanges)

	opts := appConfig.EngineOptions()
	opts.Logger = logger.New("suggest")
	inputHandler := cli.NewInputHandler(suggest.NewEngine(opts), buf, limit, appConfig.CLI.ShowRanges)
	if err := inputHandler.Start(); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ bufcomplete ] Completions from the words already in your buffer")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
// Everything goes to stderr, stdout belongs to the msgpack stream.
func showStartupInfo(configPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("=============")
	println(" bufcomplete ")
	println("=============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Info("status: ready")
	println("=============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
