// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - command parsing and top-level dispatch for polychat.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdStatus
	CmdChats
	CmdChat
	CmdProfile
	CmdLang
	CmdConfig
	CmdMockServer
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:        "tui",
	CmdLogin:      "login",
	CmdSignup:     "signup",
	CmdLogout:     "logout",
	CmdStatus:     "status",
	CmdChats:      "chats",
	CmdChat:       "chat",
	CmdProfile:    "profile",
	CmdLang:       "lang",
	CmdConfig:     "config",
	CmdMockServer: "mock-server",
	CmdVersion:    "version",
	CmdHelp:       "help",
}

// String returns the command name as typed on the command line.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// NeedsApp reports whether the command talks to the backend or the state
// store and therefore needs a fully wired application.
func (c Command) NeedsApp() bool {
	switch c {
	case CmdConfig, CmdMockServer, CmdVersion, CmdHelp:
		return false
	}
	return true
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON    bool
	Quiet   bool
	Verbose bool
	NoColor bool
	APIURL  string
	Lang    string
	Model   string

	// Raw holds everything after the command name.
	Raw []string
}

const usageText = `polychat - chat with Gemini, Groq and Mistral from your terminal

USAGE:
  polychat [global flags] [command] [args]

Running polychat with no command opens the full-screen interface.

COMMANDS:
  tui                       Open the full-screen interface (default)
  login                     Sign in and store the session
  signup                    Create an account and sign in
  logout                    End the session (language choice is kept)
  status, whoami            Show who is signed in and where
  chat [message]            Send one message, or start an interactive chat
  chats [list]              List your conversations, newest first
  chats search <query>      Filter conversations by title
  chats show <id>           Print a conversation
  chats delete <id>         Delete a conversation
  profile                   Show your profile and usage stats
  lang [en|ar]              Show or change the interface language
  config [show|get|set|path]
                            Inspect or edit ~/.polychat/config.toml
  mock-server               Run an in-memory backend for local use
  version                   Print version information
  help                      Show this help

GLOBAL FLAGS:
  --json                    Machine-readable output
  -q, --quiet               Only print essential output
  -v, --verbose             Log debug output to the log file
  --no-color                Disable colors (NO_COLOR is also honored)
  --api <url>               Backend URL for this run
  --lang <en|ar>            Language for this run
  --model <gemini|groq|mistral>
                            Model for this run

CHAT FLAGS:
  --id <n>                  Continue an existing conversation

AUTH FLAGS:
  --email <address>         Account email (prompted when omitted)
  --password <secret>       Password (prompted when omitted)

MOCK-SERVER FLAGS:
  --addr <host:port>        Listen address (default 127.0.0.1:8000)
  --latency <duration>      Delay before each AI reply, e.g. 300ms
  --user <email:password>   Seed an account at startup

EXAMPLES:
  polychat mock-server --user demo@example.com:demo &
  polychat --api http://127.0.0.1:8000 login --email demo@example.com
  polychat chat --model groq "What is the tallest mountain?"
  polychat chats search mountain
  polychat lang ar

FILES:
  ~/.polychat/config.toml   Settings (override the directory with POLYCHAT_HOME)
  ~/.polychat/state.db      Session token, cached user and language
  ~/.polychat/polychat.log  Structured log

Version: %s
`

// PrintUsage writes the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "polychat version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// VersionData is the --json payload of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion prints version information in the requested format.
func HandleVersion(w io.Writer, jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse(CmdVersion.String(), VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print(w)
	}
	PrintVersion(w)
	return nil
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name) into a command and its
// arguments.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	parsed.Raw = remaining[1:]

	switch cmd {
	case "tui":
		return CmdTUI, parsed
	case "login", "signin":
		return CmdLogin, parsed
	case "signup", "register":
		return CmdSignup, parsed
	case "logout", "signout":
		return CmdLogout, parsed
	case "status", "whoami", "s":
		return CmdStatus, parsed
	case "chats", "history":
		return CmdChats, parsed
	case "chat", "ask":
		return CmdChat, parsed
	case "profile", "me":
		return CmdProfile, parsed
	case "lang", "language":
		return CmdLang, parsed
	case "config":
		return CmdConfig, parsed
	case "mock-server", "mockserver", "serve":
		return CmdMockServer, parsed
	case "version", "-v", "--version":
		return CmdVersion, parsed
	case "help", "-h", "--help":
		return CmdHelp, parsed
	default:
		// Unknown words are treated as help requests rather than guesses
		parsed.Raw = remaining
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags may appear anywhere on the line.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	takeValue := func(i *int, dst *string) {
		if *i+1 < len(args) {
			*i++
			*dst = args[*i]
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--json":
			parsed.JSON = true
		case "-q", "--quiet":
			parsed.Quiet = true
		case "--verbose":
			parsed.Verbose = true
		case "--no-color":
			parsed.NoColor = true
		case "--api":
			takeValue(&i, &parsed.APIURL)
		case "--lang":
			takeValue(&i, &parsed.Lang)
		case "--model":
			takeValue(&i, &parsed.Model)
		default:
			switch {
			case strings.HasPrefix(arg, "--api="):
				parsed.APIURL = strings.TrimPrefix(arg, "--api=")
			case strings.HasPrefix(arg, "--lang="):
				parsed.Lang = strings.TrimPrefix(arg, "--lang=")
			case strings.HasPrefix(arg, "--model="):
				parsed.Model = strings.TrimPrefix(arg, "--model=")
			case arg == "-v" && len(remaining) > 0:
				// -v after a command means verbose; on its own it is version
				parsed.Verbose = true
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsed
}
