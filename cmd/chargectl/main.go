package main

import (
	"encoding/json"
	"fmt"
	"os"

	"chargehud/internal/control"
)

// ============================================================================
// chargectl - Command-line IPC Client
// ============================================================================
// Sends one control message to the chargehud daemon and prints the result.
//
// Usage:
//   chargectl mute
//   chargectl visibility
//   chargectl status
//   chargectl press [keyboard|mouse|gamepad]
//   chargectl release [keyboard|mouse|gamepad]
//
// Options:
//   -socket PATH    Unix domain socket path (default: /tmp/chargehud.sock)
//   -json           Print the raw status JSON
// ============================================================================

const defaultSocket = "/tmp/chargehud.sock"

func main() {
	socketPath := defaultSocket
	asJSON := false

	args := os.Args[1:]
	for len(args) > 0 {
		switch args[0] {
		case "-socket", "--socket":
			if len(args) < 2 {
				fmt.Fprintf(os.Stderr, "error: -socket requires an argument\n")
				os.Exit(1)
			}
			socketPath = args[1]
			args = args[2:]
			continue
		case "-json", "--json":
			asJSON = true
			args = args[1:]
			continue
		}
		break
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	msg, err := parseCommand(args)
	if err == errUsage {
		printUsage()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	resp, err := control.Send(socketPath, msg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if resp.Data == nil {
		fmt.Println("ok")
		return
	}
	if asJSON {
		b, _ := json.MarshalIndent(resp.Data, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Println(formatStatus(*resp.Data))
}

var errUsage = fmt.Errorf("help requested")

// parseCommand maps command-line arguments to a control message.
func parseCommand(args []string) (control.Message, error) {
	trigger := "keyboard"
	if len(args) > 1 {
		trigger = args[1]
	}

	switch args[0] {
	case "mute", "toggle-mute":
		return control.ToggleMute{}, nil
	case "visibility", "toggle-visibility", "hide", "show":
		return control.ToggleVisibility{}, nil
	case "status":
		return control.GetStatus{}, nil
	case "press":
		return control.TriggerPress{Trigger: trigger}, nil
	case "release":
		return control.TriggerRelease{Trigger: trigger}, nil
	case "help", "-h", "--help":
		return nil, errUsage
	default:
		return nil, fmt.Errorf("unknown command: %s", args[0])
	}
}

func formatStatus(st control.Status) string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	s := fmt.Sprintf("visible=%s muted=%s", onOff(st.Visible), onOff(st.Muted))
	if st.Holding {
		s += fmt.Sprintf(" holding=%s frame=%d zone=%s hold_id=%s", st.Trigger, st.Frame, st.Zone, st.HoldID)
	} else {
		s += " holding=no"
	}
	return s
}

func printUsage() {
	fmt.Println("chargectl - control the chargehud daemon")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  chargectl [-socket PATH] [-json] COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("COMMANDS:")
	fmt.Println("  mute                 Toggle audio cue mute")
	fmt.Println("  visibility           Toggle HUD visibility")
	fmt.Println("  status               Print daemon status")
	fmt.Println("  press [TRIGGER]      Start a hold (keyboard|mouse|gamepad, default keyboard)")
	fmt.Println("  release [TRIGGER]    End the hold started by TRIGGER")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Printf("  -socket PATH         Unix domain socket path (default %s)\n", defaultSocket)
	fmt.Println("  -json                Print status as JSON")
}
