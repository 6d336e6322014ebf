// Command scan runs the gate offline over a JSON payload, action plan or
// candidate solution, printing the verdict and the resulting security
// metrics snapshot. Useful for checking agent payloads without a server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/kestrelsec/warden/internal/gate"
	"github.com/kestrelsec/warden/internal/gate/scanner"
	"github.com/kestrelsec/warden/internal/logger"
)

func main() {
	mode := flag.String("mode", "input", "validation mode: input, plan or solution")
	permissions := flag.String("permissions", "", "comma-separated caller permissions for plan mode")
	flag.Parse()

	logger.Init(false, os.Stderr)

	data, err := readPayload(flag.Arg(0))
	if err != nil {
		log.Fatalf("read payload: %v", err)
	}

	cfg := gate.DefaultConfig()
	if *permissions != "" {
		cfg.UserPermissions = strings.Split(*permissions, ",")
	}

	g := gate.New()
	if err := g.Initialize(cfg); err != nil {
		log.Fatalf("initialize gate: %v", err)
	}

	verdict := validate(g, *mode, data)

	snapshot, _ := json.MarshalIndent(g.SecurityMetrics(), "", "  ")
	fmt.Fprintln(os.Stderr, string(snapshot))

	if verdict != nil {
		fmt.Printf("REJECTED: %v\n", verdict)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func readPayload(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func validate(g *gate.Gate, mode string, data []byte) error {
	switch mode {
	case "plan":
		var plan scanner.ActionPlan
		if err := json.Unmarshal(data, &plan); err != nil {
			log.Fatalf("parse action plan: %v", err)
		}
		return g.ValidateActionPlan(&plan)
	case "solution":
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			log.Fatalf("parse solution: %v", err)
		}
		return g.ValidateSolution(payload)
	case "input":
		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			log.Fatalf("parse payload: %v", err)
		}
		return g.ValidateInput(payload)
	default:
		log.Fatalf("unknown mode %q", mode)
		return nil
	}
}
