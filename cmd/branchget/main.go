package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/branch-sync/internal/app"
	"github.com/samvad-hq/branch-sync/internal/config"
	"github.com/samvad-hq/branch-sync/internal/domain"
	"github.com/samvad-hq/branch-sync/internal/logger"
	"github.com/samvad-hq/branch-sync/pkg/webclient"
)

// output is the printed form of one envelope.
type output struct {
	Resource     string                  `json:"resource"`
	IsSuccess    bool                    `json:"is_success"`
	StatusCode   int                     `json:"status_code"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	Payload      *domain.BranchParameter `json:"payload"`
}

func main() {
	ok, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "branchget failed: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(2)
	}
}

func run(args []string) (bool, error) {
	cfg, err := config.Load()
	if err != nil {
		return false, fmt.Errorf("load config: %w", err)
	}

	resource := ""
	switch {
	case len(args) > 0:
		resource = args[0]
	case len(cfg.Resources) > 0:
		resource = cfg.Resources[0]
	default:
		return false, fmt.Errorf("usage: branchget <resource> (or set RESOURCES)")
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return false, fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	client, err := app.NewClient(cfg, log)
	if err != nil {
		return false, fmt.Errorf("init client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var out output
	webclient.Get[domain.BranchParameter](ctx, client, resource, func(resp webclient.Response[domain.BranchParameter]) {
		out = output{
			Resource:     resource,
			IsSuccess:    resp.IsSuccess(),
			StatusCode:   resp.StatusCode(),
			ErrorMessage: resp.ErrorMessage(),
			Payload:      resp.Dto(),
		}
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return false, fmt.Errorf("encode output: %w", err)
	}
	return out.IsSuccess, nil
}
