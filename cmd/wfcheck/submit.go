package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wfcheck/internal/core"
	"wfcheck/internal/output"
)

func (a *app) submitCmd() *cobra.Command {
	var (
		serverURL string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "submit <workflow-file> ...",
		Short: "Validate files on a running wfcheck-server",
		Long: `Send each file to the /validate endpoint of a wfcheck-server and print
the findings it returns. Exit status follows the same rules as a local run.

Examples:
  wfcheck submit --server http://ci-tools:8080 .github/workflows/ci.yml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			return a.runSubmit(cmd.Context(), client, serverURL, args)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "wfcheck-server base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	return cmd
}

func (a *app) runSubmit(ctx context.Context, client *http.Client, serverURL string, args []string) error {
	printer, err := output.New(a.cfg.Runner.Format, a.stdout)
	if err != nil {
		return err
	}

	files := core.Discover(args)
	results := make([]core.Result, 0, len(files))
	failed := false
	for _, f := range files {
		res := submitFile(ctx, client, serverURL, f)
		if res.Failed() {
			failed = true
		}
		results = append(results, res)
	}
	if err := printer.Print(results); err != nil {
		return err
	}
	if failed {
		return errFailed
	}
	return nil
}

// submitFile posts one file; transport problems come back as read errors
func submitFile(ctx context.Context, client *http.Client, serverURL, path string) core.Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Result{File: path, ReadErr: err}
	}

	endpoint := strings.TrimRight(serverURL, "/") + "/validate?file=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return core.Result{File: path, ReadErr: err}
	}
	req.Header.Set("Content-Type", "application/x-yaml")

	resp, err := client.Do(req)
	if err != nil {
		return core.Result{File: path, ReadErr: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnprocessableEntity {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return core.Result{File: path, ReadErr: fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))}
	}

	var j output.JSONResult
	if err := json.NewDecoder(resp.Body).Decode(&j); err != nil {
		return core.Result{File: path, ReadErr: fmt.Errorf("decode response: %w", err)}
	}
	j.File = path
	return output.FromJSON(j)
}
