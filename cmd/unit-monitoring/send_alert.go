package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peteraglen/unit-monitoring/client"
	"github.com/peteraglen/unit-monitoring/logging"
	"github.com/spf13/cobra"
)

type sendAlertOptions struct {
	url      string
	severity string
	data     string
	file     string
	retries  int
	logLevel string
}

func newSendAlertCmd() *cobra.Command {
	opts := &sendAlertOptions{}

	cmd := &cobra.Command{
		Use:   "send-alert",
		Short: "Post an alert to a running unit-monitoring API",
		Example: `  unit-monitoring send-alert --severity critical --data '{"status":"firing","alertname":"HighCPU"}'
  cat alert.json | unit-monitoring send-alert --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sendAlert(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", "http://localhost:8080", "base URL of the unit-monitoring API")
	flags.StringVarP(&opts.severity, "severity", "s", "default", "alert severity (default, warning, critical)")
	flags.StringVarP(&opts.data, "data", "d", "", "alert payload as a JSON object")
	flags.StringVarP(&opts.file, "file", "f", "", "read the alert payload from a file, or from stdin if '-'")
	flags.IntVar(&opts.retries, "retries", 3, "number of retries on connection errors, 429 and 5xx responses")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level of the client")

	cmd.MarkFlagsMutuallyExclusive("data", "file")
	cmd.MarkFlagsOneRequired("data", "file")

	return cmd
}

func sendAlert(cmd *cobra.Command, opts *sendAlertOptions) error {
	severity, err := client.ParseSeverity(opts.severity)
	if err != nil {
		return err
	}

	body, err := readPayload(cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), opts.logLevel, false)

	c, err := client.Connect(cmd.Context(), opts.url, logger, client.WithRetryCount(opts.retries))
	if err != nil {
		return err
	}

	ack, err := c.SendRawAlert(cmd.Context(), severity, body)
	if err != nil {
		return err
	}

	out, err := json.Marshal(ack)
	if err != nil {
		return fmt.Errorf("failed to marshal acknowledgement: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return err
}

func readPayload(stdin io.Reader, opts *sendAlertOptions) ([]byte, error) {
	switch {
	case opts.data != "":
		return []byte(opts.data), nil
	case opts.file == "-":
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read alert payload from stdin: %w", err)
		}

		return body, nil
	case opts.file != "":
		body, err := os.ReadFile(opts.file) // #nosec G304 -- path is an operator supplied flag
		if err != nil {
			return nil, fmt.Errorf("failed to read alert payload: %w", err)
		}

		return body, nil
	default:
		return nil, errors.New("an alert payload is required")
	}
}
